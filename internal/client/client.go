// Package client provides the two bus-facing sockets every actor uses: a
// publish connection to the broker's producer-facing endpoint, and a
// subscribe connection to its consumer-facing endpoint. Both speak the
// plain newline-delimited "<topic> <json>" line protocol; there is no
// call/response layer.
package client

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"time"
)

// PubSocket is a publish-only connection to the broker's producer-facing
// endpoint.
type PubSocket struct {
	addr        string
	sendTimeout time.Duration

	mu   sync.Mutex
	conn net.Conn
}

// NewPubSocket dials addr immediately; sendTimeout bounds each Send call.
func NewPubSocket(addr string, sendTimeout time.Duration) (*PubSocket, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("client: connect publish socket to %s: %w", addr, err)
	}
	return &PubSocket{addr: addr, sendTimeout: sendTimeout, conn: conn}, nil
}

// Send writes one "<topic> <json>" frame. Returns an error on timeout or a
// transport failure; callers (Publish in public/actor) translate this into
// a bool and never propagate it further.
func (p *PubSocket) Send(frame string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return fmt.Errorf("client: publish socket to %s is closed", p.addr)
	}
	p.conn.SetWriteDeadline(time.Now().Add(p.sendTimeout))
	if _, err := p.conn.Write([]byte(frame + "\n")); err != nil {
		return fmt.Errorf("client: publish to %s: %w", p.addr, err)
	}
	return nil
}

// Close closes the underlying connection.
func (p *PubSocket) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

// SubSocket is a subscribe connection to the broker's consumer-facing
// endpoint. It always receives every topic (the empty-prefix
// subscription); per-topic filtering is a subscriber-side concern applied
// by public/actor's run loop against its known-topics set.
type SubSocket struct {
	addr           string
	receiveTimeout time.Duration

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
}

// NewSubSocket dials addr immediately.
func NewSubSocket(addr string, receiveTimeout time.Duration) (*SubSocket, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("client: connect subscribe socket to %s: %w", addr, err)
	}
	return &SubSocket{addr: addr, receiveTimeout: receiveTimeout, conn: conn, reader: bufio.NewReader(conn)}, nil
}

// Recv blocks for the next "<topic> <json>" frame, honoring the configured
// receive timeout. A timeout returns (ok=false, err=nil) so a caller can
// re-check its running flag and loop.
func (s *SubSocket) Recv() (frame string, ok bool, err error) {
	s.mu.Lock()
	conn := s.conn
	reader := s.reader
	s.mu.Unlock()
	if conn == nil {
		return "", false, fmt.Errorf("client: subscribe socket to %s is closed", s.addr)
	}

	conn.SetReadDeadline(time.Now().Add(s.receiveTimeout))
	line, err := reader.ReadString('\n')
	if err != nil {
		if ne, isNetErr := err.(net.Error); isNetErr && ne.Timeout() {
			return "", false, nil
		}
		return "", false, fmt.Errorf("client: receive from %s: %w", s.addr, err)
	}
	return line[:len(line)-1], true, nil
}

// Close closes the underlying connection, causing any in-flight Recv to
// error out.
func (s *SubSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
