package logtransport

import (
	"fmt"
	"net"
	"sync"
	"time"
)

// Client forwards log records to the log server over a single long-lived
// TCP connection: connect once, write framed records, reconnect on error.
type Client struct {
	addr string

	mu   sync.Mutex
	conn net.Conn
}

// Dial connects to the log server at addr (host:port).
func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("logtransport: connect to log server %s: %w", addr, err)
	}
	return &Client{addr: addr, conn: conn}, nil
}

// Send writes one record, reconnecting once on a transport error before
// giving up — logging must never bring an actor down.
func (c *Client) Send(r Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		conn, err := net.DialTimeout("tcp", c.addr, 5*time.Second)
		if err != nil {
			return fmt.Errorf("logtransport: reconnect to %s: %w", c.addr, err)
		}
		c.conn = conn
	}

	if err := WriteFrame(c.conn, r); err != nil {
		c.conn.Close()
		c.conn = nil
		conn, dialErr := net.DialTimeout("tcp", c.addr, 5*time.Second)
		if dialErr != nil {
			return fmt.Errorf("logtransport: send failed and reconnect failed: %w", dialErr)
		}
		c.conn = conn
		return WriteFrame(c.conn, r)
	}
	return nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
