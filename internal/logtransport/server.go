package logtransport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"
)

// Server is the log collection server: a TCP listener accepting framed
// records on every connection concurrently, writing each to a rotated
// local file. Its only I/O is TCP accept plus file write; it never
// connects to the bus.
type Server struct {
	addr       string
	logFile    string
	logFormat  string
	logdateFmt string

	mu  sync.Mutex
	out *os.File
}

// NewServer rotates any pre-existing file at logFile (rename with a
// timestamp suffix, then gzip-compress the rotated copy) and opens a
// fresh file. logFormat is a Sprintf pattern receiving timestamp, logger
// name, level and message in that order; logdateFmt is a time layout for
// the timestamp.
func NewServer(addr, logFile, logFormat, logdateFmt string) (*Server, error) {
	if err := rotate(logFile); err != nil {
		return nil, err
	}
	out, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logtransport: open log file %s: %w", logFile, err)
	}
	return &Server{addr: addr, logFile: logFile, logFormat: logFormat, logdateFmt: logdateFmt, out: out}, nil
}

// rotate renames an existing logFile to "<name>_<timestamp>.log" and
// gzip-compresses the rotated copy, reporting its compressed size.
func rotate(logFile string) error {
	if _, err := os.Stat(logFile); err != nil {
		return nil // nothing to rotate
	}
	ext := filepath.Ext(logFile)
	base := strings.TrimSuffix(filepath.Base(logFile), ext)
	rotated := fmt.Sprintf("%s_%s%s", base, time.Now().Format("20060102150405"), ext)
	rotatedPath := filepath.Join(filepath.Dir(logFile), rotated)

	if err := os.Rename(logFile, rotatedPath); err != nil {
		return fmt.Errorf("logtransport: rotate %s: %w", logFile, err)
	}

	compressedPath := rotatedPath + ".gz"
	if err := gzipFile(rotatedPath, compressedPath); err != nil {
		log.Printf("logtransport: warning: failed to compress rotated log %s: %v", rotatedPath, err)
		return nil
	}
	os.Remove(rotatedPath)

	if info, err := os.Stat(compressedPath); err == nil {
		log.Printf("logtransport: rotated %s -> %s (%s)", logFile, compressedPath, humanize.Bytes(uint64(info.Size())))
	}
	return nil
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		return err
	}
	return gw.Close()
}

// Run accepts connections until ctx is cancelled, handling each
// concurrently.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("logtransport: bind %s: %w", s.addr, err)
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	log.Printf("logserver: listening on %s, writing to %s", s.addr, s.logFile)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("logtransport: accept: %w", err)
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		rec, err := ReadFrame(r)
		if err != nil {
			if err != io.EOF {
				log.Printf("logserver: connection from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}
		s.write(rec)
	}
}

func (s *Server) write(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := fmt.Sprintf(s.logFormat+"\n", rec.Time.Format(s.logdateFmt), rec.Logger, rec.Level, rec.Message)
	if _, err := s.out.WriteString(line); err != nil {
		log.Printf("logserver: write failed: %v", err)
	}
}

// Close closes the output file.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Close()
}
