package logtransport

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := Record{Logger: "boss", Level: "INFO", Time: time.Now().UTC().Truncate(time.Second), Message: "hello"}
	if err := WriteFrame(&buf, want); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if got.Logger != want.Logger || got.Level != want.Level || got.Message != want.Message {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestReadFrameEOFBetweenFrames(t *testing.T) {
	if _, err := ReadFrame(bytes.NewReader(nil)); err != io.EOF {
		t.Fatalf("ReadFrame on empty stream = %v, want io.EOF", err)
	}
}

func TestTwoFramesInOneSegment(t *testing.T) {
	var buf bytes.Buffer
	a := Record{Logger: "a", Level: "INFO", Time: time.Now(), Message: "first"}
	b := Record{Logger: "b", Level: "WARNING", Time: time.Now(), Message: "second"}
	if err := WriteFrame(&buf, a); err != nil {
		t.Fatal(err)
	}
	if err := WriteFrame(&buf, b); err != nil {
		t.Fatal(err)
	}
	got1, err := ReadFrame(&buf)
	if err != nil || got1.Message != "first" {
		t.Fatalf("first frame: %+v, %v", got1, err)
	}
	got2, err := ReadFrame(&buf)
	if err != nil || got2.Message != "second" {
		t.Fatalf("second frame: %+v, %v", got2, err)
	}
}

func TestServerWritesRecordsFromClient(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "orover.log")

	srv, err := NewServer("127.0.0.1:0", logFile, "%s %-15s %-8s %s", "2006-01-02 15:04:05")
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	srv.addr = addr

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	client, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if err := client.Send(Record{Logger: "boss", Level: "INFO", Time: time.Now(), Message: "started"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	client.Close()
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done
	srv.Close()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !bytes.Contains(data, []byte("started")) {
		t.Errorf("log file does not contain expected message: %s", data)
	}
}

func TestRotateRenamesExistingFile(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "orover.log")
	if err := os.WriteFile(logFile, []byte("previous run\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	srv, err := NewServer("127.0.0.1:0", logFile, "%s %-15s %-8s %s", "2006-01-02 15:04:05")
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer srv.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var foundRotated, foundFresh bool
	for _, e := range entries {
		if e.Name() == "orover.log" {
			foundFresh = true
		}
		if filepath.Ext(e.Name()) == ".gz" {
			foundRotated = true
		}
	}
	if !foundFresh {
		t.Error("expected a fresh orover.log after rotation")
	}
	if !foundRotated {
		t.Error("expected a compressed rotated file")
	}
}
