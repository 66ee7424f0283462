package broker

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"
)

func startTestBroker(t *testing.T) (xsubAddr, xpubAddr string, stop func()) {
	t.Helper()

	xsubLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	xpubAddrLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	xsubAddr = xsubLn.Addr().String()
	xpubAddr = xpubAddrLn.Addr().String()
	xsubLn.Close()
	xpubAddrLn.Close()

	svc := New(xsubAddr, xpubAddr, false)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Run(ctx)
	}()
	// Give the listeners a moment to bind.
	time.Sleep(100 * time.Millisecond)

	return xsubAddr, xpubAddr, func() {
		cancel()
		<-errCh
	}
}

func TestFanOutFromProducerToConsumer(t *testing.T) {
	xsubAddr, xpubAddr, stop := startTestBroker(t)
	defer stop()

	consumer, err := net.Dial("tcp", xpubAddr)
	if err != nil {
		t.Fatalf("dial consumer endpoint: %v", err)
	}
	defer consumer.Close()
	time.Sleep(50 * time.Millisecond)

	producer, err := net.Dial("tcp", xsubAddr)
	if err != nil {
		t.Fatalf("dial producer endpoint: %v", err)
	}
	defer producer.Close()

	if _, err := producer.Write([]byte("event.object_detected {\"id\":\"x\"}\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	consumer.SetReadDeadline(time.Now().Add(2 * time.Second))
	reader := bufio.NewReader(consumer)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read from consumer: %v", err)
	}
	want := "event.object_detected {\"id\":\"x\"}\n"
	if line != want {
		t.Errorf("consumer received %q, want %q", line, want)
	}
}

func TestMultipleConsumersAllReceive(t *testing.T) {
	xsubAddr, xpubAddr, stop := startTestBroker(t)
	defer stop()

	var consumers []net.Conn
	for i := 0; i < 3; i++ {
		c, err := net.Dial("tcp", xpubAddr)
		if err != nil {
			t.Fatalf("dial consumer %d: %v", i, err)
		}
		defer c.Close()
		consumers = append(consumers, c)
	}
	time.Sleep(50 * time.Millisecond)

	producer, err := net.Dial("tcp", xsubAddr)
	if err != nil {
		t.Fatalf("dial producer: %v", err)
	}
	defer producer.Close()
	if _, err := producer.Write([]byte("event.heartbeat {}\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	for i, c := range consumers {
		c.SetReadDeadline(time.Now().Add(2 * time.Second))
		reader := bufio.NewReader(c)
		if _, err := reader.ReadString('\n'); err != nil {
			t.Errorf("consumer %d did not receive frame: %v", i, err)
		}
	}
}
