// Package actor is the base framework every oRover process is built on:
// configuration, a single-instance lock, publish/subscribe sockets, a
// log-forwarding handler, an explicit dispatch table, a heartbeat task,
// and graceful termination. Every actor in the fleet (boss, hcsr04,
// powercontrol, ...) embeds an *Actor and supplies its own handlers.
// Dispatch is built by explicit registration, never reflection.
package actor

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/idurz/oRover/internal/client"
	"github.com/idurz/oRover/internal/config"
	"github.com/idurz/oRover/internal/envelope"
	"github.com/idurz/oRover/internal/logtransport"
	"github.com/idurz/oRover/internal/taxonomy"
)

// HandlerFunc processes one dispatched envelope. Its outcome is opaque to
// the framework: a nil return is noted at DEBUG level, a non-nil error is
// logged at ERROR level, and the actor continues either way.
type HandlerFunc func(env *envelope.Envelope) error

// Actor is the live, in-process state of one oRover process.
type Actor struct {
	Name string
	Host string
	cfg  *config.Config

	pub       *client.PubSocket
	sub       *client.SubSocket
	logClient *logtransport.Client

	dispatchMu  sync.RWMutex
	dispatch    map[int]HandlerFunc
	knownTopics map[string]bool

	running atomic.Bool
	lock    *instanceLock

	heartbeatInterval time.Duration
	minLogRank        int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New initializes an actor: resolves the hostname, acquires the
// single-instance lock, dials the publish and subscribe sockets, and
// connects the log-forwarding client. The returned Actor is not yet
// running; call Run after registering handlers.
func New(name string, cfg *config.Config) (*Actor, error) {
	lock, err := acquireLock(name)
	if err != nil {
		return nil, err
	}

	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	sendTimeout := time.Duration(cfg.SendTimeoutMs()) * time.Millisecond
	recvTimeout := time.Duration(cfg.ReceiveTimeoutMs()) * time.Millisecond

	pub, err := client.NewPubSocket(config.TCPAddr(cfg.ClientPubSocket()), sendTimeout)
	if err != nil {
		lock.release()
		return nil, err
	}
	sub, err := client.NewSubSocket(config.TCPAddr(cfg.ClientSubSocket()), recvTimeout)
	if err != nil {
		pub.Close()
		lock.release()
		return nil, err
	}

	var logClient *logtransport.Client
	if addr := cfg.LogServerAddr(); addr != "" {
		logClient, err = logtransport.Dial(addr)
		if err != nil {
			// Logging must never prevent an actor from starting; fall
			// back to stdlib log only.
			log.Printf("actor %s: warning: could not connect to log server at %s: %v", name, addr, err)
			logClient = nil
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	a := &Actor{
		Name:              name,
		Host:              host,
		cfg:               cfg,
		pub:               pub,
		sub:               sub,
		logClient:         logClient,
		dispatch:          make(map[int]HandlerFunc),
		knownTopics:       make(map[string]bool),
		heartbeatInterval: time.Duration(cfg.HeartbeatIntervalSeconds()) * time.Second,
		minLogRank:        rankOf(cfg.LogLevel()),
		lock:              lock,
		ctx:               ctx,
		cancel:            cancel,
	}
	a.running.Store(true)

	a.LogInfo("%s started with PID %d", name, os.Getpid())
	return a, nil
}

// RegisterHandler inserts reason -> fn into the dispatch table and marks
// NameOf(reason) as a known topic. Intended to be called before Run; the
// table is read-only once the receive loop starts.
func (a *Actor) RegisterHandler(reason int, fn HandlerFunc) error {
	if !taxonomy.IsReason(reason) {
		return fmt.Errorf("actor: %d is not a valid cmd/state/event reason", reason)
	}
	a.dispatchMu.Lock()
	defer a.dispatchMu.Unlock()
	a.dispatch[reason] = fn
	a.knownTopics[taxonomy.NameOf(reason)] = true
	return nil
}

// DispatchFromFuncMap registers every entry of handlers, keyed by the
// human "<setName>_<memberName>" naming convention
// (e.g. "event_object_detected", "cmd_set_motor_speed"). A key that
// doesn't decompose into "<set>_<member>" or doesn't resolve to a
// cmd/state/event identifier is skipped with a warning.
func (a *Actor) DispatchFromFuncMap(handlers map[string]HandlerFunc) {
	for key, fn := range handlers {
		parts := strings.SplitN(key, "_", 2)
		if len(parts) != 2 {
			a.LogWarning("handler key %q does not decompose into <set>_<member>, skipping", key)
			continue
		}
		reason, ok := taxonomy.ValueOf(parts[0] + "." + parts[1])
		if !ok || !taxonomy.IsReason(reason) {
			a.LogWarning("handler key %q does not resolve to a cmd/state/event identifier, skipping", key)
			continue
		}
		if err := a.RegisterHandler(reason, fn); err != nil {
			a.LogWarning("%v", err)
		}
	}
}

// Publish constructs and sends one envelope. Never panics: validation or
// transport failures are logged and return false.
func (a *Actor) Publish(src, reason int, body interface{}, priority int) bool {
	env, err := envelope.New(a.Name, a.Host, src, reason, body, priority)
	if err != nil {
		a.LogError("publish rejected: %v", err)
		return false
	}
	frame, err := envelope.Encode(env)
	if err != nil {
		a.LogError("publish encode failed: %v", err)
		return false
	}
	if err := a.pub.Send(frame); err != nil {
		a.LogError("publish send failed: %v", err)
		return false
	}
	return true
}

// Run starts the heartbeat task (if configured) and the dispatch-driven
// receive loop, then blocks until either an OS termination signal arrives
// or the actor's context is cancelled, and terminates.
func (a *Actor) Run() error {
	if a.heartbeatInterval > 0 {
		a.wg.Add(1)
		go a.heartbeatLoop()
	}

	a.wg.Add(1)
	go a.receiveLoop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		a.LogInfo("received signal %s, terminating", sig)
	case <-a.ctx.Done():
	}
	return a.Terminate()
}

func (a *Actor) heartbeatLoop() {
	defer a.wg.Done()
	ticker := time.NewTicker(a.heartbeatInterval)
	defer ticker.Stop()
	for a.running.Load() {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			a.Publish(taxonomy.OriginHeartbeat, taxonomy.EventHeartbeat, envelope.HeartbeatBody{Script: a.Name}, 0)
		}
	}
}

func (a *Actor) receiveLoop() {
	defer a.wg.Done()
	for a.running.Load() {
		select {
		case <-a.ctx.Done():
			return
		default:
		}

		frame, ok, err := a.sub.Recv()
		if err != nil {
			if a.running.Load() {
				a.LogError("receive error: %v", err)
			}
			return
		}
		if !ok {
			continue // timeout, re-check running
		}
		a.handleFrame(frame)
	}
}

func (a *Actor) handleFrame(frame string) {
	topic, env, err := envelope.Decode(frame)
	if err != nil {
		a.LogError("discarding malformed frame: %v", err)
		return
	}

	a.dispatchMu.RLock()
	known := a.knownTopics[topic]
	a.dispatchMu.RUnlock()
	if !known {
		return
	}

	if err := env.Validate(); err != nil {
		a.LogWarning("discarding message: %v", err)
		return
	}

	a.dispatchMu.RLock()
	handler, ok := a.dispatch[env.Reason]
	a.dispatchMu.RUnlock()
	if !ok {
		a.LogWarning("message %s discarded: no handler for reason %s", env.ID, taxonomy.NameOf(env.Reason))
		return
	}

	if err := handler(env); err != nil {
		a.LogError("handler for %s failed on message %s: %v", topic, env.ID, err)
		return
	}
	a.LogDebug("message %s handled (topic %s)", env.ID, topic)
}

// Terminate sets running=false, closes both sockets and the lock, and
// cancels the context so in-flight receives/heartbeats unwind. Idempotent.
func (a *Actor) Terminate() error {
	if !a.running.CompareAndSwap(true, false) {
		return nil
	}
	a.cancel()
	a.sub.Close()
	a.pub.Close()
	a.wg.Wait()
	if a.logClient != nil {
		a.logClient.Close()
	}
	return a.lock.release()
}

// Context returns the actor's cancellation context, for collaborators that
// need cooperative shutdown (e.g. a bridging actor's device poll loop).
func (a *Actor) Context() context.Context {
	return a.ctx
}
