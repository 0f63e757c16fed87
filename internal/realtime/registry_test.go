package realtime

import (
	"errors"
	"sync"
	"testing"
)

type fakeConn struct {
	mu       sync.Mutex
	failSend bool
	messages []any
}

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSend {
		return errors.New("write: broken pipe")
	}
	c.messages = append(c.messages, v)
	return nil
}

func (c *fakeConn) sent() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.messages))
	copy(out, c.messages)
	return out
}

func TestRegistryConcurrentRegisterUnregister(t *testing.T) {
	t.Parallel()

	const n = 50
	const m = 20

	registry := NewRegistry(nil)
	conns := make([]*fakeConn, n)
	for i := range conns {
		conns[i] = &fakeConn{}
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(conn *fakeConn) {
			defer wg.Done()
			registry.Register(conn)
		}(conns[i])
	}
	wg.Wait()

	if got := registry.Count(); got != n {
		t.Fatalf("Count() = %d, want %d", got, n)
	}

	// Unregister m of them concurrently, each twice: duplicates must not
	// double-decrement.
	for i := 0; i < m; i++ {
		wg.Add(2)
		go func(conn *fakeConn) {
			defer wg.Done()
			registry.Unregister(conn)
		}(conns[i])
		go func(conn *fakeConn) {
			defer wg.Done()
			registry.Unregister(conn)
		}(conns[i])
	}
	wg.Wait()

	if got := registry.Count(); got != n-m {
		t.Fatalf("Count() = %d, want %d", got, n-m)
	}
}

func TestRegistryBroadcastIsolatesFailures(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil)
	healthy1 := &fakeConn{}
	broken := &fakeConn{failSend: true}
	healthy2 := &fakeConn{}

	registry.Register(healthy1)
	registry.Register(broken)
	registry.Register(healthy2)

	registry.Broadcast(Envelope{Kind: KindBroadcast, Payload: "first"})

	if got := len(healthy1.sent()); got != 1 {
		t.Fatalf("healthy1 received %d messages, want 1", got)
	}
	if got := len(healthy2.sent()); got != 1 {
		t.Fatalf("healthy2 received %d messages, want 1", got)
	}
	if got := registry.Count(); got != 2 {
		t.Fatalf("Count() after broadcast = %d, want 2 (broken evicted)", got)
	}

	registry.Broadcast(Envelope{Kind: KindBroadcast, Payload: "second"})

	if got := len(healthy1.sent()); got != 2 {
		t.Fatalf("healthy1 received %d messages, want 2", got)
	}
	if got := len(healthy2.sent()); got != 2 {
		t.Fatalf("healthy2 received %d messages, want 2", got)
	}
}

func TestRegistrySendToWrapsDeliveryError(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil)
	broken := &fakeConn{failSend: true}

	err := registry.SendTo(broken, Envelope{Kind: KindEcho, Payload: "x"})
	if !errors.Is(err, ErrDelivery) {
		t.Fatalf("SendTo() error = %v, want ErrDelivery", err)
	}
}

func TestRegistryUnregisterUnknownConnIsNoop(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil)
	registry.Register(&fakeConn{})
	registry.Unregister(&fakeConn{})

	if got := registry.Count(); got != 1 {
		t.Fatalf("Count() = %d, want 1", got)
	}
}
