package ws

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeConn records writes and flags any two that overlap in time.
type fakeConn struct {
	inWrite int32
	writes  int32
	overlap int32
	closed  int32
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if !atomic.CompareAndSwapInt32(&c.inWrite, 0, 1) {
		atomic.StoreInt32(&c.overlap, 1)
		return nil
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&c.writes, 1)
	atomic.StoreInt32(&c.inWrite, 0)
	return nil
}

func (c *fakeConn) Close() error {
	atomic.StoreInt32(&c.closed, 1)
	return nil
}

func TestPushSerializesWritesToOneConnection(t *testing.T) {
	hub := &Hub{clients: make(map[uint]*client)}
	conn := &fakeConn{}
	hub.register(7, conn)

	const pushes = 20
	var wg sync.WaitGroup
	for i := 0; i < pushes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Push(7, "receiveMessage", map[string]string{"content": "hi"})
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 0, atomic.LoadInt32(&conn.overlap),
		"writes to a single connection must never run concurrently")
	assert.EqualValues(t, pushes, atomic.LoadInt32(&conn.writes))
}

func TestSessionAcksShareTheWriteLockWithPush(t *testing.T) {
	hub := &Hub{clients: make(map[uint]*client)}
	conn := &fakeConn{}
	cl := hub.register(7, conn)

	// One goroutine acks on the session's own client handle while another
	// pushes through the hub, the way two live sessions interleave.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cl.write(Event{Event: "joinedConversation"})
		}()
		go func() {
			defer wg.Done()
			hub.Push(7, "messageSent", map[string]string{"content": "hi"})
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 0, atomic.LoadInt32(&conn.overlap))
	assert.EqualValues(t, 20, atomic.LoadInt32(&conn.writes))
}

func TestPushToOfflineUserIsNoop(t *testing.T) {
	hub := &Hub{clients: make(map[uint]*client)}
	hub.Push(42, "receiveMessage", map[string]string{"content": "hi"})
	assert.False(t, hub.Online(42))
}

func TestRegisterReplacesStaleConnection(t *testing.T) {
	hub := &Hub{clients: make(map[uint]*client)}
	stale := &fakeConn{}
	fresh := &fakeConn{}

	hub.register(7, stale)
	hub.register(7, fresh)

	assert.EqualValues(t, 1, atomic.LoadInt32(&stale.closed), "stale connection is closed on replacement")
	assert.True(t, hub.Online(7))

	// Unregistering the stale handle must not evict the fresh one.
	hub.unregister(7, stale)
	assert.True(t, hub.Online(7))
	hub.unregister(7, fresh)
	assert.False(t, hub.Online(7))
}
