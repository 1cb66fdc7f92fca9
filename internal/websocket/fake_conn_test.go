package websocket

import (
	"errors"
	"sync"
	"time"
)

type frame struct {
	kind int
	data []byte
}

// fakeConn records written frames. Reads fail once the queued frames run
// out, which ends a read pump.
type fakeConn struct {
	mu        sync.Mutex
	written   []frame
	queued    []frame
	closed    bool
	readLimit int64
	addr      string
}

func newFakeConn() *fakeConn {
	return &fakeConn{addr: "127.0.0.1:8080"}
}

var errFakeClosed = errors.New("fake connection closed")

func (c *fakeConn) WriteMessage(kind int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errFakeClosed
	}
	c.written = append(c.written, frame{kind: kind, data: data})
	return nil
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || len(c.queued) == 0 {
		return 0, nil, errFakeClosed
	}
	f := c.queued[0]
	c.queued = c.queued[1:]
	return f.kind, f.data, nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) SetReadDeadline(time.Time) error  { return nil }
func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }
func (c *fakeConn) SetPongHandler(func(string) error) {}
func (c *fakeConn) RemoteAddr() string               { return c.addr }

func (c *fakeConn) SetReadLimit(limit int64) {
	c.mu.Lock()
	c.readLimit = limit
	c.mu.Unlock()
}

func (c *fakeConn) frames() []frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]frame(nil), c.written...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) limit() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readLimit
}
