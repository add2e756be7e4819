package stealing

import "sync"

// deque is a double-ended queue of futures. The owning worker pushes and
// pops at the back; thieves steal from the front. A mutex is sufficient
// here: steals are rare relative to local pops, and the critical sections
// are a few pointer moves.
type deque struct {
	mu    sync.Mutex
	items []*Future
}

// push adds a future at the back (owner end).
func (d *deque) push(f *Future) {
	d.mu.Lock()
	d.items = append(d.items, f)
	d.mu.Unlock()
}

// pop removes and returns the future at the back (owner end).
func (d *deque) pop() (*Future, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.items)
	if n == 0 {
		return nil, false
	}
	f := d.items[n-1]
	d.items[n-1] = nil
	d.items = d.items[:n-1]
	return f, true
}

// steal removes and returns the future at the front (thief end).
func (d *deque) steal() (*Future, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.items) == 0 {
		return nil, false
	}
	f := d.items[0]
	d.items[0] = nil
	d.items = d.items[1:]
	return f, true
}

// size returns the current queue length.
func (d *deque) size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}
