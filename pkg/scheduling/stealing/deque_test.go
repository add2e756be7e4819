package stealing

import (
	"testing"

	"github.com/vnykmshr/fractile/internal/testutil"
)

func TestDequeOwnerIsLIFO(t *testing.T) {
	d := &deque{}
	a, b, c := newFuture(nil), newFuture(nil), newFuture(nil)
	d.push(a)
	d.push(b)
	d.push(c)

	got, ok := d.pop()
	testutil.AssertEqual(t, true, ok)
	if got != c {
		t.Error("expected most recently pushed future first")
	}
	got, _ = d.pop()
	if got != b {
		t.Error("expected LIFO order for owner pops")
	}
	got, _ = d.pop()
	if got != a {
		t.Error("expected LIFO order for owner pops")
	}
	_, ok = d.pop()
	testutil.AssertEqual(t, false, ok)
}

func TestDequeThiefIsFIFO(t *testing.T) {
	d := &deque{}
	a, b := newFuture(nil), newFuture(nil)
	d.push(a)
	d.push(b)

	got, ok := d.steal()
	testutil.AssertEqual(t, true, ok)
	if got != a {
		t.Error("expected oldest future stolen first")
	}
	got, _ = d.steal()
	if got != b {
		t.Error("expected FIFO order for steals")
	}
	_, ok = d.steal()
	testutil.AssertEqual(t, false, ok)
}

func TestDequeOppositeEnds(t *testing.T) {
	d := &deque{}
	a, b, c := newFuture(nil), newFuture(nil), newFuture(nil)
	d.push(a)
	d.push(b)
	d.push(c)

	stolen, _ := d.steal()
	popped, _ := d.pop()
	if stolen != a || popped != c {
		t.Error("owner and thief should take from opposite ends")
	}
	testutil.AssertEqual(t, 1, d.size())
}

func TestDequeSize(t *testing.T) {
	d := &deque{}
	testutil.AssertEqual(t, 0, d.size())
	d.push(newFuture(nil))
	d.push(newFuture(nil))
	testutil.AssertEqual(t, 2, d.size())
	d.pop()
	testutil.AssertEqual(t, 1, d.size())
}
