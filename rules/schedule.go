package rules

import (
	"container/heap"
	"time"
)

type eventKind int

const (
	eventArmBlocker eventKind = iota
	eventExpireBlocker
	eventReverseCountdown
)

func (k eventKind) String() string {
	switch k {
	case eventArmBlocker:
		return "arm-blocker"
	case eventExpireBlocker:
		return "expire-blocker"
	case eventReverseCountdown:
		return "reverse-countdown"
	}
	return "unknown"
}

// event is a deferred state change. Events fire on the first tick whose
// virtual time has reached at.
type event struct {
	at        time.Duration
	kind      eventKind
	blockerID uint64

	seq   uint64
	index int // heap position, -1 once popped or cancelled
}

// schedule is a deadline ordered queue of events. Events with the same
// deadline fire in the order they were added.
type schedule struct {
	events eventHeap
	seq    uint64
}

func (s *schedule) add(at time.Duration, kind eventKind, blockerID uint64) *event {
	s.seq++
	ev := &event{at: at, kind: kind, blockerID: blockerID, seq: s.seq}
	heap.Push(&s.events, ev)
	return ev
}

// cancel removes ev if it is still pending. It is safe to call with nil or an
// event that already fired.
func (s *schedule) cancel(ev *event) {
	if ev == nil || ev.index < 0 {
		return
	}
	heap.Remove(&s.events, ev.index)
}

// popDue returns the earliest event due at now, or nil.
func (s *schedule) popDue(now time.Duration) *event {
	if len(s.events) == 0 || s.events[0].at > now {
		return nil
	}
	return heap.Pop(&s.events).(*event)
}

func (s *schedule) clear() {
	for _, ev := range s.events {
		ev.index = -1
	}
	s.events = nil
}

func (s *schedule) len() int { return len(s.events) }

type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].at == h[j].at {
		return h[i].seq < h[j].seq
	}
	return h[i].at < h[j].at
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *eventHeap) Push(x interface{}) {
	ev := x.(*event)
	ev.index = len(*h)
	*h = append(*h, ev)
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	ev.index = -1
	*h = old[:n-1]
	return ev
}
