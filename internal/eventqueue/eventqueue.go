// Package eventqueue implements the strategy loop's time-ordered event
// sequence: a sum type of event variants plus a single insertion-sorted
// queue, in place of the event-queue polymorphism a virtual-dispatch design
// would otherwise need.
package eventqueue

import (
	"sort"
	"time"

	"github.com/nyxquant/latticebt/internal/ids"
)

// Kind tags which event variant an Event carries.
type Kind int

const (
	KindNewBar Kind = iota
	KindFieldCompletedProcessing
	KindOrderAck
	KindOrderFill
)

func (k Kind) String() string {
	switch k {
	case KindNewBar:
		return "NewBar"
	case KindFieldCompletedProcessing:
		return "FieldCompletedProcessing"
	case KindOrderAck:
		return "OrderAck"
	case KindOrderFill:
		return "OrderFill"
	default:
		return "Unknown"
	}
}

// Event is the sum type over all scheduled event variants. Only the fields
// relevant to Kind are populated.
type Event struct {
	Kind Kind
	Time time.Time

	// NewBar
	GenesisData map[ids.AssetId]map[ids.FieldId]ids.CellValue

	// OrderAck / OrderFill
	OrderID ids.OrderId

	// OrderFill
	DeltaCash   float64
	DeltaEquity float64
}

// IsOrderEvent reports whether e is an OrderAck or OrderFill — the two
// variants the spec groups together as "AbstractOrderEvent".
func (e Event) IsOrderEvent() bool {
	return e.Kind == KindOrderAck || e.Kind == KindOrderFill
}

// Queue is an ordered sequence of events sorted by ascending scheduled time,
// stable with respect to insertion order for equal times. Per-bar event
// counts are small, so an insertion-sorted slice is used in place of a heap.
type Queue struct {
	events []Event
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Push inserts e at the position implied by ascending time, after any
// already-queued events with the same time.
func (q *Queue) Push(e Event) {
	idx := sort.Search(len(q.events), func(i int) bool {
		return q.events[i].Time.After(e.Time)
	})
	q.events = append(q.events, Event{})
	copy(q.events[idx+1:], q.events[idx:])
	q.events[idx] = e
}

// Peek returns the earliest event without removing it.
func (q *Queue) Peek() (Event, bool) {
	if len(q.events) == 0 {
		return Event{}, false
	}
	return q.events[0], true
}

// Pop removes and returns the earliest event.
func (q *Queue) Pop() (Event, bool) {
	if len(q.events) == 0 {
		return Event{}, false
	}
	e := q.events[0]
	q.events = q.events[1:]
	return e, true
}

// Empty reports whether the queue has no events.
func (q *Queue) Empty() bool {
	return len(q.events) == 0
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.events)
}
