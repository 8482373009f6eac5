package ids

import (
	"strconv"
	"sync/atomic"
)

// global order ID counter, adapted from the teacher's orderbook.NextOrderID.
var orderIDCounter uint64

// NextOrderId returns a fresh, process-unique OrderId token.
func NextOrderId() OrderId {
	n := atomic.AddUint64(&orderIDCounter, 1)
	return OrderId("ord-" + strconv.FormatUint(n, 36))
}

// SetOrderIdCounter overwrites the counter.
func SetOrderIdCounter(val uint64) {
	atomic.StoreUint64(&orderIDCounter, val)
}

// GetOrderIdCounter returns the current counter value.
func GetOrderIdCounter() uint64 {
	return atomic.LoadUint64(&orderIDCounter)
}
