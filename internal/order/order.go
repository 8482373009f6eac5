// Package order models Market and Limit orders and the single-bar fill
// heuristic evaluated against a bar's OHLC, adapted from the teacher's
// order-book matching (internal/orderbook) but simplified to the spec's
// single-bar heuristic rather than continuous price-time-priority matching.
package order

import (
	"errors"

	"github.com/nyxquant/latticebt/internal/ids"
)

// ErrZeroSize is returned when an order is placed with size 0.
var ErrZeroSize = errors.New("order: size must not be zero")

// Kind tags whether an order is a Market or Limit order.
type Kind int

const (
	KindMarket Kind = iota
	KindLimit
)

// Order is a signed-size market or limit instruction. Positive Size is a
// buy, negative is a sell.
type Order struct {
	ID       ids.OrderId
	Kind     Kind
	Asset    ids.AssetId
	Size     float64
	Extremum float64 // limit price; unused for Market orders
}

// NewMarket constructs a market order. Size must be non-zero.
func NewMarket(asset ids.AssetId, size float64) (Order, error) {
	if size == 0 {
		return Order{}, ErrZeroSize
	}
	return Order{ID: ids.NextOrderId(), Kind: KindMarket, Asset: asset, Size: size}, nil
}

// NewLimit constructs a limit order. Size must be non-zero; extremum is the
// limit price (buy ceiling or sell floor).
func NewLimit(asset ids.AssetId, size, extremum float64) (Order, error) {
	if size == 0 {
		return Order{}, ErrZeroSize
	}
	return Order{ID: ids.NextOrderId(), Kind: KindLimit, Asset: asset, Size: size, Extremum: extremum}, nil
}

// IsBuy reports whether the order is a buy (positive size).
func (o Order) IsBuy() bool { return o.Size > 0 }
