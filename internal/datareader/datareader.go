// Package datareader implements the per-asset lazy bar iterator the spec
// describes as an external collaborator contract: peek/pop_first/fast_forward
// over time-sorted bars, each carrying the configured datetime column plus
// whatever fields the source provides.
package datareader

import (
	"errors"
	"time"

	"github.com/nyxquant/latticebt/internal/ids"
)

// ErrDateTooEarly is returned by FastForward when the reader's first bar is
// already after the requested time.
var ErrDateTooEarly = errors.New("datareader: fast-forward target precedes first bar")

// ErrDateTooFarOut is returned by FastForward when the reader is exhausted
// before reaching the requested time.
var ErrDateTooFarOut = errors.New("datareader: fast-forward target exceeds last bar")

// ErrExhausted is returned by PopFirst/Peek once a reader has no more bars.
var ErrExhausted = errors.New("datareader: reader exhausted")

// Bar is one row of per-asset data: a timestamp plus a field map. Genesis
// field values (open/high/low/close/volume) live alongside any extra columns
// the underlying source provides.
type Bar struct {
	Time   time.Time
	Fields map[ids.FieldId]ids.CellValue
}

// Reader is a lazy, ordered iterator over one asset's bars.
type Reader interface {
	// Peek returns the current bar without advancing.
	Peek() (Bar, error)
	// PopFirst returns the current bar and advances past it.
	PopFirst() (Bar, error)
	// FastForward advances until the next bar's time is >= t.
	FastForward(t time.Time) error
}
