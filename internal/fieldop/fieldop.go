// Package fieldop models the field-operation taxonomy: genesis fields (raw
// externally supplied data), window fields (reductions over a single
// upstream field's recent history for one asset), and cross-sectional fields
// (reductions over one upstream field's current-bar values across all
// assets). It is a flat tagged union rather than an interface hierarchy —
// one entry point per variant family, in place of the virtual dispatch a
// multi-level abstract-type hierarchy would otherwise need.
package fieldop

import (
	"fmt"

	"github.com/nyxquant/latticebt/internal/ids"
)

// Kind tags which of the three op families a FieldOperation belongs to.
type Kind int

const (
	KindGenesis Kind = iota
	KindWindow
	KindCrossSectional
)

// WindowReducer names the reduction applied over a window field's history.
type WindowReducer string

const (
	SMA        WindowReducer = "sma"
	Returns    WindowReducer = "returns"
	LogReturns WindowReducer = "log_returns"
)

// CrossSectionalReducer names the reduction applied across assets.
type CrossSectionalReducer string

const (
	ZScore CrossSectionalReducer = "zscore"
	Rank   CrossSectionalReducer = "rank"
)

// Op is a single field operation: a genesis declaration, a window reduction,
// or a cross-sectional reduction. Each non-genesis op depends on exactly one
// upstream field (a tree, not a general DAG).
type Op struct {
	Kind     Kind
	FieldID  ids.FieldId
	Upstream ids.FieldId // empty for Genesis

	// Window-only.
	Window        int
	WindowReducer WindowReducer

	// CrossSectional-only.
	CrossReducer CrossSectionalReducer
}

// Genesis declares an externally supplied field with identity propagation.
func Genesis(field ids.FieldId) Op {
	return Op{Kind: KindGenesis, FieldID: field}
}

// WindowOp declares a field computed from the last `window` cells of
// `upstream` for a single asset.
func WindowOp(field, upstream ids.FieldId, window int, reducer WindowReducer) Op {
	return Op{Kind: KindWindow, FieldID: field, Upstream: upstream, Window: window, WindowReducer: reducer}
}

// CrossSectionalOp declares a field computed from one upstream cell per asset
// for the current bar.
func CrossSectionalOp(field, upstream ids.FieldId, reducer CrossSectionalReducer) Op {
	return Op{Kind: KindCrossSectional, FieldID: field, Upstream: upstream, CrossReducer: reducer}
}

// Validate checks internal consistency of a single op, independent of the
// lattice it will be registered into (upstream existence/ordering is a
// lattice-level concern, see internal/lattice).
func (o Op) Validate() error {
	if o.FieldID == "" {
		return fmt.Errorf("fieldop: field id must not be empty")
	}
	switch o.Kind {
	case KindGenesis:
		if o.Upstream != "" {
			return fmt.Errorf("fieldop: genesis field %q must not declare an upstream", o.FieldID)
		}
	case KindWindow:
		if o.Upstream == "" {
			return fmt.Errorf("fieldop: window field %q requires an upstream", o.FieldID)
		}
		if o.Window <= 0 {
			return fmt.Errorf("fieldop: window field %q requires window > 0", o.FieldID)
		}
		switch o.WindowReducer {
		case SMA, Returns, LogReturns:
		default:
			return fmt.Errorf("fieldop: window field %q has unknown reducer %q", o.FieldID, o.WindowReducer)
		}
	case KindCrossSectional:
		if o.Upstream == "" {
			return fmt.Errorf("fieldop: cross-sectional field %q requires an upstream", o.FieldID)
		}
		switch o.CrossReducer {
		case ZScore, Rank:
		default:
			return fmt.Errorf("fieldop: cross-sectional field %q has unknown reducer %q", o.FieldID, o.CrossReducer)
		}
	default:
		return fmt.Errorf("fieldop: unknown kind %d for field %q", o.Kind, o.FieldID)
	}
	return nil
}
