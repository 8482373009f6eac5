package datareader

import "time"

// SliceReader is an in-memory Reader backed by a pre-sorted slice of bars.
// Bars must already be ordered ascending by Time; used in tests and for
// synthetic/replayed data.
type SliceReader struct {
	bars []Bar
	pos  int
}

// NewSliceReader wraps bars (assumed ascending by Time) as a Reader.
func NewSliceReader(bars []Bar) *SliceReader {
	return &SliceReader{bars: bars}
}

func (r *SliceReader) Peek() (Bar, error) {
	if r.pos >= len(r.bars) {
		return Bar{}, ErrExhausted
	}
	return r.bars[r.pos], nil
}

func (r *SliceReader) PopFirst() (Bar, error) {
	b, err := r.Peek()
	if err != nil {
		return Bar{}, err
	}
	r.pos++
	return b, nil
}

func (r *SliceReader) FastForward(t time.Time) error {
	if r.pos < len(r.bars) && r.bars[r.pos].Time.After(t) {
		return ErrDateTooEarly
	}
	for r.pos < len(r.bars) && r.bars[r.pos].Time.Before(t) {
		r.pos++
	}
	if r.pos >= len(r.bars) {
		return ErrDateTooFarOut
	}
	return nil
}
