package datareader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nyxquant/latticebt/internal/ids"
)

// CSVConfig describes how to map a delimited text file onto Bar values.
type CSVConfig struct {
	// DatetimeCol names the header field holding the bar timestamp. Every
	// other header field, OHLCV included, is carried through as a Float64
	// CellValue when it parses as a number and a String CellValue otherwise.
	DatetimeCol string
	DatetimeFmt string // time.Parse layout
}

// CSVReader reads bars lazily from an already-opened, comma-delimited
// source with a header row. It buffers exactly one row ahead to implement
// Peek without consuming input.
type CSVReader struct {
	cfg     CSVConfig
	r       *csv.Reader
	header  []string
	colIdx  map[string]int
	pending *Bar
	done    bool
}

// NewCSVReader constructs a CSVReader from src, reading and validating the
// header row immediately.
func NewCSVReader(src io.Reader, cfg CSVConfig) (*CSVReader, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("datareader: reading csv header: %w", err)
	}
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[h] = i
	}
	if _, ok := colIdx[cfg.DatetimeCol]; !ok {
		return nil, fmt.Errorf("datareader: missing datetime column %q", cfg.DatetimeCol)
	}
	reader := &CSVReader{cfg: cfg, r: cr, header: header, colIdx: colIdx}
	reader.advance()
	return reader, nil
}

func (r *CSVReader) advance() {
	record, err := r.r.Read()
	if err == io.EOF {
		r.pending = nil
		r.done = true
		return
	}
	if err != nil {
		r.pending = nil
		r.done = true
		return
	}
	bar, err := r.parseRow(record)
	if err != nil {
		r.pending = nil
		r.done = true
		return
	}
	r.pending = &bar
}

func (r *CSVReader) parseRow(record []string) (Bar, error) {
	tsRaw := record[r.colIdx[r.cfg.DatetimeCol]]
	ts, err := time.Parse(r.cfg.DatetimeFmt, tsRaw)
	if err != nil {
		return Bar{}, fmt.Errorf("datareader: parsing %q with layout %q: %w", tsRaw, r.cfg.DatetimeFmt, err)
	}
	fields := make(map[ids.FieldId]ids.CellValue, len(r.header))
	for _, h := range r.header {
		if h == r.cfg.DatetimeCol {
			continue
		}
		raw := record[r.colIdx[h]]
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			fields[ids.FieldId(h)] = ids.Float64Value(f)
		} else {
			fields[ids.FieldId(h)] = ids.StringValue(raw)
		}
	}
	return Bar{Time: ts, Fields: fields}, nil
}

func (r *CSVReader) Peek() (Bar, error) {
	if r.pending == nil {
		return Bar{}, ErrExhausted
	}
	return *r.pending, nil
}

func (r *CSVReader) PopFirst() (Bar, error) {
	b, err := r.Peek()
	if err != nil {
		return Bar{}, err
	}
	r.advance()
	return b, nil
}

func (r *CSVReader) FastForward(t time.Time) error {
	if r.pending != nil && r.pending.Time.After(t) {
		return ErrDateTooEarly
	}
	for r.pending != nil && r.pending.Time.Before(t) {
		r.advance()
	}
	if r.pending == nil {
		return ErrDateTooFarOut
	}
	return nil
}
