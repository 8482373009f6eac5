package strategy

import "errors"

var (
	// ErrEmptyDataReaders is returned when a Config has no data readers.
	ErrEmptyDataReaders = errors.New("strategy: no data readers configured")
	// ErrDesynchronisedReaders is returned when per-bar genesis load yields
	// multiple distinct datetimes across readers. PlaceOrder also returns it
	// when the order's asset has no numeric OHLC in the current bar.
	ErrDesynchronisedReaders = errors.New("strategy: data readers disagree on bar datetime")
	// ErrFieldOpTimeout is returned when a NewBar propagation exceeds the
	// configured wall-clock budget.
	ErrFieldOpTimeout = errors.New("strategy: field operation timeout exceeded")
	// ErrInsufficientBuyingPower is returned when an order would drive
	// buying power below zero.
	ErrInsufficientBuyingPower = errors.New("strategy: insufficient buying power")
)
