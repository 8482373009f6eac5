package lattice

import "errors"

// ErrFieldAfterStart is returned when a field is added after the first bar
// has been ingested — the field set freezes on first ingestion.
var ErrFieldAfterStart = errors.New("lattice: cannot add field after first bar")

// ErrDuplicateField is returned when a field id is already registered.
var ErrDuplicateField = errors.New("lattice: duplicate field id")

// ErrUnknownUpstream is returned when a non-genesis field names an upstream
// that has not yet been registered.
var ErrUnknownUpstream = errors.New("lattice: upstream field not registered")

// ErrMissingAsset is returned when new-bar genesis data omits a lattice asset.
var ErrMissingAsset = errors.New("lattice: genesis data missing asset")

// ErrMissingGenesisField is returned when new-bar genesis data omits a
// genesis field for some asset.
var ErrMissingGenesisField = errors.New("lattice: genesis data missing field")

// ErrAgoOutOfRange is returned by the data accessors when `ago` is negative,
// exceeds the number of retained bars, or exceeds retention.
var ErrAgoOutOfRange = errors.New("lattice: ago out of range")
