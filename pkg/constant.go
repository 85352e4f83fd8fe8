package pkg

import "errors"

const (
	METERS_PER_MILE = 1609.344

	// drive based edit area stays valid for this many days after capture
	VALIDITY_DAYS    = 90
	DAYS_TO_EXPIRY   = 7
	MAX_DRIVES       = 300
	Z_INDEX_STEP     = 5
	CAP_STEP_DEGREES = 5.0

	FILL_OPACITY  = 1.0
	STROKE_WIDTH  = 0
	LAYER_OPACITY = 0.3
)

var (
	ErrInvalidGeometry  = errors.New("invalid geometry")
	ErrInvalidRadius    = errors.New("invalid radius")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrScanInProgress   = errors.New("scan already in progress")
)
