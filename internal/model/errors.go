package model

import "errors"

var (
	ErrInvalidJob             = errors.New("invalid job")
	ErrInvalidVehicle         = errors.New("invalid vehicle")
	ErrInvalidLocation        = errors.New("invalid location")
	ErrInvalidCapacity        = errors.New("negative capacity dimension")
	ErrInvalidTimeWindow      = errors.New("invalid time window")
	ErrOverlappingTimeWindows = errors.New("overlapping time windows")
)
