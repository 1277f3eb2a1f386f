package dyneq

import "errors"

var (
	// ErrNotAllocated is returned when processing before Allocate.
	ErrNotAllocated = errors.New("dyneq: equalizer not allocated")
	// ErrFormatMismatch is returned when the sample width does not match
	// the allocated precision.
	ErrFormatMismatch = errors.New("dyneq: sample format does not match precision")
	// ErrChannelMismatch is returned when a block carries the wrong number
	// of channels.
	ErrChannelMismatch = errors.New("dyneq: channel count mismatch")
	// ErrLengthMismatch is returned when planar channel slices differ in length.
	ErrLengthMismatch = errors.New("dyneq: channel length mismatch")
	// ErrSidechainMismatch is returned when a sidechain block is missing
	// while sidechain is enabled, or present while it is disabled.
	ErrSidechainMismatch = errors.New("dyneq: sidechain input mismatch")
	// ErrInitOnlyChanged is returned when SetConfig changes Precision or
	// Sidechain after Allocate.
	ErrInitOnlyChanged = errors.New("dyneq: precision and sidechain are fixed after allocation")
)
