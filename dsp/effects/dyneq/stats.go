package dyneq

// ChannelStats is a snapshot of one channel's detector and gain state,
// taken between blocks.
type ChannelStats struct {
	// Envelope is the linear envelope follower value.
	Envelope float64
	// LevelDB is the floored envelope in dBFS.
	LevelDB float64
	// ThresholdDB is the adopted threshold in dB.
	ThresholdDB float64
	// CandidateDB is the window-mean candidate threshold in dB. It is only
	// meaningful while detection is On or Adaptive.
	CandidateDB float64
	// GainDB is the smoothed target-filter gain, makeup included.
	GainDB float64
	// WindowFill is the fraction of the one-second window in use.
	WindowFill float64
	// Flatness is the geometric over arithmetic mean of the window.
	Flatness float64
	// Held reports that Off is holding a learned threshold.
	Held bool
}
