package rds

// Gate decides whether a block set is clean enough to feed a given consumer.
// Scores are the summed 2-bit BLER values of the blocks that carry the
// consumer's payload.
//
// Text is held to a stricter threshold than the name: a corrupted character
// in radiotext is shown as-is after a single sweep, while a name fragment has
// to survive several identical cycles anyway.
type Gate struct {
	NameMaxErrors   int
	TextMaxErrors   int
	RecordMaxErrors int
}

// DefaultGate returns the thresholds the decoder uses when none are given.
func DefaultGate() Gate {
	return Gate{
		NameMaxErrors:   2,
		TextMaxErrors:   0,
		RecordMaxErrors: 0,
	}
}

// Synced reports whether any decoding is possible at all.
func (g Gate) Synced(s RawBlockSet) bool {
	return s.Synced()
}

// Name gates group 0 program service fragments (blocks B and D).
func (g Gate) Name(s RawBlockSet) bool {
	return s.Synced() && s.ErrorCount(BlockB, BlockD) <= g.NameMaxErrors
}

// Text gates group 2 radiotext fragments. Version B groups carry only the PI
// repeat in block C, so C is not scored for them.
func (g Gate) Text(s RawBlockSet) bool {
	if !s.Synced() {
		return false
	}
	if s.Version() == VersionB {
		return s.ErrorCount(BlockB, BlockD) <= g.TextMaxErrors
	}
	return s.ErrorCount(BlockB, BlockC, BlockD) <= g.TextMaxErrors
}

// Record gates the group-specific record payloads (groups 1 and 4).
func (g Gate) Record(s RawBlockSet) bool {
	return s.Synced() && s.ErrorCount(BlockB, BlockC, BlockD) <= g.RecordMaxErrors
}

// Block gates the fields read unconditionally from a single block.
func (g Gate) Block(s RawBlockSet, b Block) bool {
	return s.Synced() && s.BlockErrors(b) <= g.RecordMaxErrors
}
