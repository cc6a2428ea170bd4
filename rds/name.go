package rds

// Event reports what an accumulator did with a fragment.
type Event uint8

const (
	EventStored    Event = 1 << iota // fragment written into the working buffer
	EventCycle                       // a full sweep of segments just completed
	EventAccepted                    // the working buffer was promoted
	EventRestarted                   // a completed cycle disagreed with the candidate
	EventExhausted                   // the pass ran out of attempts without promoting
	EventCleared                     // the working buffer was blanked (text A/B toggle)
)

// Has reports whether all bits of f are set in e.
func (e Event) Has(f Event) bool { return e&f == f }

const (
	NameLength      = 8
	DefaultValidity = 4

	// a pass may store this many fragments per required cycle before it is
	// given up on
	attemptsPerCycle = 15
)

// NameAccumulator assembles the 8 character program service name from
// 2 character fragments. A completed cycle is only trusted after it has been
// seen identically validity times in a row.
type NameAccumulator struct {
	validity    int
	maxAttempts int

	received  [NameLength]byte
	candidate [NameLength]byte
	accepted  [NameLength]byte

	cycles     int
	attempts   int
	lastOffset int
}

// NewNameAccumulator returns an accumulator requiring validity identical
// cycles before promotion. Values below 1 select DefaultValidity.
func NewNameAccumulator(validity int) *NameAccumulator {
	if validity < 1 {
		validity = DefaultValidity
	}
	n := &NameAccumulator{
		validity:    validity,
		maxAttempts: validity * attemptsPerCycle,
	}
	n.Reset()
	return n
}

// Reset blanks both buffers and forgets all validation progress. It must be
// called on every frequency change.
func (n *NameAccumulator) Reset() {
	n.received = blankName
	n.candidate = blankName
	n.accepted = blankName
	n.cycles = 0
	n.attempts = 0
	n.lastOffset = 0
}

// Add feeds one fragment: the two characters of block D for segment (0-3).
func (n *NameAccumulator) Add(segment int, hi, lo byte) Event {
	if !printable(hi) || !printable(lo) {
		return 0
	}
	offset := segment & 0x3

	var ev Event
	if offset < n.lastOffset {
		ev |= n.complete()
	}

	n.received[2*offset] = hi
	n.received[2*offset+1] = lo
	n.lastOffset = offset
	ev |= EventStored

	if ev.Has(EventAccepted) {
		n.attempts = 0
		return ev
	}
	n.attempts++
	if n.attempts >= n.maxAttempts {
		n.attempts = 0
		n.cycles = 0
		ev |= EventExhausted
	}
	return ev
}

// complete is called when the segment offset wraps around.
func (n *NameAccumulator) complete() Event {
	if n.received != n.candidate {
		n.candidate = n.received
		n.cycles = 0
		return EventCycle | EventRestarted
	}
	n.cycles++
	if n.cycles < n.validity {
		return EventCycle
	}
	n.accepted = n.candidate
	n.cycles = 0
	return EventCycle | EventAccepted
}

// Accepted returns the last promoted name.
func (n *NameAccumulator) Accepted() [NameLength]byte { return n.accepted }

// Candidate returns the last fully assembled, not necessarily validated, cycle.
func (n *NameAccumulator) Candidate() [NameLength]byte { return n.candidate }

// Cycles returns the number of consecutive identical cycles seen so far.
func (n *NameAccumulator) Cycles() int { return n.cycles }

var blankName = [NameLength]byte{' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}

func printable(c byte) bool {
	return c >= 0x20 && c <= 0x7e
}
