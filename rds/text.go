package rds

const (
	TextLength = 64

	carriageReturn = 0x0d
)

// TextAccumulator assembles the 64 character radiotext. Unlike the name, a
// single complete sweep is enough to promote the buffer: radiotext changes
// far too often for multi-cycle validation.
type TextAccumulator struct {
	received [TextLength]byte
	accepted [TextLength]byte

	lastOffset int
	begun      bool // segment 0 written since the last sweep/clear

	known   bool // ab and version below have been seen
	ab      bool
	version Version
}

func NewTextAccumulator() *TextAccumulator {
	t := &TextAccumulator{}
	t.Reset()
	return t
}

// Reset blanks the text and forgets the A/B flag.
func (t *TextAccumulator) Reset() {
	t.received = blankText
	t.accepted = blankText
	t.lastOffset = 0
	t.begun = false
	t.known = false
	t.ab = false
	t.version = VersionA
}

// Add feeds one fragment. Version A fragments carry 4 characters, version B
// fragments 2; other lengths are ignored.
func (t *TextAccumulator) Add(v Version, ab bool, segment int, chars []byte) Event {
	size := 4
	if v == VersionB {
		size = 2
	}
	if len(chars) != size {
		return 0
	}

	var ev Event
	if t.known && (ab != t.ab || v != t.version) {
		t.clear()
		ev |= EventCleared
	}
	t.known = true
	t.ab = ab
	t.version = v

	offset := segment & 0xf
	if offset < t.lastOffset {
		ev |= EventCycle
		if t.begun {
			t.accepted = t.received
			ev |= EventAccepted
		}
		t.begun = false
	}

	pos := size * offset
	for i, c := range chars {
		if c == carriageReturn {
			for j := pos + i; j < len(t.received); j++ {
				t.received[j] = ' '
			}
			break
		}
		if !printable(c) {
			c = ' '
		}
		t.received[pos+i] = c
	}
	if offset == 0 {
		t.begun = true
	}
	t.lastOffset = offset
	return ev | EventStored
}

func (t *TextAccumulator) clear() {
	t.received = blankText
	t.lastOffset = 0
	t.begun = false
}

// Accepted returns the last fully swept text.
func (t *TextAccumulator) Accepted() [TextLength]byte { return t.accepted }

// Working returns the buffer currently being filled.
func (t *TextAccumulator) Working() [TextLength]byte { return t.received }

var blankText = func() (b [TextLength]byte) {
	for i := range b {
		b[i] = ' '
	}
	return b
}()
