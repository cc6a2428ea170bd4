package rds

// Source is anything that can hand over the latest RDS registers. Each call
// returns a fresh snapshot; there is no queueing.
type Source interface {
	Blocks() (RawBlockSet, error)
}

// Config tunes a Decoder. Zero values select the defaults.
type Config struct {
	Validity int   // identical name cycles required, DefaultValidity if 0
	Gate     *Gate // DefaultGate() if nil
}

// Stats are cumulative counters. They survive Reset.
type Stats struct {
	Polls    uint64
	Unsynced uint64 // sets dropped for lack of sync
	Gated    uint64 // sets dropped for too many block errors
	Noise    uint64 // name fragments dropped as unprintable
	Groups   [16][2]uint64

	NameCycles    uint64
	NameRestarts  uint64
	NameAccepted  uint64
	NameExhausted uint64
	TextSweeps    uint64
	TextClears    uint64
	Resets        uint64
}

// Decoder turns a stream of block sets into a Record. It is driven by
// repeated calls to Update (or Poll), typically every 40-100ms, and is not
// safe for concurrent use.
type Decoder struct {
	gate Gate
	name *NameAccumulator
	text *TextAccumulator

	rec         Record
	afs         altFreqs
	clearScreen bool

	lastPI uint16
	seenPI bool

	stats Stats
}

func New(cfg Config) *Decoder {
	gate := DefaultGate()
	if cfg.Gate != nil {
		gate = *cfg.Gate
	}
	d := &Decoder{
		gate: gate,
		name: NewNameAccumulator(cfg.Validity),
		text: NewTextAccumulator(),
	}
	d.reset()
	return d
}

// Reset discards everything decoded so far. Call it on every frequency
// change: fragments from the previous station must never reach the new one.
func (d *Decoder) Reset() {
	d.reset()
	d.stats.Resets++
}

func (d *Decoder) reset() {
	d.name.Reset()
	d.text.Reset()
	d.rec = newRecord()
	d.afs.reset()
	d.clearScreen = false
	d.lastPI = 0
	d.seenPI = false
}

// Poll reads one snapshot from src and decodes it.
func (d *Decoder) Poll(src Source) error {
	s, err := src.Blocks()
	if err != nil {
		return err
	}
	d.Update(s)
	return nil
}

// Update decodes one block set. It reports false when the set was dropped
// because the chip is not synchronized.
func (d *Decoder) Update(s RawBlockSet) bool {
	d.stats.Polls++
	if !d.gate.Synced(s) {
		d.stats.Unsynced++
		return false
	}

	c := Classify(s)
	d.stats.Groups[c.Group&0xf][c.Version&1]++

	switch c.Group {
	case GroupBasic:
		d.updateBasic(s, c)
	case GroupProgramItem:
		d.updateProgramItem(s, c)
	case GroupRadiotext:
		d.updateRadiotext(s, c)
	case GroupClock:
		if c.Version == VersionA {
			d.updateClock(s)
		}
	}

	d.updatePI(s)
	if d.gate.Block(s, BlockB) {
		d.rec.ProgramType = s.ProgramType()
		d.rec.TrafficProgram = s.TrafficProgram()
		d.rec.Version = c.Version
	}
	return true
}

func (d *Decoder) updatePI(s RawBlockSet) {
	if !d.gate.Block(s, BlockA) {
		return
	}
	pi := s.PI()
	d.rec.PI = pi
	d.rec.CountryCode = s.CountryCode()
	d.rec.ProgramArea = s.ProgramArea()
	d.rec.ProgramReference = s.ProgramReference()

	// only trust the call sign once the same PI arrived twice in a row
	if d.seenPI && pi == d.lastPI {
		if cs, ok := CallSign(pi); ok {
			d.rec.CallSign = cs
		}
	}
	d.lastPI = pi
	d.seenPI = true
}

// updateBasic handles groups 0A and 0B.
func (d *Decoder) updateBasic(s RawBlockSet, c Class) {
	if !d.gate.Name(s) {
		d.stats.Gated++
		return
	}
	d.rec.TrafficAnnouncement = s.TrafficAnnouncement()
	d.rec.Music = s.Music()
	d.rec.DecoderInfo.set(c.Segment, s.DecoderInfo())

	if c.Version == VersionA && s.BlockErrors(BlockC) == ErrorsNone {
		d.afs.add(s.C)
	}

	ev := d.name.Add(c.Segment, byte(s.D>>8), byte(s.D&0xff))
	switch {
	case ev == 0:
		d.stats.Noise++
		return
	case ev.Has(EventAccepted):
		d.rec.Name = d.name.Accepted()
		d.stats.NameAccepted++
	case ev.Has(EventRestarted):
		d.stats.NameRestarts++
	}
	if ev.Has(EventCycle) {
		d.stats.NameCycles++
	}
	if ev.Has(EventExhausted) {
		d.stats.NameExhausted++
	}
}

// updateProgramItem handles groups 1A and 1B.
func (d *Decoder) updateProgramItem(s RawBlockSet, c Class) {
	if !d.gate.Record(s) {
		d.stats.Gated++
		return
	}
	if pin, ok := DecodeProgramItem(s); ok {
		d.rec.ProgramItem = pin
	}
	if c.Version != VersionA {
		// 1B repeats PI in block C
		return
	}
	label := DecodeSlowLabel(s)
	d.rec.SlowLabel = label
	d.rec.Emergency = label.Emergency()
	switch label.Variant {
	case LabelExtendedCountry:
		d.rec.ExtendedCountry = uint8(label.Data & 0xff)
	case LabelLanguage:
		d.rec.Language = uint8(label.Data & 0xff)
	}
}

// updateRadiotext handles groups 2A and 2B.
func (d *Decoder) updateRadiotext(s RawBlockSet, c Class) {
	if !d.gate.Text(s) {
		d.stats.Gated++
		return
	}
	var chars []byte
	if c.Version == VersionA {
		chars = []byte{byte(s.C >> 8), byte(s.C & 0xff), byte(s.D >> 8), byte(s.D & 0xff)}
	} else {
		chars = []byte{byte(s.D >> 8), byte(s.D & 0xff)}
	}

	ev := d.text.Add(c.Version, s.TextAB(), c.Segment, chars)
	if ev.Has(EventCleared) {
		d.rec.Text = blankText
		d.clearScreen = true
		d.stats.TextClears++
	}
	if ev.Has(EventAccepted) {
		d.rec.Text = d.text.Accepted()
		d.stats.TextSweeps++
	}
}

// updateClock handles group 4A.
func (d *Decoder) updateClock(s RawBlockSet) {
	if !d.gate.Record(s) {
		d.stats.Gated++
		return
	}
	clk, ok := DecodeClock(s)
	if !ok {
		return
	}
	d.rec.Clock = clk
	d.rec.HasClock = true
	d.rec.Hour = clk.Hour
	d.rec.Minute = clk.Minute
}

// Record returns a copy of everything decoded so far.
func (d *Decoder) Record() Record {
	r := d.rec
	r.AltFreqs = d.afs.list()
	return r
}

// Name returns the accepted station name, space filled.
func (d *Decoder) Name() [NameLength]byte { return d.rec.Name }

// Text returns the accepted radiotext, space filled.
func (d *Decoder) Text() [TextLength]byte { return d.rec.Text }

// Candidate returns the best name seen so far, validated or not.
func (d *Decoder) Candidate() [NameLength]byte { return d.name.Candidate() }

// ClearScreen reports whether the radiotext was cleared by the station since
// the last call. Reading it resets it.
func (d *Decoder) ClearScreen() bool {
	v := d.clearScreen
	d.clearScreen = false
	return v
}

// Stats returns a copy of the decoder counters.
func (d *Decoder) Stats() Stats { return d.stats }
