package rds

import "sort"

// DecoderInfo holds the four decoder identification flags of group 0. Each
// arrives in a different name segment.
type DecoderInfo struct {
	Stereo         bool
	ArtificialHead bool
	Compressed     bool
	DynamicPTY     bool
}

// set stores the DI bit carried by a group 0 segment:
// 0 dynamic PTY (d3), 1 compressed (d2), 2 artificial head (d1), 3 stereo (d0).
func (di *DecoderInfo) set(segment int, bit bool) {
	switch segment & 0x3 {
	case 0:
		di.DynamicPTY = bit
	case 1:
		di.Compressed = bit
	case 2:
		di.ArtificialHead = bit
	case 3:
		di.Stereo = bit
	}
}

// ProgramItem is the scheduled start of the current program (group 1, block D).
type ProgramItem struct {
	Day    int // day of month, 1-31
	Hour   int
	Minute int
}

// DecodeProgramItem reads day D15:11, hour D10:6 and minute D5:0.
// Day 0 means the station is not sending a PIN.
func DecodeProgramItem(s RawBlockSet) (ProgramItem, bool) {
	pin := ProgramItem{
		Day:    int((s.D >> 11) & 0x1f),
		Hour:   int((s.D >> 6) & 0x1f),
		Minute: int(s.D & 0x3f),
	}
	if pin.Day == 0 || pin.Hour > 23 || pin.Minute > 59 {
		return ProgramItem{}, false
	}
	return pin, true
}

// Slow labelling variants (group 1A, block C bits 14:12).
const (
	LabelExtendedCountry = 0 // paging + extended country code
	LabelTMC             = 1
	LabelPaging          = 2
	LabelLanguage        = 3
	LabelEmergency       = 7 // identification of the EWS channel
)

// SlowLabel is the slow labelling code of group 1A.
type SlowLabel struct {
	Linkage bool   // C15
	Variant uint8  // C14:12
	Data    uint16 // C11:0
}

// DecodeSlowLabel reads block C of a group 1A.
func DecodeSlowLabel(s RawBlockSet) SlowLabel {
	return SlowLabel{
		Linkage: s.C&0x8000 == 0x8000,
		Variant: uint8((s.C >> 12) & 0x7),
		Data:    s.C & 0x0fff,
	}
}

// Emergency reports whether the label identifies the emergency warning channel.
func (l SlowLabel) Emergency() bool { return l.Variant == LabelEmergency }

// altFreqs collects the alternative frequency codes of group 0A, block C.
type altFreqs struct {
	codes map[uint8]struct{}
	count int // announced number of AFs, -1 if unknown
}

func (af *altFreqs) reset() {
	af.codes = nil
	af.count = -1
}

func (af *altFreqs) add(c uint16) {
	for _, f := range []uint8{uint8(c >> 8), uint8(c & 0xff)} {
		switch {
		case f >= 1 && f <= 204:
			if af.codes == nil {
				af.codes = map[uint8]struct{}{}
			}
			af.codes[f] = struct{}{}
		case f >= 224 && f <= 249:
			af.count = int(f - 224)
		default:
			// 0 not to be used, 205 filler, 250 LF/MF follows, rest unassigned
		}
	}
}

// list returns the known frequencies in MHz, ascending.
func (af *altFreqs) list() []float64 {
	if len(af.codes) == 0 {
		return nil
	}
	out := make([]float64, 0, len(af.codes))
	for f := range af.codes {
		out = append(out, AltFreqMHz(f))
	}
	sort.Float64s(out)
	return out
}

// AltFreqMHz converts an AF code (1-204) to MHz.
func AltFreqMHz(code uint8) float64 {
	return float64(875+int(code)) / 10
}

// CallSign derives the RBDS call letters from a PI code.
// See: U.S. RBDS Standard - April 1998, pg 80-90
func CallSign(pi uint16) (string, bool) {
	var cs [4]byte
	switch {
	case pi&0x0f00 == 0x0000:
		// _0__ : local (unique) broadcast, AF-prefixed
		cs[0] = 'A'
		cs[1] = 'A' + byte((pi>>12)&0xf)
		cs[2] = 'A' + byte((pi>>4)&0xf)
		cs[3] = 'A' + byte(pi&0xf)
	case pi&0x00ff == 0x0000:
		// __00 : test modes
		cs[0] = 'A'
		cs[1] = 'F'
		cs[2] = 'A' + byte((pi>>12)&0xf)
		cs[3] = 'A' + byte((pi>>8)&0xf)
	case pi >= 4096 && pi <= 39247:
		// North American 4 letter "K" and "W" stations
		var n uint16
		if pi < 21672 {
			cs[0] = 'K'
			n = pi - 4096
		} else {
			cs[0] = 'W'
			n = pi - 21672
		}
		cs[1] = 'A' + byte(n/676)
		n %= 676
		cs[2] = 'A' + byte(n/26)
		cs[3] = 'A' + byte(n%26)
	default:
		return "", false
	}
	return string(cs[:]), true
}
