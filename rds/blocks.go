package rds

/*

A group is 4 blocks of 26 bits (16 bit information word, 10 bit checkword
and offset word). By the time we see a group the tuner has already done the
error correction, so all that is left is 4 x 16 bits of content plus the
chip's opinion of how much correcting it had to do.

* A: PI code
    * Country         : xxxx_...._...._....
    * Program area    : ...._xxxx_...._....
    * Program ref     : ...._...._xxxx_xxxx
* B:
    * Group Type      : xxxx_...._...._....
    * Version         : ...._x..._...._....
    * Traffic Program : ...._.x.._...._....
    * Program Type    : ...._..xx_xxx._....
    * GT-dependent    : ...._...._...x_xxxx
* C: GT-dependent (version B groups repeat PI here)
* D: GT-dependent

The two status words follow the Si4703 layout:

* Status (STATUSRSSI): RDSR 15, RDSS 11, BLERA 10:9
* Errors (READCHAN)  : BLERB 15:14, BLERC 13:12, BLERD 11:10

*/

// Block names one of the four blocks in a group.
type Block int

const (
	BlockA Block = iota
	BlockB
	BlockC
	BlockD
)

func (b Block) String() string {
	switch b {
	case BlockA:
		return "A"
	case BlockB:
		return "B"
	case BlockC:
		return "C"
	case BlockD:
		return "D"
	}
	return "?"
}

// Error scores reported per block by the chip.
const (
	ErrorsNone          = 0 // no errors
	ErrorsCorrectedLow  = 1 // 1-2 errors corrected
	ErrorsCorrectedHigh = 2 // 3-5 errors corrected
	ErrorsUncorrectable = 3 // 6+ errors, block is garbage
)

const (
	statusReady = 0x8000 // RDSR
	statusSync  = 0x0800 // RDSS
)

// RawBlockSet is one snapshot of the tuner's RDS registers. It is
// overwritten on every poll and carries no history.
type RawBlockSet struct {
	A, B, C, D uint16
	Status     uint16 // STATUSRSSI layout
	Errors     uint16 // READCHAN layout
}

// Ready reports Status bit 15: a new group has been received.
func (s RawBlockSet) Ready() bool {
	return s.Status&statusReady == statusReady
}

// Synced reports Status bit 11: the decoder is frame aligned.
func (s RawBlockSet) Synced() bool {
	return s.Status&statusSync == statusSync
}

// BlockErrors returns the 2-bit error score of a block: BLERA from Status
// bits 10:9, BLERB/C/D from Errors bits 15:14, 13:12 and 11:10.
func (s RawBlockSet) BlockErrors(b Block) int {
	switch b {
	case BlockA:
		return int((s.Status >> 9) & 0x3)
	case BlockB:
		return int((s.Errors >> 14) & 0x3)
	case BlockC:
		return int((s.Errors >> 12) & 0x3)
	case BlockD:
		return int((s.Errors >> 10) & 0x3)
	}
	return ErrorsUncorrectable
}

// ErrorCount sums the error scores of the given blocks.
func (s RawBlockSet) ErrorCount(blocks ...Block) int {
	n := 0
	for _, b := range blocks {
		n += s.BlockErrors(b)
	}
	return n
}

// PI returns the whole of block A.
func (s RawBlockSet) PI() uint16 { return s.A }

// CountryCode returns A bits 15:12.
func (s RawBlockSet) CountryCode() uint8 { return uint8(s.A >> 12) }

// ProgramArea returns the program area coverage code, A bits 11:8.
func (s RawBlockSet) ProgramArea() uint8 { return uint8((s.A >> 8) & 0xf) }

// ProgramReference returns A bits 7:0.
func (s RawBlockSet) ProgramReference() uint8 { return uint8(s.A & 0xff) }

// GroupType returns B bits 15:12.
func (s RawBlockSet) GroupType() GroupType { return GroupType(s.B >> 12) }

// Version returns B bit 11: clear for version A, set for version B.
func (s RawBlockSet) Version() Version {
	if s.B&0x0800 == 0x0800 {
		return VersionB
	}
	return VersionA
}

// TrafficProgram returns B bit 10.
func (s RawBlockSet) TrafficProgram() bool { return s.B&0x0400 == 0x0400 }

// ProgramType returns B bits 9:5.
func (s RawBlockSet) ProgramType() uint8 { return uint8((s.B >> 5) & 0x1f) }

// TrafficAnnouncement returns B bit 4. Only meaningful in group 0.
func (s RawBlockSet) TrafficAnnouncement() bool { return s.B&0x0010 == 0x0010 }

// TextAB returns the radiotext A/B flag, B bit 4. Only meaningful in group 2.
func (s RawBlockSet) TextAB() bool { return s.B&0x0010 == 0x0010 }

// Music returns the music/speech flag, B bit 3. Only meaningful in group 0.
func (s RawBlockSet) Music() bool { return s.B&0x0008 == 0x0008 }

// DecoderInfo returns the decoder identification bit, B bit 2. Which DI flag
// it carries depends on NameSegment.
func (s RawBlockSet) DecoderInfo() bool { return s.B&0x0004 == 0x0004 }

// NameSegment returns the program service segment address, B bits 1:0.
func (s RawBlockSet) NameSegment() int { return int(s.B & 0x3) }

// TextSegment returns the radiotext segment address, B bits 3:0.
func (s RawBlockSet) TextSegment() int { return int(s.B & 0xf) }

// PagingCode returns B bits 4:0 of group 1A.
func (s RawBlockSet) PagingCode() uint8 { return uint8(s.B & 0x1f) }
