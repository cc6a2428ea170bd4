package rds

const testPI = 0x54a8 // WAAA

// group builds a synchronized, error free block set.
func group(gt GroupType, v Version, low uint16, c, d uint16) RawBlockSet {
	b := uint16(gt)<<12 | low
	if v == VersionB {
		b |= 0x0800
	}
	return RawBlockSet{
		A:      testPI,
		B:      b,
		C:      c,
		D:      d,
		Status: statusReady | statusSync,
	}
}

// withErrors sets the BLER scores of blocks A-D.
func withErrors(s RawBlockSet, a, b, c, d int) RawBlockSet {
	s.Status = s.Status&^0x0600 | uint16(a&0x3)<<9
	s.Errors = uint16(b&0x3)<<14 | uint16(c&0x3)<<12 | uint16(d&0x3)<<10
	return s
}

func unsynced(s RawBlockSet) RawBlockSet {
	s.Status &^= statusSync
	return s
}

func pair(hi, lo byte) uint16 { return uint16(hi)<<8 | uint16(lo) }

// nameGroup is a group 0A carrying segment seg of name.
func nameGroup(name string, seg int) RawBlockSet {
	return group(GroupBasic, VersionA, uint16(seg), 0xe0cd, pair(name[2*seg], name[2*seg+1]))
}

// nameCycle returns the four group 0A sets for one full cycle of name.
func nameCycle(name string) []RawBlockSet {
	out := make([]RawBlockSet, 4)
	for seg := range out {
		out[seg] = nameGroup(name, seg)
	}
	return out
}

// textGroupA is a group 2A carrying segment seg of a 64 character text.
func textGroupA(text string, ab bool, seg int) RawBlockSet {
	low := uint16(seg)
	if ab {
		low |= 0x10
	}
	p := 4 * seg
	return group(GroupRadiotext, VersionA, low, pair(text[p], text[p+1]), pair(text[p+2], text[p+3]))
}

// textGroupB is a group 2B carrying segment seg of a 32 character text.
func textGroupB(text string, ab bool, seg int) RawBlockSet {
	low := uint16(seg)
	if ab {
		low |= 0x10
	}
	p := 2 * seg
	return group(GroupRadiotext, VersionB, low, testPI, pair(text[p], text[p+1]))
}

// clockGroup encodes a group 4A.
func clockGroup(mjd uint32, hour, minute, offset int) RawBlockSet {
	b := uint16(mjd>>15) & 0x3
	c := uint16(mjd&0x7fff)<<1 | uint16(hour>>4)&0x1
	d := uint16(hour&0xf)<<12 | uint16(minute&0x3f)<<6
	if offset < 0 {
		d |= 0x20
		offset = -offset
	}
	d |= uint16(offset & 0x1f)
	return group(GroupClock, VersionA, b, c, d)
}

func pad(s string, n int) string {
	for len(s) < n {
		s += " "
	}
	return s
}
