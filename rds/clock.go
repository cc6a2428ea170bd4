package rds

import "time"

// Clock is the clock time and date of group 4A. Hour and Minute are UTC.
type Clock struct {
	MJD    uint32 // modified julian day
	Hour   int
	Minute int
	Offset int // local offset in half hours, signed
}

// DecodeClock reads a group 4A:
//
//	MJD    : B1:0 ‖ C15:1 (17 bits)
//	hour   : C0 ‖ D15:12  (5 bits)
//	minute : D11:6
//	offset : D5 sign, D4:0 half hours
func DecodeClock(s RawBlockSet) (Clock, bool) {
	c := Clock{
		MJD:    uint32(s.B&0x3)<<15 | uint32(s.C>>1),
		Hour:   int(s.C&0x1)<<4 | int(s.D>>12),
		Minute: int((s.D >> 6) & 0x3f),
		Offset: int(s.D & 0x1f),
	}
	if s.D&0x20 == 0x20 {
		c.Offset = -c.Offset
	}
	if c.Hour > 23 || c.Minute > 59 {
		return Clock{}, false
	}
	return c, true
}

var mjdEpoch = time.Date(1858, time.November, 17, 0, 0, 0, 0, time.UTC)

// UTC returns the broadcast time as a UTC instant.
func (c Clock) UTC() time.Time {
	return mjdEpoch.AddDate(0, 0, int(c.MJD)).
		Add(time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute)
}

// Local returns the broadcast time in the station's announced zone.
func (c Clock) Local() time.Time {
	off := c.Offset * 30 * 60
	return c.UTC().In(time.FixedZone("", off))
}
