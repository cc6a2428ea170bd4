package rds

import "fmt"

// Version is the group version carried in block B.
type Version uint8

const (
	VersionA Version = iota
	VersionB
)

func (v Version) String() string {
	if v == VersionB {
		return "B"
	}
	return "A"
}

// GroupType selects the payload carried by blocks B-D.
type GroupType uint8

// Group types that carry meaning for the decoder.
const (
	GroupBasic       GroupType = 0 // PS name, DI, TA, M/S, AF
	GroupProgramItem GroupType = 1 // PIN, slow labelling codes
	GroupRadiotext   GroupType = 2
	GroupClock       GroupType = 4 // clock time and date (4A)
)

// Class is what the classifier learns from block B.
type Class struct {
	Version Version
	Group   GroupType
	Segment int
}

// Classify tags a block set. Undefined group types are passed through.
func Classify(s RawBlockSet) Class {
	c := Class{
		Version: s.Version(),
		Group:   s.GroupType(),
	}
	switch c.Group {
	case GroupBasic:
		c.Segment = s.NameSegment()
	case GroupRadiotext:
		c.Segment = s.TextSegment()
	}
	return c
}

func (c Class) String() string {
	return fmt.Sprintf("%d%s", c.Group, c.Version)
}

// Description returns the RBDS name of the group type.
func (c Class) Description() string {
	if c.Version == VersionB {
		return groupTypesB[c.Group&0xf]
	}
	return groupTypesA[c.Group&0xf]
}

// Group type applications as listed in EN 50067, version A then B.
var groupTypesA = [16]string{
	"Basic Tuning and Switching Information only",
	"Program Item Number and Slow Labeling Codes only",
	"Radio Text only",
	"Applications Identification for ODA only",
	"Clock Time and Date only",
	"Transparent Data Channels (32 channels) or ODA",
	"In-House Applications of ODA",
	"Radio Paging of ODA",
	"Traffic Message Channel or ODA",
	"Emergency Warning System or ODA",
	"Program Type Name",
	"Open Data Applications",
	"Open Data Applications",
	"Enhanced Radio Paging or ODA",
	"Enhanced Other Networks Information Only",
	"Defined in RBDS only",
}

var groupTypesB = [16]string{
	"Basic Tuning and Switching Information only",
	"Program Item Number",
	"Radio Text only",
	"Open Data Applications",
	"Open Data Applications",
	"Transparent Data Channels (32 channels) or ODA",
	"In-House Applications of ODA",
	"Radio Paging of ODA",
	"Open Data Applications",
	"Open Data Applications",
	"Open Data Applications",
	"Open Data Applications",
	"Open Data Applications",
	"Open Data Applications",
	"Enhanced Other Networks Information Only",
	"Fast Switching Information only",
}
