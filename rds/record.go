package rds

import "strings"

// Record is everything decoded for the tuned station. Decoder hands out
// copies; nothing in a Record aliases decoder state.
type Record struct {
	// block A, every group
	PI               uint16
	CallSign         string // RBDS call letters, confirmed over two groups
	CountryCode      uint8
	ProgramArea      uint8
	ProgramReference uint8

	// block B, every group
	ProgramType    uint8
	TrafficProgram bool
	Version        Version

	// group 0
	TrafficAnnouncement bool // only set by group 0, B4 is the text A/B flag elsewhere
	Music               bool // only set by group 0
	DecoderInfo
	AltFreqs []float64 // MHz

	// group 1
	ProgramItem     ProgramItem
	SlowLabel       SlowLabel
	ExtendedCountry uint8
	Language        uint8
	Emergency       bool

	// group 4A
	Hour, Minute int
	Clock        Clock
	HasClock     bool

	Name [NameLength]byte
	Text [TextLength]byte
}

func newRecord() Record {
	return Record{
		Name: blankName,
		Text: blankText,
	}
}

// NameString returns the station name with trailing blanks removed.
func (r Record) NameString() string {
	return strings.TrimRight(string(r.Name[:]), " ")
}

// TextString returns the radiotext with trailing blanks removed.
func (r Record) TextString() string {
	return strings.TrimRight(string(r.Text[:]), " ")
}

// Region selects the program type table.
type Region int

const (
	RegionNA Region = iota // RBDS
	RegionEU               // RDS
)

// ProgramTypeName returns the label of the current program type.
func (r Record) ProgramTypeName(region Region) string {
	if region == RegionEU {
		return ptEU[r.ProgramType&0x1f]
	}
	return ptNA[r.ProgramType&0x1f]
}

// RBDS program types, NRSC-4 (RBDS 1998) Annex F.
var ptNA = [32]string{
	"No program type",
	"News",
	"Information",
	"Sports",
	"Talk",
	"Rock",
	"Classic Rock",
	"Adult Hits",
	"Soft Rock",
	"Top 40",
	"Country",
	"Oldies",
	"Soft",
	"Nostalgia",
	"Jazz",
	"Classical",
	"Rhythm and Blues",
	"Soft Rhythm and Blues",
	"Language",
	"Religious Music",
	"Religious Talk",
	"Personality",
	"Public",
	"College",
	"Unassigned 24",
	"Unassigned 25",
	"Unassigned 26",
	"Unassigned 27",
	"Unassigned 28",
	"Weather",
	"Emergency Test",
	"Emergency",
}

// RDS program types, EN 50067 Annex F.
var ptEU = [32]string{
	"No program type",
	"News",
	"Current Affairs",
	"Information",
	"Sport",
	"Education",
	"Drama",
	"Culture",
	"Science",
	"Varied",
	"Pop Music",
	"Rock Music",
	"M.O.R. Music",
	"Light Classical",
	"Serious Classical",
	"Other Music",
	"Weather",
	"Finance",
	"Children's Programs",
	"Social Affairs",
	"Religion",
	"Phone-In",
	"Travel",
	"Leisure",
	"Jazz Music",
	"Country Music",
	"National Music",
	"Oldies Music",
	"Folk Music",
	"Documentary",
	"Alarm test",
	"Alarm",
}
