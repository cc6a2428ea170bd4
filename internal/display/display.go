// Package display draws the tuned station on a terminal.
package display // import "github.com/bartgrantham/gofm-rds/internal/display"

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell"

	"github.com/bartgrantham/gofm-rds/rds"
)

// View is one frame worth of state.
type View struct {
	Channel   float64 // MHz, as tuned
	Actual    float64 // MHz, as reported by READCHAN
	RSSI      int
	Stereo    bool
	Ready     bool // RDSR on this poll
	Record    rds.Record
	Candidate [rds.NameLength]byte
}

type Display struct {
	scr    tcell.Screen
	region rds.Region

	big, medium *Font // nil draws plain text

	freqStyle tcell.Style
	callStyle tcell.Style
	dimStyle  tcell.Style
}

func New(scr tcell.Screen, region rds.Region, big, medium *Font) *Display {
	return &Display{
		scr:    scr,
		region: region,
		big:    big,
		medium: medium,
		freqStyle: tcell.StyleDefault.
			Foreground(tcell.ColorWhite).
			Background(tcell.ColorBlack).
			Bold(true),
		callStyle: tcell.StyleDefault,
		dimStyle:  tcell.StyleDefault.Dim(true),
	}
}

// Blank wipes the whole screen, used when the station starts a new text.
func (d *Display) Blank() {
	d.scr.Clear()
	d.scr.Show()
}

// Draw renders v, top to bottom, centered.
func (d *Display) Draw(v View) {
	w, _ := d.scr.Size()
	rec := v.Record
	y := 1

	freq := render(d.big, fmt.Sprintf("%.1f", v.Channel))
	y = d.block(y, w, freq, d.freqStyle)

	call := rec.CallSign
	if call == "" {
		call = "----"
	}
	y = d.block(y, w, render(d.medium, call), d.callStyle)

	y = d.block(y, w, []string{rec.ProgramTypeName(d.region)}, d.callStyle)
	y = d.block(y, w, []string{status(v)}, d.dimStyle)

	name := "(" + rec.NameString() + ")"
	if rec.NameString() == "" {
		name = "[" + string(v.Candidate[:]) + "]"
	}
	y = d.block(y, w, []string{name}, d.callStyle)

	rt := "- - - = = =  " + rec.TextString() + "  = = = - - -"
	y = d.block(y, w, []string{rt}, d.callStyle)

	if rec.HasClock {
		t := rec.Clock.Local()
		d.block(y, w, []string{t.Format("Mon Jan 2 15:04 -0700")}, d.dimStyle)
	}
	d.scr.Show()
}

// block clears the rows lines will occupy, draws them centered and returns
// the row after them plus one blank.
func (d *Display) block(y, w int, lines []string, style tcell.Style) int {
	width := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > width {
			width = n
		}
	}
	Clear(d.scr, 0, y, len(lines), w, ' ', style)
	DrawLines(d.scr, (w-width)/2, y, style, lines)
	return y + len(lines) + 1
}

func status(v View) string {
	flags := []string{fmt.Sprintf("%.1f", v.Actual), fmt.Sprintf("RSSI %3d", v.RSSI)}
	if v.Stereo {
		flags = append(flags, "Stereo")
	} else {
		flags = append(flags, "Mono  ")
	}
	mark := func(on bool, s string) {
		if !on {
			s = strings.Repeat(" ", len(s))
		}
		flags = append(flags, s)
	}
	rec := v.Record
	mark(v.Ready, "RDS")
	mark(rec.TrafficProgram, "TP")
	mark(rec.TrafficAnnouncement, "TA")
	mark(rec.Music, "M")
	mark(rec.Emergency, "ALERT")
	return strings.Join(flags, "  ")
}

func render(f *Font, s string) []string {
	if f == nil {
		return []string{s}
	}
	return f.Render(s)
}

// Clear fills an h by w rectangle at x, y with c.
func Clear(scr tcell.Screen, x, y, h, w int, c rune, style tcell.Style) {
	for j := y; j < y+h; j++ {
		for i := x; i < x+w; i++ {
			scr.SetContent(i, j, c, nil, style)
		}
	}
}

// DrawLines draws lines one under the other starting at x, y.
func DrawLines(scr tcell.Screen, x, y int, style tcell.Style, lines []string) {
	if x < 0 {
		x = 0
	}
	for j, line := range lines {
		i := 0
		for _, c := range line {
			scr.SetContent(x+i, y+j, c, nil, style)
			i++
		}
	}
}
