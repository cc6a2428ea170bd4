package display

import (
	"errors"
	"strings"
	"testing"
)

// testFont is two rows high: each glyph is the character twice, then a
// hardblank and the character.
func testFont() string {
	var sb strings.Builder
	sb.WriteString("flf2a$ 2 1 4 -1 1\n")
	sb.WriteString("test font\n")
	for _, c := range charorder[:95] {
		sb.WriteString(string(c) + string(c) + "@\n")
		sb.WriteString("$" + string(c) + "@@\n")
	}
	return sb.String()
}

func TestParseFont(t *testing.T) {
	f, err := ParseFont(strings.NewReader(testFont()))
	if err != nil {
		t.Fatalf("could not parse font: %+v", err)
	}
	if f.Height != 2 || f.Baseline != 1 {
		t.Fatalf("header: height=%d baseline=%d", f.Height, f.Baseline)
	}
	if len(f.chars) != 95 {
		t.Fatalf("got %d glyphs, want 95", len(f.chars))
	}

	got := f.Render("A1\x00Z")
	want := []string{"AA11", " A 1"}
	if len(got) != len(want) {
		t.Fatalf("got=%q, want=%q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got=%q, want=%q", got, want)
		}
	}

	// missing glyphs are skipped
	if got := f.Render("Ä"); got[0] != "" {
		t.Fatalf("got=%q for a missing glyph", got)
	}
}

func TestParseFontErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		doc  string
		want error
	}{
		{"empty", "", ErrParse},
		{"not figlet", "tlf2a$ 2 1 4 -1 0\n", ErrParse},
		{"short header", "flf2a$ 2 1\n", ErrParse},
		{"bad number", "flf2a$ 2 x 4 -1 0\n", ErrParse},
		{"no glyphs", "flf2a$ 2 1 4 -1 0\nAA@\n", ErrInvalidFont},
		{"zero height", "flf2a$ 0 1 4 -1 0\n", ErrInvalidFont},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFont(strings.NewReader(tc.doc))
			if !errors.Is(err, tc.want) {
				t.Fatalf("got=%v, want=%v", err, tc.want)
			}
		})
	}
}
