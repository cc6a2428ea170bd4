package rds

import (
	"strings"
	"testing"
)

const radiotext = "Now playing: The Beatles - Here Comes The Sun on Classic FM 1971"

func fragmentA(text string, seg int) []byte {
	return []byte(text[4*seg : 4*seg+4])
}

func fragmentB(text string, seg int) []byte {
	return []byte(text[2*seg : 2*seg+2])
}

func TestTextAccumulatorVersionA(t *testing.T) {
	if len(radiotext) != TextLength {
		t.Fatalf("bad fixture length %d", len(radiotext))
	}
	ta := NewTextAccumulator()
	for seg := 0; seg < 16; seg++ {
		if ev := ta.Add(VersionA, false, seg, fragmentA(radiotext, seg)); ev.Has(EventAccepted) {
			t.Fatalf("accepted before the sweep ended: seg=%d", seg)
		}
	}
	if got := ta.Accepted(); got != blankText {
		t.Fatalf("partial text exposed: %q", got[:])
	}
	ev := ta.Add(VersionA, false, 0, fragmentA(radiotext, 0))
	if !ev.Has(EventCycle | EventAccepted) {
		t.Fatalf("sweep not accepted: %b", ev)
	}
	if got := ta.Accepted(); string(got[:]) != radiotext {
		t.Fatalf("got=%q, want=%q", got[:], radiotext)
	}
}

func TestTextAccumulatorVersionB(t *testing.T) {
	const text = "Traffic on the A40 is heavy now."
	want := pad(text, TextLength)

	ta := NewTextAccumulator()
	for seg := 0; seg < 16; seg++ {
		ta.Add(VersionB, true, seg, fragmentB(text, seg))
	}
	ev := ta.Add(VersionB, true, 0, fragmentB(text, 0))
	if !ev.Has(EventAccepted) {
		t.Fatalf("sweep not accepted: %b", ev)
	}
	if got := ta.Accepted(); string(got[:]) != want {
		t.Fatalf("got=%q, want=%q", got[:], want)
	}
}

func TestTextAccumulatorOutOfOrder(t *testing.T) {
	ta := NewTextAccumulator()
	order := []int{0, 2, 1, 3, 5, 4, 6, 7, 9, 8, 10, 11, 13, 12, 14, 15}

	// 2->1 looks like a wrap: the sweep that started at segment 0 is
	// promoted there, with whatever it holds so far.
	for i, seg := range order {
		ev := ta.Add(VersionA, false, seg, fragmentA(radiotext, seg))
		if i == 2 && !ev.Has(EventAccepted) {
			t.Fatalf("early wrap not promoted: %b", ev)
		}
	}
	want := pad(radiotext[:4], 8) + radiotext[8:12]
	if got := ta.Accepted(); string(got[:12]) != want {
		t.Fatalf("first pass: got=%q, want=%q", got[:12], want)
	}

	// the second pass promotes on the same early wrap, by then every
	// segment is in place.
	for _, seg := range order {
		ta.Add(VersionA, false, seg, fragmentA(radiotext, seg))
	}
	if got := ta.Accepted(); string(got[:]) != radiotext {
		t.Fatalf("got=%q, want=%q", got[:], radiotext)
	}
}

func TestTextAccumulatorSweepMustStartAtZero(t *testing.T) {
	ta := NewTextAccumulator()
	for seg := 8; seg < 16; seg++ {
		ta.Add(VersionA, false, seg, fragmentA(radiotext, seg))
	}
	ev := ta.Add(VersionA, false, 0, fragmentA(radiotext, 0))
	if !ev.Has(EventCycle) || ev.Has(EventAccepted) {
		t.Fatalf("half sweep: got=%b", ev)
	}
	for seg := 1; seg < 16; seg++ {
		ta.Add(VersionA, false, seg, fragmentA(radiotext, seg))
	}
	if ev := ta.Add(VersionA, false, 0, fragmentA(radiotext, 0)); !ev.Has(EventAccepted) {
		t.Fatalf("full sweep not accepted: %b", ev)
	}
}

func TestTextAccumulatorCarriageReturn(t *testing.T) {
	ta := NewTextAccumulator()
	full := strings.Repeat("x", TextLength)
	for seg := 0; seg < 16; seg++ {
		ta.Add(VersionA, false, seg, fragmentA(full, seg))
	}
	ta.Add(VersionA, false, 0, []byte("Hell"))
	ta.Add(VersionA, false, 1, []byte("o\rxx"))
	ta.Add(VersionA, false, 0, []byte("Hell"))

	want := pad("Hello", TextLength)
	if got := ta.Accepted(); string(got[:]) != want {
		t.Fatalf("got=%q, want=%q", got[:], want)
	}
}

func TestTextAccumulatorToggle(t *testing.T) {
	ta := NewTextAccumulator()
	for seg := 0; seg < 4; seg++ {
		ta.Add(VersionA, false, seg, fragmentA(radiotext, seg))
	}
	ev := ta.Add(VersionA, true, 4, []byte("new "))
	if !ev.Has(EventCleared) {
		t.Fatalf("A/B toggle not detected: %b", ev)
	}
	got := ta.Working()
	if want := pad(strings.Repeat(" ", 16)+"new ", TextLength); string(got[:]) != want {
		t.Fatalf("working: got=%q, want=%q", got[:], want)
	}
	if ev := ta.Add(VersionB, true, 0, []byte("ab")); !ev.Has(EventCleared) {
		t.Fatalf("version change not detected: %b", ev)
	}
	if ev := ta.Add(VersionB, true, 1, []byte("cd")); ev.Has(EventCleared) {
		t.Fatalf("spurious clear: %b", ev)
	}
}

func TestTextAccumulatorBadFragment(t *testing.T) {
	ta := NewTextAccumulator()
	if ev := ta.Add(VersionA, false, 0, []byte("ab")); ev != 0 {
		t.Fatalf("short version A fragment stored: %b", ev)
	}
	if ev := ta.Add(VersionB, false, 0, []byte("abcd")); ev != 0 {
		t.Fatalf("long version B fragment stored: %b", ev)
	}
	ta.Add(VersionA, false, 0, []byte{'a', 0x01, 0xff, 'b'})
	if got := ta.Working(); string(got[:4]) != "a  b" {
		t.Fatalf("unprintable bytes kept: %q", got[:4])
	}
}

func TestTextAccumulatorReset(t *testing.T) {
	ta := NewTextAccumulator()
	for seg := 0; seg < 16; seg++ {
		ta.Add(VersionA, false, seg, fragmentA(radiotext, seg))
	}
	ta.Add(VersionA, false, 0, fragmentA(radiotext, 0))
	ta.Reset()
	if ta.Accepted() != blankText || ta.Working() != blankText {
		t.Fatalf("reset left text behind")
	}
	if ev := ta.Add(VersionA, true, 0, fragmentA(radiotext, 0)); ev.Has(EventCleared) {
		t.Fatalf("A/B flag survived reset")
	}
}
