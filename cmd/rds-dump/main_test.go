package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bartgrantham/gofm-rds/internal/capture"
	"github.com/bartgrantham/gofm-rds/rds"
)

// nameCapture is n cycles of group 0A carrying name, as gofm records them.
func nameCapture(pi uint16, name string, n int) string {
	var sb strings.Builder
	sb.WriteString("# gofm tuned 90.3\n")
	for i := 0; i < n; i++ {
		for seg := 0; seg < 4; seg++ {
			d := uint16(name[2*seg])<<8 | uint16(name[2*seg+1])
			// TP, PTY 9
			fmt.Fprintf(&sb, "%04X %04X E0CD %04X\n", pi, 0x0520|seg, d)
		}
		// polled before the next group was ready
		fmt.Fprintf(&sb, "%04X 0000 0000 0000 0800 0000\n", pi)
	}
	return sb.String()
}

func TestDump(t *testing.T) {
	var out bytes.Buffer
	d := &dumper{
		out: &out,
		dec: rds.New(rds.Config{}),
	}
	if err := d.dump(capture.NewReader(strings.NewReader(nameCapture(0x4d43, "KEXP FM ", 8)))); err != nil {
		t.Fatalf("could not dump: %+v", err)
	}
	if d.groups != 32 {
		t.Fatalf("got %d groups, want 32", d.groups)
	}
	if got := strings.Count(out.String(), "name "); got != 1 {
		t.Fatalf("name printed %d times:\n%s", got, out.String())
	}
	if !strings.Contains(out.String(), `4D43 name "KEXP FM"`) {
		t.Fatalf("name not printed:\n%s", out.String())
	}

	out.Reset()
	d.summary()
	for _, want := range []string{"4D43", "Top 40", `"KEXP FM"`, "TP", "1 accepted"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("summary missing %q:\n%s", want, out.String())
		}
	}
}

func TestDumpVerbose(t *testing.T) {
	var out bytes.Buffer
	d := &dumper{
		out:     &out,
		dec:     rds.New(rds.Config{}),
		verbose: true,
	}
	if err := d.dump(capture.NewReader(strings.NewReader(nameCapture(0x4d43, "KEXP FM ", 1)))); err != nil {
		t.Fatalf("could not dump: %+v", err)
	}
	if got := strings.Count(out.String(), " 0A "); got != 4 {
		t.Fatalf("got %d group lines, want 4:\n%s", got, out.String())
	}
}

func TestDumpSyntaxError(t *testing.T) {
	d := &dumper{out: &bytes.Buffer{}, dec: rds.New(rds.Config{})}
	err := d.dump(capture.NewReader(strings.NewReader("4D43 0520 E0CD\n")))
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("got=%v, want a line 1 error", err)
	}
}

// two groups 2A from another station, not enough for a name or a text
const otherStation = "54A8 2000 4E4F 5720\n54A8 2001 4F4E 2041\n"

func TestDumpRetune(t *testing.T) {
	var out bytes.Buffer
	d := &dumper{out: &out, dec: rds.New(rds.Config{})}
	capt := nameCapture(0x4d43, "KEXP FM ", 8) + "# tuned 99.1\n" + otherStation
	if err := d.dump(capture.NewReader(strings.NewReader(capt))); err != nil {
		t.Fatalf("could not dump: %+v", err)
	}

	rec := d.dec.Record()
	if rec.PI != 0x54a8 {
		t.Fatalf("PI: got=%04X, want=54A8", rec.PI)
	}
	if n := rec.NameString(); n != "" {
		t.Fatalf("name carried over the retune: %q", n)
	}
	if c := d.dec.Candidate(); string(c[:]) != "        " {
		t.Fatalf("candidate carried over the retune: %q", c)
	}
	if got := d.dec.Stats().Resets; got != 1 {
		t.Fatalf("resets: got=%d, want=1", got)
	}
	if !strings.Contains(out.String(), "[    32] tuned 99.1") {
		t.Fatalf("retune not printed:\n%s", out.String())
	}
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "kexp.txt")
	second := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(first, []byte(nameCapture(0x4d43, "KEXP FM ", 8)), 0o644); err != nil {
		t.Fatalf("could not write capture: %+v", err)
	}
	if err := os.WriteFile(second, []byte(otherStation), 0o644); err != nil {
		t.Fatalf("could not write capture: %+v", err)
	}

	var out bytes.Buffer
	d := &dumper{out: &out, dec: rds.New(rds.Config{})}
	if err := d.run([]string{first, second}, nil); err != nil {
		t.Fatalf("could not run: %+v", err)
	}
	if n := d.dec.Record().NameString(); n != "" {
		t.Fatalf("name carried over to the next file: %q", n)
	}
	if !strings.Contains(out.String(), "file "+second) {
		t.Fatalf("file boundary not printed:\n%s", out.String())
	}

	if err := d.run([]string{filepath.Join(dir, "missing.txt")}, nil); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestRunStdin(t *testing.T) {
	d := &dumper{out: &bytes.Buffer{}, dec: rds.New(rds.Config{})}
	if err := d.run(nil, strings.NewReader(nameCapture(0x4d43, "KEXP FM ", 8))); err != nil {
		t.Fatalf("could not run: %+v", err)
	}
	if n := d.dec.Record().NameString(); n != "KEXP FM" {
		t.Fatalf("name: got=%q, want=%q", n, "KEXP FM")
	}
}
