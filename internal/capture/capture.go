// Package capture records and replays RDS block sets as text.
//
// A capture holds one group per line as hex words:
//
//	AAAA BBBB CCCC DDDD [SSSS EEEE]
//
// The optional last two words are the Status and Errors words; when they are
// missing the group is taken as synchronized and error free. Empty lines and
// lines starting with '#' are ignored, except the retune marker
//
//	# tuned 99.1
//
// after which every group belongs to the station on the new frequency.
package capture // import "github.com/bartgrantham/gofm-rds/internal/capture"

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/bartgrantham/gofm-rds/rds"
)

var (
	ErrSyntax = errors.New("capture: syntax error")

	// ErrRetune is returned by Reader.Blocks at a retune marker. Whatever
	// was decoded before it came from another station.
	ErrRetune = errors.New("capture: retune")
)

const retuneMarker = "tuned"

// status of a set recorded without status words: RDSR | RDSS
const defaultStatus = 0x8800

// Reader replays a capture. It implements rds.Source and returns io.EOF once
// the capture is exhausted.
type Reader struct {
	sc      *bufio.Scanner
	line    int
	channel float64
}

func NewReader(r io.Reader) *Reader {
	return &Reader{sc: bufio.NewScanner(r)}
}

// Blocks returns the next recorded set, or ErrRetune at a retune marker.
func (r *Reader) Blocks() (rds.RawBlockSet, error) {
	for r.sc.Scan() {
		r.line++
		txt := strings.TrimSpace(r.sc.Text())
		if txt == "" {
			continue
		}
		if strings.HasPrefix(txt, "#") {
			f := strings.Fields(txt[1:])
			if len(f) != 2 || f[0] != retuneMarker {
				continue
			}
			mhz, err := strconv.ParseFloat(f[1], 64)
			if err != nil {
				return rds.RawBlockSet{}, fmt.Errorf("line %d: %w: frequency %q", r.line, ErrSyntax, f[1])
			}
			r.channel = mhz
			return rds.RawBlockSet{}, ErrRetune
		}
		s, err := Parse(txt)
		if err != nil {
			return rds.RawBlockSet{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		return s, nil
	}
	if err := r.sc.Err(); err != nil {
		return rds.RawBlockSet{}, err
	}
	return rds.RawBlockSet{}, io.EOF
}

// Channel returns the frequency of the last retune marker, 0 before the
// first one.
func (r *Reader) Channel() float64 { return r.channel }

// Parse decodes a single capture line.
func Parse(line string) (rds.RawBlockSet, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 && len(fields) != 6 {
		return rds.RawBlockSet{}, fmt.Errorf("%w: want 4 or 6 words, got %d", ErrSyntax, len(fields))
	}
	var w [6]uint16
	w[4] = defaultStatus
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 16, 16)
		if err != nil {
			return rds.RawBlockSet{}, fmt.Errorf("%w: word %d %q", ErrSyntax, i+1, f)
		}
		w[i] = uint16(v)
	}
	return rds.RawBlockSet{
		A: w[0], B: w[1], C: w[2], D: w[3],
		Status: w[4],
		Errors: w[5],
	}, nil
}

// Format encodes s as a capture line, without the trailing newline.
func Format(s rds.RawBlockSet) string {
	return fmt.Sprintf("%04X %04X %04X %04X %04X %04X", s.A, s.B, s.C, s.D, s.Status, s.Errors)
}

// Writer records block sets. It is safe for concurrent use.
type Writer struct {
	mu sync.Mutex
	w  *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Comment writes a '#' line. Comments are ignored on replay.
func (w *Writer) Comment(format string, args ...interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintf(w.w, "# "+format+"\n", args...)
	return err
}

// Retune marks a frequency change. Readers report it as ErrRetune.
func (w *Writer) Retune(mhz float64) error {
	return w.Comment("%s %.1f", retuneMarker, mhz)
}

func (w *Writer) Write(s rds.RawBlockSet) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintln(w.w, Format(s))
	return err
}

func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Flush()
}

// Tee wraps a source so every set it returns is also recorded.
type Tee struct {
	Src rds.Source
	W   *Writer
}

func (t Tee) Blocks() (rds.RawBlockSet, error) {
	s, err := t.Src.Blocks()
	if err != nil {
		return s, err
	}
	if err := t.W.Write(s); err != nil {
		return s, fmt.Errorf("capture: %w", err)
	}
	return s, nil
}
