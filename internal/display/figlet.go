package display

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// See: figfont.txt

var (
	ErrInvalidFont = errors.New("invalid FIGfont")
	ErrParse       = errors.New("couldn't parse FIGfont")
)

// required characters, in file order: ASCII 32-126 then the Deutsch set
var charorder = []rune(` !"#$%&'()*+,-./` + `0123456789:;<=>?` + `@ABCDEFGHIJKLMNO` +
	`PQRSTUVWXYZ[\]^_` + "`abcdefghijklmno" + "pqrstuvwxyz{|}~" +
	"ÄÖÜäöüß")

// Font is a FIGlet font. Only the required characters are loaded and no
// smushing is done: glyphs are laid side by side.
type Font struct {
	Name      string
	Height    int
	Baseline  int
	hardblank byte
	comments  int
	chars     map[rune][]string
}

func (f *Font) String() string {
	return f.Name
}

// LoadFont reads a .flf file.
func LoadFont(path string) (*Font, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	f, err := ParseFont(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Name = strings.TrimSuffix(path[strings.LastIndexByte(path, '/')+1:], ".flf")
	return f, nil
}

// ParseFont reads a FIGfont. A font that stops before the Deutsch
// characters is accepted.
func ParseFont(r io.Reader) (*Font, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrParse
	}

	header := strings.Fields(lines[0])
	if len(header) < 6 || len(header[0]) < 6 || header[0][:5] != "flf2a" {
		return nil, ErrParse
	}
	var params []int
	for _, s := range header[1:] {
		i, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: header %q", ErrParse, s)
		}
		params = append(params, i)
	}

	f := &Font{
		hardblank: header[0][5],
		Height:    params[0],
		Baseline:  params[1],
		comments:  params[4],
		chars:     map[rune][]string{},
	}
	if f.Height < 1 {
		return nil, ErrInvalidFont
	}

	for i, c := range charorder {
		idx := 1 + f.comments + i*f.Height
		if idx+f.Height > len(lines) {
			break
		}
		for j := 0; j < f.Height; j++ {
			line := lines[idx+j]
			if line == "" {
				return nil, fmt.Errorf("%w: empty line for %q", ErrInvalidFont, c)
			}
			f.chars[c] = append(f.chars[c], strings.TrimRight(line, line[len(line)-1:]))
		}
	}
	if len(f.chars) == 0 {
		return nil, ErrInvalidFont
	}
	return f, nil
}

// Render returns Height lines spelling s. Characters missing from the font
// are skipped and rendering stops at a NUL.
func (f *Font) Render(s string) []string {
	out := make([]string, f.Height)
	blank := string([]byte{f.hardblank})
	for _, c := range s {
		if c == 0 {
			break
		}
		fig, ok := f.chars[c]
		if !ok {
			continue
		}
		for i := range out {
			out[i] += strings.ReplaceAll(fig[i], blank, " ")
		}
	}
	for i := range out {
		out[i] = strings.TrimRight(out[i], " ")
	}
	return out
}
