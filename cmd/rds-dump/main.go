// Command rds-dump decodes a capture recorded by gofm.
//
// Usage:
//
//	rds-dump [-config gofm.yaml] [-v] [capture ...]
//
// With no files the capture is read from stdin. Every time the station name
// or radiotext changes a line is printed, then a summary of the station.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/bartgrantham/gofm-rds/internal/capture"
	"github.com/bartgrantham/gofm-rds/internal/config"
	"github.com/bartgrantham/gofm-rds/rds"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "YAML configuration file, for the rds section")
		verbose = flag.Bool("v", false, "print every decoded group")
	)
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("rds-dump: ")

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatal(err)
		}
	}

	d := &dumper{
		out:     os.Stdout,
		dec:     rds.New(cfg.RDS.Decoder()),
		region:  cfg.RDS.ProgramRegion(),
		verbose: *verbose,
	}

	if err := d.run(flag.Args(), os.Stdin); err != nil {
		log.Fatal(err)
	}
	d.summary()
}

type dumper struct {
	out     io.Writer
	dec     *rds.Decoder
	region  rds.Region
	verbose bool

	groups int
	name   string
	text   string
}

// run dumps every file in turn, or stdin when there are none. Each file is
// taken to start on a station of its own.
func (d *dumper) run(paths []string, stdin io.Reader) error {
	if len(paths) == 0 {
		return d.dump(capture.NewReader(stdin))
	}
	for i, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		if i > 0 {
			d.retune("file " + path)
		}
		err = d.dump(capture.NewReader(f))
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// dump decodes r until it is exhausted.
func (d *dumper) dump(r *capture.Reader) error {
	for {
		s, err := r.Blocks()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, capture.ErrRetune) {
			d.retune(fmt.Sprintf("tuned %.1f", r.Channel()))
			continue
		}
		if err != nil {
			return err
		}
		if !s.Ready() {
			continue
		}
		d.groups++
		if !d.dec.Update(s) {
			continue
		}
		if d.verbose {
			c := rds.Classify(s)
			fmt.Fprintf(d.out, "[%6d] %-3s %s  %s\n", d.groups, c, capture.Format(s), c.Description())
		}

		rec := d.dec.Record()
		if n := rec.NameString(); n != d.name {
			d.name = n
			fmt.Fprintf(d.out, "[%6d] %04X name %q\n", d.groups, rec.PI, n)
		}
		if t := rec.TextString(); t != d.text {
			d.text = t
			fmt.Fprintf(d.out, "[%6d] %04X text %q\n", d.groups, rec.PI, t)
		}
	}
}

// retune forgets the previous station.
func (d *dumper) retune(why string) {
	d.dec.Reset()
	d.name, d.text = "", ""
	fmt.Fprintf(d.out, "[%6d] %s\n", d.groups, why)
}

func (d *dumper) summary() {
	rec := d.dec.Record()
	st := d.dec.Stats()

	tw := tabwriter.NewWriter(d.out, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "PI\t%04X\t%s\n", rec.PI, rec.CallSign)
	fmt.Fprintf(tw, "Program\t%d\t%s\n", rec.ProgramType, rec.ProgramTypeName(d.region))
	fmt.Fprintf(tw, "Name\t%q\t\n", rec.NameString())
	fmt.Fprintf(tw, "Text\t%q\t\n", rec.TextString())
	fmt.Fprintf(tw, "Flags\t%s\t\n", flags(rec))
	if len(rec.AltFreqs) > 0 {
		af := make([]string, len(rec.AltFreqs))
		for i, f := range rec.AltFreqs {
			af[i] = fmt.Sprintf("%.1f", f)
		}
		fmt.Fprintf(tw, "AF\t%s\t\n", strings.Join(af, " "))
	}
	if rec.ProgramItem.Day != 0 {
		pi := rec.ProgramItem
		fmt.Fprintf(tw, "PIN\tday %d %02d:%02d\t\n", pi.Day, pi.Hour, pi.Minute)
	}
	if rec.HasClock {
		fmt.Fprintf(tw, "Clock\t%s\t\n", rec.Clock.Local().Format("2006-01-02 15:04 -0700"))
	}
	fmt.Fprintf(tw, "Groups\t%d\tunsynced %d, gated %d, noise %d, resets %d\n",
		st.Polls, st.Unsynced, st.Gated, st.Noise, st.Resets)
	fmt.Fprintf(tw, "Name\t%d accepted\t%d cycles, %d restarts, %d exhausted\n",
		st.NameAccepted, st.NameCycles, st.NameRestarts, st.NameExhausted)
	fmt.Fprintf(tw, "Text\t%d sweeps\t%d clears\n", st.TextSweeps, st.TextClears)
}

func flags(rec rds.Record) string {
	var out []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{rec.TrafficProgram, "TP"},
		{rec.TrafficAnnouncement, "TA"},
		{rec.Music, "music"},
		{rec.Stereo, "stereo"},
		{rec.ArtificialHead, "artificial-head"},
		{rec.Compressed, "compressed"},
		{rec.DynamicPTY, "dynamic-pty"},
		{rec.Emergency, "EMERGENCY"},
	} {
		if f.on {
			out = append(out, f.name)
		}
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, " ")
}
