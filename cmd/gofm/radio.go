package main

import (
	"context"
	"time"

	"github.com/gdamore/tcell"

	"github.com/bartgrantham/gofm-rds/internal/capture"
	"github.com/bartgrantham/gofm-rds/internal/config"
	"github.com/bartgrantham/gofm-rds/internal/display"
	"github.com/bartgrantham/gofm-rds/internal/metrics"
	"github.com/bartgrantham/gofm-rds/internal/si4703"
	"github.com/bartgrantham/gofm-rds/rds"
)

// radio owns the decoder; everything in it runs on the loop goroutine.
type radio struct {
	cfg     *config.Config
	dev     *si4703.Device
	src     rds.Source
	capture *capture.Writer // nil when not recording
	dec     *rds.Decoder
	stats   *metrics.Recorder
	disp    *display.Display
	channel float64
}

func (r *radio) loop(ctx context.Context, scr tcell.Screen) error {
	events := make(chan tcell.Event, 1)
	go func() {
		for {
			ev := scr.PollEvent()
			if ev == nil {
				return // screen finalized
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	scr.Clear()
	tick := time.NewTicker(r.cfg.Tuner.Rate())
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch ev.Key() {
				case tcell.KeyCtrlC, tcell.KeyEscape:
					return nil
				case tcell.KeyUp:
					if err := r.tune(ctx, step(r.channel, +1)); err != nil {
						return err
					}
				case tcell.KeyDown:
					if err := r.tune(ctx, step(r.channel, -1)); err != nil {
						return err
					}
				}
			case *tcell.EventResize:
				scr.Sync()
			}
		case <-tick.C:
			if err := r.poll(); err != nil {
				return err
			}
		}
	}
}

// poll reads the chip once, decodes if a group is ready and redraws.
func (r *radio) poll() error {
	s, err := r.src.Blocks()
	if err != nil {
		return err
	}
	if s.Ready() {
		r.dec.Update(s)
	}
	if r.dec.ClearScreen() {
		r.disp.Blank()
	}

	rec := r.dec.Record()
	r.stats.Observe(r.dec.Stats(), rec)
	r.stats.Tuner(r.dev.Channel(), r.dev.RSSI(), r.dev.Stereo())
	r.disp.Draw(display.View{
		Channel:   r.channel,
		Actual:    r.dev.Channel(),
		RSSI:      r.dev.RSSI(),
		Stereo:    r.dev.Stereo(),
		Ready:     s.Ready(),
		Record:    rec,
		Candidate: r.dec.Candidate(),
	})
	return nil
}

// tune retunes and forgets everything decoded for the old station.
func (r *radio) tune(ctx context.Context, mhz float64) error {
	if err := r.dev.SetChannel(ctx, mhz); err != nil {
		return err
	}
	r.channel = mhz
	r.dec.Reset()
	if r.capture != nil {
		return r.capture.Retune(mhz)
	}
	return nil
}

// step moves one channel up or down the band, wrapping at the edges.
func step(mhz float64, dir int) float64 {
	mhz += float64(dir) * si4703.Spacing
	switch {
	case mhz > si4703.BandTop+0.01:
		return si4703.BandBottom
	case mhz < si4703.BandBottom-0.01:
		return si4703.BandTop
	}
	return mhz
}
