// Command gofm is an FM radio with an RDS display for a Si4703 on a
// Raspberry Pi.
//
// Up and Down retune by one channel, Ctrl-C quits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell"
	"golang.org/x/sync/errgroup"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/pin/pinreg"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/rpi"

	"github.com/bartgrantham/gofm-rds/internal/capture"
	"github.com/bartgrantham/gofm-rds/internal/config"
	"github.com/bartgrantham/gofm-rds/internal/display"
	"github.com/bartgrantham/gofm-rds/internal/metrics"
	"github.com/bartgrantham/gofm-rds/internal/si4703"
	"github.com/bartgrantham/gofm-rds/rds"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "YAML configuration file")
		channel = flag.Float64("channel", 0, "initial channel in MHz, overrides the config")
	)
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	if *channel != 0 {
		cfg.Tuner.Channel = *channel
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("couldn't initialize peripherals: %w", err)
	}
	if !rpi.Present() {
		log.Print("not running on a Raspberry Pi, pin names may differ")
	}

	bus, err := i2creg.Open(cfg.I2C.Bus)
	if err != nil {
		return fmt.Errorf("couldn't initialize i2c bus: %w", err)
	}
	defer bus.Close()

	if p, ok := bus.(i2c.Pins); ok {
		_, scl := pinreg.Position(p.SCL())
		_, sda := pinreg.Position(p.SDA())
		log.Printf("using i2c %s: %s pin %d, %s pin %d", bus, p.SCL(), scl, p.SDA(), sda)
	}

	if cfg.I2C.ResetPin != "" {
		if err := reset(ctx, cfg.I2C.ResetPin); err != nil {
			return err
		}
	}

	dev, err := si4703.New(bus, cfg.I2C.Addr)
	if err != nil {
		return err
	}
	log.Print("initializing...")
	if err := dev.PowerUp(ctx, cfg.Tuner.Verbose); err != nil {
		return err
	}
	defer dev.Disable()
	if err := dev.Volume(cfg.Tuner.Volume); err != nil {
		return err
	}
	if err := dev.SetChannel(ctx, cfg.Tuner.Channel); err != nil {
		return err
	}

	var rec *capture.Writer
	var src rds.Source = dev
	if cfg.Capture.Path != "" {
		f, err := os.OpenFile(cfg.Capture.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("couldn't open capture: %w", err)
		}
		defer f.Close()
		rec = capture.NewWriter(f)
		defer rec.Flush()
		rec.Comment("gofm %s", time.Now().Format(time.RFC3339))
		// recordings are appended to, a new run may be on another station
		if err := rec.Retune(cfg.Tuner.Channel); err != nil {
			return fmt.Errorf("couldn't write capture: %w", err)
		}
		src = capture.Tee{Src: dev, W: rec}
	}

	big, err := font(cfg.Display.BigFont)
	if err != nil {
		return err
	}
	medium, err := font(cfg.Display.MediumFont)
	if err != nil {
		return err
	}

	stats := metrics.New()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", stats.Handler())
		srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: mux}
		g.Go(func() error {
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdown, done := context.WithTimeout(context.Background(), time.Second)
			defer done()
			return srv.Shutdown(shutdown)
		})
	}

	r := &radio{
		cfg:     cfg,
		dev:     dev,
		src:     src,
		capture: rec,
		dec:     rds.New(cfg.RDS.Decoder()),
		stats:   stats,
		channel: cfg.Tuner.Channel,
	}
	g.Go(func() error {
		defer cancel()
		scr, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("couldn't open screen: %w", err)
		}
		if err := scr.Init(); err != nil {
			return fmt.Errorf("couldn't init screen: %w", err)
		}
		defer scr.Fini()
		r.disp = display.New(scr, cfg.RDS.ProgramRegion(), big, medium)
		return r.loop(ctx, scr)
	})

	return g.Wait()
}

// reset pulses the chip's RST line. With SDIO held low this also selects
// the 2-wire interface.
func reset(ctx context.Context, name string) error {
	p := gpioreg.ByName(name)
	if p == nil {
		return fmt.Errorf("no such reset pin %q", name)
	}
	if err := p.Out(gpio.Low); err != nil {
		return fmt.Errorf("reset %s: %w", p, err)
	}
	if err := sleepCtx(ctx, 100*time.Millisecond); err != nil {
		return err
	}
	if err := p.Out(gpio.High); err != nil {
		return fmt.Errorf("reset %s: %w", p, err)
	}
	return sleepCtx(ctx, 100*time.Millisecond)
}

func font(path string) (*display.Font, error) {
	if path == "" {
		return nil, nil
	}
	return display.LoadFont(path)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
