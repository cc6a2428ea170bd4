// Package si4703 drives a Silicon Labs Si4703 FM tuner over I2C and exposes
// its RDS registers as an rds.Source.
package si4703 // import "github.com/bartgrantham/gofm-rds/internal/si4703"

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c"

	"github.com/bartgrantham/gofm-rds/rds"
)

var (
	ErrInvalidReg  = errors.New("si4703: invalid register")
	ErrInvalidFreq = errors.New("si4703: invalid frequency")
	ErrTimeout     = errors.New("si4703: timeout")
)

// DefaultAddr is the fixed I2C address of the chip.
const DefaultAddr = 0x10

const (
	// registers 0..1 are read-only
	DEVICEID = iota
	CHIPID
	// registers 2..7 are read-write
	POWERCFG
	CHANNEL
	SYSCONFIG1
	SYSCONFIG2
	SYSCONFIG3
	OSCILLATOR

	// no registers 8, 9 ; registers a..f are read-only
	_
	_
	STATUSRSSI
	READCHAN
	RDSA
	RDSB
	RDSC
	RDSD
)

// register bits
const (
	powerDMute   = 0x4000 // POWERCFG: 1 disables mute
	powerRDSM    = 0x0800 // POWERCFG: RDS verbose mode
	powerDisable = 0x0040
	powerEnable  = 0x0001

	channelTune = 0x8000

	sys1RDS = 0x1000 // SYSCONFIG1: RDS enable

	sys3VolExt = 0x0100 // SYSCONFIG3: extended (quieter) volume range

	oscXOSCEN = 0x8100

	statusRDSR = 0x8000
	statusSTC  = 0x4000
	statusRDSS = 0x0800
	statusST   = 0x0100

	readChanMask = 0x03ff
)

// Band limits, US/Europe band with 200kHz spacing.
const (
	BandBottom = 87.5
	BandTop    = 107.9
	Spacing    = 0.2
)

// Device is one Si4703. All methods are safe for concurrent use.
type Device struct {
	mu      sync.Mutex
	dev     i2c.Dev
	reg     [16]uint16
	verbose bool
}

// New wraps the chip at addr on bus and reads its registers once.
func New(bus i2c.Bus, addr uint16) (*Device, error) {
	d := &Device{
		dev: i2c.Dev{Bus: bus, Addr: addr},
	}
	if err := d.Read(); err != nil {
		return nil, fmt.Errorf("si4703: initial read: %w", err)
	}
	return d, nil
}

func (d *Device) String() string {
	return "Si4703"
}

// Read refreshes the register cache. The chip always starts reads at
// register 0x0A and wraps around after 0x0F.
func (d *Device) Read() error {
	buf := make([]byte, 32)
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.read(buf)
}

func (d *Device) read(buf []byte) error {
	if err := d.dev.Tx(nil, buf); err != nil {
		return err
	}
	for i := 0; i < 16; i++ {
		// (i+10) % 16 == 10, 11, 12, 13, 14, 15, 0, 1....
		d.reg[(i+10)%16] = uint16(buf[i*2])<<8 | uint16(buf[i*2+1])
	}
	return nil
}

// Reg returns the cached value of a register.
func (d *Device) Reg(reg int) uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reg[reg&0xf]
}

// Set writes val into a read-write register (2..7). Writes always start at
// register 2, so the whole writable range is sent back from the cache.
func (d *Device) Set(reg int, val uint16) error {
	if reg < POWERCFG || reg > OSCILLATOR {
		return ErrInvalidReg
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	rbuf := make([]byte, 32)
	if err := d.read(rbuf); err != nil {
		return err
	}

	buf := make([]byte, 12)
	for i := POWERCFG; i <= OSCILLATOR; i++ {
		v := d.reg[i]
		if i == reg {
			v = val
		}
		// big-endian: high byte comes first
		buf[(i-POWERCFG)*2] = byte(v >> 8)
		buf[(i-POWERCFG)*2+1] = byte(v & 0xff)
	}

	n, err := d.dev.Write(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return io.ErrShortWrite
	}
	return d.read(rbuf)
}

func (d *Device) update(reg int, f func(uint16) uint16) error {
	return d.Set(reg, f(d.Reg(reg)))
}

// PowerUp starts the oscillator, enables the chip unmuted and turns on RDS.
// Verbose RDS mode makes the chip report sync and per-block error counts.
func (d *Device) PowerUp(ctx context.Context, verbose bool) error {
	if err := d.Set(OSCILLATOR, oscXOSCEN); err != nil {
		return fmt.Errorf("si4703: oscillator: %w", err)
	}
	// crystal power up
	if err := sleep(ctx, 500*time.Millisecond); err != nil {
		return err
	}

	power := uint16(powerDMute | powerEnable)
	if verbose {
		power |= powerRDSM
	}
	if err := d.Set(POWERCFG, power); err != nil {
		return fmt.Errorf("si4703: enable: %w", err)
	}
	if err := sleep(ctx, 110*time.Millisecond); err != nil {
		return err
	}

	if err := d.update(SYSCONFIG1, func(v uint16) uint16 { return v | sys1RDS }); err != nil {
		return fmt.Errorf("si4703: rds enable: %w", err)
	}
	d.mu.Lock()
	d.verbose = verbose
	d.mu.Unlock()
	return nil
}

// Disable powers the chip down.
func (d *Device) Disable() error {
	return d.update(POWERCFG, func(v uint16) uint16 { return v | powerDisable })
}

/*
Changing the channel, AFAICT:

1. mask off the old channel bits (lower 10 bits)
2. set channel | TUNE
3. send register update
4. wait for STATUSRSSI & STC
5. clear TUNE
*/
func (d *Device) SetChannel(ctx context.Context, mhz float64) error {
	if mhz < BandBottom || mhz > BandTop+0.01 {
		return ErrInvalidFreq
	}
	// 0 == 87.5 ... 5 == 88.5 ... 101 == 107.7 ... 102 == 107.9
	ch := uint16((mhz-BandBottom)/Spacing + 0.5)

	err := d.update(CHANNEL, func(v uint16) uint16 {
		return v&0xfc00 | ch | channelTune
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	for d.Reg(STATUSRSSI)&statusSTC == 0 {
		if err := sleep(ctx, 40*time.Millisecond); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("tuning %.1f: %w", mhz, ErrTimeout)
			}
			return err
		}
		if err := d.Read(); err != nil {
			return err
		}
	}

	return d.update(CHANNEL, func(v uint16) uint16 { return v &^ channelTune })
}

// Channel returns the frequency the chip is tuned to, in MHz.
func (d *Device) Channel() float64 {
	return BandBottom + Spacing*float64(d.Reg(READCHAN)&readChanMask)
}

// RSSI returns the received signal strength in dBµV.
func (d *Device) RSSI() int {
	return int(d.Reg(STATUSRSSI) & 0xff)
}

// Stereo reports the stereo pilot indicator.
func (d *Device) Stereo() bool {
	return d.Reg(STATUSRSSI)&statusST == statusST
}

// Mute switches the audio mute. 0x4000 is the _disable mute_ flag.
func (d *Device) Mute(on bool) error {
	return d.update(POWERCFG, func(v uint16) uint16 {
		if on {
			return v &^ powerDMute
		}
		return v | powerDMute
	})
}

// Volume sets the volume, 0..31. The lower half uses the extended range.
func (d *Device) Volume(v int) error {
	if v < 0 {
		v = 0
	} else if v > 31 {
		v = 31
	}
	ext := d.Reg(SYSCONFIG3)&sys3VolExt == sys3VolExt
	newext := v&0x10 == 0 // volext == 1 means LOWER volume
	vol := uint16(v & 0x0f)

	setVol := func() error {
		return d.update(SYSCONFIG2, func(r uint16) uint16 { return r&0xfff0 | vol })
	}
	setExt := func() error {
		return d.update(SYSCONFIG3, func(r uint16) uint16 {
			if newext {
				return r | sys3VolExt
			}
			return r &^ sys3VolExt
		})
	}

	switch {
	case ext && !newext:
		// quiet -> loud: set volume, then clear volext
		if err := setVol(); err != nil {
			return err
		}
		return setExt()
	case !ext && newext:
		// loud -> quiet: set volext, then set volume
		if err := setExt(); err != nil {
			return err
		}
		return setVol()
	default:
		return setVol()
	}
}

// Blocks reads the chip and returns its RDS registers.
//
// In standard mode the chip only raises RDSR for groups it considers clean
// and reports neither RDSS nor BLERB-D; sync is then taken from RDSR and the
// error counts are reported as zero.
func (d *Device) Blocks() (rds.RawBlockSet, error) {
	buf := make([]byte, 32)
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.read(buf); err != nil {
		return rds.RawBlockSet{}, err
	}
	s := rds.RawBlockSet{
		A:      d.reg[RDSA],
		B:      d.reg[RDSB],
		C:      d.reg[RDSC],
		D:      d.reg[RDSD],
		Status: d.reg[STATUSRSSI],
		Errors: d.reg[READCHAN] &^ readChanMask,
	}
	if !d.verbose {
		s.Status &^= 0x0600
		s.Errors = 0
		if s.Status&statusRDSR == statusRDSR {
			s.Status |= statusRDSS
		} else {
			s.Status &^= statusRDSS
		}
	}
	return s, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
