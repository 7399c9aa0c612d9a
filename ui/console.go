// Package ui renders scan results to a terminal. It runs on its own
// goroutine and only ever reacts to updates handed over by the scan loop;
// it holds no reference back into it.
package ui

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"

	"github.com/stefanwb/go-buds-monitor/device"
	"github.com/stefanwb/go-buds-monitor/device/airpods"
	"github.com/stefanwb/go-buds-monitor/scanner"
)

const gaugeWidth = 20

type Console struct {
	out io.Writer

	title *color.Color
	dim   *color.Color
	good  *color.Color
	warn  *color.Color
	low   *color.Color
	na    *color.Color
}

func NewConsole(out io.Writer, noColor bool) *Console {
	c := &Console{
		out:   out,
		title: color.New(color.Bold),
		dim:   color.New(color.Faint),
		good:  color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		low:   color.New(color.FgRed),
		na:    color.New(color.FgHiBlack),
	}

	if noColor {
		for _, c := range []*color.Color{c.title, c.dim, c.good, c.warn, c.low, c.na} {
			c.DisableColor()
		}
	}

	return c
}

// Run consumes updates until the context is cancelled or the channel is
// closed.
func (c *Console) Run(ctx context.Context, updates <-chan scanner.Update) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}

			if update.HasSnapshot {
				c.renderSnapshot(update.Snapshot)
			} else {
				c.renderStatus(update.Status)
			}
		}
	}
}

func (c *Console) renderStatus(status string) {
	c.dim.Fprintf(c.out, "-- %s\n", status)
}

func (c *Console) renderSnapshot(snap scanner.Snapshot) {
	names := maps.Keys(snap)
	slices.Sort(names)

	for _, name := range names {
		c.title.Fprintln(c.out, name)

		switch payload := snap[name].Payload.(type) {
		case device.EarbudsData:
			batteries, err := airpods.Decode(payload.Raw)

			if err != nil {
				log.Warn().
					Err(err).
					Str("Device", name).
					Msg("ui: failed to decode earbuds battery data")
				fmt.Fprintln(c.out, "  battery data unavailable")
				continue
			}

			for _, reading := range batteries.Components() {
				c.renderGauge(reading)
			}
		case device.StandardBattery:
			fmt.Fprintf(c.out, "  Standard battery device detected. (%s)\n", payload.Addr)
		}
	}
}

func (c *Console) renderGauge(r device.BatteryReading) {
	if !r.HasLevel {
		bar := strings.Repeat("░", gaugeWidth)
		c.na.Fprintf(c.out, "  %-5s [%s]  N/A\n", r.Component, bar)
		return
	}

	filled := int(r.Level) * gaugeWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", gaugeWidth-filled)

	c.levelColor(r.Level).Fprintf(c.out, "  %-5s [%s] %3d%%\n", r.Component, bar, r.Level)
}

func (c *Console) levelColor(level uint8) *color.Color {
	switch {
	case level > 50:
		return c.good
	case level > 20:
		return c.warn
	default:
		return c.low
	}
}
