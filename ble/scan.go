package ble

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-ble/ble"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
)

func WrapContextWithSigHandler(ctx context.Context, cancel func()) context.Context {
	return ble.WithSigHandler(ctx, cancel)
}

// ScanWindow runs a scan for exactly `window` and returns one merged
// observation per distinct device address. The window elapsing is the normal
// exit and is not reported as an error.
func (h *Handle) ScanWindow(
	parentCtx context.Context,
	window time.Duration,
) ([]Observation, error) {
	ctx, cancel := context.WithTimeout(parentCtx, window)
	defer cancel()

	seen := make(map[string]Observation)

	// advertisement callbacks are serialized by the HCI event loop, so no
	// locking is needed around `seen`.
	err := h.dev.Scan(ctx, true, func(a ble.Advertisement) {
		o := observationFrom(a)

		if prev, ok := seen[o.Addr]; ok {
			o = prev.merge(o)
		}

		seen[o.Addr] = o

		log.Trace().
			Str("Addr", o.Addr).
			Str("Name", o.Name).
			Uint16("ManufacturerID", o.ManufacturerID).
			Hex("ManufacturerPayload", o.ManufacturerPayload).
			Strs("Services", o.ServiceStrings()).
			Msg("ble: received advertisement")
	})

	if err != nil &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}

	if parentCtx.Err() != nil {
		return nil, parentCtx.Err()
	}

	return maps.Values(seen), nil
}
