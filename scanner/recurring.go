package scanner

import (
  "context"
  "fmt"
  "sync"
  "time"

  "github.com/rs/zerolog/log"

  "github.com/stefanwb/go-buds-monitor/ble"
  "github.com/stefanwb/go-buds-monitor/utils"
)

const (
  DefaultWindow = 5 * time.Second
  DefaultInterval = 15 * time.Second
)

const (
  statusScanning = "Scanning..."
  statusNoDevices = "No devices found. Retrying..."
  statusScanFailed = "Bluetooth scan failed. Retrying..."
)

// Scanner is the discovery collaborator: run a scan for the given window
// and return the accumulated observations.
type Scanner interface {
  ScanWindow(ctx context.Context, window time.Duration) ([]ble.Observation, error)
}

type Recurring struct {
  // How long each cycle listens for advertisements.
  Window time.Duration
  // How long the loop idles between cycles.
  Interval time.Duration

  scanner Scanner
  sinks []Sink

  snapshot Snapshot
  collectionTime time.Time
  mu sync.Mutex

  // scanner has been Start()ed
  started bool
}

func NewRecurring(s Scanner, sinks ...Sink) *Recurring {
  return &Recurring{
    Window: DefaultWindow,
    Interval: DefaultInterval,
    scanner: s,
    sinks: sinks,
  }
}

func (r *Recurring) update(snap Snapshot) {
  r.mu.Lock()
  defer r.mu.Unlock()

  if snap == nil {
    panic("attempted to set nil snapshot")
  }

  r.snapshot = snap
  r.collectionTime = time.Now()
}

// Latest returns the most recently published snapshot and the time it was
// collected. The time is zero before the first cycle completes. Safe to
// return directly as each cycle replaces the map instead of mutating it.
func (r *Recurring) Latest() (Snapshot, time.Time) {
  r.mu.Lock()
  defer r.mu.Unlock()

  return r.snapshot, r.collectionTime
}

func (r *Recurring) status(s string) {
  for _, sink := range r.sinks {
    sink.Status(s)
  }
}

func (r *Recurring) publish(snap Snapshot) {
  for _, sink := range r.sinks {
    sink.Publish(snap)
  }
}

// Start runs the scan cycle until ctx is cancelled: signal "scanning", run
// one listen window, classify and publish a fresh snapshot, signal the
// outcome, idle, repeat. Scan failures and empty windows both publish an
// empty snapshot and proceed to the next cycle on the same cadence; no
// error is ever fatal to the loop.
func (r *Recurring) Start(ctx context.Context) error {
  if r.started {
    panic("attempted to call scanner.Recurring.Start() twice")
  }

  r.started = true

  log.Info().
    Dur("WindowSec", r.Window).
    Dur("IntervalSec", r.Interval).
    Msg("Starting recurring scanner")

  for {
    if ctx.Err() != nil {
      return ctx.Err()
    }

    r.status(statusScanning)

    observations, err := r.scanner.ScanWindow(ctx, r.Window)

    if ctx.Err() != nil {
      return ctx.Err()
    }

    scanFailed := false

    if err != nil && !utils.ErrorIsAnyOf(err, context.Canceled, context.DeadlineExceeded) {
      scanFailed = true
      observations = nil

      log.Warn().
        Err(err).
        Msg("Scan failed, will retry on the next cycle")
    } else {
      log.Debug().
        Array("Observations", utils.ToZeroLogArray(observations)).
        Msg("Scan window finished")
    }

    snap := BuildSnapshot(observations)

    r.update(snap)
    r.publish(snap)

    switch {
    case scanFailed:
      r.status(statusScanFailed)
    case len(snap) == 0:
      log.Info().Msg("No recognized devices found in this scan window")
      r.status(statusNoDevices)
    default:
      log.Info().
        Int("Devices", len(snap)).
        Msg("Scan cycle complete")
      r.status(fmt.Sprintf("Scan complete. Next scan in %ds.", int(r.Interval / time.Second)))
    }

    select {
    case <-ctx.Done():
      return ctx.Err()
    case <-time.After(r.Interval):
    }
  }
}
