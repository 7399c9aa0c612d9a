package scanner

import (
  "context"
  "strings"
  "sync"
  "testing"
  "time"

  "github.com/pkg/errors"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/stefanwb/go-buds-monitor/ble"
  "github.com/stefanwb/go-buds-monitor/device"
)

// scriptedScanner returns one scripted batch per cycle, then empty batches.
type scriptedScanner struct {
  mu sync.Mutex
  batches [][]ble.Observation
  errs []error
  calls int
}

func (s *scriptedScanner) ScanWindow(
  ctx context.Context,
  window time.Duration,
) ([]ble.Observation, error) {
  s.mu.Lock()
  defer s.mu.Unlock()

  i := s.calls
  s.calls += 1

  var err error
  if i < len(s.errs) {
    err = s.errs[i]
  }

  if i < len(s.batches) {
    return s.batches[i], err
  }

  return nil, err
}

// recordingSink records every update in order and signals after each
// published snapshot so tests can track cycle completion.
type recordingSink struct {
  mu sync.Mutex
  events []Update
  published chan struct{}
}

func newRecordingSink() *recordingSink {
  return &recordingSink{
    published: make(chan struct{}, 16),
  }
}

func (r *recordingSink) Status(s string) {
  r.mu.Lock()
  defer r.mu.Unlock()

  r.events = append(r.events, Update{Status: s})
}

func (r *recordingSink) Publish(snap Snapshot) {
  r.mu.Lock()
  r.events = append(r.events, Update{Snapshot: snap, HasSnapshot: true})
  r.mu.Unlock()

  r.published <- struct{}{}
}

func (r *recordingSink) recorded() []Update {
  r.mu.Lock()
  defer r.mu.Unlock()

  out := make([]Update, len(r.events))
  copy(out, r.events)

  return out
}

func runCycles(t *testing.T, scanner Scanner, cycles int) *recordingSink {
  t.Helper()

  sink := newRecordingSink()

  r := NewRecurring(scanner, sink)
  r.Window = time.Millisecond
  r.Interval = time.Millisecond

  ctx, cancel := context.WithCancel(context.Background())
  done := make(chan error, 1)

  go func() {
    done <- r.Start(ctx)
  }()

  for i := 0; i < cycles; i += 1 {
    select {
    case <-sink.published:
    case <-time.After(5 * time.Second):
      t.Fatalf("timed out waiting for scan cycle %d", i+1)
    }
  }

  cancel()

  select {
  case err := <-done:
    require.ErrorIs(t, err, context.Canceled)
  case <-time.After(5 * time.Second):
    t.Fatal("scan loop did not stop after cancellation")
  }

  return sink
}

func TestRecurring_CycleOrdering(t *testing.T) {
  scanner := &scriptedScanner{
    batches: [][]ble.Observation{
      {earbudsObservation("aa:aa:aa:aa:aa:aa", "", 0x01)},
    },
  }

  sink := runCycles(t, scanner, 1)
  events := sink.recorded()

  require.GreaterOrEqual(t, len(events), 3)
  assert.Equal(t, statusScanning, events[0].Status)
  require.True(t, events[1].HasSnapshot, "snapshot must follow the scanning status")
  assert.True(t, strings.HasPrefix(events[2].Status, "Scan complete. Next scan in"),
    "got status %q", events[2].Status)
}

func TestRecurring_SnapshotReplacementIsTotal(t *testing.T) {
  scanner := &scriptedScanner{
    batches: [][]ble.Observation{
      {earbudsObservation("aa:aa:aa:aa:aa:aa", "", 0x01)},
      {}, // the device disappears in cycle 2
    },
  }

  sink := runCycles(t, scanner, 2)

  var snapshots []Snapshot

  for _, event := range sink.recorded() {
    if event.HasSnapshot {
      snapshots = append(snapshots, event.Snapshot)
    }
  }

  require.GreaterOrEqual(t, len(snapshots), 2)
  assert.Contains(t, snapshots[0], device.DefaultEarbudsName)
  assert.NotContains(t, snapshots[1], device.DefaultEarbudsName,
    "device absent from cycle 2 must not linger in its snapshot")
}

func TestRecurring_NoDevicesPublishesEmptySnapshot(t *testing.T) {
  sink := runCycles(t, &scriptedScanner{}, 1)
  events := sink.recorded()

  require.GreaterOrEqual(t, len(events), 3)
  require.True(t, events[1].HasSnapshot)
  assert.Empty(t, events[1].Snapshot)
  assert.Equal(t, statusNoDevices, events[2].Status)
}

func TestRecurring_ScanFailureIsSurfacedAndNotFatal(t *testing.T) {
  scanner := &scriptedScanner{
    errs: []error{errors.New("adapter unavailable")},
    batches: [][]ble.Observation{
      nil,
      {earbudsObservation("aa:aa:aa:aa:aa:aa", "", 0x01)},
    },
  }

  sink := runCycles(t, scanner, 2)
  events := sink.recorded()

  require.GreaterOrEqual(t, len(events), 6)
  assert.Equal(t, statusScanFailed, events[2].Status)

  // the loop keeps going and the next cycle succeeds
  require.True(t, events[4].HasSnapshot)
  assert.Contains(t, events[4].Snapshot, device.DefaultEarbudsName)
}

func TestRecurring_Latest(t *testing.T) {
  scanner := &scriptedScanner{
    batches: [][]ble.Observation{
      {earbudsObservation("aa:aa:aa:aa:aa:aa", "", 0x01)},
    },
  }

  sink := newRecordingSink()

  r := NewRecurring(scanner, sink)
  r.Window = time.Millisecond
  r.Interval = time.Millisecond

  snap, ts := r.Latest()
  assert.Nil(t, snap)
  assert.True(t, ts.IsZero())

  ctx, cancel := context.WithCancel(context.Background())
  done := make(chan error, 1)

  go func() {
    done <- r.Start(ctx)
  }()

  select {
  case <-sink.published:
  case <-time.After(5 * time.Second):
    t.Fatal("timed out waiting for first scan cycle")
  }

  snap, ts = r.Latest()
  assert.Contains(t, snap, device.DefaultEarbudsName)
  assert.False(t, ts.IsZero())

  cancel()
  <-done
}
