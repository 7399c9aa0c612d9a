package scanner

import (
  "github.com/rs/zerolog/log"

  "github.com/stefanwb/go-buds-monitor/ble"
  "github.com/stefanwb/go-buds-monitor/device"
)

// Snapshot maps resolved device names to their classification for one scan
// window. A snapshot is built fresh every cycle and replaces the previous
// one in full; entries are never patched across cycles.
type Snapshot map[string]device.Classified

// BuildSnapshot classifies every observation of a scan window. Devices
// matching neither recognized kind are dropped. When two observations
// resolve to the same name within the window, the first one wins.
func BuildSnapshot(observations []ble.Observation) Snapshot {
  snap := make(Snapshot, len(observations))

  for _, o := range observations {
    classified, ok := device.Classify(o)

    if !ok {
      log.Trace().
        Stringer("Observation", o).
        Msg("scanner: ignoring unrecognized device")
      continue
    }

    if _, dup := snap[classified.Name]; dup {
      log.Debug().
        Stringer("Observation", o).
        Stringer("Device", classified).
        Msg("scanner: dropping duplicate-named device for this cycle")
      continue
    }

    snap[classified.Name] = classified
  }

  return snap
}
