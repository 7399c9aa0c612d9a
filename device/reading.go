package device

import (
  "fmt"
)

// BatteryReading is the decoded battery state of a single component of a
// device (e.g. the left earbud). HasLevel is false when the vendor encoding
// reported a reserved/sentinel value instead of a charge level.
type BatteryReading struct {
  Component string
  Level uint8
  HasLevel bool
}

func (r BatteryReading) String() string {
  if !r.HasLevel {
    return fmt.Sprintf("%v=N/A", r.Component)
  }

  return fmt.Sprintf("%v=%d%%", r.Component, r.Level)
}
