package airpods

import (
  "encoding/hex"
  "fmt"
  "strings"

  "github.com/pkg/errors"
  "github.com/stefanwb/go-buds-monitor/device"
)

// Battery levels live at fixed character offsets within the lowercase hex
// rendering of the manufacturer payload (two hex characters per byte).
const (
  hexOffsetLeft  = 12
  hexOffsetRight = 13
  hexOffsetCase  = 15
)

// Any digit above this encodes a reserved state (charging/not present)
// rather than a charge level.
const maxLevelDigit = 10

type Batteries struct {
  Left, Right, Case device.BatteryReading
}

// Components returns the three readings in fixed Left, Right, Case order.
func (b Batteries) Components() []device.BatteryReading {
  return []device.BatteryReading{b.Left, b.Right, b.Case}
}

func (b Batteries) String() string {
  parts := make([]string, 0, 3)

  for _, r := range b.Components() {
    parts = append(parts, r.String())
  }

  return fmt.Sprintf("Batteries[%v]", strings.Join(parts, ","))
}

// Decode parses the battery levels out of an earbuds manufacturer payload.
// Each relevant hex digit d maps to d*10 percent when d <= 10; digits 11-15
// are reserved codes and yield a reading with no level. Pure: same input
// always yields the same readings.
func Decode(data []byte) (out Batteries, err error) {
  hexData := hex.EncodeToString(data)

  if len(hexData) <= hexOffsetCase {
    return out, errors.Wrapf(device.ErrInvalidData,
      "manufacturer payload too short (%d bytes)", len(data))
  }

  out.Left = levelAt(hexData, hexOffsetLeft, "Left")
  out.Right = levelAt(hexData, hexOffsetRight, "Right")
  out.Case = levelAt(hexData, hexOffsetCase, "Case")

  return out, nil
}

func levelAt(hexData string, offset int, component string) device.BatteryReading {
  r := device.BatteryReading{Component: component}

  if digit := hexDigit(hexData[offset]); digit <= maxLevelDigit {
    r.Level = digit * 10
    r.HasLevel = true
  }

  return r
}

// hexDigit assumes input produced by hex.EncodeToString (lowercase, valid).
func hexDigit(c byte) uint8 {
  if c >= 'a' {
    return c - 'a' + 10
  }

  return c - '0'
}
