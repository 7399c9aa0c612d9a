package device

import (
  "github.com/stefanwb/go-buds-monitor/ble"
)

const (
  // Registered Bluetooth company identifier for Apple, Inc.
  AppleManufacturerID uint16 = 0x004c

  // Byte length of the proximity-pairing manufacturer payload broadcast
  // by earbuds-style accessories.
  EarbudsDataLength = 27

  DefaultEarbudsName  = "AirPods"
  DefaultStandardName = "Unknown Device"
)

// BatteryServiceUUID is the Bluetooth SIG battery service (0x180F).
var BatteryServiceUUID = ble.UUID16(0x180f)

// Classify resolves an observation into one of the two recognized device
// kinds. Devices matching neither predicate return ok == false and are not
// surfaced at all.
func Classify(o ble.Observation) (c Classified, ok bool) {
  switch {
  case o.HasManufacturerData &&
       o.ManufacturerID == AppleManufacturerID &&
       len(o.ManufacturerPayload) == EarbudsDataLength:
    name := o.Name

    if name == "" {
      name = DefaultEarbudsName
    }

    return Classified{
      Name: name,
      Payload: EarbudsData{Raw: o.ManufacturerPayload},
    }, true
  case o.HasService(BatteryServiceUUID):
    name := o.Name

    if name == "" {
      name = DefaultStandardName
    }

    return Classified{
      Name: name,
      Payload: StandardBattery{Addr: o.Addr},
    }, true
  }

  return c, false
}
