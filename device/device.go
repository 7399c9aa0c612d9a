package device

import (
  "errors"
  "fmt"
  "strconv"
)

var (
  ErrInvalidData = errors.New("invalid data")
)

type Kind uint8

const (
  KindEarbuds Kind = iota
  KindStandardBattery
)

func (k Kind) String() string {
  switch k {
  case KindEarbuds:
    return "Earbuds"
  case KindStandardBattery:
    return "StandardBattery"
  default:
    panic("unknown device kind: " + strconv.Itoa(int(k)))
  }
}

// Payload is the per-kind data carried by a classified device. It is a
// closed set: earbuds carry their raw manufacturer payload, standard
// battery devices carry only the address a future connection would use.
type Payload interface {
  Kind() Kind
}

// EarbudsData is the vendor manufacturer payload of an earbuds-style
// accessory, decodable with the airpods package.
type EarbudsData struct {
  Raw []byte
}

func (EarbudsData) Kind() Kind {
  return KindEarbuds
}

// StandardBattery marks a device advertising the standard battery service.
// Reading the actual level requires a GATT connection, which this version
// does not establish.
type StandardBattery struct {
  Addr string
}

func (StandardBattery) Kind() Kind {
  return KindStandardBattery
}

// Classified is a device observed during one scan window, resolved to a
// display name and one of the two recognized kinds.
type Classified struct {
  Name string
  Payload Payload
}

func (c Classified) Kind() Kind {
  return c.Payload.Kind()
}

func (c Classified) String() string {
  return fmt.Sprintf("%v[name=%q]", c.Kind(), c.Name)
}
