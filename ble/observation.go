package ble

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/exp/maps"
)

// Observation is the most recent advertisement state seen for a single
// device during a scan window. Advertisements from the same address are
// merged: a name fills in once any advertisement carries one, service UUIDs
// accumulate, and manufacturer data tracks the latest advertisement that
// included any.
type Observation struct {
	Addr string
	Name string

	// Manufacturer-specific data, split into the registered company
	// identifier (first two little-endian bytes of the AD structure) and
	// the vendor payload that follows it.
	ManufacturerID      uint16
	ManufacturerPayload []byte
	HasManufacturerData bool

	Services    []UUID
	Connectable bool
}

func observationFrom(a Advertisement) Observation {
	o := Observation{
		Addr:        a.Addr().String(),
		Name:        a.LocalName(),
		Services:    a.Services(),
		Connectable: a.Connectable(),
	}

	if md := a.ManufacturerData(); len(md) >= 2 {
		o.ManufacturerID = binary.LittleEndian.Uint16(md)
		o.ManufacturerPayload = md[2:]
		o.HasManufacturerData = true
	}

	return o
}

// HasService reports whether the device advertised the given service UUID.
func (o Observation) HasService(u UUID) bool {
	for _, svc := range o.Services {
		if svc.Equal(u) {
			return true
		}
	}

	return false
}

func (o Observation) ServiceStrings() []string {
	set := make(map[string]bool, len(o.Services))

	for _, svc := range o.Services {
		set[svc.String()] = true
	}

	return maps.Keys(set)
}

func (o Observation) String() string {
	return fmt.Sprintf("observation[addr=%v, name=%q]", o.Addr, o.Name)
}

func (o Observation) merge(next Observation) Observation {
	merged := next

	if merged.Name == "" {
		merged.Name = o.Name
	}

	if !merged.HasManufacturerData {
		merged.ManufacturerID = o.ManufacturerID
		merged.ManufacturerPayload = o.ManufacturerPayload
		merged.HasManufacturerData = o.HasManufacturerData
	}

	merged.Connectable = o.Connectable || next.Connectable

	if len(o.Services) > 0 {
		set := make(map[string]UUID, len(o.Services)+len(next.Services))

		for _, svc := range o.Services {
			set[svc.String()] = svc
		}

		for _, svc := range next.Services {
			set[svc.String()] = svc
		}

		merged.Services = maps.Values(set)
	}

	return merged
}
