package metrics

import (
  "time"

  "github.com/prometheus/client_golang/prometheus"
  "github.com/rs/zerolog/log"

  "github.com/stefanwb/go-buds-monitor/device"
  "github.com/stefanwb/go-buds-monitor/device/airpods"
  "github.com/stefanwb/go-buds-monitor/scanner"
)

var (
  descBattery = prometheus.NewDesc(
    "earbuds_battery_ratio",
    "Battery charge of an earbuds component, 0 to 1. Absent while the vendor reports a reserved value.",
    []string{"name", "component"},
    nil,
  )

  descDeviceInfo = prometheus.NewDesc(
    "ble_battery_device_info",
    "A recognized device seen in the most recent scan window.",
    []string{"name", "kind"},
    nil,
  )
)

// SnapshotFunc returns the latest device snapshot and its collection time.
type SnapshotFunc func() (scanner.Snapshot, time.Time)

type collector struct {
  SnapshotFunc
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
  prometheus.DescribeByCollect(c, ch)
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
  snap, ts := c.SnapshotFunc()

  if ts.IsZero() {
    // no scan cycle has completed yet
    return
  }

  for name, dev := range snap {
    info := prometheus.MustNewConstMetric(
      descDeviceInfo,
      prometheus.GaugeValue,
      1,
      name,
      dev.Kind().String(),
    )

    ch <- prometheus.NewMetricWithTimestamp(ts, info)

    payload, ok := dev.Payload.(device.EarbudsData)

    if !ok {
      continue
    }

    batteries, err := airpods.Decode(payload.Raw)

    if err != nil {
      log.Warn().
        Err(err).
        Str("Device", name).
        Msg("metrics: failed to decode earbuds battery data")
      continue
    }

    for _, reading := range batteries.Components() {
      if !reading.HasLevel {
        continue
      }

      battery := prometheus.MustNewConstMetric(
        descBattery,
        prometheus.GaugeValue,
        float64(reading.Level) / 100,
        name,
        reading.Component,
      )

      ch <- prometheus.NewMetricWithTimestamp(ts, battery)
    }
  }
}

func RegisterCollector(f SnapshotFunc, reg prometheus.Registerer) {
  c := &collector{f}

  reg.MustRegister(c)
}
