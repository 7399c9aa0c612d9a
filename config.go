package main

import (
  "flag"
  "fmt"
  "os"
  "time"

  "github.com/stefanwb/go-buds-monitor/scanner"
)

type config struct {
  Debug, Trace bool
  BindAddress string
  BluetoothDeviceId int
  ActiveScan bool
  NoColor bool
  ScanWindow time.Duration
  ScanInterval time.Duration
}

func ParseArgs() config {
  var cfg config

  flag.StringVar(&cfg.BindAddress, "bind", "localhost:9103", "Where the metrics endpoint will bind to")
  flag.IntVar(&cfg.BluetoothDeviceId, "bluetooth-device", 0, "Bluetooth (HCI) device ID")
  flag.BoolVar(&cfg.ActiveScan, "active-scan", false, "Run active scans instead of passive scans")
  flag.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored terminal output")
  flag.DurationVar(&cfg.ScanWindow, "scan-window", scanner.DefaultWindow,
    "How long each cycle listens for advertisements")
  flag.DurationVar(&cfg.ScanInterval, "interval", scanner.DefaultInterval,
    "How long to idle between scan cycles")
  flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logs")
  flag.BoolVar(&cfg.Trace, "trace", false, "Enable trace logs")

  flag.Parse()

  if cfg.ScanWindow <= 0 || cfg.ScanInterval <= 0 {
    fmt.Fprintln(os.Stderr, "Error: scan window and interval must be positive!")
    flag.Usage()
    os.Exit(1)
  }

  return cfg
}
