package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/stefanwb/go-buds-monitor/ble"
	"github.com/stefanwb/go-buds-monitor/metrics"
	"github.com/stefanwb/go-buds-monitor/scanner"
	"github.com/stefanwb/go-buds-monitor/ui"
	"github.com/stefanwb/go-buds-monitor/utils"
)

func main() {
  zerolog.DurationFieldUnit = time.Second
  zerolog.TimeFieldFormat = time.RFC3339Nano

  log.Logger = log.Output(zerolog.ConsoleWriter{
    Out: os.Stderr,
    TimeFormat: "15:04:05.000",
  })

  cfg := ParseArgs()

  if cfg.Trace || os.Getenv("TRACE") != "" {
      zerolog.SetGlobalLevel(zerolog.TraceLevel)
  } else if cfg.Debug || os.Getenv("DEBUG") != "" {
      zerolog.SetGlobalLevel(zerolog.DebugLevel)
  } else {
      zerolog.SetGlobalLevel(zerolog.InfoLevel)
  }

  log.Info().
    Str("BindAddr", cfg.BindAddress).
    Int("BluetoothDeviceID", cfg.BluetoothDeviceId).
    Dur("ScanWindowSec", cfg.ScanWindow).
    Dur("ScanIntervalSec", cfg.ScanInterval).
    Msg("Starting with the specified configuration")

  var bleFlags ble.Flags

  if cfg.ActiveScan {
    bleFlags |= ble.FlagScanTypeActive
  }

  bleHandle, err := ble.Init(cfg.BluetoothDeviceId, bleFlags)

  if err != nil {
    log.Fatal().Err(err).Msg("Failed to initialize Bluetooth device")
  }

  defer bleHandle.Stop()

  updates := make(scanner.ChannelSink, 16)

  recurring := scanner.NewRecurring(bleHandle, updates)
  recurring.Window = cfg.ScanWindow
  recurring.Interval = cfg.ScanInterval

  registry := prometheus.NewRegistry()
  metrics.RegisterCollector(recurring.Latest, registry)

  ctx := ble.WrapContextWithSigHandler(context.WithCancel(context.Background()))

  mux := http.NewServeMux()
  mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

  server := &http.Server{
    Addr: cfg.BindAddress,
    Handler: mux,
  }

  var eg errgroup.Group

  eg.Go(func() error {
    return recurring.Start(ctx)
  })

  console := ui.NewConsole(os.Stdout, cfg.NoColor)

  eg.Go(func() error {
    return console.Run(ctx, updates)
  })

  eg.Go(func() error {
    log.Info().
      Str("ListenAddress", cfg.BindAddress).
      Msg("Starting metrics endpoint")

    return server.ListenAndServe()
  })

  eg.Go(func() error {
    <-ctx.Done()

    shutdownCtx, cancel := context.WithTimeout(context.Background(), 3 * time.Second)
    defer cancel()

    return server.Shutdown(shutdownCtx)
  })

  err = eg.Wait()

  if err != nil && !utils.ErrorIsAnyOf(err, context.Canceled, http.ErrServerClosed) {
    log.Fatal().Err(err).Msg("Terminating due to error")
  }

  log.Info().Msg("Shutting down")
}
