package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"lightcode-go/bus"
	"lightcode-go/drivers/bp5758d"
	"lightcode-go/internal/i2cdev"
	"lightcode-go/internal/i2crec"
	"lightcode-go/services/config"
	"lightcode-go/services/light"
	"lightcode-go/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"tinygo.org/x/drivers"
)

type rootOptions struct {
	configPath string
	device     string
	dryRun     bool
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "ledctl",
		Short:        "Control a BP5758D 5-channel LED driver",
		SilenceUsage: true,
	}
	f := root.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Configuration file (.toml or .yaml); embedded default when empty")
	f.StringVar(&opts.device, "device", "", "I2C adapter, overrides light.device (e.g. /dev/i2c-1)")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Print bus writes instead of touching hardware")
	f.StringVar(&opts.logLevel, "log-level", "", "Logging level (debug, info, warn, error), overrides logging.level")
	f.StringVar(&opts.logFormat, "log-format", "", "Logging format (text, json), overrides logging.format")

	root.AddCommand(newConsoleCmd(opts), newServeCmd(opts), newEncodeCmd(opts))
	return root
}

// app is everything a command needs, wired from configuration.
type app struct {
	cfg     types.Config
	log     *slog.Logger
	bus     *bus.Bus
	dev     *bp5758d.Device
	svc     *light.Service
	reg     *prometheus.Registry
	release func() error
}

func (o *rootOptions) load() (types.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	if o.device != "" {
		cfg.Light.Device = o.device
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
	}
	return cfg, config.Validate(cfg)
}

// newApp opens the transport and builds the controller and light service.
// With dryRun, writes are printed to out.
func (o *rootOptions) newApp(out, logOut io.Writer) (*app, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg.Logging, logOut)

	var (
		transport drivers.I2C
		release   = func() error { return nil }
	)
	if o.dryRun {
		transport = i2crec.New(out)
	} else {
		adapter, err := i2cdev.Open(cfg.Light.Device)
		if err != nil {
			return nil, err
		}
		transport = i2cdev.Wire8(adapter)
		release = adapter.Close
	}

	dcfg := config.DriverConfig(cfg.Light)
	dcfg.Logger = log.With("module", "bp5758d")
	dev, err := bp5758d.New(transport, dcfg)
	if err != nil {
		_ = release()
		return nil, fmt.Errorf("light %q: %w", cfg.Light.Name, err)
	}

	reg := prometheus.NewRegistry()
	b := bus.NewBus(16)
	svc := light.New(b.NewConnection("light"), dev, light.Options{
		Name:    cfg.Light.Name,
		Logger:  log,
		Metrics: light.NewMetrics(reg),
	})
	return &app{cfg: cfg, log: log, bus: b, dev: dev, svc: svc, reg: reg, release: release}, nil
}

// start publishes configuration and runs the light service until ctx is
// done. The returned function waits for the service to put the chip to
// sleep and releases the transport.
func (a *app) start(ctx context.Context) (wait func()) {
	config.NewConfigService(a.cfg).Start(ctx, a.bus.NewConnection("config"))

	ready := a.bus.NewConnection("boot")
	sub := ready.Subscribe(light.TopicService())
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.svc.Run(ctx)
	}()
	<-sub.Channel()
	ready.Disconnect()

	return func() {
		<-done
		if err := a.release(); err != nil {
			a.log.Warn("closing i2c adapter", "err", err)
		}
	}
}
