package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/luca-patrignani/supply-chain/config"
	"github.com/luca-patrignani/supply-chain/domain/supplychain"
	"github.com/luca-patrignani/supply-chain/ledger"
	"github.com/luca-patrignani/supply-chain/metrics"
)

const (
	success = 0
	failure = 1
)

// recorder is the ledger as seen by the front end: the registry appends to it
// and the header shows its integrity status.
type recorder interface {
	supplychain.Recorder
	IsChainValid() bool
}

func main() {
	os.Exit(run())
}

func run() int {

	// Command line parameter initialization.
	var (
		flagConfig  string
		flagLevel   string
		flagMetrics string
		flagSeed    bool
		flagBatch   bool
	)

	pflag.StringVarP(&flagConfig, "config", "c", "", "path to YAML configuration file")
	pflag.StringVarP(&flagLevel, "level", "l", "", "log output level, overrides the configuration")
	pflag.StringVarP(&flagMetrics, "metrics", "m", "", "address for the Prometheus metrics server, overrides the configuration")
	pflag.BoolVarP(&flagSeed, "seed", "s", true, "register the seed products of the configuration at startup")
	pflag.BoolVarP(&flagBatch, "batch", "b", false, "render products and chain once and exit")

	pflag.Parse()

	cfg := config.Default()
	if flagConfig != "" {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			pterm.Error.Printfln("could not load configuration: %v", err)
			return failure
		}
	}
	if flagLevel != "" {
		cfg.LogLevel = flagLevel
	}
	if flagMetrics != "" {
		cfg.MetricsAddress = flagMetrics
	}
	err := cfg.Validate()
	if err != nil {
		pterm.Error.Println(err.Error())
		return failure
	}

	// Create a new slog handler with the default PTerm logger
	logger := pterm.DefaultLogger.WithLevel(logLevel(cfg.LogLevel))
	log := slog.New(pterm.NewSlogHandler(logger))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	chain, err := ledger.NewBlockchain(ctx,
		ledger.WithLogger(log),
		ledger.WithGenesisMessage(cfg.GenesisMessage),
	)
	if err != nil {
		log.Error("could not initialize ledger", "error", err)
		return failure
	}

	var rec recorder = chain
	if cfg.MetricsAddress != "" {
		reg := prometheus.NewRegistry()
		instrumented, err := metrics.NewLedger(chain, reg)
		if err != nil {
			log.Error("could not instrument ledger", "error", err)
			return failure
		}
		rec = instrumented

		server := metrics.NewServer(log, cfg.MetricsAddress, reg)
		err = server.Listen()
		if err != nil {
			log.Error("could not start metrics server", "error", err)
			return failure
		}
		var g errgroup.Group
		g.Go(func() error {
			err := server.Start()
			if err != nil {
				log.Error("metrics server failed", "error", err)
			}
			return err
		})
		defer func() {
			err := server.Stop(context.Background())
			if err != nil {
				log.Error("could not stop metrics server", "error", err)
			}
			_ = g.Wait()
		}()
	}

	registry := supplychain.NewRegistry(rec, supplychain.WithLogger(log))
	if flagSeed {
		err = seed(ctx, registry, cfg.Seed)
		if err != nil {
			log.Error("could not register seed products", "error", err)
			return failure
		}
	}

	a := app{
		log:      log,
		chain:    chain,
		recorder: rec,
		registry: registry,
	}

	if flagBatch {
		if !a.batch() {
			return failure
		}
		return success
	}

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Supply ", pterm.FgCyan.ToStyle()),
		putils.LettersFromStringWithStyle("Chain", pterm.FgDarkGray.ToStyle()),
	).Render()

	a.loop(ctx)

	return success
}

func logLevel(level string) pterm.LogLevel {
	switch level {
	case "debug":
		return pterm.LogLevelDebug
	case "warn":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	default:
		return pterm.LogLevelInfo
	}
}
