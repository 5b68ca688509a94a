// Command populate fills a fresh database with initial data, a product
// catalog and sample customers.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopfront/backend/internal/app"
	"github.com/shopfront/backend/internal/application/populate"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type options struct {
	configFile       string
	initialData      string
	products         string
	customers        int
	customerPassword string
	timeout          time.Duration
}

func main() {
	var opts options
	flags := pflag.NewFlagSet("populate", pflag.ExitOnError)
	flags.StringVarP(&opts.configFile, "config", "c", "", "path to config.toml (default: ./config.toml)")
	flags.StringVarP(&opts.initialData, "initial-data", "i", "", "initial data YAML file (required)")
	flags.StringVarP(&opts.products, "products", "p", "", "products CSV file")
	flags.IntVarP(&opts.customers, "customers", "n", 10, "number of sample customers to create")
	flags.StringVar(&opts.customerPassword, "customer-password", "test", "password of the sample customers")
	flags.DurationVar(&opts.timeout, "timeout", 5*time.Minute, "give up after this long")
	_ = flags.Parse(os.Args[1:])

	if opts.initialData == "" {
		fmt.Fprintln(os.Stderr, "populate: --initial-data is required")
		flags.Usage()
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "populate:", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.LoadFile(opts.configFile)
	if err != nil {
		return err
	}
	log, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	// one-shot command, no background maintenance
	cfg.Jobs.Enabled = false

	data, err := populate.LoadInitialData(opts.initialData)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	populator := a.Populator()
	ch, err := populator.Populate(ctx, data)
	if err != nil {
		return err
	}
	log.Info("Populated initial data", zap.String("channel", ch.Code), zap.Int("countries", len(data.Countries)))

	if opts.products != "" {
		f, err := os.Open(opts.products)
		if err != nil {
			return fmt.Errorf("failed to open products: %w", err)
		}
		defer f.Close()
		result, err := a.Importer().ImportProducts(ctx, ch, f)
		if result != nil {
			log.Info("Imported products",
				zap.Int("products", result.Products),
				zap.Int("variants", result.Variants),
				zap.Int("errors", len(result.Errors)),
			)
		}
		if err != nil {
			return err
		}
	}

	if err := populator.PopulateCollections(ctx, data.Collections); err != nil {
		return err
	}
	customers, err := populate.SeedCustomers(ctx, a.Customers, opts.customers, opts.customerPassword)
	if err != nil {
		return err
	}
	log.Info("Created customers", zap.Int("count", len(customers)))
	return nil
}
