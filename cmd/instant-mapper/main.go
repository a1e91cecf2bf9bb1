// Package main runs the mapping benchmark over the sample store and
// warehouse shapes.
//
// Settings come from the environment, optionally seeded from a .env file:
//
//	MAPPER_ITERATIONS  iterations per case (default 100000)
//	MAPPER_CONFIG      mapping file applied to every registered pair
//	MAPPER_LOG_LEVEL   debug, info, warn or error (default info)
//	MAPPER_DUMP        dump one mapped order after the run
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"instant-mapper/internal/bench"
	"instant-mapper/mapper"
	"instant-mapper/store"
	"instant-mapper/warehouse"
)

type config struct {
	Iterations int    `env:"MAPPER_ITERATIONS,default=100000"`
	ConfigFile string `env:"MAPPER_CONFIG"`
	LogLevel   string `env:"MAPPER_LOG_LEVEL,default=info"`
	Dump       bool   `env:"MAPPER_DUMP"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "instant-mapper:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	var cfg config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("decode environment: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []mapper.Option{mapper.WithLogger(logger)}
	if cfg.ConfigFile != "" {
		opts = append(opts, mapper.WithConfigFile(cfg.ConfigFile))
	}

	f, err := bench.Setup(opts...)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, pair := range f.Pairs() {
		logger.Info("mapper.pair", slog.String("pair", pair.String()))
	}

	if cfg.Iterations < 1 {
		cfg.Iterations = 100000
	}

	results, err := bench.NewRunner(cfg.Iterations).RunAll(bench.Cases(f))
	if err != nil {
		return err
	}

	if err := bench.Report(os.Stdout, results); err != nil {
		return err
	}

	logger.Info("mapper.metrics",
		slog.Float64("hits", f.Metrics().Counter(mapper.HitsTotal).Value()),
		slog.Float64("misses", f.Metrics().Counter(mapper.MissesTotal).Value()),
		slog.Float64("dropped", f.Metrics().Counter(mapper.DroppedTotal).Value()))

	if cfg.Dump {
		order, err := mapper.Map[store.Order, warehouse.Order](f, bench.SampleOrder())
		if err != nil {
			return err
		}

		spew.Fdump(os.Stdout, order)
	}

	return nil
}
