package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/occablas/occablas/args"
	"github.com/occablas/occablas/devblas"
	"github.com/occablas/occablas/device"
	"github.com/occablas/occablas/harness"
	"github.com/occablas/occablas/metrics"
)

// runOptions are the case-selection and reporting knobs shared by run and
// bench.
type runOptions struct {
	suites      []string
	function    string
	precision   string
	seed        uint64
	jsonPath    string
	dumpDir     string
	dumpCodec   string
	metricsAddr string
	iters       int64
	coldIters   int64
}

func (o *runOptions) flags() []cli.Flag {
	return append(commonFlags(),
		&cli.StringSliceFlag{
			Name:        "suite",
			Usage:       "YAML suite file (repeatable)",
			Destination: &o.suites,
		},
		&cli.StringFlag{
			Name:        "function",
			Usage:       "run only this routine",
			Destination: &o.function,
		},
		&cli.StringFlag{
			Name:        "precision",
			Usage:       "run only this precision (s or d)",
			Destination: &o.precision,
		},
		&cli.Uint64Flag{
			Name:        "seed",
			Usage:       "override every case's input seed",
			Destination: &o.seed,
		},
		&cli.StringFlag{
			Name:        "json",
			Usage:       "write the run report to this file",
			Destination: &o.jsonPath,
		},
		&cli.StringFlag{
			Name:        "dump-dir",
			Usage:       "write failure artifacts under this directory",
			Destination: &o.dumpDir,
		},
		&cli.StringFlag{
			Name:        "dump-codec",
			Usage:       "failure dump compression: raw, zstd or lz4",
			Value:       "zstd",
			Destination: &o.dumpCodec,
		},
		&cli.StringFlag{
			Name:        "metrics-addr",
			Usage:       "serve Prometheus metrics on this address",
			Destination: &o.metricsAddr,
		},
	)
}

func runCmd() *cli.Command {
	var opts runOptions
	return &cli.Command{
		Name:  "run",
		Usage: "Run correctness suites against the device library",
		Flags: opts.flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return execute(&opts, false)
		},
	}
}

func benchCmd() *cli.Command {
	var opts runOptions
	flags := append(opts.flags(),
		&cli.Int64Flag{
			Name:        "iters",
			Usage:       "override measured iterations per case",
			Destination: &opts.iters,
		},
		&cli.Int64Flag{
			Name:        "cold-iters",
			Usage:       "override warm-up iterations per case",
			Destination: &opts.coldIters,
		},
	)
	return &cli.Command{
		Name:  "bench",
		Usage: "Time suites on the device; correctness checks are skipped",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return execute(&opts, true)
		},
	}
}

func execute(opts *runOptions, bench bool) error {
	log := newLogger()
	harness.LogHostInfo(log)

	if len(opts.suites) == 0 {
		return cli.Exit("error: at least one --suite is required", 1)
	}
	codec, err := harness.ParseDumpCodec(opts.dumpCodec)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}

	cases, err := collectCases(opts, bench)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	if len(cases) == 0 {
		return cli.Exit("error: selection matched no cases", 1)
	}

	if opts.metricsAddr != "" {
		srv := metrics.Serve(opts.metricsAddr)
		defer srv.Close()
		log.Info().Str("addr", opts.metricsAddr).Msg("serving metrics")
	}

	dev, err := device.Open(deviceSpec)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: open device: %v", err), 1)
	}
	defer dev.Free()
	log.Info().Str("mode", dev.Mode()).Msg("device ready")

	h, err := devblas.NewHandle(dev)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	defer h.Close()

	rec := harness.NewRecorder(log, harness.RecorderOptions{
		DumpDir:   opts.dumpDir,
		DumpCodec: codec,
		JSONPath:  opts.jsonPath,
	})
	log.Info().Stringer("run_id", rec.RunID()).Int("cases", len(cases)).Msg("starting run")

	for _, a := range cases {
		rec.Record(harness.RunCase(h, a))
	}

	if err := rec.Export(); err != nil {
		log.Error().Err(err).Msg("writing run report")
	}

	s := rec.Summary()
	log.Info().
		Int("total", s.Total).
		Int("pass", s.Pass).
		Int("fail", s.Fail).
		Int("invalid", s.Invalid).
		Int("errors", s.Errors).
		Msg("run complete")
	if s.Fail > 0 || s.Errors > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

// collectCases loads every requested suite, applies the CLI filters and, in
// bench mode, rewrites the check and timing fields.
func collectCases(opts *runOptions, bench bool) ([]args.Arguments, error) {
	var cases []args.Arguments
	for _, path := range opts.suites {
		suite, err := args.LoadSuite(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for _, a := range suite.Cases {
			if opts.function != "" && a.Function != opts.function {
				continue
			}
			if opts.precision != "" && a.Precision != opts.precision {
				continue
			}
			if opts.seed != 0 {
				a.Seed = opts.seed
			}
			if bench {
				a.UnitCheck = false
				a.NormCheck = false
				a.Timing = true
				if opts.iters > 0 {
					a.Iters = int(opts.iters)
				}
				if opts.coldIters > 0 {
					a.ColdIters = int(opts.coldIters)
				}
			}
			cases = append(cases, a)
		}
	}
	return cases, nil
}
