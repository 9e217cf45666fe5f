package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ajroetker/kernelqa/capability"
	"github.com/ajroetker/kernelqa/config"
	"github.com/ajroetker/kernelqa/kernels/suite"
	"github.com/ajroetker/kernelqa/qa"
	"github.com/ajroetker/kernelqa/report"
	"github.com/ajroetker/kernelqa/store"
)

// runFlags are shared by test and profile. They override the batch file
// only when set on the command line.
type runFlags struct {
	vlen       int
	iterations int
	tolerance  float64
	seed       uint64
	filter     string
	pattern    string
	format     string
	output     string
}

func (f *runFlags) register(fs *pflag.FlagSet, iterations int) {
	def := qa.DefaultParams()
	fs.IntVar(&f.vlen, "vlen", def.VectorLength, "Elements per invocation")
	fs.IntVar(&f.iterations, "iterations", iterations, "Timed invocations per implementation")
	fs.Float64Var(&f.tolerance, "tolerance", def.Tolerance, "Absolute tolerance for float outputs")
	fs.Uint64Var(&f.seed, "seed", 0, "Input generator seed (0 uses the default)")
	fs.StringVar(&f.filter, "filter", "", "Regexp of implementations to time")
	fs.StringVarP(&f.pattern, "kernels", "k", "", "Regexp of kernels to run")
	fs.StringVarP(&f.format, "format", "f", "", "Report format: table, json, yaml or bench")
	fs.StringVar(&f.output, "report", "", "Write the report to this file instead of stdout")
}

// apply layers the changed flags onto cfg.
func (f *runFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("vlen") {
		cfg.Defaults.VectorLength = &f.vlen
	}
	if fs.Changed("iterations") || cfg.Defaults.Iterations == nil {
		cfg.Defaults.Iterations = &f.iterations
	}
	if fs.Changed("tolerance") {
		cfg.Defaults.Tolerance = &f.tolerance
	}
	if fs.Changed("seed") {
		cfg.Defaults.Seed = &f.seed
	}
	if fs.Changed("filter") {
		cfg.Defaults.Filter = &f.filter
	}
	if fs.Changed("kernels") {
		cfg.Pattern = f.pattern
	}
	if fs.Changed("format") {
		cfg.Format = f.format
	}
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// batch is one finished test or profile run.
type batch struct {
	cfg    *config.Config
	report *report.Report
	result *qa.BatchResult
}

func runBatch(cmd *cobra.Command, f *runFlags, benchmark bool) (*batch, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	f.apply(cmd.Flags(), cfg)
	if storePath != "" {
		cfg.Store = storePath
	}
	cfg.Mask = append(cfg.Mask, mask...)
	cfg.Defaults.Benchmark = &benchmark
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cases, err := suite.Select(suite.Cases(cfg.Base()), cfg.Pattern)
	if err != nil {
		return nil, err
	}
	if cases, err = cfg.Apply(cases); err != nil {
		return nil, err
	}

	caps := cfg.Capabilities(capability.Detect())
	logger.Info("starting batch",
		zap.Stringer("host", caps),
		zap.Int("kernels", len(cases)),
		zap.Bool("benchmark", benchmark))

	h := qa.New(caps, qa.WithRegistry(suite.Registry()), qa.WithLogger(logger))
	br := h.RunBatch(cases, nil)
	return &batch{cfg: cfg, report: report.New(caps, benchmark, br.Results), result: br}, nil
}

// emit writes the report to the --report file or to stdout.
func (b *batch) emit(cmd *cobra.Command, f *runFlags) error {
	var w io.Writer = cmd.OutOrStdout()
	if f.output != "" {
		file, err := os.Create(f.output)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}
	return report.Write(w, b.report, b.cfg.ReportFormat())
}

// save persists the report, and the preferences when prefs is true, to the
// configured store.
func (b *batch) save(prefs bool) error {
	if b.cfg.Store == "" {
		return nil
	}
	s, err := store.Open(b.cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.SaveReport(b.report); err != nil {
		return err
	}
	if prefs {
		if err := s.SavePreferences(b.report.Host, report.Preferences(b.report.Results)); err != nil {
			return err
		}
	}
	logger.Info("saved run", zap.String("store", b.cfg.Store), zap.Stringer("run", b.report.RunID))
	return nil
}

// summarize prints the failing kernels and implementations and returns
// errFailed when there are any.
func (b *batch) summarize(w io.Writer) error {
	failures := b.result.Failures()
	if len(failures) == 0 {
		fmt.Fprintf(w, "ok\t%d kernels\n", len(b.result.Outcomes))
		return nil
	}
	for _, o := range failures {
		if o.Err != nil {
			fmt.Fprintf(w, "FAIL\t%s\t%v\n", o.Name, o.Err)
			continue
		}
		fmt.Fprintf(w, "FAIL\t%s\t%v\n", o.Name, o.Failed)
	}
	fmt.Fprintf(w, "FAIL\t%d of %d kernels\n", len(failures), len(b.result.Outcomes))
	return errFailed
}
