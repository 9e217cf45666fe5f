// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command kernelqa verifies and profiles the sample kernels on this machine.
//
//	kernelqa test                 # correctness of every implementation
//	kernelqa profile -o prefs     # benchmark and write dispatcher preferences
//	kernelqa compare old new      # compare two benchmark outputs
//	kernelqa cpuinfo              # detected capabilities
//	kernelqa history              # runs saved with --store
//
// Set KERNELQA_NO_SIMD=1 to restrict the run to portable implementations.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose    bool
	configPath string
	storePath  string
	mask       []string

	logger *zap.Logger
)

// errFailed is returned when a batch has failing kernels. Its details are
// already printed, so main only sets the exit status.
var errFailed = errors.New("kernel tests failed")

var rootCmd = &cobra.Command{
	Use:   "kernelqa",
	Short: "Verify and benchmark SIMD kernel implementations",
	Long: `kernelqa runs every implementation of each sample kernel on identical
random inputs, compares them against the generic reference, and times the
ones that agree on aligned and unaligned buffers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML batch file")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Directory of the run store (overrides the batch file)")
	rootCmd.PersistentFlags().StringSliceVar(&mask, "mask", nil, "CPU features to hide, e.g. avx512f,avx2")

	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(cpuinfoCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
