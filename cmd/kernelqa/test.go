package main

import (
	"github.com/spf13/cobra"
)

var testFlags runFlags

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Check every implementation against its reference",
	Long: `Runs each selected kernel in test mode. Every implementation the host
supports is compared against the generic reference on aligned and unaligned
inputs. The command exits with status 1 if any kernel fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := runBatch(cmd, &testFlags, false)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("format") || cmd.Flags().Changed("report") || configPath != "" {
			if err := b.emit(cmd, &testFlags); err != nil {
				return err
			}
		}
		if err := b.save(false); err != nil {
			return err
		}
		return b.summarize(cmd.OutOrStdout())
	},
}

func init() {
	testFlags.register(testCmd.Flags(), 10)
}
