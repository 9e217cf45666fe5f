package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajroetker/kernelqa/report"
)

var (
	profileFlags runFlags
	prefsPath    string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Benchmark implementations and record the fastest",
	Long: `Runs each selected kernel in benchmark mode and writes a report. With
--prefs, the fastest passing implementation per alignment class is written
to a preferences file that dispatchers can load; with --store, the run and
the preferences are saved for later comparison.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := runBatch(cmd, &profileFlags, true)
		if err != nil {
			return err
		}
		if err := b.emit(cmd, &profileFlags); err != nil {
			return err
		}
		path := prefsPath
		if path == "" {
			path = b.cfg.Preferences
		}
		if path != "" {
			if err := writePreferences(path, report.Preferences(b.report.Results)); err != nil {
				return err
			}
			logger.Info("wrote preferences", zap.String("path", path))
		}
		if err := b.save(true); err != nil {
			return err
		}
		return b.summarize(cmd.ErrOrStderr())
	},
}

func writePreferences(path string, prefs []report.Preference) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WritePreferences(f, prefs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func init() {
	profileFlags.register(profileCmd.Flags(), 1987)
	profileCmd.Flags().StringVarP(&prefsPath, "prefs", "o", "", "Write dispatcher preferences to this file")
}
