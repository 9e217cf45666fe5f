package main

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ajroetker/kernelqa/capability"
	"github.com/ajroetker/kernelqa/qa"
	"github.com/ajroetker/kernelqa/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List runs saved for this host",
	Long: `Lists the runs saved with --store for the detected host, oldest first,
followed by the stored dispatcher preferences.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if storePath != "" {
			cfg.Store = storePath
		}
		if cfg.Store == "" {
			return errors.New("history needs --store or a batch file with a store path")
		}
		cfg.Mask = append(cfg.Mask, mask...)
		if err := cfg.Validate(); err != nil {
			return err
		}
		host := cfg.Capabilities(capability.Detect())

		s, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()

		reports, err := s.Reports(host)
		if err != nil {
			return err
		}
		prefs, err := s.Preferences(host)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		fmt.Fprintf(tw, "%d runs on %s\n", len(reports), host)
		for _, r := range reports {
			mode := "test"
			if r.Benchmark {
				mode = "profile"
			}
			failed := lo.CountBy(r.Results, func(res qa.TestResults) bool { return !res.Passed() })
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d kernels\t%d failed\n",
				r.Created.Local().Format("2006-01-02 15:04:05"), r.RunID, mode, len(r.Results), failed)
		}
		if len(prefs) > 0 {
			fmt.Fprintln(tw)
			for _, name := range slices.Sorted(maps.Keys(prefs)) {
				p := prefs[name]
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Kernel, p.Aligned, p.Unaligned)
			}
		}
		return tw.Flush()
	},
}
