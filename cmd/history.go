package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"braviactl/internal/config"
	"braviactl/internal/history"
)

var (
	historyDevice string
	historyLimit  int
	historyPrune  time.Duration
	historyJSON   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the actions sent to the TVs",
	Long: `Show the actions recorded by the tv commands, the terminal remote and
the bridge, newest first. --prune deletes entries older than the given age.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadEnv(); err != nil {
			return err
		}

		cfg, err := config.NewManager(configPath).Load()
		if err != nil {
			return err
		}

		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if historyPrune > 0 {
			removed, err := store.Prune(ctx, time.Now().Add(-historyPrune))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Pruned %d entries\n", removed)
			return nil
		}

		entries, err := store.List(ctx, historyDevice, historyLimit)
		if err != nil {
			return err
		}
		if historyJSON {
			return printJSON(out, entries)
		}

		if len(entries) == 0 {
			fmt.Fprintln(out, "No history.")
			return nil
		}
		for _, e := range entries {
			result := "ok"
			if !e.Success {
				result = "FAILED: " + e.Error
			}
			fmt.Fprintf(out, "%s  %-20s %-8s %-20s %s\n",
				e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.DeviceID, e.Type, e.Action, result)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historyDevice, "device", "D", "", "only show this device")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", history.DefaultLimit, "number of entries")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "delete entries older than this age")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print JSON")
}
