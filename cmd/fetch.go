package cmd

import (
	"context"
	"fmt"
	"time"

	"eksi-rss/internal/model"

	"github.com/spf13/cobra"
)

// fetchCmd resolves one target end to end and prints the entries, for
// debugging extraction against the live site.
var fetchCmd = &cobra.Command{
	Use:   "fetch <topic id|url|search term>",
	Short: "Resolve a target and print its entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		_, co, closeFn, err := newPipeline(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		sub := model.ParseTarget(args[0])
		entries, err := co.Resolve(ctx, sub)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "degraded: %v\n", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries\n", sub.Key(), len(entries))
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s %s\n  %s\n",
				e.Published.Format("2006-01-02 15:04"), e.Author, e.Permalink, e.Content)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
