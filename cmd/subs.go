package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// subsCmd groups subscription management subcommands.
var subsCmd = &cobra.Command{
	Use:   "subs",
	Short: "Manage tracked subscriptions",
}

var subsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked subscriptions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, closeFn, err := newPipeline(GetConfig())
		if err != nil {
			return err
		}
		defer closeFn()
		for _, sub := range store.List() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", sub.Key(), sub.Kind, sub.DisplayTitle())
		}
		return nil
	},
}

var subsAddCmd = &cobra.Command{
	Use:   "add <topic id|url|search term>",
	Short: "Add a subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, co, closeFn, err := newPipeline(GetConfig())
		if err != nil {
			return err
		}
		defer closeFn()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		sub, err := co.Discover(ctx, args[0])
		if err != nil {
			return fmt.Errorf("discover %q: %w", args[0], err)
		}
		added, err := store.Add(sub)
		if err != nil {
			return err
		}
		if !added {
			fmt.Fprintf(cmd.OutOrStdout(), "already tracked: %s\n", sub.Key())
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", sub.Key(), sub.DisplayTitle())
		return nil
	},
}

var subsRemoveCmd = &cobra.Command{
	Use:   "remove <key>",
	Short: "Remove a subscription by canonical key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, closeFn, err := newPipeline(GetConfig())
		if err != nil {
			return err
		}
		defer closeFn()
		removed, err := store.Remove(args[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("no subscription with key %s", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
		return nil
	},
}

func init() {
	subsCmd.AddCommand(subsListCmd, subsAddCmd, subsRemoveCmd)
	rootCmd.AddCommand(subsCmd)
}
