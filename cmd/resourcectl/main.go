// Package main implements resourcectl, the operator CLI for the resource
// datasets. It runs against the same services as the server, so refresh
// and clear reach running instances through NATS.
package main

import (
	"context"
	"fmt"
	"os"

	"community-resources-be/internal/bootstrap"
	"community-resources-be/internal/config"
	"community-resources-be/internal/dto"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "resourcectl",
	Short: "Manage community resource datasets",
	Long: `resourcectl loads, refreshes and inspects the category datasets.

Configuration comes from the same environment variables as the server
(RESOURCE_*, ARTIFACT_DRIVER, REDIS_URL, NATS_*).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(warmCmd, refreshCmd, clearCmd, statusCmd, parseCmd)
}

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Load every category concurrently",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
			statuses := c.DatasetService.Warm(cmd.Context())
			printStatuses(statuses)
			for _, st := range statuses {
				if st.Error != "" {
					return fmt.Errorf("warm-up failed for %s", st.Category)
				}
			}
			return nil
		})
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh <category>",
	Short: "Re-fetch and re-parse one category now",
	Long: `Re-fetch and re-parse one category, ignoring every cache.

Examples:
  resourcectl refresh healthcare
  resourcectl refresh "Resettlement / Legal / Shelter"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
			cat, err := parseCategoryArg(args[0])
			if err != nil {
				return err
			}
			ds, err := c.DatasetService.Refresh(cmd.Context(), cat)
			if err != nil {
				return err
			}
			color.Green("Refreshed %s: %d records from %s (%d blocks skipped)", cat.DisplayName(), len(ds.Records), ds.Source, ds.SkippedBlocks)
			return nil
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached dataset and artifact",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
			if err := c.DatasetService.ClearAll(cmd.Context()); err != nil {
				return err
			}
			color.Green("All caches cleared")
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what this process has loaded",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
			printStatuses(c.DatasetService.Status(cmd.Context()))
			return nil
		})
	},
}

func withContainer(ctx context.Context, fn func(c *bootstrap.Container) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c := bootstrap.NewContainer(ctx, config.Load())
	defer c.Close()
	return fn(c)
}

func printStatuses(statuses []dto.DatasetStatusResponse) {
	for _, st := range statuses {
		switch {
		case st.Error != "":
			color.Red("✗ %-32s %s", st.DisplayName, st.Error)
		case !st.Loaded:
			color.Yellow("· %-32s not loaded", st.DisplayName)
		default:
			color.Green("✓ %-32s %4d records  %-14s skipped=%d  fetched=%s",
				st.DisplayName, st.Records, st.Source, st.SkippedBlocks, st.FetchedAt.Format("2006-01-02 15:04:05"))
		}
	}
}
