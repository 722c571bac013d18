package main

import (
	"encoding/json"
	"fmt"
	"os"

	"community-resources-be/pkg/parser"
	"community-resources-be/pkg/resource"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// parseJSON prints the parsed records as JSON
	parseJSON bool
	// parseLimit caps how many records are listed
	parseLimit int
)

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "print records as JSON")
	parseCmd.Flags().IntVar(&parseLimit, "limit", 10, "records to list (0 for all)")
}

// parseCmd runs the parser on a local file without touching any cache.
var parseCmd = &cobra.Command{
	Use:   "parse <file> <category>",
	Short: "Parse a resource file offline",
	Long: `Parse a resource text file and report what the parser extracted.

Examples:
  resourcectl parse resources/healthcare.txt healthcare
  resourcectl parse draft.txt education --json --limit 0`,
	Args: cobra.ExactArgs(2),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	cat, err := parseCategoryArg(args[1])
	if err != nil {
		return err
	}

	res := parser.Parse(string(raw), cat)
	records := res.Records
	if parseLimit > 0 && len(records) > parseLimit {
		records = records[:parseLimit]
	}

	if parseJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	color.Cyan("%s: %d records, %d blocks skipped", cat.DisplayName(), len(res.Records), res.Skipped)
	for _, lr := range res.SkippedLines {
		color.Yellow("  skipped lines %d-%d (no name)", lr.Start, lr.End)
	}
	for _, r := range records {
		fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", r.ID, r.Name)
		if r.ZipCode != "" || len(r.Services) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "           zip=%s services=%v languages=%v\n", r.ZipCode, r.Services, r.Languages)
		}
		if days := r.Hours.OpenDays(); !days.IsEmpty() {
			fmt.Fprintf(cmd.OutOrStdout(), "           open=%s\n", days)
		}
	}
	return nil
}

func parseCategoryArg(s string) (resource.Category, error) {
	c, err := resource.ParseCategory(s)
	if err != nil {
		return "", fmt.Errorf("%w (expected one of %v)", err, resource.Categories)
	}
	return c, nil
}
