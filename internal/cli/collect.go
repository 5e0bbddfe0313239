package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var collectLLMs string

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run a collection once and archive the snapshot",
	Long: `Issue every enabled keyword's prompts to every enabled LLM, analyze
the answers and archive the resulting snapshot. The snapshot also becomes the
live one for this process.`,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().StringVar(&collectLLMs, "llms", "", "comma-separated LLM IDs (default: all enabled)")
}

func runCollect(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	fmt.Printf("%s🔄 Running collection%s\n", InfoStyle, Reset)
	fmt.Printf("%s=====================%s\n", DimStyle, Reset)

	started := time.Now()
	snap, err := coll.Collect(ctx, splitList(collectLLMs))
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}

	if err := database.SaveSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("failed to archive snapshot: %w", err)
	}
	store.Set(snap)

	fmt.Println()
	fmt.Printf("%s✅ Collection complete in %s%s\n", SuccessStyle, time.Since(started).Round(time.Second), Reset)
	fmt.Printf("%sSnapshot: %s%s\n", LabelStyle, FormatValue(snap.ID), Reset)
	fmt.Printf("%sSubject: %s%s\n", LabelStyle, FormatValue(snap.BrandName), Reset)
	fmt.Printf("%sBrands: %s  Keywords: %s  Sources: %s%s\n", LabelStyle,
		FormatCount(len(snap.Brands)), FormatCount(len(snap.SearchKeywords)), FormatCount(len(snap.Sources)), Reset)
	fmt.Println()
	fmt.Println("View the dashboard with 'geoscope metrics overview'")
	return nil
}
