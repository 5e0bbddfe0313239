package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/geoscope/geoscope/internal/models"
	"github.com/geoscope/geoscope/internal/shared"
)

var (
	snapshotBrand string
	snapshotLimit int
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage archived snapshots",
	Long:  `List, inspect, load and delete archived analytics snapshots.`,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived snapshots",
	RunE:  runSnapshotList,
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show an archived snapshot as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotShow,
}

var snapshotLoadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Load a snapshot from a JSON file and archive it",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotLoad,
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an archived snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotDelete,
}

var snapshotClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the live dashboard snapshot",
	RunE:  runSnapshotClear,
}

var snapshotStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show archive statistics",
	RunE:  runSnapshotStats,
}

var snapshotTrendCmd = &cobra.Command{
	Use:   "trend [brand]",
	Short: "Show a brand's geo score trend across snapshots",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotTrend,
}

func init() {
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotLoadCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
	snapshotCmd.AddCommand(snapshotClearCmd)
	snapshotCmd.AddCommand(snapshotStatsCmd)
	snapshotCmd.AddCommand(snapshotTrendCmd)

	snapshotListCmd.Flags().StringVarP(&snapshotBrand, "brand", "b", "", "filter by subject brand")
	snapshotListCmd.Flags().IntVarP(&snapshotLimit, "limit", "l", 20, "limit number of results")
	snapshotTrendCmd.Flags().IntVarP(&snapshotLimit, "limit", "l", 30, "number of snapshots to include")
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	summaries, err := database.ListSnapshots(ctx, shared.SnapshotFilter{
		BrandName: snapshotBrand,
		Limit:     snapshotLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Printf("%sNo snapshots archived yet. Run 'geoscope collect' first!%s\n", WarningStyle, Reset)
		return nil
	}

	fmt.Printf("%s🗄️  Archived Snapshots%s\n", HeaderStyle, Reset)
	fmt.Printf("%s=====================%s\n", DimStyle, Reset)
	fmt.Println()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sID\tBRAND\tBRANDS\tKEYWORDS\tCOLLECTED%s\n", LabelStyle, Reset)
	for _, summary := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			FormatValue(summary.ID),
			summary.BrandName,
			summary.BrandCount,
			summary.KeywordCount,
			FormatMeta(summary.CollectedAt.Format("2006-01-02 15:04:05")),
		)
	}
	return w.Flush()
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
	snap, err := database.GetSnapshot(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get snapshot: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func runSnapshotLoad(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var snap models.AnalyticsSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if snap.BrandName == "" {
		return fmt.Errorf("snapshot has no brand_name")
	}

	// Set normalizes before publishing
	store.Set(&snap)
	if err := database.SaveSnapshot(context.Background(), store.Get()); err != nil {
		return fmt.Errorf("failed to archive snapshot: %w", err)
	}

	fmt.Printf("%s✅ Snapshot %s loaded and archived%s\n", SuccessStyle, snap.ID, Reset)
	return nil
}

func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	if err := database.DeleteSnapshot(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	fmt.Printf("%s✅ Snapshot deleted%s\n", SuccessStyle, Reset)
	return nil
}

func runSnapshotClear(cmd *cobra.Command, args []string) error {
	store.Clear()
	fmt.Printf("%s✅ Live snapshot cleared%s\n", SuccessStyle, Reset)
	return nil
}

func runSnapshotStats(cmd *cobra.Command, args []string) error {
	archiveStats, err := statsService.GetArchiveStats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to compute archive stats: %w", err)
	}

	fmt.Printf("%s📊 Archive Statistics%s\n", HeaderStyle, Reset)
	fmt.Printf("%s=====================%s\n", DimStyle, Reset)
	fmt.Println()
	fmt.Printf("%sTotal Snapshots: %s\n", LabelStyle, FormatCount(archiveStats.TotalSnapshots))
	fmt.Printf("%sUnique Brands: %s\n", LabelStyle, FormatCount(archiveStats.UniqueBrands))
	if !archiveStats.FirstCollected.IsZero() {
		fmt.Printf("%sFirst Collected: %s\n", LabelStyle, FormatMeta(archiveStats.FirstCollected.Format("2006-01-02 15:04:05")))
		fmt.Printf("%sLast Collected: %s\n", LabelStyle, FormatMeta(archiveStats.LastCollected.Format("2006-01-02 15:04:05")))
	}
	return nil
}

func runSnapshotTrend(cmd *cobra.Command, args []string) error {
	trend, err := statsService.GetScoreTrend(context.Background(), args[0], snapshotLimit)
	if err != nil {
		return fmt.Errorf("failed to compute score trend: %w", err)
	}

	if len(trend) == 0 {
		fmt.Printf("%sNo archived snapshots for brand: %s%s\n", WarningStyle, args[0], Reset)
		return nil
	}

	fmt.Printf("%s📈 Geo Score Trend: %s%s\n", HeaderStyle, args[0], Reset)
	fmt.Printf("%s====================%s\n", DimStyle, Reset)
	fmt.Println()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sCOLLECTED\tGEO SCORE\tMENTION SCORE%s\n", LabelStyle, Reset)
	for _, point := range trend {
		fmt.Fprintf(w, "%s\t%.1f\t%.0f\n",
			FormatMeta(point.CollectedAt.Format("2006-01-02 15:04")),
			point.GeoScore,
			point.MentionScore,
		)
	}
	return w.Flush()
}
