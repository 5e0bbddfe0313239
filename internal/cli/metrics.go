package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/geoscope/geoscope/internal/services"
)

var metricsLimit int

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "View dashboard metrics from the live snapshot",
	Long:  `Render the dashboard views derived from the most recent snapshot: overview, competitor ranking, keyword and source insights, position breakdown and response rates.`,
}

var metricsOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show the subject brand's headline metrics",
	RunE:  runMetricsOverview,
}

var metricsCompetitorsCmd = &cobra.Command{
	Use:   "competitors",
	Short: "Show all tracked brands ranked by geo score",
	RunE:  runMetricsCompetitors,
}

var metricsKeywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Show keyword insights with dominating brands",
	RunE:  runMetricsKeywords,
}

var metricsSourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show cited sources with dominating brands",
	RunE:  runMetricsSources,
}

var metricsPositionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Show the subject brand's rank-band breakdown",
	RunE:  runMetricsPositions,
}

var metricsRatesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show the response-rate table",
	RunE:  runMetricsRates,
}

func init() {
	metricsCmd.AddCommand(metricsOverviewCmd)
	metricsCmd.AddCommand(metricsCompetitorsCmd)
	metricsCmd.AddCommand(metricsKeywordsCmd)
	metricsCmd.AddCommand(metricsSourcesCmd)
	metricsCmd.AddCommand(metricsPositionsCmd)
	metricsCmd.AddCommand(metricsRatesCmd)

	metricsRatesCmd.Flags().IntVarP(&metricsLimit, "limit", "l", 2, "number of competitors to include")
}

func requireSnapshot() (*services.InsightService, error) {
	if store.Get() == nil {
		return nil, fmt.Errorf("no snapshot loaded. Run 'geoscope collect' first")
	}
	return services.NewInsightService(store), nil
}

func runMetricsOverview(cmd *cobra.Command, args []string) error {
	insights, err := requireSnapshot()
	if err != nil {
		return err
	}
	overview := insights.Overview()

	fmt.Printf("%s📊 Brand Overview: %s%s\n", HeaderStyle, overview.Brand, Reset)
	fmt.Printf("%s==================%s\n", DimStyle, Reset)
	fmt.Println()
	fmt.Printf("%sGeo Score: %s  (%s, top %d%%, position %d/%d)\n", LabelStyle,
		FormatValue(fmt.Sprintf("%.1f", overview.GeoScore)),
		tierStyle(string(overview.GeoTier)),
		overview.GeoPercentile, overview.GeoPosition, overview.TotalBrands)
	fmt.Printf("%sMention Score: %s  (%s, top %d%%, position %d/%d)\n", LabelStyle,
		FormatValue(fmt.Sprintf("%.0f%%", overview.MentionScore)),
		tierStyle(string(overview.MentionTier)),
		overview.MentionPercentile, overview.MentionPosition, overview.TotalBrands)
	fmt.Printf("%sOutlook: %s\n", LabelStyle, FormatValue(string(overview.Outlook)))
	fmt.Printf("%sTotal Prompts: %s\n", LabelStyle, FormatCount(overview.TotalPrompts))
	if overview.Summary != "" {
		fmt.Println()
		fmt.Printf("%s%s%s\n", DimStyle, overview.Summary, Reset)
	}
	return nil
}

func runMetricsCompetitors(cmd *cobra.Command, args []string) error {
	insights, err := requireSnapshot()
	if err != nil {
		return err
	}
	rows := insights.Competitors()

	fmt.Printf("%s🏆 Competitor Ranking%s\n", HeaderStyle, Reset)
	fmt.Printf("%s=====================%s\n", DimStyle, Reset)
	fmt.Println()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sPOS\tBRAND\tGEO SCORE\tTIER\tMENTION %%\tMENTIONS%s\n", LabelStyle, Reset)
	for _, row := range rows {
		name := row.Brand
		if row.Subject {
			name = FormatValue(name + " *")
		}
		fmt.Fprintf(w, "%d\t%s\t%.1f\t%s\t%.0f%%\t%d\n",
			row.Position, name, row.GeoScore, tierStyle(string(row.GeoTier)), row.MentionScore, row.MentionCount)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("%s* subject brand%s\n", MetaStyle, Reset)
	return nil
}

func runMetricsKeywords(cmd *cobra.Command, args []string) error {
	insights, err := requireSnapshot()
	if err != nil {
		return err
	}
	keywordInsights := insights.KeywordInsights()

	fmt.Printf("%s🔑 Keyword Insights%s\n", HeaderStyle, Reset)
	fmt.Printf("%s===================%s\n", DimStyle, Reset)
	fmt.Println()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sKEYWORD\tPROMPTS\tSUBJECT HITS\tTOP COMPETITOR%s\n", LabelStyle, Reset)
	for _, insight := range keywordInsights {
		top := FormatDim("(none)")
		if !insight.TopCompetitor.IsZero() {
			top = fmt.Sprintf("%s (%.0f)", insight.TopCompetitor.Brand, insight.TopCompetitor.Score)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", FormatValue(insight.Name), insight.PromptCount, insight.SubjectCount, top)
	}
	return w.Flush()
}

func runMetricsSources(cmd *cobra.Command, args []string) error {
	insights, err := requireSnapshot()
	if err != nil {
		return err
	}
	sourceInsights := insights.SourceInsights()

	fmt.Printf("%s🌐 Source Insights%s\n", HeaderStyle, Reset)
	fmt.Printf("%s==================%s\n", DimStyle, Reset)
	fmt.Println()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sSOURCE\tPAGES\tSUBJECT HITS\tTOP COMPETITOR%s\n", LabelStyle, Reset)
	for _, insight := range sourceInsights {
		top := FormatDim("(none)")
		if !insight.TopCompetitor.IsZero() {
			top = fmt.Sprintf("%s (%.0f)", insight.TopCompetitor.Brand, insight.TopCompetitor.Score)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", FormatValue(insight.Source), insight.PagesUsed, insight.SubjectCount, top)
	}
	return w.Flush()
}

func runMetricsPositions(cmd *cobra.Command, args []string) error {
	insights, err := requireSnapshot()
	if err != nil {
		return err
	}
	breakdown := insights.PositionBreakdown()

	fmt.Printf("%s📍 Position Breakdown%s\n", HeaderStyle, Reset)
	fmt.Printf("%s=====================%s\n", DimStyle, Reset)
	fmt.Println()
	fmt.Printf("%sTop (first mention): %s\n", LabelStyle, FormatValue(fmt.Sprintf("%d%%", breakdown.TopPercent)))
	fmt.Printf("%sMid (rank 2-4): %s\n", LabelStyle, FormatValue(fmt.Sprintf("%d%%", breakdown.MidPercent)))
	fmt.Printf("%sLow (rank 5+): %s\n", LabelStyle, FormatValue(fmt.Sprintf("%d%%", breakdown.LowPercent)))
	return nil
}

func runMetricsRates(cmd *cobra.Command, args []string) error {
	insights, err := requireSnapshot()
	if err != nil {
		return err
	}
	rows := insights.ResponseRates(metricsLimit)

	fmt.Printf("%s📈 Response Rates%s\n", HeaderStyle, Reset)
	fmt.Printf("%s=================%s\n", DimStyle, Reset)
	fmt.Println()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sBRAND\tRESPONSE RATE%s\n", LabelStyle, Reset)
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%d%%\n", FormatValue(row.Brand), row.ResponseRate)
	}
	return w.Flush()
}
