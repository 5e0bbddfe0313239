package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/geoscope/geoscope/internal/models"
)

var (
	keywordName     string
	keywordPrompts  []string
	keywordDisabled bool
)

var keywordCmd = &cobra.Command{
	Use:   "keyword",
	Short: "Manage tracked search keywords",
	Long:  `Manage the search keywords and prompt sets issued on every collection run. Prompts may contain the {keyword} placeholder.`,
}

var keywordAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Track a keyword",
	RunE:  runKeywordAdd,
}

var keywordListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked keywords",
	RunE:  runKeywordList,
}

var keywordRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Stop tracking a keyword",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeywordRemove,
}

func init() {
	keywordCmd.AddCommand(keywordAddCmd)
	keywordCmd.AddCommand(keywordListCmd)
	keywordCmd.AddCommand(keywordRemoveCmd)

	keywordAddCmd.Flags().StringVar(&keywordName, "name", "", "keyword name")
	keywordAddCmd.Flags().StringArrayVar(&keywordPrompts, "prompt", nil, "prompt template (repeatable)")
	keywordAddCmd.Flags().BoolVar(&keywordDisabled, "disabled", false, "create disabled")
	keywordAddCmd.MarkFlagRequired("name")
	keywordAddCmd.MarkFlagRequired("prompt")
}

func runKeywordAdd(cmd *cobra.Command, args []string) error {
	keyword := &models.TrackedKeyword{
		ID:      uuid.New().String(),
		Name:    keywordName,
		Prompts: keywordPrompts,
		Enabled: !keywordDisabled,
	}

	if err := database.CreateKeyword(context.Background(), keyword); err != nil {
		return fmt.Errorf("failed to create keyword: %w", err)
	}

	fmt.Printf("%s✅ Keyword tracked: %s with %s prompts (%s)%s\n", SuccessStyle,
		keyword.Name, FormatCount(len(keyword.Prompts)), keyword.ID, Reset)
	return nil
}

func runKeywordList(cmd *cobra.Command, args []string) error {
	keywords, err := database.ListKeywords(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to list keywords: %w", err)
	}

	if len(keywords) == 0 {
		fmt.Printf("%sNo keywords tracked. Add one with 'geoscope keyword add'.%s\n", WarningStyle, Reset)
		return nil
	}

	fmt.Printf("%s🔑 Tracked Keywords%s\n", HeaderStyle, Reset)
	fmt.Printf("%s===================%s\n", DimStyle, Reset)
	fmt.Println()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sID\tNAME\tPROMPTS\tENABLED%s\n", LabelStyle, Reset)
	for _, keyword := range keywords {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			FormatMeta(keyword.ID),
			FormatValue(keyword.Name),
			len(keyword.Prompts),
			enabledMark(keyword.Enabled),
		)
	}
	return w.Flush()
}

func runKeywordRemove(cmd *cobra.Command, args []string) error {
	if err := database.DeleteKeyword(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to delete keyword: %w", err)
	}
	fmt.Printf("%s✅ Keyword removed%s\n", SuccessStyle, Reset)
	return nil
}
