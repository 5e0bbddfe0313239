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
	llmName     string
	llmProvider string
	llmModel    string
	llmAPIKey   string
	llmBaseURL  string
	llmDisabled bool
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Manage LLM provider configurations",
}

var llmAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an LLM configuration",
	RunE:  runLLMAdd,
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List LLM configurations",
	RunE:  runLLMList,
}

var llmModelsCmd = &cobra.Command{
	Use:   "models [id]",
	Short: "List models available from an LLM's provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runLLMModels,
}

var llmRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove an LLM configuration",
	Args:  cobra.ExactArgs(1),
	RunE:  runLLMRemove,
}

func init() {
	llmCmd.AddCommand(llmAddCmd)
	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmModelsCmd)
	llmCmd.AddCommand(llmRemoveCmd)

	llmAddCmd.Flags().StringVar(&llmName, "name", "", "display name")
	llmAddCmd.Flags().StringVar(&llmProvider, "provider", "", "provider (openai, anthropic, google, ollama, perplexity)")
	llmAddCmd.Flags().StringVar(&llmModel, "model", "", "model identifier")
	llmAddCmd.Flags().StringVar(&llmAPIKey, "api-key", "", "API key")
	llmAddCmd.Flags().StringVar(&llmBaseURL, "base-url", "", "override base URL")
	llmAddCmd.Flags().BoolVar(&llmDisabled, "disabled", false, "create disabled")
	llmAddCmd.MarkFlagRequired("name")
	llmAddCmd.MarkFlagRequired("provider")
	llmAddCmd.MarkFlagRequired("model")
}

func runLLMAdd(cmd *cobra.Command, args []string) error {
	switch llmProvider {
	case "openai", "anthropic", "google", "ollama", "perplexity":
	default:
		return fmt.Errorf("invalid provider: %s (must be openai, anthropic, google, ollama or perplexity)", llmProvider)
	}
	if llmProvider != "ollama" && llmAPIKey == "" {
		return fmt.Errorf("--api-key is required for provider %s", llmProvider)
	}

	llmConfig := &models.LLMConfig{
		ID:       uuid.New().String(),
		Name:     llmName,
		Provider: llmProvider,
		Model:    llmModel,
		APIKey:   llmAPIKey,
		BaseURL:  llmBaseURL,
		Enabled:  !llmDisabled,
	}

	if err := database.CreateLLM(context.Background(), llmConfig); err != nil {
		return fmt.Errorf("failed to create LLM: %w", err)
	}

	fmt.Printf("%s✅ LLM added: %s (%s)%s\n", SuccessStyle, llmConfig.Name, llmConfig.ID, Reset)
	return nil
}

func runLLMList(cmd *cobra.Command, args []string) error {
	llms, err := database.ListLLMs(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to list LLMs: %w", err)
	}

	if len(llms) == 0 {
		fmt.Printf("%sNo LLMs configured. Add one with 'geoscope llm add'.%s\n", WarningStyle, Reset)
		return nil
	}

	fmt.Printf("%s🤖 LLM Configurations%s\n", HeaderStyle, Reset)
	fmt.Printf("%s=====================%s\n", DimStyle, Reset)
	fmt.Println()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sID\tNAME\tPROVIDER\tMODEL\tAPI KEY\tENABLED%s\n", LabelStyle, Reset)
	for _, llmConfig := range llms {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			FormatMeta(llmConfig.ID),
			FormatValue(llmConfig.Name),
			llmConfig.Provider,
			llmConfig.Model,
			maskSensitiveData(llmConfig.APIKey),
			enabledMark(llmConfig.Enabled),
		)
	}
	return w.Flush()
}

func runLLMModels(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	llmConfig, err := database.GetLLM(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get LLM: %w", err)
	}

	provider, ok := llmRegistry.Get(llmConfig.Provider)
	if !ok {
		return fmt.Errorf("provider not registered: %s", llmConfig.Provider)
	}

	modelList, err := provider.ListModels(ctx, llmConfig.APIKey, llmConfig.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	fmt.Printf("%s📋 Available Models (%s)%s\n", HeaderStyle, llmConfig.Provider, Reset)
	fmt.Printf("%s=======================%s\n", DimStyle, Reset)
	fmt.Println()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sID\tNAME%s\n", LabelStyle, Reset)
	for _, model := range modelList {
		fmt.Fprintf(w, "%s\t%s\n", FormatValue(model.ID), model.Name)
	}
	return w.Flush()
}

func runLLMRemove(cmd *cobra.Command, args []string) error {
	if err := database.DeleteLLM(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to delete LLM: %w", err)
	}
	fmt.Printf("%s✅ LLM removed%s\n", SuccessStyle, Reset)
	return nil
}
