package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/geoscope/geoscope/internal/models"
)

var (
	brandName     string
	brandAliases  string
	brandLogo     string
	brandSubject  bool
	brandDisabled bool
)

var brandCmd = &cobra.Command{
	Use:   "brand",
	Short: "Manage tracked brands",
	Long:  `Manage the brands watched across collection runs. Exactly one enabled brand should be marked as the subject; the rest are competitors.`,
}

var brandAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Track a brand",
	RunE:  runBrandAdd,
}

var brandListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked brands",
	RunE:  runBrandList,
}

var brandRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Stop tracking a brand",
	Args:  cobra.ExactArgs(1),
	RunE:  runBrandRemove,
}

func init() {
	brandCmd.AddCommand(brandAddCmd)
	brandCmd.AddCommand(brandListCmd)
	brandCmd.AddCommand(brandRemoveCmd)

	brandAddCmd.Flags().StringVar(&brandName, "name", "", "brand name")
	brandAddCmd.Flags().StringVar(&brandAliases, "aliases", "", "comma-separated alternative spellings")
	brandAddCmd.Flags().StringVar(&brandLogo, "logo", "", "logo URL")
	brandAddCmd.Flags().BoolVar(&brandSubject, "subject", false, "mark as the subject brand")
	brandAddCmd.Flags().BoolVar(&brandDisabled, "disabled", false, "create disabled")
	brandAddCmd.MarkFlagRequired("name")
}

func runBrandAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if existing, err := database.GetBrandByName(ctx, brandName); err == nil && existing != nil {
		return fmt.Errorf("brand already tracked: %s (%s)", existing.Name, existing.ID)
	}

	brand := &models.TrackedBrand{
		ID:      uuid.New().String(),
		Name:    brandName,
		Aliases: splitList(brandAliases),
		Logo:    brandLogo,
		Subject: brandSubject,
		Enabled: !brandDisabled,
	}

	if err := database.CreateBrand(ctx, brand); err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}

	role := "competitor"
	if brand.Subject {
		role = "subject"
	}
	fmt.Printf("%s✅ Brand tracked as %s: %s (%s)%s\n", SuccessStyle, role, brand.Name, brand.ID, Reset)
	return nil
}

func runBrandList(cmd *cobra.Command, args []string) error {
	brands, err := database.ListBrands(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to list brands: %w", err)
	}

	if len(brands) == 0 {
		fmt.Printf("%sNo brands tracked. Add one with 'geoscope brand add'.%s\n", WarningStyle, Reset)
		return nil
	}

	fmt.Printf("%s🏷️  Tracked Brands%s\n", HeaderStyle, Reset)
	fmt.Printf("%s=================%s\n", DimStyle, Reset)
	fmt.Println()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sID\tNAME\tALIASES\tROLE\tENABLED%s\n", LabelStyle, Reset)
	for _, brand := range brands {
		role := "competitor"
		if brand.Subject {
			role = FormatValue("subject")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			FormatMeta(brand.ID),
			FormatValue(brand.Name),
			strings.Join(brand.Aliases, ", "),
			role,
			enabledMark(brand.Enabled),
		)
	}
	return w.Flush()
}

func runBrandRemove(cmd *cobra.Command, args []string) error {
	if err := database.DeleteBrand(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
	}
	fmt.Printf("%s✅ Brand removed%s\n", SuccessStyle, Reset)
	return nil
}
