package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/geoscope/geoscope/internal/models"
)

var (
	scheduleName     string
	scheduleCron     string
	scheduleLLMs     string
	scheduleDisabled bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage collection schedules",
	Long:  `Manage cron-based collection schedules. Start them with 'geoscope run' or 'geoscope api --scheduler'.`,
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a collection schedule",
	RunE:  runScheduleAdd,
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collection schedules",
	RunE:  runScheduleList,
}

var scheduleRunCmd = &cobra.Command{
	Use:   "run [id]",
	Short: "Execute a schedule immediately",
	Args:  cobra.ExactArgs(1),
	RunE:  runScheduleRun,
}

var scheduleRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a collection schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runScheduleRemove,
}

func init() {
	scheduleCmd.AddCommand(scheduleAddCmd)
	scheduleCmd.AddCommand(scheduleListCmd)
	scheduleCmd.AddCommand(scheduleRunCmd)
	scheduleCmd.AddCommand(scheduleRemoveCmd)

	scheduleAddCmd.Flags().StringVar(&scheduleName, "name", "", "schedule name")
	scheduleAddCmd.Flags().StringVar(&scheduleCron, "cron", "", "cron expression, e.g. '0 6 * * *'")
	scheduleAddCmd.Flags().StringVar(&scheduleLLMs, "llms", "", "comma-separated LLM IDs (default: all enabled)")
	scheduleAddCmd.Flags().BoolVar(&scheduleDisabled, "disabled", false, "create disabled")
	scheduleAddCmd.MarkFlagRequired("name")
	scheduleAddCmd.MarkFlagRequired("cron")
}

func runScheduleAdd(cmd *cobra.Command, args []string) error {
	if _, err := cron.ParseStandard(scheduleCron); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	schedule := &models.CollectionSchedule{
		ID:       uuid.New().String(),
		Name:     scheduleName,
		LLMIDs:   splitList(scheduleLLMs),
		CronExpr: scheduleCron,
		Enabled:  !scheduleDisabled,
	}

	if err := database.CreateSchedule(context.Background(), schedule); err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	fmt.Printf("%s✅ Schedule added: %s (%s)%s\n", SuccessStyle, schedule.Name, schedule.ID, Reset)
	return nil
}

func runScheduleList(cmd *cobra.Command, args []string) error {
	schedules, err := database.ListSchedules(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to list schedules: %w", err)
	}

	if len(schedules) == 0 {
		fmt.Printf("%sNo schedules configured. Add one with 'geoscope schedule add'.%s\n", WarningStyle, Reset)
		return nil
	}

	fmt.Printf("%s⏰ Collection Schedules%s\n", HeaderStyle, Reset)
	fmt.Printf("%s=======================%s\n", DimStyle, Reset)
	fmt.Println()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sID\tNAME\tCRON\tLLMS\tLAST RUN\tENABLED%s\n", LabelStyle, Reset)
	for _, schedule := range schedules {
		llms := "all enabled"
		if len(schedule.LLMIDs) > 0 {
			llms = strings.Join(schedule.LLMIDs, ", ")
		}
		lastRun := FormatDim("never")
		if schedule.LastRun != nil {
			lastRun = FormatMeta(schedule.LastRun.Format("2006-01-02 15:04"))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			FormatMeta(schedule.ID),
			FormatValue(schedule.Name),
			schedule.CronExpr,
			llms,
			lastRun,
			enabledMark(schedule.Enabled),
		)
	}
	return w.Flush()
}

func runScheduleRun(cmd *cobra.Command, args []string) error {
	fmt.Printf("%s🔄 Executing schedule...%s\n", InfoStyle, Reset)

	if err := sched.ExecuteNow(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to execute schedule: %w", err)
	}

	fmt.Printf("%s✅ Schedule executed, snapshot archived%s\n", SuccessStyle, Reset)
	return nil
}

func runScheduleRemove(cmd *cobra.Command, args []string) error {
	if err := database.DeleteSchedule(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	fmt.Printf("%s✅ Schedule removed%s\n", SuccessStyle, Reset)
	return nil
}
