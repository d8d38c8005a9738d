package apex

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/victormarques-ia/apex/internal/service"
)

var dietCmd = &cobra.Command{
	Use:   "diet",
	Short: "Manage diet plans, their days and meals",
}

var (
	dietAthlete string
	dietName    string
	dietStart   string
	dietEnd     string
	dietNotes   string
)

var dietAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a diet plan for an athlete",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.DietPlanInput{AthleteID: dietAthlete, Name: dietName, StartDate: dietStart, EndDate: dietEnd, Notes: dietNotes}
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			id, err := service.CreateDietPlan(ctx, sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added diet plan %s\n", id)
			return nil
		})
	},
}

var dietListAthlete string

var dietListCmd = &cobra.Command{
	Use:   "list",
	Short: "List an athlete's diet plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			plans, err := service.ListDietPlans(ctx, sqldb, dietListAthlete)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tSTART\tEND")
			for _, p := range plans {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.StartDate, p.EndDate)
			}
			return nil
		})
	},
}

var dietShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a diet plan with its days and meals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			d, err := service.DietPlanDetails(ctx, sqldb, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s to %s)\n", d.Plan.Name, d.Plan.StartDate, d.Plan.EndDate)
			for _, day := range d.Days {
				when := "every day"
				if day.Weekday != nil {
					when = day.Weekday.String()
				}
				fmt.Fprintf(out, "Day %s [%s] %s\n", day.ID, when, day.Label)
				for _, m := range d.Meals[day.ID] {
					at := m.ScheduledTime
					if at == "" {
						at = "--:--"
					}
					fmt.Fprintf(out, "  %s\t%s\t%s\t%s\n", at, m.MealType, m.Notes, m.ID)
				}
			}
			return nil
		})
	},
}

var dietDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a diet plan with its days and meals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			if err := service.DeleteDietPlan(ctx, sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted diet plan %s\n", args[0])
			return nil
		})
	},
}

var dietDayCmd = &cobra.Command{
	Use:   "day",
	Short: "Manage diet plan days",
}

var (
	dayPlan    string
	dayWeekday string
	dayLabel   string
)

var dietDayAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a day to a diet plan (omit --weekday for every day)",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.DietPlanDayInput{DietPlanID: dayPlan, Label: dayLabel}
		if cmd.Flags().Changed("weekday") {
			wd, err := parseWeekday(dayWeekday)
			if err != nil {
				return err
			}
			in.Weekday = &wd
		}
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			id, err := service.AddDietPlanDay(ctx, sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added diet plan day %s\n", id)
			return nil
		})
	},
}

var dietMealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Manage meals of a diet plan day",
}

var (
	mealDay      string
	mealType     string
	mealTime     string
	mealNotes    string
	mealPosition int
)

var dietMealAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a meal to a diet plan day",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.MealInput{DietPlanDayID: mealDay, MealType: mealType, ScheduledTime: mealTime, Notes: mealNotes}
		if cmd.Flags().Changed("position") {
			in.Position = &mealPosition
		}
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			id, err := service.AddMeal(ctx, sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added meal %s\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(dietCmd)
	dietCmd.AddCommand(dietAddCmd, dietListCmd, dietShowCmd, dietDeleteCmd, dietDayCmd, dietMealCmd)
	dietDayCmd.AddCommand(dietDayAddCmd)
	dietMealCmd.AddCommand(dietMealAddCmd)

	today := time.Now().Format("2006-01-02")
	dietAddCmd.Flags().StringVar(&dietAthlete, "athlete", "", "Athlete id")
	dietAddCmd.Flags().StringVar(&dietName, "name", "", "Plan name")
	dietAddCmd.Flags().StringVar(&dietStart, "start", today, "First day YYYY-MM-DD")
	dietAddCmd.Flags().StringVar(&dietEnd, "end", "", "Last day YYYY-MM-DD (inclusive)")
	dietAddCmd.Flags().StringVar(&dietNotes, "notes", "", "Notes")
	_ = dietAddCmd.MarkFlagRequired("athlete")
	_ = dietAddCmd.MarkFlagRequired("name")
	_ = dietAddCmd.MarkFlagRequired("end")

	dietListCmd.Flags().StringVar(&dietListAthlete, "athlete", "", "Athlete id")
	_ = dietListCmd.MarkFlagRequired("athlete")

	dietDayAddCmd.Flags().StringVar(&dayPlan, "plan", "", "Diet plan id")
	dietDayAddCmd.Flags().StringVar(&dayWeekday, "weekday", "", "0-6 (Sunday first) or day name")
	dietDayAddCmd.Flags().StringVar(&dayLabel, "label", "", "Label")
	_ = dietDayAddCmd.MarkFlagRequired("plan")

	dietMealAddCmd.Flags().StringVar(&mealDay, "day", "", "Diet plan day id")
	dietMealAddCmd.Flags().StringVar(&mealType, "type", "", "breakfast|morning_snack|lunch|afternoon_snack|dinner|supper or a custom label")
	dietMealAddCmd.Flags().StringVar(&mealTime, "time", "", "Scheduled time HH:MM")
	dietMealAddCmd.Flags().StringVar(&mealNotes, "notes", "", "Notes")
	dietMealAddCmd.Flags().IntVar(&mealPosition, "position", 0, "Order within the day (default: last)")
	_ = dietMealAddCmd.MarkFlagRequired("day")
}
