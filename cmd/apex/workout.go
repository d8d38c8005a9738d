package apex

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/victormarques-ia/apex/internal/service"
)

var workoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Manage workout plans",
}

var (
	workoutAthlete string
	workoutName    string
	workoutGoal    string
	workoutStart   string
	workoutEnd     string
	workoutNotes   string
)

var workoutAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a workout plan for an athlete",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.WorkoutPlanInput{
			AthleteID: workoutAthlete,
			Name:      workoutName,
			Goal:      workoutGoal,
			StartDate: workoutStart,
			EndDate:   workoutEnd,
			Notes:     workoutNotes,
		}
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			id, err := service.CreateWorkoutPlan(ctx, sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added workout plan %s\n", id)
			return nil
		})
	},
}

var workoutListAthlete string

var workoutListCmd = &cobra.Command{
	Use:   "list",
	Short: "List an athlete's workout plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			plans, err := service.ListWorkoutPlans(ctx, sqldb, workoutListAthlete)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tGOAL\tSTART\tEND")
			for _, p := range plans {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Goal, p.StartDate, p.EndDate)
			}
			return nil
		})
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a workout plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			if err := service.DeleteWorkoutPlan(ctx, sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted workout plan %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(workoutCmd)
	workoutCmd.AddCommand(workoutAddCmd, workoutListCmd, workoutDeleteCmd)

	workoutAddCmd.Flags().StringVar(&workoutAthlete, "athlete", "", "Athlete id")
	workoutAddCmd.Flags().StringVar(&workoutName, "name", "", "Plan name")
	workoutAddCmd.Flags().StringVar(&workoutGoal, "goal", "", "Training goal")
	workoutAddCmd.Flags().StringVar(&workoutStart, "start", time.Now().Format("2006-01-02"), "First day YYYY-MM-DD")
	workoutAddCmd.Flags().StringVar(&workoutEnd, "end", "", "Last day YYYY-MM-DD (inclusive)")
	workoutAddCmd.Flags().StringVar(&workoutNotes, "notes", "", "Notes")
	_ = workoutAddCmd.MarkFlagRequired("athlete")
	_ = workoutAddCmd.MarkFlagRequired("name")
	_ = workoutAddCmd.MarkFlagRequired("end")

	workoutListCmd.Flags().StringVar(&workoutListAthlete, "athlete", "", "Athlete id")
	_ = workoutListCmd.MarkFlagRequired("athlete")
}
