package apex

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/victormarques-ia/apex/internal/service"
)

var athleteCmd = &cobra.Command{
	Use:   "athlete",
	Short: "Manage athletes",
}

var (
	athleteName         string
	athleteTrainer      string
	athleteNutritionist string
	athleteAgency       string
	athleteListName     string
	athleteListLimit    int
	athleteListOffset   int
)

var athleteAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an athlete",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.CreateAthleteInput{
			Name:           athleteName,
			TrainerID:      athleteTrainer,
			NutritionistID: athleteNutritionist,
			AgencyID:       athleteAgency,
		}
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			id, err := service.CreateAthlete(ctx, sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added athlete %s\n", id)
			return nil
		})
	},
}

var athleteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List athletes you can access",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := service.ListAthletesFilter{Name: athleteListName, Limit: athleteListLimit, Offset: athleteListOffset}
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			page, err := service.ListAthletes(ctx, sqldb, filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tTRAINER\tNUTRITIONIST\tAGENCY")
			for _, a := range page.Docs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Name, a.TrainerID, a.NutritionistID, a.AgencyID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Showing %d of %d\n", len(page.Docs), page.TotalDocs)
			return nil
		})
	},
}

var athleteShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single athlete",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			a, err := service.GetAthleteForActor(ctx, sqldb, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ID: %s\n", a.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Name: %s\n", a.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "Trainer: %s\n", a.TrainerID)
			fmt.Fprintf(cmd.OutOrStdout(), "Nutritionist: %s\n", a.NutritionistID)
			fmt.Fprintf(cmd.OutOrStdout(), "Agency: %s\n", a.AgencyID)
			fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", a.CreatedAt.Local().Format("2006-01-02 15:04"))
			return nil
		})
	},
}

var (
	assignTrainer      string
	assignNutritionist string
)

var athleteAssignCmd = &cobra.Command{
	Use:   "assign <id>",
	Short: "Assign or clear an athlete's trainer and nutritionist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.AssignAthleteInput{
			AthleteID:      args[0],
			TrainerID:      optionalString(cmd, "trainer", assignTrainer),
			NutritionistID: optionalString(cmd, "nutritionist", assignNutritionist),
		}
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			if err := service.AssignAthlete(ctx, sqldb, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated athlete %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(athleteCmd)
	athleteCmd.AddCommand(athleteAddCmd, athleteListCmd, athleteShowCmd, athleteAssignCmd)

	athleteAddCmd.Flags().StringVar(&athleteName, "name", "", "Athlete name")
	athleteAddCmd.Flags().StringVar(&athleteTrainer, "trainer", "", "Trainer id")
	athleteAddCmd.Flags().StringVar(&athleteNutritionist, "nutritionist", "", "Nutritionist id")
	athleteAddCmd.Flags().StringVar(&athleteAgency, "agency", "", "Agency id")
	_ = athleteAddCmd.MarkFlagRequired("name")

	athleteListCmd.Flags().StringVar(&athleteListName, "name", "", "Filter by name")
	athleteListCmd.Flags().IntVar(&athleteListLimit, "limit", 0, "Max rows (default from config)")
	athleteListCmd.Flags().IntVar(&athleteListOffset, "offset", 0, "Rows to skip")

	athleteAssignCmd.Flags().StringVar(&assignTrainer, "trainer", "", "Trainer id (empty clears)")
	athleteAssignCmd.Flags().StringVar(&assignNutritionist, "nutritionist", "", "Nutritionist id (empty clears)")
}
