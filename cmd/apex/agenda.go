package apex

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/victormarques-ia/apex/internal/model"
	"github.com/victormarques-ia/apex/internal/notify"
	"github.com/victormarques-ia/apex/internal/service"
)

var (
	agendaAthlete string
	agendaDate    string
	agendaJSON    bool
)

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Show an athlete's meals, workouts and hydration for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := dateOrToday(agendaDate)
		if err != nil {
			return err
		}
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			agenda, err := service.DailyActivities(ctx, service.NewRepository(sqldb), agendaAthlete, day)
			if err != nil {
				return err
			}
			if agendaJSON {
				return writeJSON(cmd.OutOrStdout(), agenda)
			}
			if len(agenda.Activities) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing scheduled for %s\n", agenda.Date)
				return nil
			}
			n := &notify.WriterNotifier{W: cmd.OutOrStdout()}
			athlete, err := service.GetAthlete(ctx, sqldb, agenda.AthleteID)
			if err != nil {
				athlete = model.Athlete{ID: agenda.AthleteID}
			}
			return n.Notify(ctx, athlete, agenda)
		})
	},
}

func init() {
	rootCmd.AddCommand(agendaCmd)
	agendaCmd.Flags().StringVar(&agendaAthlete, "athlete", "", "Athlete id")
	agendaCmd.Flags().StringVar(&agendaDate, "date", "", "Date YYYY-MM-DD (default today)")
	agendaCmd.Flags().BoolVar(&agendaJSON, "json", false, "Output as JSON")
	_ = agendaCmd.MarkFlagRequired("athlete")
}
