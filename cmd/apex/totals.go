package apex

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/victormarques-ia/apex/internal/service"
)

var (
	totalsAthlete string
	totalsFrom    string
	totalsTo      string
	totalsGrouped bool
	totalsJSON    bool
)

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Calorie and macro totals for an athlete over a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := service.NutritionTotalsRequest{
			AthleteID:   totalsAthlete,
			From:        totalsFrom,
			To:          totalsTo,
			GroupByDate: totalsGrouped,
		}
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			report, err := service.NutritionTotalsFor(ctx, service.NewRepository(sqldb), req)
			if err != nil {
				return err
			}
			log.Debug("computed totals", zap.String("athlete_id", report.AthleteID), zap.Int("consumptions", report.TotalConsumptions))
			if totalsJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printTotals(cmd, report)
			return nil
		})
	},
}

func printTotals(cmd *cobra.Command, r *service.NutritionTotalsReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Athlete %s, %s to %s (%d consumptions)\n", r.AthleteID, r.FromDate, r.ToDate, r.TotalConsumptions)
	fmt.Fprintf(out, "Calories: %.2f\nProtein: %.2f\nCarbs: %.2f\nFat: %.2f\n", r.Totals.Calories, r.Totals.Protein, r.Totals.Carbs, r.Totals.Fat)
	if r.Grouped == nil {
		return
	}
	dates := make([]string, 0, len(r.Grouped))
	for d := range r.Grouped {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	fmt.Fprintln(out, "DATE\tKCAL\tP\tC\tF\tCOUNT")
	for _, d := range dates {
		g := r.Grouped[d]
		fmt.Fprintf(out, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%d\n", d, g.Calories, g.Protein, g.Carbs, g.Fat, g.Consumptions)
	}
}

func init() {
	rootCmd.AddCommand(totalsCmd)
	totalsCmd.Flags().StringVar(&totalsAthlete, "athlete", "", "Athlete id")
	totalsCmd.Flags().StringVar(&totalsFrom, "from", "", "Start date YYYY-MM-DD")
	totalsCmd.Flags().StringVar(&totalsTo, "to", "", "End date YYYY-MM-DD (inclusive)")
	totalsCmd.Flags().BoolVar(&totalsGrouped, "group-by-date", false, "Break totals down per date")
	totalsCmd.Flags().BoolVar(&totalsJSON, "json", false, "Output as JSON")
	_ = totalsCmd.MarkFlagRequired("athlete")
	_ = totalsCmd.MarkFlagRequired("from")
	_ = totalsCmd.MarkFlagRequired("to")
}
