package apex

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/victormarques-ia/apex/internal/service"
)

var consumptionCmd = &cobra.Command{
	Use:     "consumption",
	Aliases: []string{"log"},
	Short:   "Log what athletes eat",
}

var (
	consAthlete  string
	consFood     string
	consDate     string
	consQuantity float64
	consUnit     string
	consNotes    string
)

var consumptionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a consumption",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := dateOrToday(consDate)
		if err != nil {
			return err
		}
		in := service.ConsumptionInput{
			AthleteID: consAthlete,
			FoodID:    consFood,
			Date:      day.Format("2006-01-02"),
			Quantity:  consQuantity,
			Unit:      consUnit,
			Notes:     consNotes,
		}
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			id, err := service.CreateConsumption(ctx, sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added consumption %s\n", id)
			return nil
		})
	},
}

var (
	consListAthlete string
	consListFrom    string
	consListTo      string
	consListLimit   int
	consListOffset  int
)

var consumptionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List an athlete's consumptions (newest first)",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := service.ListConsumptionsFilter{
			AthleteID: consListAthlete,
			FromDate:  consListFrom,
			ToDate:    consListTo,
			Limit:     consListLimit,
			Offset:    consListOffset,
		}
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			page, err := service.ListConsumptions(ctx, sqldb, filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tDATE\tFOOD\tGRAMS\tNOTES")
			for _, c := range page.Docs {
				food := "(deleted food)"
				if c.Food != nil {
					food = c.Food.Name
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%.1f\t%s\n", c.ID, c.Date, food, c.QuantityG, c.Notes)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Showing %d of %d\n", len(page.Docs), page.TotalDocs)
			return nil
		})
	},
}

var consumptionUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a consumption",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.UpdateConsumptionInput{
			ID:       args[0],
			FoodID:   consFood,
			Date:     consDate,
			Quantity: consQuantity,
			Unit:     consUnit,
			Notes:    consNotes,
		}
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			if err := service.UpdateConsumption(ctx, sqldb, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated consumption %s\n", args[0])
			return nil
		})
	},
}

var consumptionDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a consumption",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			if err := service.DeleteConsumption(ctx, sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted consumption %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(consumptionCmd)
	consumptionCmd.AddCommand(consumptionAddCmd, consumptionListCmd, consumptionUpdateCmd, consumptionDeleteCmd)

	consumptionAddCmd.Flags().StringVar(&consAthlete, "athlete", "", "Athlete id")
	_ = consumptionAddCmd.MarkFlagRequired("athlete")
	for _, c := range []*cobra.Command{consumptionAddCmd, consumptionUpdateCmd} {
		c.Flags().StringVar(&consFood, "food", "", "Food id")
		c.Flags().StringVar(&consDate, "date", "", "Date YYYY-MM-DD")
		c.Flags().Float64Var(&consQuantity, "quantity", 0, "Quantity eaten")
		c.Flags().StringVar(&consUnit, "unit", "g", "Unit: mg|g|kg|oz|lb")
		c.Flags().StringVar(&consNotes, "notes", "", "Notes")
		_ = c.MarkFlagRequired("quantity")
	}
	_ = consumptionAddCmd.MarkFlagRequired("food")
	_ = consumptionUpdateCmd.MarkFlagRequired("date")

	consumptionListCmd.Flags().StringVar(&consListAthlete, "athlete", "", "Athlete id")
	consumptionListCmd.Flags().StringVar(&consListFrom, "from", "", "Start date YYYY-MM-DD")
	consumptionListCmd.Flags().StringVar(&consListTo, "to", "", "End date YYYY-MM-DD")
	consumptionListCmd.Flags().IntVar(&consListLimit, "limit", 0, "Max rows (default from config)")
	consumptionListCmd.Flags().IntVar(&consListOffset, "offset", 0, "Rows to skip")
	_ = consumptionListCmd.MarkFlagRequired("athlete")
}
