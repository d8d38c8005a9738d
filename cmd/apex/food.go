package apex

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/victormarques-ia/apex/internal/model"
	"github.com/victormarques-ia/apex/internal/provider/openfoodfacts"
	"github.com/victormarques-ia/apex/internal/service"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Manage the food catalog (nutrition per 100g)",
}

var (
	foodName     string
	foodBrand    string
	foodCalories float64
	foodProtein  float64
	foodCarbs    float64
	foodFat      float64
)

func foodInputFromFlags(cmd *cobra.Command) service.FoodInput {
	return service.FoodInput{
		Name:            foodName,
		Brand:           foodBrand,
		CaloriesPer100g: optionalFloat(cmd, "calories", foodCalories),
		ProteinPer100g:  optionalFloat(cmd, "protein", foodProtein),
		CarbsPer100g:    optionalFloat(cmd, "carbs", foodCarbs),
		FatPer100g:      optionalFloat(cmd, "fat", foodFat),
	}
}

var foodAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a food",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := foodInputFromFlags(cmd)
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			id, err := service.CreateFood(ctx, sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added food %s\n", id)
			return nil
		})
	},
}

var (
	foodListQuery  string
	foodListLimit  int
	foodListOffset int
)

var foodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List or search foods",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := service.ListFoodsFilter{Query: foodListQuery, Limit: foodListLimit, Offset: foodListOffset}
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			page, err := service.ListFoods(ctx, sqldb, filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tBRAND\tKCAL\tP\tC\tF\tSOURCE")
			for _, f := range page.Docs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", f.ID, f.Name, f.Brand,
					formatOptional(f.CaloriesPer100g), formatOptional(f.ProteinPer100g), formatOptional(f.CarbsPer100g), formatOptional(f.FatPer100g), f.SourceType)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Showing %d of %d\n", len(page.Docs), page.TotalDocs)
			return nil
		})
	},
}

var foodShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			f, err := service.GetFood(ctx, sqldb, args[0])
			if err != nil {
				return err
			}
			printFood(cmd, f)
			return nil
		})
	},
}

var foodUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a food's name, brand and nutrition facts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.UpdateFoodInput{ID: args[0], FoodInput: foodInputFromFlags(cmd)}
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			if err := service.UpdateFood(ctx, sqldb, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated food %s\n", args[0])
			return nil
		})
	},
}

var foodDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a food (logged consumptions keep an unresolved reference)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			if err := service.DeleteFood(ctx, sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted food %s\n", args[0])
			return nil
		})
	},
}

var foodImportCmd = &cobra.Command{
	Use:   "import <barcode>",
	Short: "Import a food from Open Food Facts by barcode",
	Long:  "Import a packaged food from Open Food Facts (https://world.openfoodfacts.org). No API key is required. Set APEX_OPENFOODFACTS_URL to use a mirror.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := &openfoodfacts.Client{BaseURL: settings.OpenFoodFactsURL}
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			f, created, err := service.ImportFoodByBarcode(ctx, sqldb, client, args[0])
			if err != nil {
				return err
			}
			log.Info("imported food", zap.String("barcode", args[0]), zap.String("food_id", f.ID), zap.Bool("created", created))
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Imported food %s\n", f.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Food already imported as %s\n", f.ID)
			}
			printFood(cmd, f)
			return nil
		})
	},
}

func printFood(cmd *cobra.Command, f model.Food) {
	fmt.Fprintf(cmd.OutOrStdout(), "ID: %s\n", f.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "Name: %s\n", f.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "Brand: %s\n", f.Brand)
	fmt.Fprintf(cmd.OutOrStdout(), "Per 100g: kcal %s, protein %s, carbs %s, fat %s\n",
		formatOptional(f.CaloriesPer100g), formatOptional(f.ProteinPer100g), formatOptional(f.CarbsPer100g), formatOptional(f.FatPer100g))
	fmt.Fprintf(cmd.OutOrStdout(), "Source: %s %s\n", f.SourceType, f.SourceRef)
}

func init() {
	rootCmd.AddCommand(foodCmd)
	foodCmd.AddCommand(foodAddCmd, foodListCmd, foodShowCmd, foodUpdateCmd, foodDeleteCmd, foodImportCmd)

	for _, c := range []*cobra.Command{foodAddCmd, foodUpdateCmd} {
		c.Flags().StringVar(&foodName, "name", "", "Food name")
		c.Flags().StringVar(&foodBrand, "brand", "", "Brand")
		c.Flags().Float64Var(&foodCalories, "calories", 0, "Calories per 100g")
		c.Flags().Float64Var(&foodProtein, "protein", 0, "Protein grams per 100g")
		c.Flags().Float64Var(&foodCarbs, "carbs", 0, "Carb grams per 100g")
		c.Flags().Float64Var(&foodFat, "fat", 0, "Fat grams per 100g")
		_ = c.MarkFlagRequired("name")
	}

	foodListCmd.Flags().StringVar(&foodListQuery, "query", "", "Search by name")
	foodListCmd.Flags().IntVar(&foodListLimit, "limit", 0, "Max rows (default from config)")
	foodListCmd.Flags().IntVar(&foodListOffset, "offset", 0, "Rows to skip")
}
