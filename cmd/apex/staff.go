package apex

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/victormarques-ia/apex/internal/service"
)

var staffCmd = &cobra.Command{
	Use:   "staff",
	Short: "Manage agencies, trainers and nutritionists",
}

var (
	staffName     string
	staffRole     string
	staffAgency   string
	staffListRole string
)

var staffAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a staff member",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			id, err := service.CreateStaff(ctx, sqldb, service.CreateStaffInput{Name: staffName, Role: staffRole, AgencyID: staffAgency})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", staffRole, id)
			return nil
		})
	},
}

var staffListCmd = &cobra.Command{
	Use:   "list",
	Short: "List staff members",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			items, err := service.ListStaff(ctx, sqldb, staffListRole)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tROLE\tNAME\tAGENCY")
			for _, s := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", s.ID, s.Role, s.Name, s.AgencyID)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(staffCmd)
	staffCmd.AddCommand(staffAddCmd, staffListCmd)

	staffAddCmd.Flags().StringVar(&staffName, "name", "", "Staff name")
	staffAddCmd.Flags().StringVar(&staffRole, "role-type", "", "agency|trainer|nutritionist")
	staffAddCmd.Flags().StringVar(&staffAgency, "agency", "", "Agency id the member belongs to")
	_ = staffAddCmd.MarkFlagRequired("name")
	_ = staffAddCmd.MarkFlagRequired("role-type")

	staffListCmd.Flags().StringVar(&staffListRole, "role-type", "", "Filter by agency|trainer|nutritionist")
}
