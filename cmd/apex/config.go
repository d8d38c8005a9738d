package apex

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/victormarques-ia/apex/internal/service"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage apex local configuration",
}

var (
	cfgPageSize         int
	cfgReminderSchedule string
)

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set configuration values",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			updates := 0
			if cmd.Flags().Changed("page-size") {
				if err := service.SetConfig(ctx, sqldb, service.ConfigDefaultPageSize, strconv.Itoa(cfgPageSize)); err != nil {
					return err
				}
				updates++
			}
			if cmd.Flags().Changed("reminder-schedule") {
				if err := service.SetConfig(ctx, sqldb, service.ConfigReminderSchedule, cfgReminderSchedule); err != nil {
					return err
				}
				updates++
			}
			if updates == 0 {
				return fmt.Errorf("set at least one flag")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d config value(s)\n", updates)
			return nil
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show current configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			if len(args) == 1 {
				value, ok, err := service.GetConfig(ctx, sqldb, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("config key %q is not set", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			}
			cfg, err := service.ListConfig(ctx, sqldb)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(cfg))
			for k := range cfg {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(cmd.OutOrStdout(), "KEY\tVALUE")
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, cfg[k])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configGetCmd)

	configSetCmd.Flags().IntVar(&cfgPageSize, "page-size", 50, "Default page size for list commands")
	configSetCmd.Flags().StringVar(&cfgReminderSchedule, "reminder-schedule", "", "Cron schedule for agenda reminders (e.g. \"0 6 * * *\")")
}
