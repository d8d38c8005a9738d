package apex

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/victormarques-ia/apex/internal/notify"
	"github.com/victormarques-ia/apex/internal/service"
)

var (
	remindOnce     bool
	remindDate     string
	remindSchedule string
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Print daily agendas for every athlete you can access, once or on a schedule",
	Long:  "Print each athlete's daily agenda. With --once a single pass runs for --date (default today); otherwise passes run on the cron schedule from --schedule, the reminder_schedule config key, or \"0 6 * * *\", until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := dateOrToday(remindDate)
		if err != nil {
			return err
		}
		return withDB(cmd, func(ctx context.Context, sqldb *sql.DB) error {
			s := notify.NewScheduler(service.NewRepository(sqldb), &notify.WriterNotifier{W: cmd.OutOrStdout()}, log)
			if remindOnce {
				sent, err := s.RunOnce(ctx, day)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sent %d agenda(s)\n", sent)
				return nil
			}

			schedule := strings.TrimSpace(remindSchedule)
			if schedule == "" {
				configured, ok, err := service.GetConfig(ctx, sqldb, service.ConfigReminderSchedule)
				if err != nil {
					return err
				}
				if ok {
					schedule = configured
				}
			}
			runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			log.Info("waiting for reminder schedule", zap.String("schedule", schedule))
			return s.Run(runCtx, schedule)
		})
	},
}

func init() {
	rootCmd.AddCommand(remindCmd)
	remindCmd.Flags().BoolVar(&remindOnce, "once", false, "Run a single pass and exit")
	remindCmd.Flags().StringVar(&remindDate, "date", "", "Date for --once YYYY-MM-DD (default today)")
	remindCmd.Flags().StringVar(&remindSchedule, "schedule", "", "Cron schedule overriding the reminder_schedule config")
}
