package apex

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/victormarques-ia/apex/internal/app"
	"github.com/victormarques-ia/apex/internal/identity"
	"github.com/victormarques-ia/apex/internal/logger"
)

var (
	dbPath    string
	logLevel  string
	actorID   string
	actorRole string

	settings app.Settings
	log      = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "apex",
	Short:         "apex tracks athletes' nutrition, diet plans and training from your terminal",
	Long:          "apex is a local-first coaching CLI for agencies, trainers, nutritionists and athletes: foods, consumption logs, diet and workout plans, nutrition totals and daily agendas.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := app.LoadSettings()
		if err != nil {
			return err
		}
		settings = s

		level := logLevel
		if level == "" {
			level = settings.LogLevel
		}
		l, err := logger.New(level, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		log = l

		id, role := actorID, actorRole
		if id == "" {
			id = settings.ActorID
		}
		if role == "" {
			role = settings.ActorRole
		}
		actor, err := identity.NewActor(id, role)
		if err != nil {
			return fmt.Errorf("resolve actor: %w", err)
		}
		cmd.SetContext(identity.WithActor(cmd.Context(), actor))
		log.Debug("resolved actor", zap.String("actor_id", actor.ID), zap.String("role", string(actor.Role)))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (env APEX_DB)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error (env APEX_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&actorID, "as", "", "Act as this staff or athlete id (env APEX_ACTOR_ID)")
	rootCmd.PersistentFlags().StringVar(&actorRole, "role", "", "Actor role: admin|agency|trainer|nutritionist|athlete (env APEX_ACTOR_ROLE)")
}
