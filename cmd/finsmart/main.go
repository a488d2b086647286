// Command finsmart runs the FinSmart API server and its operator tools.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dvloznov/finsmart/internal/config"
	"github.com/dvloznov/finsmart/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is the state shared by every subcommand once the root pre-run has loaded it.
type app struct {
	v   *viper.Viper
	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zerolog.Nop()}
	var cfgFile string

	root := &cobra.Command{
		Use:           "finsmart",
		Short:         "Personal finance ledger with reports and AI advice",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.v, cfgFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log, err := logger.NewWithOptions(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return fmt.Errorf("failed to setup logging: %w", err)
			}

			a.cfg = cfg
			a.log = log
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (optional)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "console", "log format (console, json)")
	_ = a.v.BindPFlag("logging.level", root.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", root.PersistentFlags().Lookup("log-format"))

	root.AddCommand(
		serveCmd(a),
		reportCmd(a),
		adviseCmd(a),
		notionSyncCmd(a),
		migrateCmd(a),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
