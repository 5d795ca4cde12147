// Command librarydesk runs the library dashboard and its maintenance tasks.
//
// @title          librarydesk API
// @version        1.0
// @description    Sign-in, session and catalog endpoints of the library dashboard.
// @BasePath       /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/librarydesk/librarydesk/internal/pkg/config"
	"github.com/librarydesk/librarydesk/pkg/logger"
)

// app is what every subcommand gets after the root command ran.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "librarydesk",
		Short:         "Library dashboard server and maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load() // .env is optional

			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.Init(logger.ForEnv(cfg.Env, cfg.LogLevel))
			return nil
		},
	}
	root.AddCommand(
		newServeCmd(a),
		newImportBooksCmd(a),
		newCreateUserCmd(a),
	)
	return root
}
