package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/librarydesk/librarydesk/internal/api"
	mongorepo "github.com/librarydesk/librarydesk/internal/infrastructure/db/mongo"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	if err := a.cfg.ValidateServer(); err != nil {
		return err
	}

	st, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer st.close(a)

	if err := mongorepo.EnsureIndexes(ctx,
		mongorepo.NewAuthRepository(st.db),
		mongorepo.NewBookRepository(st.db),
	); err != nil {
		return err
	}

	e := api.NewRouter(api.NewDependencies(a.cfg, st.db, st.redis, a.log))

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("port", a.cfg.Port).Str("env", a.cfg.Env).Msg("http server listening")
		if err := e.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
