package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/FxEmbed/polyglot/internal/auth"
	"github.com/FxEmbed/polyglot/internal/cli"
	"github.com/FxEmbed/polyglot/internal/httpapi"
)

type serveOptions struct {
	host string
	port int
}

func newServeCmd(envLoader *cli.EnvLoader) *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP translation API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, envLoader, opts)
		},
	}
	cmd.Flags().StringVar(&opts.host, "host", "", "Host interface to bind (overrides HOST)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "HTTP port (overrides PORT)")
	return cmd
}

func runServe(cmd *cobra.Command, envLoader *cli.EnvLoader, opts serveOptions) error {
	if cmd.Flags().Changed("port") && (opts.port <= 0 || opts.port > 65535) {
		return usageError("--port must be between 1 and 65535")
	}

	rt, err := loadRuntime(envLoader, os.Stdout)
	if err != nil {
		return err
	}
	defer rt.close()

	host := rt.cfg.Host
	if opts.host != "" {
		host = opts.host
	}
	port := rt.cfg.Port
	if opts.port != 0 {
		port = opts.port
	}

	engine := rt.engine()
	rt.discoverLanguages(cmd.Context(), engine)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpapi.NewServer(engine, rt.logger, httpapi.Options{
		Host:            host,
		Port:            port,
		ReadTimeout:     rt.cfg.ReadTimeout,
		WriteTimeout:    rt.cfg.WriteTimeout,
		ShutdownTimeout: rt.cfg.ShutdownTimeout,
		Verifier:        auth.NewTokenVerifier(rt.cfg.AccessToken, rt.cfg.AccessTokenHash),
	})
	if err := srv.Start(ctx); err != nil {
		rt.logger.Error().Err(err).Str("host", host).Int("port", port).Msg("server failed")
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
