// meteo server: one-shot weather requests over tcp (or quic), goroutine per conn.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dev.c0redev.meteo/internal/config"
	"dev.c0redev.meteo/internal/server"
)

type usageError struct{ error }

func newRootCmd(ctx context.Context, stderr io.Writer) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:           "server [-p port]",
		Short:         "Weather service: answers one fixed-size request per connection",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError{fmt.Errorf("unexpected argument %q", args[0])}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			logger := log.New(stderr, "", log.LstdFlags)
			srv := server.New(server.WithLogger(logger), server.WithIOTimeout(cfg.IOTimeout))
			err = srv.ListenAndServe(ctx, cfg.Transport, net.JoinHostPort("", cfg.Port))
			if errors.Is(err, context.Canceled) {
				logger.Println("shutting down")
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default 56700)")
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	return cmd
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	cmd := newRootCmd(ctx, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "server:", err)
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprint(stderr, cmd.UsageString())
		}
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}
