// meteo client: client [-s server] [-p port] [-t]* -r "type city".
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dev.c0redev.meteo/internal/client"
	"dev.c0redev.meteo/internal/config"
)

type usageError struct{ error }

type flags struct {
	server  string
	port    string
	request string
	trace   int
}

func newRootCmd(ctx context.Context, stdout, stderr io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           `client [-s server] [-p port] [-t]* -r "type city"`,
		Short:         "Ask the weather server for one measurement",
		Long:          "Request types: t temperature, h humidity, w wind, p pressure.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError{fmt.Errorf("unexpected argument %q", args[0])}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("request") {
				return usageError{errors.New(`-r "type city" is required`)}
			}
			req, err := client.ParseRequest(f.request)
			if err != nil {
				return usageError{err}
			}
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("server") {
				cfg.Server = f.server
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = f.port
			}
			opts := client.Options{
				Server:     cfg.Server,
				Port:       cfg.Port,
				Network:    cfg.Transport,
				IOTimeout:  cfg.IOTimeout,
				DumpFrames: f.trace > 1,
			}
			if f.trace > 0 {
				opts.Trace = log.New(stderr, "client: ", 0)
			}
			res, err := client.Query(ctx, opts, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, client.NewRenderer(stdout).Render(res, cfg.Server))
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.server, "server", "s", "", "server host name or address (default localhost)")
	fl.StringVarP(&f.port, "port", "p", "", "server port (default 56700)")
	fl.StringVarP(&f.request, "request", "r", "", `request "type city", e.g. "t Roma"`)
	fl.CountVarP(&f.trace, "trace", "t", "trace connection steps; repeat to dump frames")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	return cmd
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(ctx, stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "client:", err)
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
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
