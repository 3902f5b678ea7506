package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lightcode-go/internal/console"

	"github.com/spf13/cobra"
)

func newConsoleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Interactive prompt; the chip is put to sleep on exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.newApp(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			wait := a.start(ctx)

			con := console.New(a.bus.NewConnection("console"), a.svc.Name(), cmd.OutOrStdout())
			err = con.Run(ctx)
			cancel()
			wait()
			return err
		},
	}
}
