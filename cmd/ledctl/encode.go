package main

import (
	"context"
	"strings"

	"lightcode-go/internal/console"

	"github.com/spf13/cobra"
)

func newEncodeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <command> [args...]",
		Short: "Print the bus writes for one console command, including the final sleep",
		Example: `  ledctl encode rgbcw 1023 0 0 0 0
  ledctl encode channel 3 513`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := *opts
			o.dryRun = true
			a, err := o.newApp(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			wait := a.start(ctx)

			con := console.New(a.bus.NewConnection("encode"), a.svc.Name(), cmd.OutOrStdout())
			err = con.Exec(ctx, strings.Join(args, " "))
			cancel()
			wait()
			return err
		},
	}
}
