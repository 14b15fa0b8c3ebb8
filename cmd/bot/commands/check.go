package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivanoskov/balance_bot/internal/app"
	"github.com/ivanoskov/balance_bot/internal/model"
	"github.com/ivanoskov/balance_bot/internal/service"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <address>[,<address>...]",
		Short: "Look up balances once and print the report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addresses := model.ParseAddresses(strings.Join(args, ","))
			if len(addresses) == 0 {
				return errors.New("no valid wallet addresses provided")
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			return runApp(ctx, func(ctx context.Context, a *app.App) error {
				report := a.Checker.Check(ctx, addresses, nil)
				fmt.Fprintln(cmd.OutOrStdout(), service.FormatReport(report))
				return nil
			})
		},
	}
}
