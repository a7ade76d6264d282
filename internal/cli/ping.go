package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-triptych/infrastructure/gemini"
)

// connectionTester is implemented by executors that can check the API is
// reachable with the current credential.
type connectionTester interface {
	TestConnection(ctx context.Context) (bool, error)
}

func (a *app) newPingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the API accepts the configured key",
		Long:  fmt.Sprintf("Sends %q to %s with a %d token limit.", gemini.ConnectionTestPrompt, gemini.ConnectionTestModel, gemini.ConnectionTestMaxTokens),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			key, _, err := a.resolveAPIKey(ctx)
			if err != nil {
				return err
			}
			_, base, err := a.buildExecutor(ctx, key, nil)
			if err != nil {
				return err
			}
			tester, ok := base.(connectionTester)
			if !ok {
				return errors.New("executor does not support connection tests")
			}
			if a.cfg.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
				defer cancel()
			}
			if _, err := tester.TestConnection(ctx); err != nil {
				fmt.Fprintln(a.streams.Out, failLabel("FAILED"))
				return err
			}
			fmt.Fprintln(a.streams.Out, okLabel("OK"))
			return nil
		},
	}
}
