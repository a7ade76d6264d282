package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-triptych/infrastructure/store"
)

func (a *app) newKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the stored Gemini API key",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set [KEY]",
			Short: "Store an API key (read from stdin when omitted)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				key := ""
				if len(args) == 1 {
					key = args[0]
				} else {
					line, err := bufio.NewReader(a.streams.In).ReadString('\n')
					if err != nil && line == "" {
						return errors.New("no API key given on stdin")
					}
					key = line
				}
				if !store.LooksLikeAPIKey(key) {
					fmt.Fprintln(a.streams.ErrOut, "warning: Gemini API keys usually start with \"AIza\" and are at least 35 characters long")
				}
				s, err := a.openStore()
				if err != nil {
					return err
				}
				if err := s.SaveAPIKey(cmd.Context(), key); err != nil {
					return err
				}
				fmt.Fprintln(a.streams.Out, "API key saved")
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the stored API key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := a.openStore()
				if err != nil {
					return err
				}
				if err := s.ClearAPIKey(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(a.streams.Out, "API key cleared")
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the active API key, masked, and where it comes from",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				key, source, err := a.resolveAPIKey(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(a.streams.Out, "%s (from %s)\n", maskKey(key), source)
				return nil
			},
		},
	)
	return cmd
}

// maskKey keeps the first and last four characters of key.
func maskKey(key string) string {
	key = strings.TrimSpace(key)
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
