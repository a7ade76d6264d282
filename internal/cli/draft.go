package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// newDraftCommand edits the composer draft, a longer prompt kept between
// runs and sent with "run --draft".
func (a *app) newDraftCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Keep a prompt draft between runs",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set [TEXT]",
			Short: "Replace the draft (read from stdin when omitted)",
			RunE: func(cmd *cobra.Command, args []string) error {
				content := strings.Join(args, " ")
				if len(args) == 0 {
					data, err := io.ReadAll(a.streams.In)
					if err != nil {
						return fmt.Errorf("failed to read draft from stdin: %w", err)
					}
					content = string(data)
				}
				if strings.TrimSpace(content) == "" {
					return errors.New("draft cannot be empty, use 'draft clear' to remove it")
				}
				s, err := a.openStore()
				if err != nil {
					return err
				}
				state, err := s.LoadComposerState(cmd.Context())
				if err != nil {
					return err
				}
				state.Content = content
				state.IsVisible = true
				if err := s.SaveComposerState(cmd.Context(), state); err != nil {
					return err
				}
				fmt.Fprintf(a.streams.Out, "draft saved (%d characters)\n", len([]rune(content)))
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the draft",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := a.openStore()
				if err != nil {
					return err
				}
				state, err := s.LoadComposerState(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(a.streams.Out, state.Content)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the draft",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := a.openStore()
				if err != nil {
					return err
				}
				state, err := s.LoadComposerState(cmd.Context())
				if err != nil {
					return err
				}
				state.Content = ""
				state.IsVisible = false
				if err := s.SaveComposerState(cmd.Context(), state); err != nil {
					return err
				}
				fmt.Fprintln(a.streams.Out, "draft cleared")
				return nil
			},
		},
	)
	return cmd
}
