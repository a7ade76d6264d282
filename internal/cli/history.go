package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) newHistoryCommand() *cobra.Command {
	var limit int
	var clearAll bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently submitted prompts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			if clearAll {
				if err := s.ClearHistory(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(a.streams.Out, "history cleared")
				return nil
			}

			prompts, err := s.LoadHistory(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && len(prompts) > limit {
				prompts = prompts[:limit]
			}
			t := newTable()
			t.AddRow("#", "PROMPT")
			for i, p := range prompts {
				t.AddRow(i+1, strings.Join(strings.Fields(p), " "))
			}
			fmt.Fprintln(a.streams.Out, t)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many prompts")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "forget every recorded prompt")
	return cmd
}
