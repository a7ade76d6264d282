package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-triptych/infrastructure/store"
)

func (a *app) newTemplatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template", "tpl"},
		Short:   "Manage saved prompt templates",
	}
	cmd.AddCommand(
		a.newTemplatesAddCommand(),
		a.newTemplatesListCommand(),
		a.newTemplatesShowCommand(),
		a.newTemplatesSearchCommand(),
		a.newTemplatesDeleteCommand(),
		a.newTemplatesExportCommand(),
		a.newTemplatesImportCommand(),
	)
	return cmd
}

func (a *app) newTemplatesAddCommand() *cobra.Command {
	var draft store.TemplateDraft
	var file string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a new template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read template content: %w", err)
				}
				draft.Content = string(data)
			}
			s, err := a.openStore()
			if err != nil {
				return err
			}
			t, err := s.AddTemplate(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.streams.Out, "saved template %s (%s)\n", t.ID, t.Name)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&draft.Name, "name", "", "template name")
	flags.StringVar(&draft.Category, "category", "", "template category")
	flags.StringVar(&draft.Content, "content", "", "template content")
	flags.StringVar(&file, "content-file", "", "read the content from a file")
	flags.StringVar(&draft.Description, "description", "", "short description")
	flags.StringSliceVar(&draft.Tags, "tag", nil, "tags, repeatable")
	_ = cmd.MarkFlagRequired("name")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")
	return cmd
}

func (a *app) newTemplatesListCommand() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			all, err := s.ListTemplates(cmd.Context())
			if err != nil {
				return err
			}
			groups := store.TemplatesByCategory(all)
			for _, c := range store.Categories(groups) {
				if category != "" && c != category {
					continue
				}
				fmt.Fprintf(a.streams.Out, "%s\n", heading(c))
				renderTemplates(a, groups[c])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only this category")
	return cmd
}

func (a *app) newTemplatesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID|NAME",
		Short: "Print one template's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			t, err := findTemplate(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.streams.Out, t.Content)
			return nil
		},
	}
}

func (a *app) newTemplatesSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Find templates by name, content, description or tag",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			all, err := s.ListTemplates(cmd.Context())
			if err != nil {
				return err
			}
			renderTemplates(a, store.SearchTemplates(all, strings.Join(args, " ")))
			return nil
		},
	}
}

func (a *app) newTemplatesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			if err := s.DeleteTemplate(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.streams.Out, "deleted template %s\n", args[0])
			return nil
		},
	}
}

func (a *app) newTemplatesExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [PATH]",
		Short: `Write every template to a JSON file ("-" for stdout)`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			path := store.TemplateExportFileName(a.now())
			if len(args) == 1 {
				path = args[0]
			}
			if path == "-" {
				_, err := s.ExportTemplates(cmd.Context(), a.streams.Out)
				return err
			}

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			n, err := s.ExportTemplates(cmd.Context(), f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.streams.Out, "exported %d templates to %s\n", n, path)
			return nil
		},
	}
}

func (a *app) newTemplatesImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import PATH",
		Short: "Merge templates from an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open import file: %w", err)
			}
			defer f.Close()

			n, err := s.ImportTemplates(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("failed to import templates: %w", err)
			}
			fmt.Fprintf(a.streams.Out, "imported %d templates\n", n)
			return nil
		},
	}
}

func renderTemplates(a *app, templates []store.Template) {
	t := newTable()
	t.AddRow("ID", "NAME", "CATEGORY", "TAGS", "UPDATED")
	for _, tpl := range templates {
		updated := time.UnixMilli(tpl.UpdatedAt).UTC().Format("2006-01-02 15:04")
		t.AddRow(tpl.ID, tpl.Name, tpl.Category, strings.Join(tpl.Tags, ","), updated)
	}
	fmt.Fprintln(a.streams.Out, t)
}
