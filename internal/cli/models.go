package cli

import (
	"github.com/spf13/cobra"

	"github.com/ahrav/go-triptych/internal/domain"
)

func (a *app) newModelsCommand() *cobra.Command {
	var category, feature, generation string
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var models []domain.ModelInfo
			switch {
			case feature != "":
				models = a.catalog.ByFeature(feature)
			case generation != "":
				models = a.catalog.ByGeneration(generation)
			default:
				models = a.catalog.All()
			}
			if category != "" {
				filtered := models[:0]
				for _, m := range models {
					if m.Category == category {
						filtered = append(filtered, m)
					}
				}
				models = filtered
			}

			defaults := make(map[domain.ModelID][]string)
			for _, slot := range domain.SortedSlots(a.cfg.Slots) {
				model := a.cfg.Slots[slot]
				defaults[model] = append(defaults[model], string(slot))
			}
			renderModels(a.streams.Out, models, defaults)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only models in this category")
	cmd.Flags().StringVar(&feature, "feature", "", "only models with this feature")
	cmd.Flags().StringVar(&generation, "generation", "", "only models of this generation")
	return cmd
}
