package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"evalgo.org/modelapi/internal/logging"
	"evalgo.org/modelapi/models"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List registered model definitions",
	Long: `Print every registered model definition as YAML, including those loaded
from models.file. Malformed relationship definitions are listed separately.`,
	RunE: runModels,
}

type modelListing struct {
	Models    []models.Definition `yaml:"models"`
	Malformed []string            `yaml:"malformed,omitempty"`
}

func runModels(cmd *cobra.Command, args []string) error {
	registry, err := buildRegistry(cfg, logging.Discard())
	if err != nil {
		return err
	}

	listing := modelListing{Malformed: registry.Malformed()}
	for _, typ := range registry.AllTypes() {
		def, err := registry.MetadataFor(typ)
		if err != nil {
			return err
		}
		listing.Models = append(listing.Models, def)
	}

	data, err := yaml.Marshal(listing)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
