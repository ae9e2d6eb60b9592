package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"evalgo.org/modelapi/internal/config"
	"evalgo.org/modelapi/models"
)

// buildRegistry registers the built-in models plus those of models.file.
func buildRegistry(c *config.Config, log logrus.FieldLogger) (*models.Registry, error) {
	defs := models.Builtin()

	if c.Models.File != "" {
		extra, err := models.LoadFile(c.Models.File)
		if err != nil {
			return nil, err
		}
		defs = append(defs, extra...)
		log.WithFields(logrus.Fields{
			"file":   c.Models.File,
			"models": len(extra),
		}).Info("Loaded model definitions")
	}

	reg, err := models.NewRegistry(defs...)
	if err != nil {
		return nil, fmt.Errorf("failed to register models: %w", err)
	}

	// Malformed relationships are tolerated and left out of every response.
	for _, rel := range reg.Malformed() {
		log.WithField("relationship", rel).Debug("Ignoring malformed relationship definition")
	}

	return reg, nil
}
