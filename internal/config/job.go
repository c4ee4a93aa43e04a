package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/screener/internal/models"
)

type jobFile struct {
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
}

// LoadJob reads a job spec from a YAML file with a description, keywords or both.
func LoadJob(path string) (*models.JobSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job: %w", err)
	}
	var jf jobFile
	if err := yaml.Unmarshal(data, &jf); err != nil {
		return nil, fmt.Errorf("failed to parse job: %w", err)
	}
	job := &models.JobSpec{Description: jf.Description, Keywords: jf.Keywords}
	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("job %s: %w", path, err)
	}
	return job, nil
}
