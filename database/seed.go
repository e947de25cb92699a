package database

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/rpupo63/intern-hub-backend/models"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
)

//go:embed seed_projects.yaml
var seedProjectsYAML []byte

type seedProject struct {
	Title         string   `yaml:"title"`
	Objective     string   `yaml:"objective"`
	Deliverables  []string `yaml:"deliverables"`
	Tools         []string `yaml:"tools"`
	LongTermScope string   `yaml:"longTermScope"`
	ImageURL      string   `yaml:"imageUrl"`
	ImageHint     string   `yaml:"imageHint"`
}

var loadSeed = sync.OnceValues(func() ([]seedProject, error) {
	return parseSeed(seedProjectsYAML)
})

func parseSeed(data []byte) ([]seedProject, error) {
	var seeds []seedProject
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse seed projects: %w", err)
	}
	return seeds, nil
}

// SeedDrafts returns the built-in projects ready to be persisted: codes and
// order follow their position, ids are left for the store.
func SeedDrafts() ([]*models.Project, error) {
	seeds, err := loadSeed()
	if err != nil {
		return nil, err
	}
	projects := make([]*models.Project, 0, len(seeds))
	for i, seed := range seeds {
		projects = append(projects, &models.Project{
			Code:          models.FormatProjectCode(i + 1),
			Title:         seed.Title,
			Objective:     seed.Objective,
			Deliverables:  datatypes.NewJSONSlice(append([]string(nil), seed.Deliverables...)),
			Tools:         datatypes.NewJSONSlice(append([]string(nil), seed.Tools...)),
			LongTermScope: seed.LongTermScope,
			ImageURL:      seed.ImageURL,
			ImageHint:     seed.ImageHint,
			Order:         i + 1,
		})
	}
	return projects, nil
}

// FallbackProjects returns the built-in projects with synthetic ids, served
// when the store can't be used.
func FallbackProjects() ([]*models.Project, error) {
	projects, err := SeedDrafts()
	if err != nil {
		return nil, err
	}
	for i, project := range projects {
		project.ID = fmt.Sprintf("seed-%d", i+1)
	}
	return projects, nil
}
