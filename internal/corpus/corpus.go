// Package corpus provides the fixed training documents for the scoring engine.
package corpus

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrEmpty is returned when a corpus file holds no documents.
var ErrEmpty = errors.New("corpus: no documents")

var seed = []string{
	"Software Engineer Java Spring Boot microservices REST API",
	"Frontend Developer React TypeScript JavaScript HTML CSS",
	"Backend Developer Golang PostgreSQL Docker Kubernetes",
	"Full Stack Developer Node.js React MongoDB GraphQL",
	"Data Scientist Python machine learning pandas statistics",
	"DevOps Engineer AWS Terraform CI/CD monitoring Linux",
	"Product Manager roadmap stakeholders agile user research",
	"UX Designer Figma prototyping user interviews accessibility",
	"Chef de projet gestion planning budget coordination client",
	"Développeur Full Stack PHP Symfony MySQL intégration continue",
	"Ingénieur données Python Spark pipelines entrepôt cloud",
	"Commercial B2B prospection négociation fidélisation portefeuille clients",
	"Comptable fiscalité bilan trésorerie paie audit",
	"Marketing digital SEO campagnes réseaux sociaux analytics",
}

// Seed returns a copy of the built-in bilingual job and skill snippets.
func Seed() []string {
	out := make([]string, len(seed))
	copy(out, seed)
	return out
}

type file struct {
	Documents []string `yaml:"documents"`
}

// Load reads a corpus from a YAML file of the form `documents: [...]`.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("corpus: parse %s: %w", path, err)
	}
	if len(f.Documents) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrEmpty, path)
	}
	return f.Documents, nil
}

// Resolve returns the corpus at path, or the built-in seed when path is empty.
func Resolve(path string) ([]string, error) {
	if path == "" {
		return Seed(), nil
	}
	return Load(path)
}
