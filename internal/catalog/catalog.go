package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed skills.yaml
var seedYAML []byte

// ErrUnknownSkill is returned when a skill key is not in the catalog.
var ErrUnknownSkill = errors.New("unknown skill")

// Skill is a named learning track with a roadmap of steps.
type Skill struct {
	Key         string  `yaml:"key"`
	Name        string  `yaml:"name"`
	Category    string  `yaml:"category"`
	Description string  `yaml:"description"`
	Roadmap     Roadmap `yaml:"roadmap"`
}

// Roadmap is the ordered sequence of steps for a skill.
type Roadmap struct {
	Steps []Step `yaml:"steps"`
}

// Step is one roadmap stage with a checklist of discrete tasks.
type Step struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Checklist   []string `yaml:"checklist"`
}

// TotalItems returns the number of checklist entries across all steps.
func (s Skill) TotalItems() int {
	n := 0
	for _, st := range s.Roadmap.Steps {
		n += len(st.Checklist)
	}
	return n
}

// Catalog is a read-only, ordered set of skills indexed by key.
type Catalog struct {
	skills []Skill
	byKey  map[string]int
}

type seedFile struct {
	Skills []Skill `yaml:"skills"`
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(f.Skills)
}

// New builds a catalog from skills in display order.
func New(skills []Skill) (*Catalog, error) {
	if err := validateSkills(skills); err != nil {
		return nil, err
	}
	c := &Catalog{
		skills: slices.Clone(skills),
		byKey:  make(map[string]int, len(skills)),
	}
	for i, s := range c.skills {
		c.byKey[s.Key] = i
	}
	return c, nil
}

var defaultCatalog = mustParse(seedYAML)

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded skills.yaml: %v", err))
	}
	return c
}

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	return defaultCatalog
}

// All returns every skill in display order.
func (c *Catalog) All() []Skill {
	return slices.Clone(c.skills)
}

// Len returns the number of skills.
func (c *Catalog) Len() int {
	return len(c.skills)
}

// Lookup returns the skill with the given key.
func (c *Catalog) Lookup(key string) (Skill, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return Skill{}, false
	}
	return c.skills[i], true
}

// Get is Lookup with an error for callers that need one.
func (c *Catalog) Get(key string) (Skill, error) {
	s, ok := c.Lookup(key)
	if !ok {
		return Skill{}, fmt.Errorf("%w: %q", ErrUnknownSkill, key)
	}
	return s, nil
}

// ByCategory returns the skills in a category, in display order.
func (c *Catalog) ByCategory(category string) []Skill {
	var out []Skill
	for _, s := range c.skills {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	var out []string
	for _, s := range c.skills {
		if !slices.Contains(out, s.Category) {
			out = append(out, s.Category)
		}
	}
	return out
}
