package catalog

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c := Default()
	if c.Len() == 0 {
		t.Fatal("expected embedded catalog to contain skills")
	}
	for _, s := range c.All() {
		if s.TotalItems() == 0 {
			t.Errorf("skill %q has no checklist items", s.Key)
		}
	}
}

func TestLookup(t *testing.T) {
	c := Default()

	s, ok := c.Lookup("frontend")
	if !ok {
		t.Fatal("expected frontend skill")
	}
	if s.Name != "Frontend Development" {
		t.Errorf("Name = %q, want %q", s.Name, "Frontend Development")
	}

	if _, ok := c.Lookup("cobol"); ok {
		t.Error("expected unknown key to miss")
	}
	if _, err := c.Get("cobol"); !errors.Is(err, ErrUnknownSkill) {
		t.Errorf("Get error = %v, want ErrUnknownSkill", err)
	}
}

func TestTotalItems(t *testing.T) {
	s := Skill{Key: "x", Name: "X", Roadmap: Roadmap{Steps: []Step{
		{Title: "one", Checklist: []string{"a", "b"}},
		{Title: "two", Checklist: []string{"c"}},
		{Title: "three"},
	}}}
	if got := s.TotalItems(); got != 3 {
		t.Errorf("TotalItems = %d, want 3", got)
	}
}

func TestByCategory(t *testing.T) {
	c := Default()
	web := c.ByCategory("web")
	if len(web) < 2 {
		t.Fatalf("expected at least 2 web skills, got %d", len(web))
	}
	for _, s := range web {
		if s.Category != "web" {
			t.Errorf("skill %q has category %q", s.Key, s.Category)
		}
	}
	if len(c.Categories()) == 0 {
		t.Error("expected categories")
	}
}

func TestParseRejectsDuplicates(t *testing.T) {
	doc := `
skills:
  - key: go
    name: Go
    roadmap:
      steps:
        - title: Basics
          checklist: [tour]
  - key: go
    name: Go again
`
	_, err := Parse([]byte(doc))
	if err == nil {
		t.Fatal("expected duplicate key error")
	}
	if !strings.Contains(err.Error(), `duplicate skill key: "go"`) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseRejectsUntitledStep(t *testing.T) {
	doc := `
skills:
  - key: go
    name: Go
    roadmap:
      steps:
        - checklist: [tour]
`
	if _, err := Parse([]byte(doc)); err == nil {
		t.Fatal("expected validation error for step without title")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	c := Default()
	all := c.All()
	want := all[0].Key
	all[0].Key = "mutated"
	if got := c.All()[0].Key; got != want {
		t.Errorf("mutating All() result changed the catalog: got %q, want %q", got, want)
	}
}
