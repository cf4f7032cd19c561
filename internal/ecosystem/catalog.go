// Package ecosystem serves the static catalog of topic rooms. The catalog is
// embedded at build time and read-only: there is no mutation path.
package ecosystem

import (
	_ "embed"
	"fmt"

	"friendlyvoice/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yml
var catalogYAML []byte

// Ecosystem is a themed voice room around a topic.
type Ecosystem struct {
	ID               string   `yaml:"id" json:"id"`
	Name             string   `yaml:"name" json:"name"`
	Topic            string   `yaml:"topic" json:"topic"`
	Description      string   `yaml:"description" json:"description"`
	Tags             []string `yaml:"tags" json:"tags"`
	HostIDs          []uint   `yaml:"host_ids" json:"host_ids"`
	CoHostIDs        []uint   `yaml:"co_host_ids" json:"co_host_ids,omitempty"`
	SpeakerIDs       []uint   `yaml:"speaker_ids" json:"speaker_ids,omitempty"`
	CreatedBy        uint     `yaml:"created_by" json:"created_by"`
	IsActive         bool     `yaml:"is_active" json:"is_active"`
	ParticipantCount int      `yaml:"participant_count" json:"participant_count"`
}

// Catalog holds the parsed ecosystem list and an index by ID.
type Catalog struct {
	items []Ecosystem
	byID  map[string]*Ecosystem
}

// Load parses the embedded catalog. Called once at startup; a malformed
// catalog is a build defect, not a runtime condition.
func Load() (*Catalog, error) {
	var doc struct {
		Ecosystems []Ecosystem `yaml:"ecosystems"`
	}
	if err := yaml.Unmarshal(catalogYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse ecosystem catalog: %w", err)
	}

	c := &Catalog{
		items: doc.Ecosystems,
		byID:  make(map[string]*Ecosystem, len(doc.Ecosystems)),
	}
	for i := range c.items {
		e := &c.items[i]
		if e.ID == "" {
			return nil, fmt.Errorf("ecosystem catalog entry %d has no id", i)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate ecosystem id %q", e.ID)
		}
		c.byID[e.ID] = e
	}
	return c, nil
}

// List returns all ecosystems in catalog order.
func (c *Catalog) List() []Ecosystem {
	out := make([]Ecosystem, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the ecosystem with the given ID.
func (c *Catalog) Get(id string) (*Ecosystem, error) {
	e, ok := c.byID[id]
	if !ok {
		return nil, models.NewNotFoundError("Ecosystem", id)
	}
	return e, nil
}
