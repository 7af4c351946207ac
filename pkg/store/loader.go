package store

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/matst80/slask-catalogue/pkg/types"
)

// CatalogueFile is the on-disk seed format: rubrics and attributes first so
// the indexes exist before any product lands in them.
type CatalogueFile struct {
	Rubrics    []types.Rubric        `json:"rubrics"`
	Attributes []types.AttributeSpec `json:"attributes"`
	Products   []types.Product       `json:"products"`
}

// LoadFile populates the store from a catalogue JSON file.
func (m *MemoryStore) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalogue file: %w", err)
	}
	file := CatalogueFile{}
	if err := sonic.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse catalogue file %s: %w", path, err)
	}
	for i := range file.Rubrics {
		m.AddRubric(&file.Rubrics[i])
	}
	for i := range file.Attributes {
		m.AddAttribute(file.Attributes[i])
	}
	for i := range file.Products {
		m.UpsertProduct(&file.Products[i])
	}
	return nil
}
