// Package model defines domain entities for the application.
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the ISO-8601 layout used for createdAt/updatedAt.
// Millisecond precision in UTC with a literal Z suffix.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Medicine keys with a typed field. Anything else lands in Extra.
const (
	keyID        = "id"
	keyName      = "name"
	keyGeneric   = "generic"
	keyCategory  = "category"
	keyUses      = "uses"
	keyCreatedAt = "createdAt"
	keyUpdatedAt = "updatedAt"
)

// Medicine represents a catalog entry.
//
// Clients may send fields beyond the known set; they are kept in Extra and
// written back on save, so older and newer clients can share a collection.
type Medicine struct {
	ID        int64
	Name      string
	Generic   string
	Category  string
	Uses      string
	CreatedAt string
	UpdatedAt string

	Extra map[string]json.RawMessage
}

// GetID returns the record identifier.
func (m *Medicine) GetID() int64 { return m.ID }

// SetID sets the record identifier.
func (m *Medicine) SetID(id int64) { m.ID = id }

// SetCreatedAt sets the creation timestamp.
func (m *Medicine) SetCreatedAt(ts string) { m.CreatedAt = ts }

// SetUpdatedAt sets the update timestamp.
func (m *Medicine) SetUpdatedAt(ts string) { m.UpdatedAt = ts }

// MarshalJSON writes known fields and extension fields as one flat object.
func (m Medicine) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(m.Extra)+7)
	for k, v := range m.Extra {
		doc[k] = v
	}

	doc[keyID] = m.ID
	doc[keyName] = m.Name
	doc[keyGeneric] = m.Generic
	doc[keyCategory] = m.Category
	doc[keyUses] = m.Uses
	doc[keyCreatedAt] = m.CreatedAt
	if m.UpdatedAt != "" {
		doc[keyUpdatedAt] = m.UpdatedAt
	}

	return json.Marshal(doc)
}

// UnmarshalJSON reads a flat object, splitting known fields from extensions.
// A JSON null for a known field leaves it at its zero value.
func (m *Medicine) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("medicine: expected JSON object")
	}

	*m = Medicine{}

	fields := map[string]any{
		keyID:        &m.ID,
		keyName:      &m.Name,
		keyGeneric:   &m.Generic,
		keyCategory:  &m.Category,
		keyUses:      &m.Uses,
		keyCreatedAt: &m.CreatedAt,
		keyUpdatedAt: &m.UpdatedAt,
	}

	for key, raw := range doc {
		target, known := fields[key]
		if !known {
			if m.Extra == nil {
				m.Extra = make(map[string]json.RawMessage)
			}
			m.Extra[key] = raw
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return fmt.Errorf("medicine: field %q: %w", key, err)
		}
	}

	return nil
}
