package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ResourceID is a server-assigned identifier. Backends return either strings or
// numbers, both are kept as text.
type ResourceID string

func (id *ResourceID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ResourceID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("resource id: %w", err)
	}
	*id = ResourceID(n.String())
	return nil
}

type Service struct {
	ID          ResourceID `json:"id,omitempty" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description"`
	PriceFrom   *float64   `json:"price_from" yaml:"price_from"`
	DurationMin *int       `json:"duration_min" yaml:"duration_min"`
	IsActive    bool       `json:"is_active" yaml:"is_active"`
}

type PortfolioItem struct {
	ID          ResourceID `json:"id,omitempty" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	ImageURL    string     `json:"image_url" yaml:"image_url"`
	Style       string     `json:"style,omitempty" yaml:"style"`
	Description string     `json:"description,omitempty" yaml:"description"`
	Featured    bool       `json:"featured" yaml:"featured"`
}
