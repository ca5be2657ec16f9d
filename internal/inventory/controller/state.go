package controller

import (
	"bytes"

	"github.com/tair/inventory-tracker/internal/inventory/domain"
	"github.com/tair/inventory-tracker/internal/inventory/usecase/command"
)

// DraftImage is an image picked in the add modal but not uploaded yet
type DraftImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Upload turns the draft into an upload, nil when no image was picked
func (d *DraftImage) Upload() *command.ImageUpload {
	if d == nil {
		return nil
	}
	return &command.ImageUpload{
		Filename:    d.Filename,
		ContentType: d.ContentType,
		Data:        bytes.NewReader(d.Data),
	}
}

// Modal is the add-item dialog. A closed modal never carries draft fields.
type Modal struct {
	Open       bool
	DraftName  string
	DraftImage *DraftImage
}

// State is one snapshot of everything the page renders
type State struct {
	Items  []domain.Item
	Filter string
	Modal  Modal
}

// Filtered returns the items visible under the current search filter
func (s State) Filtered() []domain.Item {
	return domain.FilterByName(s.Items, s.Filter)
}

func (s State) clone() State {
	out := s
	if s.Items != nil {
		out.Items = make([]domain.Item, len(s.Items))
		copy(out.Items, s.Items)
	}
	if s.Modal.DraftImage != nil {
		draft := *s.Modal.DraftImage
		out.Modal.DraftImage = &draft
	}
	return out
}
