package tag

import (
	"errors"
	"time"
)

var (
	ErrTagNotFound    = errors.New("tag not found")
	ErrCyclicParent   = errors.New("parent assignment would create a cycle")
	ErrParentNotFound = errors.New("parent tag not found")
)

// Tag is a node in the tag forest. A nil ParentID marks a root.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateTagParams struct {
	Name     string
	ParentID *string
	Color    string
}

func (p *CreateTagParams) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if len(p.Name) > 128 {
		return errors.New("name must be 128 characters or less")
	}
	if p.Color == "" {
		return errors.New("color is required")
	}
	if len(p.Color) > 12 {
		return errors.New("color must be 12 characters or less")
	}
	return nil
}

// UpdateTagParams carries partial updates. ClearParent promotes the tag to a
// root; it takes precedence over ParentID.
type UpdateTagParams struct {
	Name        *string
	ParentID    *string
	ClearParent bool
	Color       *string
}

func (p *UpdateTagParams) Validate() error {
	if p.Name != nil && (*p.Name == "" || len(*p.Name) > 128) {
		return errors.New("name must be between 1 and 128 characters")
	}
	if p.Color != nil && (*p.Color == "" || len(*p.Color) > 12) {
		return errors.New("color must be between 1 and 12 characters")
	}
	return nil
}

func (p *UpdateTagParams) IsEmpty() bool {
	return p.Name == nil && p.ParentID == nil && !p.ClearParent && p.Color == nil
}
