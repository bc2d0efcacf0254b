package core

import (
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when no document matches.
var ErrNotFound = errors.New("not found")

// --- Internship Models ---

type Internship struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Company     string     `bson:"company" json:"company"`
	Location    string     `bson:"location" json:"location"`
	Description string     `bson:"description" json:"description"`
	Stipend     string     `bson:"stipend,omitempty" json:"stipend,omitempty"`
	Duration    string     `bson:"duration,omitempty" json:"duration,omitempty"`
	Type        string     `bson:"type" json:"type"`     // remote, onsite, hybrid
	Status      string     `bson:"status" json:"status"` // open, closed
	Skills      []string   `bson:"skills" json:"skills"`
	ApplyLink   string     `bson:"apply_link,omitempty" json:"applyLink,omitempty"`
	Deadline    *time.Time `bson:"deadline,omitempty" json:"deadline,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updatedAt"`
}

// InternshipInput is the client-supplied part of an internship.
type InternshipInput struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Company     string     `json:"company" validate:"required,max=200"`
	Location    string     `json:"location" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	Stipend     string     `json:"stipend" validate:"max=100"`
	Duration    string     `json:"duration" validate:"max=100"`
	Type        string     `json:"type" validate:"omitempty,oneof=remote onsite hybrid"`
	Status      string     `json:"status" validate:"omitempty,oneof=open closed"`
	Skills      []string   `json:"skills" validate:"omitempty,max=50,dive,required,max=50"`
	ApplyLink   string     `json:"applyLink" validate:"omitempty,url"`
	Deadline    *time.Time `json:"deadline"`
}

const (
	TypeOnsite   = "onsite"
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// InternshipFilter narrows List results. Empty fields match everything.
type InternshipFilter struct {
	Company  string
	Location string
	Type     string
	Status   string
	Query    string // substring of title or company, case-insensitive
}
