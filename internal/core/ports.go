package core

import (
	"context"
)

// InternshipRepository stores internship postings
type InternshipRepository interface {
	List(ctx context.Context, filter InternshipFilter) ([]Internship, error)
	GetByID(ctx context.Context, id string) (*Internship, error)
	Create(ctx context.Context, internship Internship) (Internship, error)
	Update(ctx context.Context, internship Internship) error
	Delete(ctx context.Context, id string) error
}
