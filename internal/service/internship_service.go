package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Falco0906/internship-portal/internal/apperr"
	"github.com/Falco0906/internship-portal/internal/core"
	"github.com/Falco0906/internship-portal/internal/database"
	"github.com/Falco0906/internship-portal/pkg/validator"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const errInternshipNotFound = "Internship not found"

// InternshipService applies defaults and validation before reaching the
// repository, and translates storage errors into API errors.
type InternshipService struct {
	repo core.InternshipRepository
	now  func() time.Time
}

func NewInternshipService(repo core.InternshipRepository) *InternshipService {
	return &InternshipService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *InternshipService) List(ctx context.Context, filter core.InternshipFilter) ([]core.Internship, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	internships, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storageError("Failed to fetch internships", err)
	}
	if internships == nil {
		internships = []core.Internship{}
	}
	return internships, nil
}

func (s *InternshipService) Get(ctx context.Context, id string) (*core.Internship, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, apperr.NotFound(errInternshipNotFound)
	}
	internship, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("Failed to fetch internship", err)
	}
	return internship, nil
}

func (s *InternshipService) Create(ctx context.Context, input core.InternshipInput) (*core.Internship, error) {
	if err := validate(&input); err != nil {
		return nil, err
	}

	now := s.now()
	internship := fromInput(input)
	internship.CreatedAt = now
	internship.UpdatedAt = now

	created, err := s.repo.Create(ctx, internship)
	if err != nil {
		return nil, storageError("Failed to create internship", err)
	}
	return &created, nil
}

func (s *InternshipService) Update(ctx context.Context, id string, input core.InternshipInput) (*core.Internship, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, apperr.NotFound(errInternshipNotFound)
	}
	if err := validate(&input); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("Failed to update internship", err)
	}

	updated := fromInput(input)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, storageError("Failed to update internship", err)
	}
	return &updated, nil
}

func (s *InternshipService) Delete(ctx context.Context, id string) error {
	if !primitive.IsValidObjectID(id) {
		return apperr.NotFound(errInternshipNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storageError("Failed to delete internship", err)
	}
	return nil
}

func validate(input *core.InternshipInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Company = strings.TrimSpace(input.Company)
	input.Location = strings.TrimSpace(input.Location)
	if err := validator.Struct(input); err != nil {
		return apperr.BadRequest(err.Error())
	}
	return nil
}

func fromInput(input core.InternshipInput) core.Internship {
	internship := core.Internship{
		Title:       input.Title,
		Company:     input.Company,
		Location:    input.Location,
		Description: input.Description,
		Stipend:     input.Stipend,
		Duration:    input.Duration,
		Type:        input.Type,
		Status:      input.Status,
		Skills:      input.Skills,
		ApplyLink:   input.ApplyLink,
		Deadline:    input.Deadline,
	}
	if internship.Type == "" {
		internship.Type = core.TypeOnsite
	}
	if internship.Status == "" {
		internship.Status = core.StatusOpen
	}
	if internship.Skills == nil {
		internship.Skills = []string{}
	}
	return internship
}

// storageError maps repository failures onto API errors.
func storageError(message string, err error) error {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return apperr.Wrap(http.StatusNotFound, errInternshipNotFound, err)
	case errors.Is(err, database.ErrNotConnected):
		return apperr.Unavailable("Database connection not available", err)
	default:
		return apperr.Wrap(http.StatusInternalServerError, message, err)
	}
}
