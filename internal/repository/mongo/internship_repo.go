package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/Falco0906/internship-portal/internal/core"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const internshipCollection = "internships"

// DatabaseProvider hands out the application database. The connection
// manager satisfies it; the handle may not exist yet while connecting.
type DatabaseProvider interface {
	Database() (*mongo.Database, error)
}

type InternshipRepository struct {
	db DatabaseProvider
}

func NewInternshipRepository(db DatabaseProvider) *InternshipRepository {
	return &InternshipRepository{db: db}
}

func (r *InternshipRepository) collection() (*mongo.Collection, error) {
	db, err := r.db.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(internshipCollection), nil
}

func (r *InternshipRepository) List(ctx context.Context, filter core.InternshipFilter) ([]core.Internship, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := coll.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	internships := []core.Internship{}
	if err = cursor.All(ctx, &internships); err != nil {
		return nil, err
	}
	return internships, nil
}

// buildFilter turns the query-string filter into a bson filter. User input is
// always quoted before it reaches a regex.
func buildFilter(f core.InternshipFilter) bson.M {
	filter := bson.M{}
	if f.Company != "" {
		filter["company"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(f.Company) + "$", Options: "i"}
	}
	if f.Location != "" {
		filter["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Location), Options: "i"}
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Query != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"company": re},
		}
	}
	return filter
}

func (r *InternshipRepository) GetByID(ctx context.Context, id string) (*core.Internship, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	var internship core.Internship
	err = coll.FindOne(ctx, bson.M{"_id": id}).Decode(&internship)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &internship, nil
}

func (r *InternshipRepository) Create(ctx context.Context, internship core.Internship) (core.Internship, error) {
	coll, err := r.collection()
	if err != nil {
		return core.Internship{}, err
	}

	if internship.ID == "" {
		internship.ID = primitive.NewObjectID().Hex()
	}
	if internship.CreatedAt.IsZero() {
		internship.CreatedAt = time.Now().UTC()
		internship.UpdatedAt = internship.CreatedAt
	}

	if _, err := coll.InsertOne(ctx, internship); err != nil {
		return core.Internship{}, err
	}
	return internship, nil
}

// Update replaces every mutable field; created_at is preserved.
func (r *InternshipRepository) Update(ctx context.Context, internship core.Internship) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"title":       internship.Title,
		"company":     internship.Company,
		"location":    internship.Location,
		"description": internship.Description,
		"stipend":     internship.Stipend,
		"duration":    internship.Duration,
		"type":        internship.Type,
		"status":      internship.Status,
		"skills":      internship.Skills,
		"apply_link":  internship.ApplyLink,
		"deadline":    internship.Deadline,
		"updated_at":  internship.UpdatedAt,
	}}

	res, err := coll.UpdateOne(ctx, bson.M{"_id": internship.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *InternshipRepository) Delete(ctx context.Context, id string) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}

	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return core.ErrNotFound
	}
	return nil
}
