package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Falco0906/internship-portal/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type providerFunc func() (*mongo.Database, error)

func (f providerFunc) Database() (*mongo.Database, error) { return f() }

func newRepo(mt *mtest.T) *InternshipRepository {
	return NewInternshipRepository(providerFunc(func() (*mongo.Database, error) {
		return mt.DB, nil
	}))
}

func ns(mt *mtest.T) string {
	return mt.DB.Name() + "." + internshipCollection
}

func TestBuildFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, buildFilter(core.InternshipFilter{}))

	f := buildFilter(core.InternshipFilter{
		Company:  "Acme (EU)",
		Location: "berlin",
		Type:     "remote",
		Status:   "open",
		Query:    "go.dev",
	})
	assert.Equal(t, primitive.Regex{Pattern: `^Acme \(EU\)$`, Options: "i"}, f["company"])
	assert.Equal(t, primitive.Regex{Pattern: "berlin", Options: "i"}, f["location"])
	assert.Equal(t, "remote", f["type"])
	assert.Equal(t, "open", f["status"])
	assert.Equal(t, bson.A{
		bson.M{"title": primitive.Regex{Pattern: `go\.dev`, Options: "i"}},
		bson.M{"company": primitive.Regex{Pattern: `go\.dev`, Options: "i"}},
	}, f["$or"])
}

func TestRepositoryWithoutClient(t *testing.T) {
	unavailable := errors.New("database client not initialised")
	repo := NewInternshipRepository(providerFunc(func() (*mongo.Database, error) {
		return nil, unavailable
	}))

	_, err := repo.List(context.Background(), core.InternshipFilter{})
	assert.ErrorIs(t, err, unavailable)
	_, err = repo.GetByID(context.Background(), "x")
	assert.ErrorIs(t, err, unavailable)
	assert.ErrorIs(t, repo.Delete(context.Background(), "x"), unavailable)
}

func TestInternshipRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list decodes documents", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "a1"}, {Key: "title", Value: "Backend Intern"}, {Key: "company", Value: "Acme"}},
			bson.D{{Key: "_id", Value: "b2"}, {Key: "title", Value: "Data Intern"}, {Key: "company", Value: "Globex"}},
		))

		got, err := newRepo(mt).List(context.Background(), core.InternshipFilter{})
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "a1", got[0].ID)
		assert.Equal(mt, "Globex", got[1].Company)
	})

	mt.Run("list with no documents is empty not nil", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		got, err := newRepo(mt).List(context.Background(), core.InternshipFilter{Status: "open"})
		require.NoError(mt, err)
		assert.NotNil(mt, got)
		assert.Empty(mt, got)
	})

	mt.Run("get by id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "a1"}, {Key: "title", Value: "Backend Intern"}},
		))

		got, err := newRepo(mt).GetByID(context.Background(), "a1")
		require.NoError(mt, err)
		assert.Equal(mt, "Backend Intern", got.Title)
	})

	mt.Run("get by id missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := newRepo(mt).GetByID(context.Background(), "nope")
		assert.ErrorIs(mt, err, core.ErrNotFound)
	})

	mt.Run("create assigns id and timestamps", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		got, err := newRepo(mt).Create(context.Background(), core.Internship{Title: "Intern"})
		require.NoError(mt, err)
		assert.True(mt, primitive.IsValidObjectID(got.ID))
		assert.False(mt, got.CreatedAt.IsZero())
		assert.Equal(mt, got.CreatedAt, got.UpdatedAt)
	})

	mt.Run("update missing document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := newRepo(mt).Update(context.Background(), core.Internship{ID: "gone", UpdatedAt: time.Now()})
		assert.ErrorIs(mt, err, core.ErrNotFound)
	})

	mt.Run("update existing document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		err := newRepo(mt).Update(context.Background(), core.Internship{ID: "a1", UpdatedAt: time.Now()})
		assert.NoError(mt, err)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		assert.NoError(mt, newRepo(mt).Delete(context.Background(), "a1"))
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		assert.ErrorIs(mt, newRepo(mt).Delete(context.Background(), "a1"), core.ErrNotFound)
	})
}
