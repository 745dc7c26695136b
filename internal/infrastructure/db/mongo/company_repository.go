package mongo

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/companyhub/companies-api/internal/core/domain"
)

const collectionCompanies = "companies"

type CompanyRepository struct {
	col *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{col: db.Collection(collectionCompanies)}
}

type companyDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Website     string             `bson:"website"`
	Email       string             `bson:"email"`
	Phone       string             `bson:"phone"`
	Owner       string             `bson:"owner"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func newCompanyDocument(c *domain.Company) companyDocument {
	return companyDocument{
		Name:        c.Name,
		Description: c.Description,
		Website:     c.Website,
		Email:       c.Email,
		Phone:       c.Phone,
		Owner:       c.Owner,
		CreatedAt:   c.CreatedAt.UTC(),
		UpdatedAt:   c.UpdatedAt.UTC(),
	}
}

func (d companyDocument) toDomain() *domain.Company {
	return &domain.Company{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Website:     d.Website,
		Email:       d.Email,
		Phone:       d.Phone,
		Owner:       d.Owner,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// Create inserts a new company document and sets c.ID to the generated ObjectID.
func (r *CompanyRepository) Create(ctx context.Context, c *domain.Company) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, newCompanyDocument(c))
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert company: unexpected id type %T", res.InsertedID)
	}
	c.ID = oid.Hex()
	return nil
}

// FindByID retrieves a company by its hex ObjectID. Malformed IDs are
// reported as domain.ErrCompanyNotFound.
func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*domain.Company, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCompanyNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc companyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return doc.toDomain(), nil
}

// newestFirst orders listings by created_at descending with _id as the
// tie-breaker.
var newestFirst = bson.D{
	{Key: "created_at", Value: -1},
	{Key: "_id", Value: -1},
}

func ownerFilter(ownerID string) bson.M {
	return bson.M{"owner": ownerID}
}

// replaceFields builds the update document for c. owner and created_at are
// never part of it.
func replaceFields(c *domain.Company) bson.M {
	return bson.M{"$set": bson.M{
		"name":        c.Name,
		"description": c.Description,
		"website":     c.Website,
		"email":       c.Email,
		"phone":       c.Phone,
		"updated_at":  c.UpdatedAt.UTC(),
	}}
}

// ListByOwner streams the owner's companies sorted by created_at descending.
// Ties are broken by _id so the order is stable between runs.
func (r *CompanyRepository) ListByOwner(ctx context.Context, ownerID string) iter.Seq2[*domain.Company, error] {
	return func(yield func(*domain.Company, error) bool) {
		ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
		defer cancel()

		opts := options.Find().SetSort(newestFirst)
		cur, err := r.col.Find(ctx, ownerFilter(ownerID), opts)
		if err != nil {
			yield(nil, fmt.Errorf("find companies: %w", err))
			return
		}
		defer cur.Close(ctx)

		for cur.Next(ctx) {
			var doc companyDocument
			if err := cur.Decode(&doc); err != nil {
				yield(nil, fmt.Errorf("decode company: %w", err))
				return
			}
			if !yield(doc.toDomain(), nil) {
				return
			}
		}
		if err := cur.Err(); err != nil {
			yield(nil, fmt.Errorf("iterate companies: %w", err))
		}
	}
}

// Update overwrites the writable fields of the company.
func (r *CompanyRepository) Update(ctx context.Context, c *domain.Company) error {
	oid, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return domain.ErrCompanyNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, replaceFields(c))
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

// Delete removes the company document permanently.
func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCompanyNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

// EnsureIndexes creates the index backing the owner listing query.
func (r *CompanyRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
