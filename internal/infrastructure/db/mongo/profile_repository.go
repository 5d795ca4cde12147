package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/librarydesk/librarydesk/internal/core/domain"
	"github.com/librarydesk/librarydesk/internal/core/ports"
)

const collectionProfiles = "users"

// ProfileRepository implements ports.ProfileRepository on the users collection.
// Documents are keyed by identity id.
type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection(collectionProfiles)}
}

// Select returns the profiles matching filter in natural order.
func (r *ProfileRepository) Select(ctx context.Context, filter ports.ProfileFilter) ([]domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := bson.M{}
	if filter.ID != "" {
		q["_id"] = filter.ID
	}
	if filter.Email != "" {
		q["email"] = filter.Email
	}

	cur, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("select profiles: %w", err)
	}
	profiles := []domain.Profile{}
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	return profiles, nil
}

// Insert writes a new profile row. A second row for the same identity is
// rejected with domain.ErrUserExists.
func (r *ProfileRepository) Insert(ctx context.Context, p *domain.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert profile %s: %w", p.ID, domain.ErrUserExists)
		}
		return fmt.Errorf("insert profile %s: %w", p.ID, err)
	}
	return nil
}

// SetRole updates the role column of one profile. domain.ErrProfileNotFound
// is returned when no row has the id.
func (r *ProfileRepository) SetRole(ctx context.Context, id, role string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return fmt.Errorf("set role of %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("set role of %s: %w", id, domain.ErrProfileNotFound)
	}
	return nil
}
