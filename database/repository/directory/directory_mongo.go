package directoryRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"pawsit/database"
	"pawsit/models"
)

// MongoDirectoryRepo implements DirectoryRepository using MongoDB.
type MongoDirectoryRepo struct {
	owners  *mongo.Collection
	sitters *mongo.Collection
	pets    *mongo.Collection
}

// NewMongoDirectoryRepo creates a new instance of DirectoryRepository using MongoDB.
func NewMongoDirectoryRepo() DirectoryRepository {
	return &MongoDirectoryRepo{
		owners:  database.Collection("owners"),
		sitters: database.Collection("sitters"),
		pets:    database.Collection("pets"),
	}
}

func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

type ownerDoc struct {
	ID     string `bson:"id"`
	UserID string `bson:"user_id"`
	Name   string `bson:"name,omitempty"`
}

type sitterDoc struct {
	ID         string `bson:"id"`
	UserID     string `bson:"user_id"`
	Name       string `bson:"name,omitempty"`
	HourlyRate string `bson:"hourly_rate"`
}

type petDoc struct {
	ID      string `bson:"id"`
	OwnerID string `bson:"owner_id"`
	Name    string `bson:"name,omitempty"`
}

// FindOwnerByUserID retrieves the owner profile for a base user identity.
func (r *MongoDirectoryRepo) FindOwnerByUserID(ctx context.Context, userID string) (*models.Owner, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var doc ownerDoc
	if err := r.owners.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch owner for user %s: %w", userID, err)
	}
	return &models.Owner{ID: doc.ID, UserID: doc.UserID, Name: doc.Name}, nil
}

// FindSitterByID retrieves a sitter profile by its id.
func (r *MongoDirectoryRepo) FindSitterByID(ctx context.Context, id string) (*models.Sitter, error) {
	return r.findSitter(ctx, bson.M{"id": id})
}

// FindSitterByUserID retrieves the sitter profile for a base user identity.
func (r *MongoDirectoryRepo) FindSitterByUserID(ctx context.Context, userID string) (*models.Sitter, error) {
	return r.findSitter(ctx, bson.M{"user_id": userID})
}

func (r *MongoDirectoryRepo) findSitter(ctx context.Context, filter bson.M) (*models.Sitter, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var doc sitterDoc
	if err := r.sitters.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch sitter: %w", err)
	}
	rate, err := decimal.NewFromString(doc.HourlyRate)
	if err != nil {
		return nil, fmt.Errorf("sitter %s has malformed hourly rate %q: %w", doc.ID, doc.HourlyRate, err)
	}
	return &models.Sitter{ID: doc.ID, UserID: doc.UserID, Name: doc.Name, HourlyRate: rate}, nil
}

// FindPetsByIDs retrieves the pets matching the given ids. Missing ids are
// simply absent from the result; the caller decides what that means.
func (r *MongoDirectoryRepo) FindPetsByIDs(ctx context.Context, ids []string) ([]models.Pet, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.pets.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve pets: %w", err)
	}
	defer cursor.Close(ctx)

	var pets []models.Pet
	for cursor.Next(ctx) {
		var doc petDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode pet: %w", err)
		}
		pets = append(pets, models.Pet{ID: doc.ID, OwnerID: doc.OwnerID, Name: doc.Name})
	}
	return pets, nil
}
