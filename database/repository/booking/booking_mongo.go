package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pawsit/database"
	"pawsit/models"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	repo := &MongoBookingRepo{coll: database.Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext derives a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "sitter_id", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// bookingDoc is the persisted shape of a booking. Price is stored as a
// decimal string so no binary floating point ever touches money.
type bookingDoc struct {
	ID                    string    `bson:"id"`
	OwnerID               string    `bson:"owner_id"`
	SitterID              string    `bson:"sitter_id"`
	OwnerUserID           string    `bson:"owner_user_id"`
	SitterUserID          string    `bson:"sitter_user_id"`
	PetIDs                []string  `bson:"pet_ids"`
	StartDate             time.Time `bson:"start_date"`
	EndDate               time.Time `bson:"end_date"`
	Notes                 string    `bson:"notes,omitempty"`
	Status                string    `bson:"status"`
	PaymentStatus         string    `bson:"payment_status"`
	Price                 string    `bson:"price"`
	StripeSessionID       string    `bson:"stripe_session_id,omitempty"`
	StripePaymentIntentID string    `bson:"stripe_payment_intent_id,omitempty"`
	CreatedAt             time.Time `bson:"created_at"`
	UpdatedAt             time.Time `bson:"updated_at"`
}

func toDoc(b *models.Booking) bookingDoc {
	return bookingDoc{
		ID:                    b.ID,
		OwnerID:               b.OwnerID,
		SitterID:              b.SitterID,
		OwnerUserID:           b.OwnerUserID,
		SitterUserID:          b.SitterUserID,
		PetIDs:                b.PetIDs,
		StartDate:             b.StartDate,
		EndDate:               b.EndDate,
		Notes:                 b.Notes,
		Status:                string(b.Status),
		PaymentStatus:         string(b.PaymentStatus),
		Price:                 b.Price.String(),
		StripeSessionID:       b.StripeSessionID,
		StripePaymentIntentID: b.StripePaymentIntentID,
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
	}
}

func (d bookingDoc) toModel() (*models.Booking, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return nil, fmt.Errorf("booking %s has malformed price %q: %w", d.ID, d.Price, err)
	}
	return &models.Booking{
		ID:                    d.ID,
		OwnerID:               d.OwnerID,
		SitterID:              d.SitterID,
		OwnerUserID:           d.OwnerUserID,
		SitterUserID:          d.SitterUserID,
		PetIDs:                d.PetIDs,
		StartDate:             d.StartDate,
		EndDate:               d.EndDate,
		Notes:                 d.Notes,
		Status:                models.BookingStatus(d.Status),
		PaymentStatus:         models.PaymentStatus(d.PaymentStatus),
		Price:                 price,
		StripeSessionID:       d.StripeSessionID,
		StripePaymentIntentID: d.StripePaymentIntentID,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}, nil
}
