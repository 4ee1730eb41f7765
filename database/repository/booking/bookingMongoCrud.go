package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pawsit/models"
)

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	doc := toDoc(booking)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var doc bookingDoc
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking with id %s: %w", id, err)
	}
	return doc.toModel()
}

// GetByOwnerID retrieves all bookings requested by the given owner profile.
func (r *MongoBookingRepo) GetByOwnerID(ctx context.Context, ownerID string) ([]models.Booking, error) {
	return r.findAll(ctx, bson.M{"owner_id": ownerID})
}

// GetBySitterID retrieves all bookings assigned to the given sitter profile.
func (r *MongoBookingRepo) GetBySitterID(ctx context.Context, sitterID string) ([]models.Booking, error) {
	return r.findAll(ctx, bson.M{"sitter_id": sitterID})
}

func (r *MongoBookingRepo) findAll(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var doc bookingDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		b, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, nil
}

// UpdateStatus applies a conditional status transition: the write happens only
// if the stored status still equals `from`. A losing concurrent writer gets
// ErrStatusConflict instead of silently overwriting.
func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) (*models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": string(from)}
	update := bson.M{"$set": bson.M{"status": string(to), "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc bookingDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return doc.toModel()
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to update status of booking %s: %w", id, err)
	}

	// No match: either the booking is gone or another writer got there first.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrStatusConflict
}

// UpdateDetails updates owner-editable fields, guarded on the expected status
// so an edit cannot land after a concurrent transition out of PENDING.
func (r *MongoBookingRepo) UpdateDetails(ctx context.Context, id string, expected models.BookingStatus, upd DetailsUpdate) (*models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updated_at": time.Now()}
	if upd.Notes != nil {
		set["notes"] = *upd.Notes
	}
	if upd.StartDate != nil {
		set["start_date"] = *upd.StartDate
	}
	if upd.EndDate != nil {
		set["end_date"] = *upd.EndDate
	}
	if upd.PetIDs != nil {
		set["pet_ids"] = upd.PetIDs
	}

	filter := bson.M{"id": id, "status": string(expected)}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc bookingDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if err == nil {
		return doc.toModel()
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to update details of booking %s: %w", id, err)
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrStatusConflict
}

// UpdatePayment records a payment outcome. The filter excludes documents that
// already carry this idempotency token, so replaying the same provider
// notification cannot double-apply.
func (r *MongoBookingRepo) UpdatePayment(ctx context.Context, id string, status models.PaymentStatus, providerRef, idempotencyToken string) (*models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{
		"payment_status":    string(status),
		"stripe_session_id": idempotencyToken,
		"updated_at":        time.Now(),
	}
	if providerRef != "" {
		set["stripe_payment_intent_id"] = providerRef
	}

	filter := bson.M{"id": id, "stripe_session_id": bson.M{"$ne": idempotencyToken}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc bookingDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if err == nil {
		return doc.toModel()
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to update payment of booking %s: %w", id, err)
	}

	existing, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if existing.StripeSessionID == idempotencyToken {
		return existing, ErrAlreadyApplied
	}
	return nil, fmt.Errorf("failed to update payment of booking %s: no matching document", id)
}
