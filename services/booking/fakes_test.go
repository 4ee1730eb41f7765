package booking

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	bookingRepo "pawsit/database/repository/booking"
	"pawsit/models"
)

// memBookingRepo is an in-memory BookingRepository with the same conditional
// update semantics as the Mongo implementation.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking)}
}

func copyBooking(b *models.Booking) *models.Booking {
	cp := *b
	cp.PetIDs = append([]string(nil), b.PetIDs...)
	return &cp
}

func (r *memBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	r.bookings[booking.ID] = copyBooking(booking)
	return nil
}

func (r *memBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	return copyBooking(b), nil
}

func (r *memBookingRepo) GetByOwnerID(_ context.Context, ownerID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Booking
	for _, b := range r.bookings {
		if b.OwnerID == ownerID {
			out = append(out, *copyBooking(b))
		}
	}
	return out, nil
}

func (r *memBookingRepo) GetBySitterID(_ context.Context, sitterID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Booking
	for _, b := range r.bookings {
		if b.SitterID == sitterID {
			out = append(out, *copyBooking(b))
		}
	}
	return out, nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, id string, from, to models.BookingStatus) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	if b.Status != from {
		return nil, bookingRepo.ErrStatusConflict
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	return copyBooking(b), nil
}

func (r *memBookingRepo) UpdateDetails(_ context.Context, id string, expected models.BookingStatus, upd bookingRepo.DetailsUpdate) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	if b.Status != expected {
		return nil, bookingRepo.ErrStatusConflict
	}
	if upd.Notes != nil {
		b.Notes = *upd.Notes
	}
	if upd.StartDate != nil {
		b.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		b.EndDate = *upd.EndDate
	}
	if upd.PetIDs != nil {
		b.PetIDs = append([]string(nil), upd.PetIDs...)
	}
	b.UpdatedAt = time.Now()
	return copyBooking(b), nil
}

func (r *memBookingRepo) UpdatePayment(_ context.Context, id string, status models.PaymentStatus, providerRef, idempotencyToken string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	if b.StripeSessionID == idempotencyToken {
		return copyBooking(b), bookingRepo.ErrAlreadyApplied
	}
	b.PaymentStatus = status
	b.StripeSessionID = idempotencyToken
	if providerRef != "" {
		b.StripePaymentIntentID = providerRef
	}
	b.UpdatedAt = time.Now()
	return copyBooking(b), nil
}

// memDirectory is an in-memory read-only profile directory.
type memDirectory struct {
	owners  []models.Owner
	sitters []models.Sitter
	pets    []models.Pet
}

func (d *memDirectory) FindOwnerByUserID(_ context.Context, userID string) (*models.Owner, error) {
	for i := range d.owners {
		if d.owners[i].UserID == userID {
			o := d.owners[i]
			return &o, nil
		}
	}
	return nil, nil
}

func (d *memDirectory) FindSitterByID(_ context.Context, id string) (*models.Sitter, error) {
	for i := range d.sitters {
		if d.sitters[i].ID == id {
			s := d.sitters[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (d *memDirectory) FindSitterByUserID(_ context.Context, userID string) (*models.Sitter, error) {
	for i := range d.sitters {
		if d.sitters[i].UserID == userID {
			s := d.sitters[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (d *memDirectory) FindPetsByIDs(_ context.Context, ids []string) ([]models.Pet, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Pet
	for _, p := range d.pets {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

// Test fixture identities shared across the service tests.
const (
	ownerUserID    = "user-owner"
	sitterUserID   = "user-sitter"
	strangerUserID = "user-stranger"
	ownerProfileID = "owner-1"
	sitterID       = "sitter-1"
)

func newTestService() (*DefaultBookingService, *memBookingRepo) {
	repo := newMemBookingRepo()
	directory := &memDirectory{
		owners: []models.Owner{
			{ID: ownerProfileID, UserID: ownerUserID, Name: "Ada"},
		},
		sitters: []models.Sitter{
			{ID: sitterID, UserID: sitterUserID, Name: "Sam", HourlyRate: decimal.RequireFromString("15.00")},
		},
		pets: []models.Pet{
			{ID: "pet-1", OwnerID: ownerProfileID, Name: "Rex"},
			{ID: "pet-2", OwnerID: ownerProfileID, Name: "Milo"},
			{ID: "pet-other", OwnerID: "owner-2", Name: "Intruder"},
		},
	}
	svc := &DefaultBookingService{
		Repo:      repo,
		Directory: directory,
		Logger:    zap.NewNop(),
	}
	return svc, repo
}
