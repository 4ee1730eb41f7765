package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "pawsit/database/repository/booking"
	"pawsit/models"
)

// CreateBooking validates the request, fixes the price from the sitter's
// hourly rate, and persists a new PENDING/UNPAID booking.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, ownerUserID string, req models.CreateBookingRequest) (*models.Booking, error) {
	owner, err := s.Directory.FindOwnerByUserID(ctx, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner profile: %w", err)
	}
	if owner == nil {
		return nil, NewNotFoundError("owner profile for user", ownerUserID)
	}

	sitter, err := s.Directory.FindSitterByID(ctx, req.SitterID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sitter profile: %w", err)
	}
	if sitter == nil {
		return nil, NewNotFoundError("sitter", req.SitterID)
	}
	if sitter.UserID == ownerUserID {
		return nil, NewInvalidInputError("owner cannot book themselves as sitter")
	}

	if len(req.PetIDs) == 0 {
		return nil, NewInvalidInputError("booking must cover at least one pet")
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, NewInvalidDateRangeError()
	}

	if err := s.verifyPetOwnership(ctx, owner.ID, req.PetIDs); err != nil {
		return nil, err
	}

	price, err := CalculatePrice(sitter.HourlyRate, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:            uuid.New().String(),
		OwnerID:       owner.ID,
		SitterID:      sitter.ID,
		OwnerUserID:   owner.UserID,
		SitterUserID:  sitter.UserID,
		PetIDs:        req.PetIDs,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Notes:         req.Notes,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentUnpaid,
		Price:         price,
	}
	if err := s.Repo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.logger().Info("booking created",
		zap.String("bookingID", booking.ID),
		zap.String("ownerID", owner.ID),
		zap.String("sitterID", sitter.ID),
		zap.String("price", price.String()),
	)
	return booking, nil
}

// GetBookingByID loads a single booking.
func (s *DefaultBookingService) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, NewNotFoundError("booking", id)
		}
		return nil, err
	}
	return b, nil
}

// GetOwnerBookings lists the bookings requested by the user's owner profile.
// A user without an owner profile has no bookings, not an error.
func (s *DefaultBookingService) GetOwnerBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	owner, err := s.Directory.FindOwnerByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner profile: %w", err)
	}
	if owner == nil {
		return []models.Booking{}, nil
	}
	return s.Repo.GetByOwnerID(ctx, owner.ID)
}

// GetSitterBookings lists the bookings assigned to the user's sitter profile.
func (s *DefaultBookingService) GetSitterBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	sitter, err := s.Directory.FindSitterByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sitter profile: %w", err)
	}
	if sitter == nil {
		return []models.Booking{}, nil
	}
	return s.Repo.GetBySitterID(ctx, sitter.ID)
}

// RequestTransition moves a booking through the workflow state machine on
// behalf of an actor. Permission check, state-machine validation, and the
// conditional persistence write form one logical unit: either the transition
// lands exactly as validated, or nothing is written.
func (s *DefaultBookingService) RequestTransition(ctx context.Context, bookingID, actorUserID string, target models.BookingStatus) (*models.Booking, error) {
	b, err := s.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := EvaluateTransitionPermission(b, actorUserID, target); err != nil {
		return nil, err
	}
	if err := ValidateTransition(b.Status, target); err != nil {
		return nil, err
	}

	updated, err := s.Repo.UpdateStatus(ctx, bookingID, b.Status, target)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			// A concurrent writer moved the booking first; report the
			// transition as invalid against whatever is stored now.
			if current, getErr := s.Repo.GetByID(ctx, bookingID); getErr == nil {
				return nil, NewInvalidTransitionError(current.Status, target)
			}
			return nil, NewInvalidTransitionError(b.Status, target)
		}
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, NewNotFoundError("booking", bookingID)
		}
		return nil, err
	}

	s.logger().Info("booking transitioned",
		zap.String("bookingID", bookingID),
		zap.String("from", string(b.Status)),
		zap.String("to", string(target)),
		zap.String("actorUserID", actorUserID),
	)
	return updated, nil
}

// UpdateBookingDetails edits notes, dates, or the pet set. Only the owner may
// edit, and only while the booking is still PENDING. The price stays fixed
// even when dates change.
func (s *DefaultBookingService) UpdateBookingDetails(ctx context.Context, bookingID, actorUserID string, req models.UpdateBookingRequest) (*models.Booking, error) {
	b, err := s.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	role, ok := ResolveRole(b, actorUserID)
	if !ok || role != RoleOwner {
		return nil, NewEditNotAllowedError("only the booking owner may edit details")
	}
	if b.Status != models.BookingPending {
		return nil, NewEditNotAllowedError(fmt.Sprintf("details can only be edited while PENDING, booking is %s", b.Status))
	}

	start, end := b.StartDate, b.EndDate
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	if !end.After(start) {
		return nil, NewInvalidDateRangeError()
	}

	if req.PetIDs != nil {
		if len(req.PetIDs) == 0 {
			return nil, NewInvalidInputError("booking must cover at least one pet")
		}
		if err := s.verifyPetOwnership(ctx, b.OwnerID, req.PetIDs); err != nil {
			return nil, err
		}
	}

	upd := bookingRepo.DetailsUpdate{
		Notes:     req.Notes,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		PetIDs:    req.PetIDs,
	}
	updated, err := s.Repo.UpdateDetails(ctx, bookingID, models.BookingPending, upd)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			return nil, NewEditNotAllowedError("booking is no longer PENDING")
		}
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, NewNotFoundError("booking", bookingID)
		}
		return nil, err
	}
	return updated, nil
}

// verifyPetOwnership checks that every pet id resolves and belongs to the
// given owner profile, reporting the offending ids otherwise.
func (s *DefaultBookingService) verifyPetOwnership(ctx context.Context, ownerID string, petIDs []string) error {
	pets, err := s.Directory.FindPetsByIDs(ctx, petIDs)
	if err != nil {
		return fmt.Errorf("failed to verify pet ownership: %w", err)
	}

	owned := make(map[string]bool, len(pets))
	for _, p := range pets {
		if p.OwnerID == ownerID {
			owned[p.ID] = true
		}
	}

	var offending []string
	for _, id := range petIDs {
		if !owned[id] {
			offending = append(offending, id)
		}
	}
	if len(offending) > 0 {
		return NewPetOwnershipError(offending)
	}
	return nil
}
