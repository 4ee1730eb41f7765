package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawsit/models"
)

func createRequest() models.CreateBookingRequest {
	return models.CreateBookingRequest{
		SitterID:  sitterID,
		PetIDs:    []string{"pet-1", "pet-2"},
		StartDate: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC),
		Notes:     "Rex needs his evening walk",
	}
}

func mustCreate(t *testing.T, svc *DefaultBookingService) *models.Booking {
	t.Helper()
	b, err := svc.CreateBooking(context.Background(), ownerUserID, createRequest())
	require.NoError(t, err)
	return b
}

func TestCreateBooking(t *testing.T) {
	svc, _ := newTestService()

	b := mustCreate(t, svc)

	// Sitter rate 15.00/hr over 4 hours fixes the price at 60.00.
	assert.True(t, b.Price.Equal(decimal.RequireFromString("60.00")), "price = %s", b.Price)
	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, models.PaymentUnpaid, b.PaymentStatus)
	assert.Equal(t, ownerProfileID, b.OwnerID)
	assert.Equal(t, sitterID, b.SitterID)
	assert.Equal(t, ownerUserID, b.OwnerUserID)
	assert.Equal(t, sitterUserID, b.SitterUserID)
	assert.Equal(t, []string{"pet-1", "pet-2"}, b.PetIDs)
	assert.NotEmpty(t, b.ID)
}

func TestCreateBooking_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	t.Run("unknown owner user", func(t *testing.T) {
		_, err := svc.CreateBooking(ctx, strangerUserID, createRequest())
		assert.Equal(t, CodeNotFound, CodeOf(err))
	})

	t.Run("unknown sitter", func(t *testing.T) {
		req := createRequest()
		req.SitterID = "sitter-missing"
		_, err := svc.CreateBooking(ctx, ownerUserID, req)
		assert.Equal(t, CodeNotFound, CodeOf(err))
	})

	t.Run("no pets", func(t *testing.T) {
		req := createRequest()
		req.PetIDs = nil
		_, err := svc.CreateBooking(ctx, ownerUserID, req)
		assert.Equal(t, CodeInvalidInput, CodeOf(err))
	})

	t.Run("end before start", func(t *testing.T) {
		req := createRequest()
		req.EndDate = req.StartDate.Add(-time.Hour)
		_, err := svc.CreateBooking(ctx, ownerUserID, req)
		assert.Equal(t, CodeInvalidDateRange, CodeOf(err))
	})

	t.Run("pet owned by someone else", func(t *testing.T) {
		req := createRequest()
		req.PetIDs = []string{"pet-1", "pet-other", "pet-missing"}
		_, err := svc.CreateBooking(ctx, ownerUserID, req)
		assert.Equal(t, CodePetOwnership, CodeOf(err))
		assert.Contains(t, err.Error(), "pet-other")
		assert.Contains(t, err.Error(), "pet-missing")
		assert.NotContains(t, err.Error(), "pet-1")
	})
}

func TestCreateBooking_SelfBooking(t *testing.T) {
	svc, _ := newTestService()
	// A sitter whose user identity also has an owner profile cannot book
	// themselves.
	dir := svc.Directory.(*memDirectory)
	dir.owners = append(dir.owners, models.Owner{ID: "owner-self", UserID: sitterUserID})

	req := createRequest()
	_, err := svc.CreateBooking(context.Background(), sitterUserID, req)
	assert.Equal(t, CodeInvalidInput, CodeOf(err))
}

func TestRequestTransition_SitterConfirms(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, svc)

	updated, err := svc.RequestTransition(ctx, b.ID, sitterUserID, models.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, updated.Status)

	// The owner re-requesting CONFIRMED is no longer a defined transition.
	_, err = svc.RequestTransition(ctx, b.ID, ownerUserID, models.BookingConfirmed)
	assert.Equal(t, CodeInvalidTransition, CodeOf(err))
}

func TestRequestTransition_OwnerCancelsConfirmed(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, svc)

	_, err := svc.RequestTransition(ctx, b.ID, sitterUserID, models.BookingConfirmed)
	require.NoError(t, err)

	cancelled, err := svc.RequestTransition(ctx, b.ID, ownerUserID, models.BookingCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)

	// CANCELLED is terminal; nothing moves a booking out of it.
	_, err = svc.RequestTransition(ctx, b.ID, sitterUserID, models.BookingCompleted)
	assert.Equal(t, CodeTerminalState, CodeOf(err))
}

func TestRequestTransition_TerminalInvariant(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, svc)

	_, err := svc.RequestTransition(ctx, b.ID, sitterUserID, models.BookingConfirmed)
	require.NoError(t, err)
	_, err = svc.RequestTransition(ctx, b.ID, sitterUserID, models.BookingCompleted)
	require.NoError(t, err)

	for _, target := range allStatuses {
		for _, actor := range []string{ownerUserID, sitterUserID} {
			_, err := svc.RequestTransition(ctx, b.ID, actor, target)
			assert.Equal(t, CodeTerminalState, CodeOf(err), "actor %s target %s", actor, target)
		}
	}
}

func TestRequestTransition_Authorization(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, svc)

	_, err := svc.RequestTransition(ctx, b.ID, strangerUserID, models.BookingConfirmed)
	assert.Equal(t, CodeNotParticipant, CodeOf(err))

	_, err = svc.RequestTransition(ctx, b.ID, ownerUserID, models.BookingConfirmed)
	assert.Equal(t, CodeWrongRole, CodeOf(err))

	// Failed attempts leave the booking untouched.
	current, err := svc.GetBookingByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, current.Status)
}

func TestRequestTransition_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.RequestTransition(context.Background(), "booking-missing", ownerUserID, models.BookingCancelled)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestRequestTransition_ConcurrentRace(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, svc)

	start := make(chan struct{})
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.RequestTransition(ctx, b.ID, sitterUserID, models.BookingConfirmed)
		}(i)
	}
	close(start)
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case CodeOf(err) == CodeInvalidTransition:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one writer must win")
	assert.Equal(t, 1, conflicts, "the loser must see an invalid transition")
}

func TestUpdateBookingDetails(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, svc)

	notes := "Gate code is 4821"
	newEnd := b.EndDate.Add(2 * time.Hour)
	updated, err := svc.UpdateBookingDetails(ctx, b.ID, ownerUserID, models.UpdateBookingRequest{
		Notes:   &notes,
		EndDate: &newEnd,
		PetIDs:  []string{"pet-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)
	assert.Equal(t, newEnd, updated.EndDate)
	assert.Equal(t, []string{"pet-1"}, updated.PetIDs)
	// The price was fixed at creation and never recomputed on date edits.
	assert.True(t, updated.Price.Equal(b.Price), "price changed from %s to %s", b.Price, updated.Price)
}

func TestUpdateBookingDetails_Guards(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, svc)
	notes := "new notes"

	t.Run("sitter may not edit", func(t *testing.T) {
		_, err := svc.UpdateBookingDetails(ctx, b.ID, sitterUserID, models.UpdateBookingRequest{Notes: &notes})
		assert.Equal(t, CodeEditNotAllowed, CodeOf(err))
	})

	t.Run("stranger may not edit", func(t *testing.T) {
		_, err := svc.UpdateBookingDetails(ctx, b.ID, strangerUserID, models.UpdateBookingRequest{Notes: &notes})
		assert.Equal(t, CodeEditNotAllowed, CodeOf(err))
	})

	t.Run("date edit must keep end after start", func(t *testing.T) {
		badEnd := b.StartDate.Add(-time.Hour)
		_, err := svc.UpdateBookingDetails(ctx, b.ID, ownerUserID, models.UpdateBookingRequest{EndDate: &badEnd})
		assert.Equal(t, CodeInvalidDateRange, CodeOf(err))
	})

	t.Run("pet set must stay owned", func(t *testing.T) {
		_, err := svc.UpdateBookingDetails(ctx, b.ID, ownerUserID, models.UpdateBookingRequest{PetIDs: []string{"pet-other"}})
		assert.Equal(t, CodePetOwnership, CodeOf(err))
	})

	t.Run("no edits after confirmation", func(t *testing.T) {
		_, err := svc.RequestTransition(ctx, b.ID, sitterUserID, models.BookingConfirmed)
		require.NoError(t, err)

		_, err = svc.UpdateBookingDetails(ctx, b.ID, ownerUserID, models.UpdateBookingRequest{Notes: &notes})
		assert.Equal(t, CodeEditNotAllowed, CodeOf(err))
	})
}

func TestGetOwnerAndSitterBookings(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, svc)

	ownerBookings, err := svc.GetOwnerBookings(ctx, ownerUserID)
	require.NoError(t, err)
	require.Len(t, ownerBookings, 1)
	assert.Equal(t, b.ID, ownerBookings[0].ID)

	sitterBookings, err := svc.GetSitterBookings(ctx, sitterUserID)
	require.NoError(t, err)
	require.Len(t, sitterBookings, 1)
	assert.Equal(t, b.ID, sitterBookings[0].ID)

	// A user without a profile simply has no bookings.
	none, err := svc.GetOwnerBookings(ctx, strangerUserID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
