package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/replayhq/replay/internal/domain"
	"github.com/replayhq/replay/internal/repository"
	"go.uber.org/zap"
)

// Notifier records notifications and pushes them to live connections.
// NotificationService satisfies it.
type Notifier interface {
	NotifyUser(ctx context.Context, recipientUserID uint, input NotifyInput) (*domain.Notification, error)
	NotifyUsers(ctx context.Context, recipientUserIDs []uint, input NotifyInput) []domain.Notification
}

// CreateListingInput describes a new trade listing for one inventory item.
type CreateListingInput struct {
	InventoryItemID uint
	Title           *string
	Description     *string
	TradeType       domain.TradeType
	Price           int
	Deposit         int
	IsPublic        bool
}

// CreateReservationInput is one user's request against a listing.
type CreateReservationInput struct {
	ListingID uint
	StartAt   *time.Time
	EndAt     *time.Time
	Message   *string
}

// TradeService runs the rental and sale marketplace: listings are managed
// by club admins, reservations by any signed-in user, and every state
// change notifies the affected side.
type TradeService struct {
	trades    repository.TradeRepository
	inventory repository.InventoryRepository
	schools   repository.SchoolRepository
	notifier  Notifier
	logger    *zap.Logger
}

func NewTradeService(
	trades repository.TradeRepository,
	inventory repository.InventoryRepository,
	schools repository.SchoolRepository,
	notifier Notifier,
	logger *zap.Logger,
) (*TradeService, error) {
	if trades == nil {
		return nil, fmt.Errorf("trade repository is required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory repository is required")
	}
	if schools == nil {
		return nil, fmt.Errorf("school repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TradeService{
		trades:    trades,
		inventory: inventory,
		schools:   schools,
		notifier:  notifier,
		logger:    logger,
	}, nil
}

func (s *TradeService) ListListings(ctx context.Context, params repository.ListListingsParams) ([]repository.ListingWithItem, int64, error) {
	return s.trades.ListListings(ctx, params)
}

func (s *TradeService) GetListing(ctx context.Context, listingID uint) (*repository.ListingWithItem, error) {
	return s.trades.GetListing(ctx, listingID)
}

// CreateListing publishes one inventory item for rent or sale. Only an
// admin of the item's club may list it.
func (s *TradeService) CreateListing(ctx context.Context, actor *domain.User, input CreateListingInput) (*domain.TradeListing, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}

	item, err := s.inventory.GetByID(ctx, input.InventoryItemID)
	if err != nil {
		return nil, err
	}

	if err := s.requireClubAdmin(ctx, actor, item.ClubID); err != nil {
		return nil, err
	}

	listing := &domain.TradeListing{
		InventoryItemID: item.ID,
		Title:           input.Title,
		Description:     input.Description,
		TradeType:       input.TradeType,
		Price:           input.Price,
		Deposit:         input.Deposit,
		IsPublic:        input.IsPublic,
	}
	if err := listing.Validate(); err != nil {
		return nil, err
	}

	if err := s.trades.CreateListing(ctx, listing); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: item is already listed", domain.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return listing, nil
}

// CreateReservation files a pending request against a public listing and
// notifies every admin of the owning club.
func (s *TradeService) CreateReservation(ctx context.Context, actor *domain.User, input CreateReservationInput) (*domain.TradeReservation, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}

	listing, err := s.trades.GetListing(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.Listing.IsPublic {
		return nil, domain.ErrNotFound
	}
	if listing.Item.Status != domain.ItemStatusAvailable || listing.Item.IsDealDone {
		return nil, fmt.Errorf("%w: item is no longer available", domain.ErrConflict)
	}

	reservation := &domain.TradeReservation{
		ListingID: listing.Listing.ID,
		UserID:    actor.ID,
		TradeType: listing.Listing.TradeType,
		StartAt:   input.StartAt,
		EndAt:     input.EndAt,
		Message:   input.Message,
		Status:    domain.ReservationStatusPending,
	}
	if err := reservation.Validate(); err != nil {
		return nil, err
	}

	if err := s.trades.CreateReservation(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	s.notifyClubAdmins(ctx, listing.Item.ClubID, NotifyInput{
		Category: domain.CategoryTradeStatus,
		Message:  fmt.Sprintf("New %s request for %q", reservation.TradeType, listing.Item.Name),
		EntityID: &reservation.ID,
	})

	return reservation, nil
}

// ListReservations returns the active requests on a listing, oldest first.
// Only an admin of the owning club may see them.
func (s *TradeService) ListReservations(ctx context.Context, actor *domain.User, listingID uint) ([]domain.TradeReservation, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}

	listing, err := s.trades.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireClubAdmin(ctx, actor, listing.Item.ClubID); err != nil {
		return nil, err
	}

	return s.trades.ListReservations(ctx, listingID)
}

// RespondReservation confirms or cancels a pending reservation. Club
// admins may set either status; the requester may only cancel their own.
// The requester is notified of the outcome.
func (s *TradeService) RespondReservation(
	ctx context.Context,
	actor *domain.User,
	reservationID uint,
	status domain.ReservationStatus,
) (*domain.TradeReservation, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}
	if status != domain.ReservationStatusConfirmed && status != domain.ReservationStatusCanceled {
		return nil, fmt.Errorf("%w: status must be CONFIRMED or CANCELED", domain.ErrValidation)
	}

	reservation, err := s.trades.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.Status != domain.ReservationStatusPending {
		return nil, fmt.Errorf("%w: reservation is already %s", domain.ErrConflict, reservation.Status)
	}

	listing, err := s.trades.GetListing(ctx, reservation.ListingID)
	if err != nil {
		return nil, err
	}

	isRequesterCancel := actor.ID == reservation.UserID && status == domain.ReservationStatusCanceled
	if !isRequesterCancel {
		if err := s.requireClubAdmin(ctx, actor, listing.Item.ClubID); err != nil {
			return nil, err
		}
	}

	if err := s.trades.UpdateReservationStatus(ctx, reservationID, status); err != nil {
		return nil, err
	}
	reservation.Status = status

	if actor.ID != reservation.UserID {
		s.notifyRequester(ctx, reservation, listing.Item.Name)
	}

	return reservation, nil
}

// requireClubAdmin allows platform admins and admins of the given club.
func (s *TradeService) requireClubAdmin(ctx context.Context, actor *domain.User, clubID uint) error {
	if actor.IsAdmin() {
		return nil
	}

	isAdmin, err := s.schools.IsClubAdmin(ctx, clubID, actor.ID)
	if err != nil {
		return fmt.Errorf("failed to check club admin: %w", err)
	}
	if !isAdmin {
		return fmt.Errorf("%w: club admin role required", domain.ErrForbidden)
	}
	return nil
}

func (s *TradeService) notifyClubAdmins(ctx context.Context, clubID uint, input NotifyInput) {
	if s.notifier == nil {
		return
	}

	adminIDs, err := s.schools.ListClubAdminUserIDs(ctx, clubID)
	if err != nil {
		s.logger.Error("failed to load club admins for notification",
			zap.Uint("clubId", clubID),
			zap.Error(err),
		)
		return
	}

	s.notifier.NotifyUsers(ctx, adminIDs, input)
}

func (s *TradeService) notifyRequester(ctx context.Context, reservation *domain.TradeReservation, itemName string) {
	if s.notifier == nil {
		return
	}

	verb := "confirmed"
	if reservation.Status == domain.ReservationStatusCanceled {
		verb = "declined"
	}

	_, err := s.notifier.NotifyUser(ctx, reservation.UserID, NotifyInput{
		Category: domain.CategoryRequestResponse,
		Message:  fmt.Sprintf("Your %s request for %q was %s", reservation.TradeType, itemName, verb),
		EntityID: &reservation.ID,
	})
	if err != nil {
		s.logger.Error("failed to notify requester",
			zap.Uint("reservationId", reservation.ID),
			zap.Error(err),
		)
	}
}
