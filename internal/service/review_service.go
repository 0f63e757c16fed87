package service

import (
	"context"
	"fmt"

	"github.com/replayhq/replay/internal/domain"
	"github.com/replayhq/replay/internal/repository"
	"go.uber.org/zap"
)

// CreateReviewInput is a new audience review of one performance.
type CreateReviewInput struct {
	PerformanceID uint
	Content       string
	IsPublic      bool
	Rating        *int
}

// UpdateReviewInput carries the editable review fields.
type UpdateReviewInput struct {
	Content  string
	IsPublic bool
	Rating   *int
}

// ReviewService manages performance reviews. Private reviews stay visible
// to their author and to admins of the performing club; new reviews notify
// those admins.
type ReviewService struct {
	reviews      repository.ReviewRepository
	performances repository.PerformanceRepository
	schools      repository.SchoolRepository
	notifier     Notifier
	logger       *zap.Logger
}

func NewReviewService(
	reviews repository.ReviewRepository,
	performances repository.PerformanceRepository,
	schools repository.SchoolRepository,
	notifier Notifier,
	logger *zap.Logger,
) (*ReviewService, error) {
	if reviews == nil {
		return nil, fmt.Errorf("review repository is required")
	}
	if performances == nil {
		return nil, fmt.Errorf("performance repository is required")
	}
	if schools == nil {
		return nil, fmt.Errorf("school repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ReviewService{
		reviews:      reviews,
		performances: performances,
		schools:      schools,
		notifier:     notifier,
		logger:       logger,
	}, nil
}

// Create records a review and notifies the performing club's admins.
func (s *ReviewService) Create(ctx context.Context, actor *domain.User, input CreateReviewInput) (*domain.Review, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}

	performance, err := s.performances.GetByID(ctx, input.PerformanceID)
	if err != nil {
		return nil, err
	}

	review := &domain.Review{
		PerformanceID: performance.ID,
		AuthorUserID:  actor.ID,
		Content:       input.Content,
		IsPublic:      input.IsPublic,
		Rating:        input.Rating,
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if performance.ClubID != nil {
		s.notifyClubAdmins(ctx, *performance.ClubID, performance.Title, review)
	}

	return review, nil
}

// ListForPerformance returns the reviews the viewer is allowed to see.
// Club admins of the performing club see private reviews too.
func (s *ReviewService) ListForPerformance(ctx context.Context, viewer *domain.User, performanceID uint) ([]domain.Review, error) {
	performance, err := s.performances.GetByID(ctx, performanceID)
	if err != nil {
		return nil, err
	}

	params := repository.ListReviewsParams{PerformanceID: performance.ID}
	if viewer != nil {
		params.ViewerUserID = viewer.ID
		includeAll, err := s.canSeePrivate(ctx, viewer, performance)
		if err != nil {
			return nil, err
		}
		params.IncludeAllPrivate = includeAll
	}

	return s.reviews.ListForPerformance(ctx, params)
}

// GetByID returns one review, applying the same visibility rule as listing.
func (s *ReviewService) GetByID(ctx context.Context, viewer *domain.User, id uint) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.IsPublic {
		return review, nil
	}

	if viewer == nil {
		return nil, fmt.Errorf("%w: review is private", domain.ErrForbidden)
	}
	if review.AuthorUserID == viewer.ID {
		return review, nil
	}

	performance, err := s.performances.GetByID(ctx, review.PerformanceID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.canSeePrivate(ctx, viewer, performance)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: review is private", domain.ErrForbidden)
	}
	return review, nil
}

// Update edits a review. Only the author may edit.
func (s *ReviewService) Update(ctx context.Context, actor *domain.User, id uint, input UpdateReviewInput) (*domain.Review, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}

	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.AuthorUserID != actor.ID {
		return nil, fmt.Errorf("%w: only the author may edit a review", domain.ErrForbidden)
	}

	review.Content = input.Content
	review.IsPublic = input.IsPublic
	review.Rating = input.Rating
	if err := review.Validate(); err != nil {
		return nil, err
	}

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return review, nil
}

// Delete removes a review. The author or a platform admin may delete.
func (s *ReviewService) Delete(ctx context.Context, actor *domain.User, id uint) error {
	if actor == nil {
		return fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}

	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if review.AuthorUserID != actor.ID && !actor.IsAdmin() {
		return fmt.Errorf("%w: only the author may delete a review", domain.ErrForbidden)
	}

	return s.reviews.Delete(ctx, id)
}

func (s *ReviewService) canSeePrivate(ctx context.Context, viewer *domain.User, performance *domain.Performance) (bool, error) {
	if viewer.IsAdmin() {
		return true, nil
	}
	if performance.ClubID == nil {
		return false, nil
	}

	isAdmin, err := s.schools.IsClubAdmin(ctx, *performance.ClubID, viewer.ID)
	if err != nil {
		return false, fmt.Errorf("failed to check club admin: %w", err)
	}
	return isAdmin, nil
}

func (s *ReviewService) notifyClubAdmins(ctx context.Context, clubID uint, performanceTitle string, review *domain.Review) {
	if s.notifier == nil {
		return
	}

	adminIDs, err := s.schools.ListClubAdminUserIDs(ctx, clubID)
	if err != nil {
		s.logger.Error("failed to load club admins for review notification",
			zap.Uint("clubId", clubID),
			zap.Error(err),
		)
		return
	}

	s.notifier.NotifyUsers(ctx, adminIDs, NotifyInput{
		Category: domain.CategoryPostComment,
		Message:  fmt.Sprintf("New review on %q", performanceTitle),
		EntityID: &review.ID,
	})
}
