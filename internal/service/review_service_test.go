package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/replayhq/replay/internal/domain"
	"github.com/replayhq/replay/internal/repository"
)

func stagePerformance(id uint, clubID *uint) *domain.Performance {
	return &domain.Performance{
		ID:              id,
		ClubID:          clubID,
		Title:           "Winter Gala",
		Region:          "Seoul",
		ThemeCategory:   "ballet",
		PerformanceDate: time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestReviewServiceCreateNotifiesClubAdmins(t *testing.T) {
	t.Parallel()

	clubID := uint(3)
	performances := &fakePerformanceRepo{
		getByIDFn: func(ctx context.Context, id uint) (*domain.Performance, error) {
			return stagePerformance(id, &clubID), nil
		},
	}
	reviews := &fakeReviewRepo{
		createFn: func(ctx context.Context, review *domain.Review) error {
			review.ID = 14
			return nil
		},
	}
	schools := &fakeSchoolRepo{
		listClubAdminUserIDsFn: func(ctx context.Context, got uint) ([]uint, error) {
			if got != clubID {
				t.Fatalf("club id = %d, want %d", got, clubID)
			}
			return []uint{100}, nil
		},
	}
	notifier := &fakeNotifier{}

	svc, err := NewReviewService(reviews, performances, schools, notifier, nil)
	if err != nil {
		t.Fatalf("NewReviewService() error = %v", err)
	}

	review, err := svc.Create(context.Background(), &domain.User{ID: 9, Role: domain.RoleUser}, CreateReviewInput{
		PerformanceID: 5,
		Content:       "beautiful second act",
		IsPublic:      true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if review.AuthorUserID != 9 {
		t.Fatalf("author = %d, want 9", review.AuthorUserID)
	}
	if len(notifier.fanouts) != 1 {
		t.Fatalf("fanout count = %d, want 1", len(notifier.fanouts))
	}
	if notifier.fanouts[0].input.Category != domain.CategoryPostComment {
		t.Fatalf("category = %s, want POST_COMMENT", notifier.fanouts[0].input.Category)
	}
}

func TestReviewServiceCreateSkipsNotifyWithoutClub(t *testing.T) {
	t.Parallel()

	performances := &fakePerformanceRepo{
		getByIDFn: func(ctx context.Context, id uint) (*domain.Performance, error) {
			return stagePerformance(id, nil), nil
		},
	}
	reviews := &fakeReviewRepo{
		createFn: func(ctx context.Context, review *domain.Review) error {
			review.ID = 14
			return nil
		},
	}
	notifier := &fakeNotifier{}

	svc, err := NewReviewService(reviews, performances, &fakeSchoolRepo{}, notifier, nil)
	if err != nil {
		t.Fatalf("NewReviewService() error = %v", err)
	}

	if _, err := svc.Create(context.Background(), &domain.User{ID: 9, Role: domain.RoleUser}, CreateReviewInput{
		PerformanceID: 5,
		Content:       "great show",
		IsPublic:      true,
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(notifier.fanouts) != 0 {
		t.Fatal("performance without a club should notify nobody")
	}
}

func TestReviewServiceListIncludesPrivateForClubAdmin(t *testing.T) {
	t.Parallel()

	clubID := uint(3)
	performances := &fakePerformanceRepo{
		getByIDFn: func(ctx context.Context, id uint) (*domain.Performance, error) {
			return stagePerformance(id, &clubID), nil
		},
	}
	var gotParams repository.ListReviewsParams
	reviews := &fakeReviewRepo{
		listForPerformanceFn: func(ctx context.Context, params repository.ListReviewsParams) ([]domain.Review, error) {
			gotParams = params
			return nil, nil
		},
	}
	schools := &fakeSchoolRepo{
		isClubAdminFn: func(ctx context.Context, gotClub, userID uint) (bool, error) {
			return gotClub == clubID && userID == 100, nil
		},
	}

	svc, err := NewReviewService(reviews, performances, schools, nil, nil)
	if err != nil {
		t.Fatalf("NewReviewService() error = %v", err)
	}

	if _, err := svc.ListForPerformance(context.Background(), &domain.User{ID: 100, Role: domain.RoleUser}, 5); err != nil {
		t.Fatalf("ListForPerformance() error = %v", err)
	}
	if !gotParams.IncludeAllPrivate {
		t.Fatal("club admin should see private reviews")
	}

	if _, err := svc.ListForPerformance(context.Background(), &domain.User{ID: 200, Role: domain.RoleUser}, 5); err != nil {
		t.Fatalf("ListForPerformance() error = %v", err)
	}
	if gotParams.IncludeAllPrivate {
		t.Fatal("regular viewer should not see all private reviews")
	}
	if gotParams.ViewerUserID != 200 {
		t.Fatalf("viewer filter = %d, want 200", gotParams.ViewerUserID)
	}
}

func TestReviewServiceGetPrivateReviewForbiddenForStranger(t *testing.T) {
	t.Parallel()

	clubID := uint(3)
	reviews := &fakeReviewRepo{
		getByIDFn: func(ctx context.Context, id uint) (*domain.Review, error) {
			return &domain.Review{ID: id, PerformanceID: 5, AuthorUserID: 9, Content: "private note", IsPublic: false}, nil
		},
	}
	performances := &fakePerformanceRepo{
		getByIDFn: func(ctx context.Context, id uint) (*domain.Performance, error) {
			return stagePerformance(id, &clubID), nil
		},
	}
	schools := &fakeSchoolRepo{
		isClubAdminFn: func(ctx context.Context, gotClub, userID uint) (bool, error) {
			return false, nil
		},
	}

	svc, err := NewReviewService(reviews, performances, schools, nil, nil)
	if err != nil {
		t.Fatalf("NewReviewService() error = %v", err)
	}

	if _, err := svc.GetByID(context.Background(), &domain.User{ID: 200, Role: domain.RoleUser}, 14); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("GetByID(stranger) error = %v, want ErrForbidden", err)
	}

	review, err := svc.GetByID(context.Background(), &domain.User{ID: 9, Role: domain.RoleUser}, 14)
	if err != nil {
		t.Fatalf("GetByID(author) error = %v", err)
	}
	if review.ID != 14 {
		t.Fatalf("review id = %d, want 14", review.ID)
	}
}

func TestReviewServiceUpdateAuthorOnly(t *testing.T) {
	t.Parallel()

	reviews := &fakeReviewRepo{
		getByIDFn: func(ctx context.Context, id uint) (*domain.Review, error) {
			return &domain.Review{ID: id, PerformanceID: 5, AuthorUserID: 9, Content: "original", IsPublic: true}, nil
		},
		updateFn: func(ctx context.Context, review *domain.Review) error {
			return nil
		},
	}

	svc, err := NewReviewService(reviews, &fakePerformanceRepo{}, &fakeSchoolRepo{}, nil, nil)
	if err != nil {
		t.Fatalf("NewReviewService() error = %v", err)
	}

	_, err = svc.Update(context.Background(), &domain.User{ID: 200, Role: domain.RoleUser}, 14, UpdateReviewInput{
		Content:  "edited",
		IsPublic: true,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Update(stranger) error = %v, want ErrForbidden", err)
	}

	review, err := svc.Update(context.Background(), &domain.User{ID: 9, Role: domain.RoleUser}, 14, UpdateReviewInput{
		Content:  "edited",
		IsPublic: false,
	})
	if err != nil {
		t.Fatalf("Update(author) error = %v", err)
	}
	if review.Content != "edited" || review.IsPublic {
		t.Fatalf("review = %+v, want edited private review", review)
	}
}

func TestReviewServiceDeleteAuthorOrPlatformAdmin(t *testing.T) {
	t.Parallel()

	deleted := 0
	reviews := &fakeReviewRepo{
		getByIDFn: func(ctx context.Context, id uint) (*domain.Review, error) {
			return &domain.Review{ID: id, PerformanceID: 5, AuthorUserID: 9, Content: "note", IsPublic: true}, nil
		},
		deleteFn: func(ctx context.Context, id uint) error {
			deleted++
			return nil
		},
	}

	svc, err := NewReviewService(reviews, &fakePerformanceRepo{}, &fakeSchoolRepo{}, nil, nil)
	if err != nil {
		t.Fatalf("NewReviewService() error = %v", err)
	}

	if err := svc.Delete(context.Background(), &domain.User{ID: 200, Role: domain.RoleUser}, 14); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Delete(stranger) error = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(context.Background(), &domain.User{ID: 9, Role: domain.RoleUser}, 14); err != nil {
		t.Fatalf("Delete(author) error = %v", err)
	}
	if err := svc.Delete(context.Background(), &domain.User{ID: 1, Role: domain.RoleAdmin}, 14); err != nil {
		t.Fatalf("Delete(admin) error = %v", err)
	}
	if deleted != 2 {
		t.Fatalf("delete calls = %d, want 2", deleted)
	}
}

type fakeReviewRepo struct {
	createFn             func(ctx context.Context, review *domain.Review) error
	getByIDFn            func(ctx context.Context, id uint) (*domain.Review, error)
	updateFn             func(ctx context.Context, review *domain.Review) error
	deleteFn             func(ctx context.Context, id uint) error
	listForPerformanceFn func(ctx context.Context, params repository.ListReviewsParams) ([]domain.Review, error)
}

func (f *fakeReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	if f.createFn != nil {
		return f.createFn(ctx, review)
	}
	return nil
}

func (f *fakeReviewRepo) GetByID(ctx context.Context, id uint) (*domain.Review, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeReviewRepo) Update(ctx context.Context, review *domain.Review) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, review)
	}
	return nil
}

func (f *fakeReviewRepo) Delete(ctx context.Context, id uint) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeReviewRepo) ListForPerformance(ctx context.Context, params repository.ListReviewsParams) ([]domain.Review, error) {
	if f.listForPerformanceFn != nil {
		return f.listForPerformanceFn(ctx, params)
	}
	return nil, nil
}

type fakePerformanceRepo struct {
	createFn  func(ctx context.Context, performance *domain.Performance) error
	getByIDFn func(ctx context.Context, id uint) (*domain.Performance, error)
	updateFn  func(ctx context.Context, performance *domain.Performance) error
	deleteFn  func(ctx context.Context, id uint) error
	listFn    func(ctx context.Context, params repository.ListPerformancesParams) ([]domain.Performance, error)
}

func (f *fakePerformanceRepo) Create(ctx context.Context, performance *domain.Performance) error {
	if f.createFn != nil {
		return f.createFn(ctx, performance)
	}
	return nil
}

func (f *fakePerformanceRepo) GetByID(ctx context.Context, id uint) (*domain.Performance, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (f *fakePerformanceRepo) Update(ctx context.Context, performance *domain.Performance) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, performance)
	}
	return nil
}

func (f *fakePerformanceRepo) Delete(ctx context.Context, id uint) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakePerformanceRepo) List(ctx context.Context, params repository.ListPerformancesParams) ([]domain.Performance, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil
}
