package service

import (
	"context"
	"errors"
	"testing"

	"github.com/replayhq/replay/internal/domain"
	"github.com/replayhq/replay/internal/repository"
)

func TestCommunityServiceCreateCommentNotifiesPostAuthor(t *testing.T) {
	t.Parallel()

	posts := &fakeCommunityRepo{
		getPostFn: func(ctx context.Context, id uint) (*domain.CommunityPost, error) {
			return &domain.CommunityPost{ID: id, Type: domain.PostTypeGeneral, Title: "costume tips", Content: "...", AuthorID: 9}, nil
		},
		createCommentFn: func(ctx context.Context, comment *domain.PostComment) error {
			comment.ID = 33
			return nil
		},
	}
	notifier := &fakeNotifier{}

	svc, err := NewCommunityService(posts, notifier, nil)
	if err != nil {
		t.Fatalf("NewCommunityService() error = %v", err)
	}

	comment, err := svc.CreateComment(context.Background(), &domain.User{ID: 20, Role: domain.RoleUser}, CreateCommentInput{
		PostID:  5,
		Content: "great thread",
	})
	if err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}

	if comment.AuthorID != 20 {
		t.Fatalf("author = %d, want 20", comment.AuthorID)
	}
	if len(notifier.singles) != 1 {
		t.Fatalf("notify count = %d, want 1", len(notifier.singles))
	}
	single := notifier.singles[0]
	if single.userID != 9 || single.input.Category != domain.CategoryPostComment {
		t.Fatalf("notified %d with %s, want 9 with POST_COMMENT", single.userID, single.input.Category)
	}
}

func TestCommunityServiceCreateReplyNotifiesParentAuthor(t *testing.T) {
	t.Parallel()

	posts := &fakeCommunityRepo{
		getPostFn: func(ctx context.Context, id uint) (*domain.CommunityPost, error) {
			return &domain.CommunityPost{ID: id, Type: domain.PostTypeGeneral, Title: "costume tips", Content: "...", AuthorID: 9}, nil
		},
		getCommentFn: func(ctx context.Context, id uint) (*domain.PostComment, error) {
			return &domain.PostComment{ID: id, PostID: 5, AuthorID: 30, Content: "first"}, nil
		},
		createCommentFn: func(ctx context.Context, comment *domain.PostComment) error {
			comment.ID = 34
			return nil
		},
	}
	notifier := &fakeNotifier{}

	svc, err := NewCommunityService(posts, notifier, nil)
	if err != nil {
		t.Fatalf("NewCommunityService() error = %v", err)
	}

	parentID := uint(33)
	if _, err := svc.CreateComment(context.Background(), &domain.User{ID: 20, Role: domain.RoleUser}, CreateCommentInput{
		PostID:          5,
		ParentCommentID: &parentID,
		Content:         "agreed",
	}); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}

	if len(notifier.singles) != 2 {
		t.Fatalf("notify count = %d, want 2", len(notifier.singles))
	}
	if notifier.singles[0].userID != 9 || notifier.singles[0].input.Category != domain.CategoryPostComment {
		t.Fatalf("first notification = %+v, want post author POST_COMMENT", notifier.singles[0])
	}
	if notifier.singles[1].userID != 30 || notifier.singles[1].input.Category != domain.CategoryPostReply {
		t.Fatalf("second notification = %+v, want parent author POST_REPLY", notifier.singles[1])
	}
}

func TestCommunityServiceCreateCommentOwnPostSkipsNotification(t *testing.T) {
	t.Parallel()

	posts := &fakeCommunityRepo{
		getPostFn: func(ctx context.Context, id uint) (*domain.CommunityPost, error) {
			return &domain.CommunityPost{ID: id, Type: domain.PostTypeGeneral, Title: "costume tips", Content: "...", AuthorID: 9}, nil
		},
	}
	notifier := &fakeNotifier{}

	svc, err := NewCommunityService(posts, notifier, nil)
	if err != nil {
		t.Fatalf("NewCommunityService() error = %v", err)
	}

	if _, err := svc.CreateComment(context.Background(), &domain.User{ID: 9, Role: domain.RoleUser}, CreateCommentInput{
		PostID:  5,
		Content: "bump",
	}); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	if len(notifier.singles) != 0 {
		t.Fatal("own comment should notify nobody")
	}
}

func TestCommunityServiceCreateCommentRejectsForeignParent(t *testing.T) {
	t.Parallel()

	posts := &fakeCommunityRepo{
		getPostFn: func(ctx context.Context, id uint) (*domain.CommunityPost, error) {
			return &domain.CommunityPost{ID: id, Type: domain.PostTypeGeneral, Title: "costume tips", Content: "...", AuthorID: 9}, nil
		},
		getCommentFn: func(ctx context.Context, id uint) (*domain.PostComment, error) {
			return &domain.PostComment{ID: id, PostID: 99, AuthorID: 30, Content: "elsewhere"}, nil
		},
	}

	svc, err := NewCommunityService(posts, nil, nil)
	if err != nil {
		t.Fatalf("NewCommunityService() error = %v", err)
	}

	parentID := uint(33)
	_, err = svc.CreateComment(context.Background(), &domain.User{ID: 20, Role: domain.RoleUser}, CreateCommentInput{
		PostID:          5,
		ParentCommentID: &parentID,
		Content:         "agreed",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("CreateComment() error = %v, want ErrValidation", err)
	}
}

func TestCommunityServiceUpdatePostAuthorOnly(t *testing.T) {
	t.Parallel()

	posts := &fakeCommunityRepo{
		getPostFn: func(ctx context.Context, id uint) (*domain.CommunityPost, error) {
			return &domain.CommunityPost{ID: id, Type: domain.PostTypeGeneral, Title: "old", Content: "old", AuthorID: 9}, nil
		},
	}

	svc, err := NewCommunityService(posts, nil, nil)
	if err != nil {
		t.Fatalf("NewCommunityService() error = %v", err)
	}

	_, err = svc.UpdatePost(context.Background(), &domain.User{ID: 20, Role: domain.RoleUser}, 5, UpdatePostInput{
		Title:   "new",
		Content: "new",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("UpdatePost(stranger) error = %v, want ErrForbidden", err)
	}

	post, err := svc.UpdatePost(context.Background(), &domain.User{ID: 9, Role: domain.RoleUser}, 5, UpdatePostInput{
		Title:   "new",
		Content: "new",
	})
	if err != nil {
		t.Fatalf("UpdatePost(author) error = %v", err)
	}
	if post.Title != "new" {
		t.Fatalf("title = %q, want new", post.Title)
	}
}

func TestCommunityServiceDeletePostAdminAllowed(t *testing.T) {
	t.Parallel()

	deleted := false
	posts := &fakeCommunityRepo{
		getPostFn: func(ctx context.Context, id uint) (*domain.CommunityPost, error) {
			return &domain.CommunityPost{ID: id, Type: domain.PostTypeRequest, Title: "need props", Content: "...", AuthorID: 9}, nil
		},
		deletePostFn: func(ctx context.Context, id uint) error {
			deleted = true
			return nil
		},
	}

	svc, err := NewCommunityService(posts, nil, nil)
	if err != nil {
		t.Fatalf("NewCommunityService() error = %v", err)
	}

	if err := svc.DeletePost(context.Background(), &domain.User{ID: 1, Role: domain.RoleAdmin}, 5); err != nil {
		t.Fatalf("DeletePost(admin) error = %v", err)
	}
	if !deleted {
		t.Fatal("post should be deleted")
	}
}

type fakeCommunityRepo struct {
	createPostFn    func(ctx context.Context, post *domain.CommunityPost) error
	getPostFn       func(ctx context.Context, id uint) (*domain.CommunityPost, error)
	updatePostFn    func(ctx context.Context, post *domain.CommunityPost) error
	deletePostFn    func(ctx context.Context, id uint) error
	listPostsFn     func(ctx context.Context, params repository.ListPostsParams) ([]domain.CommunityPost, int64, error)
	createCommentFn func(ctx context.Context, comment *domain.PostComment) error
	getCommentFn    func(ctx context.Context, id uint) (*domain.PostComment, error)
	listCommentsFn  func(ctx context.Context, postID uint) ([]domain.PostComment, error)
	deleteCommentFn func(ctx context.Context, id uint) error
}

func (f *fakeCommunityRepo) CreatePost(ctx context.Context, post *domain.CommunityPost) error {
	if f.createPostFn != nil {
		return f.createPostFn(ctx, post)
	}
	return nil
}

func (f *fakeCommunityRepo) GetPost(ctx context.Context, id uint) (*domain.CommunityPost, error) {
	if f.getPostFn != nil {
		return f.getPostFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCommunityRepo) UpdatePost(ctx context.Context, post *domain.CommunityPost) error {
	if f.updatePostFn != nil {
		return f.updatePostFn(ctx, post)
	}
	return nil
}

func (f *fakeCommunityRepo) DeletePost(ctx context.Context, id uint) error {
	if f.deletePostFn != nil {
		return f.deletePostFn(ctx, id)
	}
	return nil
}

func (f *fakeCommunityRepo) ListPosts(ctx context.Context, params repository.ListPostsParams) ([]domain.CommunityPost, int64, error) {
	if f.listPostsFn != nil {
		return f.listPostsFn(ctx, params)
	}
	return nil, 0, nil
}

func (f *fakeCommunityRepo) CreateComment(ctx context.Context, comment *domain.PostComment) error {
	if f.createCommentFn != nil {
		return f.createCommentFn(ctx, comment)
	}
	return nil
}

func (f *fakeCommunityRepo) GetComment(ctx context.Context, id uint) (*domain.PostComment, error) {
	if f.getCommentFn != nil {
		return f.getCommentFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCommunityRepo) ListComments(ctx context.Context, postID uint) ([]domain.PostComment, error) {
	if f.listCommentsFn != nil {
		return f.listCommentsFn(ctx, postID)
	}
	return nil, nil
}

func (f *fakeCommunityRepo) DeleteComment(ctx context.Context, id uint) error {
	if f.deleteCommentFn != nil {
		return f.deleteCommentFn(ctx, id)
	}
	return nil
}
