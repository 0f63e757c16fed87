package service

import (
	"context"
	"fmt"
	"time"

	"github.com/replayhq/replay/internal/domain"
	"github.com/replayhq/replay/internal/repository"
	"go.uber.org/zap"
)

// CreatePostInput is a new community board entry.
type CreatePostInput struct {
	Type             domain.PostType
	Title            string
	Content          string
	ImageURL         *string
	Tags             *string
	ClubID           *uint
	RequestCategory  *string
	DesiredStartDate *time.Time
	DesiredEndDate   *time.Time
}

// UpdatePostInput carries the editable post fields.
type UpdatePostInput struct {
	Title    string
	Content  string
	ImageURL *string
	Tags     *string
}

// CreateCommentInput is a comment or a reply on a community post.
type CreateCommentInput struct {
	PostID          uint
	ParentCommentID *uint
	Content         string
}

// CommunityService runs the community board. Comments notify the post
// author; replies additionally notify the parent comment's author.
type CommunityService struct {
	posts    repository.CommunityRepository
	notifier Notifier
	logger   *zap.Logger
}

func NewCommunityService(
	posts repository.CommunityRepository,
	notifier Notifier,
	logger *zap.Logger,
) (*CommunityService, error) {
	if posts == nil {
		return nil, fmt.Errorf("community repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CommunityService{
		posts:    posts,
		notifier: notifier,
		logger:   logger,
	}, nil
}

func (s *CommunityService) ListPosts(ctx context.Context, params repository.ListPostsParams) ([]domain.CommunityPost, int64, error) {
	return s.posts.ListPosts(ctx, params)
}

func (s *CommunityService) GetPost(ctx context.Context, id uint) (*domain.CommunityPost, error) {
	return s.posts.GetPost(ctx, id)
}

func (s *CommunityService) CreatePost(ctx context.Context, actor *domain.User, input CreatePostInput) (*domain.CommunityPost, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}

	post := &domain.CommunityPost{
		Type:             input.Type,
		Title:            input.Title,
		Content:          input.Content,
		ImageURL:         input.ImageURL,
		Tags:             input.Tags,
		AuthorID:         actor.ID,
		ClubID:           input.ClubID,
		RequestCategory:  input.RequestCategory,
		DesiredStartDate: input.DesiredStartDate,
		DesiredEndDate:   input.DesiredEndDate,
	}
	if err := post.Validate(); err != nil {
		return nil, err
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// UpdatePost edits a post. Only the author may edit.
func (s *CommunityService) UpdatePost(ctx context.Context, actor *domain.User, id uint, input UpdatePostInput) (*domain.CommunityPost, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}

	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.ID {
		return nil, fmt.Errorf("%w: only the author may edit a post", domain.ErrForbidden)
	}

	post.Title = input.Title
	post.Content = input.Content
	post.ImageURL = input.ImageURL
	post.Tags = input.Tags
	if err := post.Validate(); err != nil {
		return nil, err
	}

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

// DeletePost removes a post. The author or a platform admin may delete.
func (s *CommunityService) DeletePost(ctx context.Context, actor *domain.User, id uint) error {
	if actor == nil {
		return fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}

	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != actor.ID && !actor.IsAdmin() {
		return fmt.Errorf("%w: only the author may delete a post", domain.ErrForbidden)
	}

	return s.posts.DeletePost(ctx, id)
}

func (s *CommunityService) ListComments(ctx context.Context, postID uint) ([]domain.PostComment, error) {
	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.posts.ListComments(ctx, postID)
}

// CreateComment adds a comment, notifying the post author. A reply also
// notifies the parent comment's author. Nobody is notified about their
// own activity.
func (s *CommunityService) CreateComment(ctx context.Context, actor *domain.User, input CreateCommentInput) (*domain.PostComment, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}

	post, err := s.posts.GetPost(ctx, input.PostID)
	if err != nil {
		return nil, err
	}

	var parent *domain.PostComment
	if input.ParentCommentID != nil {
		parent, err = s.posts.GetComment(ctx, *input.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != post.ID {
			return nil, fmt.Errorf("%w: parent comment belongs to another post", domain.ErrValidation)
		}
	}

	comment := &domain.PostComment{
		PostID:          post.ID,
		AuthorID:        actor.ID,
		ParentCommentID: input.ParentCommentID,
		Content:         input.Content,
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	if err := s.posts.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.notifyCommented(ctx, post, parent, comment)

	return comment, nil
}

// DeleteComment removes a comment. The author or a platform admin may
// delete.
func (s *CommunityService) DeleteComment(ctx context.Context, actor *domain.User, id uint) error {
	if actor == nil {
		return fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}

	comment, err := s.posts.GetComment(ctx, id)
	if err != nil {
		return err
	}
	if comment.AuthorID != actor.ID && !actor.IsAdmin() {
		return fmt.Errorf("%w: only the author may delete a comment", domain.ErrForbidden)
	}

	return s.posts.DeleteComment(ctx, id)
}

func (s *CommunityService) notifyCommented(ctx context.Context, post *domain.CommunityPost, parent *domain.PostComment, comment *domain.PostComment) {
	if s.notifier == nil {
		return
	}

	if post.AuthorID != comment.AuthorID {
		if _, err := s.notifier.NotifyUser(ctx, post.AuthorID, NotifyInput{
			Category: domain.CategoryPostComment,
			Message:  fmt.Sprintf("New comment on %q", post.Title),
			EntityID: &post.ID,
		}); err != nil {
			s.logger.Error("failed to notify post author",
				zap.Uint("postId", post.ID),
				zap.Error(err),
			)
		}
	}

	if parent == nil || parent.AuthorID == comment.AuthorID || parent.AuthorID == post.AuthorID {
		return
	}

	if _, err := s.notifier.NotifyUser(ctx, parent.AuthorID, NotifyInput{
		Category: domain.CategoryPostReply,
		Message:  fmt.Sprintf("New reply to your comment on %q", post.Title),
		EntityID: &post.ID,
	}); err != nil {
		s.logger.Error("failed to notify comment author",
			zap.Uint("commentId", parent.ID),
			zap.Error(err),
		)
	}
}
