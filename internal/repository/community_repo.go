package repository

import (
	"context"
	"errors"

	"github.com/replayhq/replay/internal/domain"
	"gorm.io/gorm"
)

// ListPostsParams filters the community board.
type ListPostsParams struct {
	Type    *domain.PostType
	Keyword string
	Page    PageParams
}

type CommunityRepository interface {
	CreatePost(ctx context.Context, post *domain.CommunityPost) error
	GetPost(ctx context.Context, id uint) (*domain.CommunityPost, error)
	UpdatePost(ctx context.Context, post *domain.CommunityPost) error
	DeletePost(ctx context.Context, id uint) error
	ListPosts(ctx context.Context, params ListPostsParams) ([]domain.CommunityPost, int64, error)
	CreateComment(ctx context.Context, comment *domain.PostComment) error
	GetComment(ctx context.Context, id uint) (*domain.PostComment, error)
	ListComments(ctx context.Context, postID uint) ([]domain.PostComment, error)
	DeleteComment(ctx context.Context, id uint) error
}

type GormCommunityRepo struct {
	db *gorm.DB
}

func NewGormCommunityRepo(db *gorm.DB) *GormCommunityRepo {
	return &GormCommunityRepo{db: db}
}

func (r *GormCommunityRepo) CreatePost(ctx context.Context, post *domain.CommunityPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *GormCommunityRepo) GetPost(ctx context.Context, id uint) (*domain.CommunityPost, error) {
	var post domain.CommunityPost
	err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormCommunityRepo) UpdatePost(ctx context.Context, post *domain.CommunityPost) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *GormCommunityRepo) DeletePost(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.CommunityPost{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormCommunityRepo) ListPosts(ctx context.Context, params ListPostsParams) ([]domain.CommunityPost, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.CommunityPost{})

	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.Keyword != "" {
		pattern := "%" + params.Keyword + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ? OR tags ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Page.Normalize()

	var posts []domain.CommunityPost
	err := query.
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *GormCommunityRepo) CreateComment(ctx context.Context, comment *domain.PostComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *GormCommunityRepo) GetComment(ctx context.Context, id uint) (*domain.PostComment, error) {
	var comment domain.PostComment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *GormCommunityRepo) ListComments(ctx context.Context, postID uint) ([]domain.PostComment, error) {
	var comments []domain.PostComment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *GormCommunityRepo) DeleteComment(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.PostComment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
