package repository

import (
	"context"
	"errors"

	"github.com/replayhq/replay/internal/domain"
	"gorm.io/gorm"
)

// ListNotificationsParams filters one recipient's notification feed.
type ListNotificationsParams struct {
	RecipientUserID uint
	IsRead          *bool
	Page            PageParams
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id uint) (*domain.Notification, error)
	ListForUser(ctx context.Context, params ListNotificationsParams) ([]domain.Notification, int64, error)
	MarkRead(ctx context.Context, id uint) (*domain.Notification, error)
}

type GormNotificationRepo struct {
	db *gorm.DB
}

func NewGormNotificationRepo(db *gorm.DB) *GormNotificationRepo {
	return &GormNotificationRepo{db: db}
}

func (r *GormNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *GormNotificationRepo) GetByID(ctx context.Context, id uint) (*domain.Notification, error) {
	var n domain.Notification
	err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *GormNotificationRepo) ListForUser(ctx context.Context, params ListNotificationsParams) ([]domain.Notification, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("recipient_user_id = ?", params.RecipientUserID)

	if params.IsRead != nil {
		query = query.Where("is_read = ?", *params.IsRead)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Page.Normalize()

	var notifications []domain.Notification
	err := query.
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// MarkRead sets the read flag and returns the updated record. Marking an
// already-read notification is a no-op success.
func (r *GormNotificationRepo) MarkRead(ctx context.Context, id uint) (*domain.Notification, error) {
	n, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}

	err = r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
	if err != nil {
		return nil, err
	}

	n.IsRead = true
	return n, nil
}
