package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/replayhq/replay/internal/domain"
	"github.com/replayhq/replay/internal/queue"
	"github.com/replayhq/replay/internal/realtime"
	"github.com/replayhq/replay/internal/repository"
	"go.uber.org/zap"
)

// Broadcaster pushes one message to every live connection. The realtime
// registry satisfies it.
type Broadcaster interface {
	Broadcast(msg any)
}

// PushCounter counts realtime pushes. prometheus counters satisfy it.
type PushCounter interface {
	Inc()
}

// NotifyInput describes one event to record and push.
type NotifyInput struct {
	Category domain.Category
	Message  string
	EntityID *uint
	Payload  *string
}

// pushData is the notification body clients receive over the socket.
// Field names follow the realtime wire contract, not the HTTP one.
type pushData struct {
	ID              uint            `json:"id"`
	RecipientUserID uint            `json:"recipient_user_id"`
	Category        domain.Category `json:"category"`
	EntityID        *uint           `json:"entity_id,omitempty"`
	Payload         *string         `json:"payload,omitempty"`
	Message         string          `json:"message"`
	IsRead          bool            `json:"is_read"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NotificationService persists notifications and fans them out to live
// connections. Persistence always comes first: a notification exists even
// when nobody is connected to see the push.
type NotificationService struct {
	notifications repository.NotificationRepository
	broadcaster   Broadcaster
	publisher     queue.Publisher
	logger        *zap.Logger
	pushed        PushCounter
}

func NewNotificationService(
	notifications repository.NotificationRepository,
	broadcaster Broadcaster,
	publisher queue.Publisher,
	logger *zap.Logger,
) (*NotificationService, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &NotificationService{
		notifications: notifications,
		broadcaster:   broadcaster,
		publisher:     publisher,
		logger:        logger,
	}, nil
}

// SetPushCounter wires a counter incremented once per socket push.
func (s *NotificationService) SetPushCounter(counter PushCounter) {
	s.pushed = counter
}

// NotifyUser records one notification and pushes it to live connections.
// The push and the broker event are best effort; only persistence failures
// surface as errors.
func (s *NotificationService) NotifyUser(ctx context.Context, recipientUserID uint, input NotifyInput) (*domain.Notification, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	notification := &domain.Notification{
		RecipientUserID: recipientUserID,
		Category:        input.Category,
		EntityID:        input.EntityID,
		Payload:         input.Payload,
		Message:         strings.TrimSpace(input.Message),
	}
	if err := notification.Validate(); err != nil {
		return nil, err
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.push(notification)
	s.publishCreated(ctx, notification)

	return notification, nil
}

// NotifyUsers records the same event for every recipient. Recipients are
// independent: one failed insert is logged and the rest proceed.
func (s *NotificationService) NotifyUsers(ctx context.Context, recipientUserIDs []uint, input NotifyInput) []domain.Notification {
	created := make([]domain.Notification, 0, len(recipientUserIDs))
	for _, userID := range recipientUserIDs {
		notification, err := s.NotifyUser(ctx, userID, input)
		if err != nil {
			s.logger.Error("failed to notify recipient",
				zap.Uint("recipientUserId", userID),
				zap.String("category", input.Category.String()),
				zap.Error(err),
			)
			continue
		}
		created = append(created, *notification)
	}
	return created
}

func (s *NotificationService) GetByID(ctx context.Context, viewer *domain.User, id uint) (*domain.Notification, error) {
	if viewer == nil {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}

	notification, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification.RecipientUserID != viewer.ID {
		return nil, fmt.Errorf("%w: notification belongs to another user", domain.ErrForbidden)
	}
	return notification, nil
}

// ListForUser returns the viewer's own feed, newest first.
func (s *NotificationService) ListForUser(
	ctx context.Context,
	viewer *domain.User,
	isRead *bool,
	page repository.PageParams,
) ([]domain.Notification, int64, error) {
	if viewer == nil {
		return nil, 0, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}

	return s.notifications.ListForUser(ctx, repository.ListNotificationsParams{
		RecipientUserID: viewer.ID,
		IsRead:          isRead,
		Page:            page,
	})
}

// MarkRead flips the read flag on the viewer's own notification. Repeating
// the call is a no-op success.
func (s *NotificationService) MarkRead(ctx context.Context, viewer *domain.User, id uint) (*domain.Notification, error) {
	if viewer == nil {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}

	notification, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification.RecipientUserID != viewer.ID {
		return nil, fmt.Errorf("%w: notification belongs to another user", domain.ErrForbidden)
	}

	return s.notifications.MarkRead(ctx, id)
}

func (s *NotificationService) push(notification *domain.Notification) {
	if s.broadcaster == nil {
		return
	}

	s.broadcaster.Broadcast(realtime.NewNotificationPush(pushData{
		ID:              notification.ID,
		RecipientUserID: notification.RecipientUserID,
		Category:        notification.Category,
		EntityID:        notification.EntityID,
		Payload:         notification.Payload,
		Message:         notification.Message,
		IsRead:          notification.IsRead,
		CreatedAt:       notification.CreatedAt,
	}))

	if s.pushed != nil {
		s.pushed.Inc()
	}
}

func (s *NotificationService) publishCreated(ctx context.Context, notification *domain.Notification) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.PublishCreated(ctx, queue.EventFromNotification(notification)); err != nil {
		s.logger.Warn("failed to publish notification event",
			zap.Uint("notificationId", notification.ID),
			zap.Error(err),
		)
	}
}
