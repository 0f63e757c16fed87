package queue

import (
	"fmt"
	"time"

	"github.com/replayhq/replay/internal/domain"
)

// NotificationEvent is the broker payload emitted after a notification row
// is persisted. Consumers fetch the full record by ID when they need more
// than the envelope carries.
type NotificationEvent struct {
	NotificationID  uint            `json:"notificationId"`
	RecipientUserID uint            `json:"recipientUserId"`
	Category        domain.Category `json:"category"`
	Message         string          `json:"message"`
	EntityID        *uint           `json:"entityId,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func (e NotificationEvent) Validate() error {
	if e.NotificationID == 0 {
		return fmt.Errorf("notificationId is required")
	}
	if e.RecipientUserID == 0 {
		return fmt.Errorf("recipientUserId is required")
	}
	if !e.Category.IsValid() {
		return fmt.Errorf("invalid category %q", e.Category)
	}
	return nil
}

// EventFromNotification builds the broker payload for one persisted row.
func EventFromNotification(n *domain.Notification) NotificationEvent {
	return NotificationEvent{
		NotificationID:  n.ID,
		RecipientUserID: n.RecipientUserID,
		Category:        n.Category,
		Message:         n.Message,
		EntityID:        n.EntityID,
		CreatedAt:       n.CreatedAt,
	}
}
