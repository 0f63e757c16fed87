package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/replayhq/replay/internal/auth"
	"github.com/replayhq/replay/internal/domain"
	"github.com/replayhq/replay/internal/repository"
	"github.com/replayhq/replay/internal/service"
)

type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) (*NotificationHandler, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notification service is required")
	}
	return &NotificationHandler{notifications: notifications}, nil
}

func RegisterNotificationRoutes(router fiber.Router, notifications *service.NotificationService, authenticated fiber.Handler) error {
	h, err := NewNotificationHandler(notifications)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1/notifications", authenticated)
	v1.Get("/", h.List)
	v1.Get("/:id", h.Get)
	v1.Post("/:id/read", h.MarkRead)

	return nil
}

type notificationResponse struct {
	ID        uint      `json:"id"`
	Category  string    `json:"category"`
	EntityID  *uint     `json:"entityId,omitempty"`
	Payload   *string   `json:"payload,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	page, err := parsePageParams(c)
	if err != nil {
		return err
	}
	isRead, err := queryBoolPtr(c, "isRead")
	if err != nil {
		return err
	}

	viewer := auth.CurrentUser(c)
	notifications, total, err := h.notifications.ListForUser(c.Context(), viewer, isRead, page)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(listResponse{
		Data: toNotificationResponses(notifications),
		Meta: repository.NewPageMeta(page, total),
	})
}

func (h *NotificationHandler) Get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	notification, err := h.notifications.GetByID(c.Context(), auth.CurrentUser(c), id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(toNotificationResponse(notification))
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	notification, err := h.notifications.MarkRead(c.Context(), auth.CurrentUser(c), id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(toNotificationResponse(notification))
}

func toNotificationResponses(notifications []domain.Notification) []notificationResponse {
	responses := make([]notificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, toNotificationResponse(&notifications[i]))
	}
	return responses
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Category:  n.Category.String(),
		EntityID:  n.EntityID,
		Payload:   n.Payload,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
