package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/replayhq/replay/internal/auth"
	"github.com/replayhq/replay/internal/domain"
	"github.com/replayhq/replay/internal/repository"
)

type InventoryHandler struct {
	inventory repository.InventoryRepository
	schools   repository.SchoolRepository
}

func NewInventoryHandler(inventory repository.InventoryRepository, schools repository.SchoolRepository) (*InventoryHandler, error) {
	if inventory == nil {
		return nil, fmt.Errorf("inventory repository is required")
	}
	if schools == nil {
		return nil, fmt.Errorf("school repository is required")
	}
	return &InventoryHandler{inventory: inventory, schools: schools}, nil
}

func RegisterInventoryRoutes(
	router fiber.Router,
	inventory repository.InventoryRepository,
	schools repository.SchoolRepository,
	authenticated fiber.Handler,
) error {
	h, err := NewInventoryHandler(inventory, schools)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1/inventory", authenticated)
	v1.Get("/", h.List)
	v1.Get("/:id", h.Get)
	v1.Post("/", h.Create)
	v1.Put("/:id", h.Update)
	v1.Delete("/:id", h.Delete)

	return nil
}

type inventoryItemRequest struct {
	ClubID      uint       `json:"clubId"`
	Name        string     `json:"name"`
	Category    *string    `json:"category"`
	Tags        *string    `json:"tags"`
	Size        *string    `json:"size"`
	Contact     *string    `json:"contact"`
	ImagePath   *string    `json:"imagePath"`
	PurchasedAt *time.Time `json:"purchasedAt"`
	Status      string     `json:"status"`
	IsDealDone  bool       `json:"isDealDone"`
	Description *string    `json:"description"`
}

type inventoryItemResponse struct {
	ID          uint       `json:"id"`
	ClubID      uint       `json:"clubId"`
	Name        string     `json:"name"`
	Category    *string    `json:"category,omitempty"`
	Tags        *string    `json:"tags,omitempty"`
	Size        *string    `json:"size,omitempty"`
	Contact     *string    `json:"contact,omitempty"`
	ImagePath   *string    `json:"imagePath,omitempty"`
	PurchasedAt *time.Time `json:"purchasedAt,omitempty"`
	Status      string     `json:"status"`
	IsDealDone  bool       `json:"isDealDone"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (h *InventoryHandler) List(c *fiber.Ctx) error {
	page, err := parsePageParams(c)
	if err != nil {
		return err
	}

	params := repository.ListInventoryParams{
		Keyword: strings.TrimSpace(c.Query("keyword")),
		Sort:    strings.TrimSpace(c.Query("sort")),
		Page:    page,
	}

	if clubID := c.QueryInt("clubId", 0); clubID > 0 {
		id := uint(clubID)
		params.ClubID = &id
	}
	if rawStatus := strings.TrimSpace(c.Query("status")); rawStatus != "" {
		status, err := domain.ParseItemStatusFromString(rawStatus)
		if err != nil {
			return err
		}
		params.Status = &status
	}

	items, total, err := h.inventory.List(c.Context(), params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(listResponse{
		Data: toInventoryItemResponses(items),
		Meta: repository.NewPageMeta(page, total),
	})
}

func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	item, err := h.inventory.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(toInventoryItemResponse(item))
}

func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var req inventoryItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.requireClubAdmin(c, req.ClubID); err != nil {
		return err
	}

	item, err := requestToInventoryItem(req)
	if err != nil {
		return err
	}
	if err := item.Validate(); err != nil {
		return err
	}

	if err := h.inventory.Create(c.Context(), item); err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return c.Status(fiber.StatusCreated).JSON(toInventoryItemResponse(item))
}

func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	existing, err := h.inventory.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	if err := h.requireClubAdmin(c, existing.ClubID); err != nil {
		return err
	}

	var req inventoryItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	// Items never move between clubs through this endpoint.
	req.ClubID = existing.ClubID

	item, err := requestToInventoryItem(req)
	if err != nil {
		return err
	}
	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	if err := item.Validate(); err != nil {
		return err
	}

	if err := h.inventory.Update(c.Context(), item); err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	return c.Status(fiber.StatusOK).JSON(toInventoryItemResponse(item))
}

func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	existing, err := h.inventory.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	if err := h.requireClubAdmin(c, existing.ClubID); err != nil {
		return err
	}

	if err := h.inventory.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *InventoryHandler) requireClubAdmin(c *fiber.Ctx, clubID uint) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "authorization required")
	}
	if user.IsAdmin() {
		return nil
	}

	isAdmin, err := h.schools.IsClubAdmin(c.Context(), clubID, user.ID)
	if err != nil {
		return fmt.Errorf("failed to check club admin: %w", err)
	}
	if !isAdmin {
		return fmt.Errorf("%w: club admin role required", domain.ErrForbidden)
	}
	return nil
}

func requestToInventoryItem(req inventoryItemRequest) (*domain.InventoryItem, error) {
	status := domain.ItemStatusAvailable
	if strings.TrimSpace(req.Status) != "" {
		parsed, err := domain.ParseItemStatusFromString(req.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	return &domain.InventoryItem{
		ClubID:      req.ClubID,
		Name:        strings.TrimSpace(req.Name),
		Category:    req.Category,
		Tags:        req.Tags,
		Size:        req.Size,
		Contact:     req.Contact,
		ImagePath:   req.ImagePath,
		PurchasedAt: req.PurchasedAt,
		Status:      status,
		IsDealDone:  req.IsDealDone,
		Description: req.Description,
	}, nil
}

func toInventoryItemResponses(items []domain.InventoryItem) []inventoryItemResponse {
	responses := make([]inventoryItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, toInventoryItemResponse(&items[i]))
	}
	return responses
}

func toInventoryItemResponse(item *domain.InventoryItem) inventoryItemResponse {
	return inventoryItemResponse{
		ID:          item.ID,
		ClubID:      item.ClubID,
		Name:        item.Name,
		Category:    item.Category,
		Tags:        item.Tags,
		Size:        item.Size,
		Contact:     item.Contact,
		ImagePath:   item.ImagePath,
		PurchasedAt: item.PurchasedAt,
		Status:      item.Status.String(),
		IsDealDone:  item.IsDealDone,
		Description: item.Description,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
