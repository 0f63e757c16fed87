package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/replayhq/replay/internal/auth"
	"github.com/replayhq/replay/internal/domain"
	"github.com/replayhq/replay/internal/repository"
	"github.com/replayhq/replay/internal/service"
)

type TradeHandler struct {
	trades *service.TradeService
}

func NewTradeHandler(trades *service.TradeService) (*TradeHandler, error) {
	if trades == nil {
		return nil, fmt.Errorf("trade service is required")
	}
	return &TradeHandler{trades: trades}, nil
}

func RegisterTradeRoutes(router fiber.Router, trades *service.TradeService, authenticated fiber.Handler) error {
	h, err := NewTradeHandler(trades)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1/trade")
	v1.Get("/listings", h.ListListings)
	v1.Get("/listings/:id", h.GetListing)
	v1.Post("/listings", authenticated, h.CreateListing)
	v1.Get("/listings/:id/reservations", authenticated, h.ListReservations)
	v1.Post("/reservations", authenticated, h.CreateReservation)
	v1.Post("/reservations/:id/respond", authenticated, h.RespondReservation)

	return nil
}

type createListingRequest struct {
	InventoryItemID uint    `json:"inventoryItemId"`
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	TradeType       string  `json:"tradeType"`
	Price           int     `json:"price"`
	Deposit         int     `json:"deposit"`
	IsPublic        *bool   `json:"isPublic"`
}

type createReservationRequest struct {
	ListingID uint       `json:"listingId"`
	StartAt   *time.Time `json:"startAt"`
	EndAt     *time.Time `json:"endAt"`
	Message   *string    `json:"message"`
}

type respondReservationRequest struct {
	Status string `json:"status"`
}

type listingResponse struct {
	ID          uint                  `json:"id"`
	Title       *string               `json:"title,omitempty"`
	Description *string               `json:"description,omitempty"`
	TradeType   string                `json:"tradeType"`
	Price       int                   `json:"price"`
	Deposit     int                   `json:"deposit"`
	IsPublic    bool                  `json:"isPublic"`
	CreatedAt   time.Time             `json:"createdAt"`
	Item        inventoryItemResponse `json:"item"`
}

type reservationResponse struct {
	ID        uint       `json:"id"`
	ListingID uint       `json:"listingId"`
	UserID    uint       `json:"userId"`
	TradeType string     `json:"tradeType"`
	StartAt   *time.Time `json:"startAt,omitempty"`
	EndAt     *time.Time `json:"endAt,omitempty"`
	Message   *string    `json:"message,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (h *TradeHandler) ListListings(c *fiber.Ctx) error {
	page, err := parsePageParams(c)
	if err != nil {
		return err
	}

	params := repository.ListListingsParams{
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Category: strings.TrimSpace(c.Query("category")),
		Tag:      strings.TrimSpace(c.Query("tag")),
		Sort:     strings.TrimSpace(c.Query("sort")),
		Page:     page,
	}

	if rawType := strings.TrimSpace(c.Query("tradeType")); rawType != "" {
		tradeType, err := domain.ParseTradeTypeFromString(rawType)
		if err != nil {
			return err
		}
		params.TradeType = &tradeType
	}
	if params.PriceMin, err = queryIntPtr(c, "priceMin"); err != nil {
		return err
	}
	if params.PriceMax, err = queryIntPtr(c, "priceMax"); err != nil {
		return err
	}

	listings, total, err := h.trades.ListListings(c.Context(), params)
	if err != nil {
		return err
	}

	responses := make([]listingResponse, 0, len(listings))
	for i := range listings {
		responses = append(responses, toListingResponse(&listings[i]))
	}
	return c.Status(fiber.StatusOK).JSON(listResponse{
		Data: responses,
		Meta: repository.NewPageMeta(page, total),
	})
}

func (h *TradeHandler) GetListing(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	listing, err := h.trades.GetListing(c.Context(), id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(toListingResponse(listing))
}

func (h *TradeHandler) CreateListing(c *fiber.Ctx) error {
	var req createListingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	tradeType, err := domain.ParseTradeTypeFromString(req.TradeType)
	if err != nil {
		return err
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	listing, err := h.trades.CreateListing(c.Context(), auth.CurrentUser(c), service.CreateListingInput{
		InventoryItemID: req.InventoryItemID,
		Title:           req.Title,
		Description:     req.Description,
		TradeType:       tradeType,
		Price:           req.Price,
		Deposit:         req.Deposit,
		IsPublic:        isPublic,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":        listing.ID,
		"tradeType": listing.TradeType.String(),
		"price":     listing.Price,
		"deposit":   listing.Deposit,
		"isPublic":  listing.IsPublic,
	})
}

func (h *TradeHandler) CreateReservation(c *fiber.Ctx) error {
	var req createReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	reservation, err := h.trades.CreateReservation(c.Context(), auth.CurrentUser(c), service.CreateReservationInput{
		ListingID: req.ListingID,
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
		Message:   req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toReservationResponse(reservation))
}

func (h *TradeHandler) ListReservations(c *fiber.Ctx) error {
	listingID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	reservations, err := h.trades.ListReservations(c.Context(), auth.CurrentUser(c), listingID)
	if err != nil {
		return err
	}

	responses := make([]reservationResponse, 0, len(reservations))
	for i := range reservations {
		responses = append(responses, toReservationResponse(&reservations[i]))
	}
	return c.Status(fiber.StatusOK).JSON(responses)
}

func (h *TradeHandler) RespondReservation(c *fiber.Ctx) error {
	reservationID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req respondReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	status, err := domain.ParseReservationStatusFromString(req.Status)
	if err != nil {
		return err
	}

	reservation, err := h.trades.RespondReservation(c.Context(), auth.CurrentUser(c), reservationID, status)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(toReservationResponse(reservation))
}

func toListingResponse(listing *repository.ListingWithItem) listingResponse {
	return listingResponse{
		ID:          listing.Listing.ID,
		Title:       listing.Listing.Title,
		Description: listing.Listing.Description,
		TradeType:   listing.Listing.TradeType.String(),
		Price:       listing.Listing.Price,
		Deposit:     listing.Listing.Deposit,
		IsPublic:    listing.Listing.IsPublic,
		CreatedAt:   listing.Listing.CreatedAt,
		Item:        toInventoryItemResponse(&listing.Item),
	}
}

func toReservationResponse(reservation *domain.TradeReservation) reservationResponse {
	return reservationResponse{
		ID:        reservation.ID,
		ListingID: reservation.ListingID,
		UserID:    reservation.UserID,
		TradeType: reservation.TradeType.String(),
		StartAt:   reservation.StartAt,
		EndAt:     reservation.EndAt,
		Message:   reservation.Message,
		Status:    reservation.Status.String(),
		CreatedAt: reservation.CreatedAt,
	}
}
