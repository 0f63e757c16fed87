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

type PerformanceHandler struct {
	performances repository.PerformanceRepository
	schools      repository.SchoolRepository
	reviews      *service.ReviewService
}

func NewPerformanceHandler(
	performances repository.PerformanceRepository,
	schools repository.SchoolRepository,
	reviews *service.ReviewService,
) (*PerformanceHandler, error) {
	if performances == nil {
		return nil, fmt.Errorf("performance repository is required")
	}
	if schools == nil {
		return nil, fmt.Errorf("school repository is required")
	}
	if reviews == nil {
		return nil, fmt.Errorf("review service is required")
	}
	return &PerformanceHandler{performances: performances, schools: schools, reviews: reviews}, nil
}

func RegisterPerformanceRoutes(
	router fiber.Router,
	performances repository.PerformanceRepository,
	schools repository.SchoolRepository,
	reviews *service.ReviewService,
	authenticated fiber.Handler,
	viewer fiber.Handler,
) error {
	h, err := NewPerformanceHandler(performances, schools, reviews)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1/performances")
	v1.Get("/", h.List)
	v1.Get("/:id", h.Get)
	v1.Post("/", authenticated, h.Create)
	v1.Put("/:id", authenticated, h.Update)
	v1.Delete("/:id", authenticated, h.Delete)

	// Reviews nest under their performance; the viewer middleware resolves
	// an optional token so private reviews stay visible to their owners.
	v1.Get("/:id/reviews", viewer, h.ListReviews)
	v1.Post("/:id/reviews", authenticated, h.CreateReview)

	router.Get("/v1/reviews/:id", viewer, h.GetReview)
	router.Put("/v1/reviews/:id", authenticated, h.UpdateReview)
	router.Delete("/v1/reviews/:id", authenticated, h.DeleteReview)

	return nil
}

type performanceRequest struct {
	SchoolID       *uint      `json:"schoolId"`
	ClubID         *uint      `json:"clubId"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Region         string     `json:"region"`
	ThemeCategory  string     `json:"themeCategory"`
	PosterImageURL *string    `json:"posterImageUrl"`
	Date           *time.Time `json:"date"`
}

type performanceResponse struct {
	ID             uint      `json:"id"`
	SchoolID       *uint     `json:"schoolId,omitempty"`
	ClubID         *uint     `json:"clubId,omitempty"`
	Title          string    `json:"title"`
	Description    *string   `json:"description,omitempty"`
	Region         string    `json:"region"`
	ThemeCategory  string    `json:"themeCategory"`
	PosterImageURL *string   `json:"posterImageUrl,omitempty"`
	Date           time.Time `json:"date"`
	CreatedAt      time.Time `json:"createdAt"`
}

type createReviewRequest struct {
	Content  string `json:"content"`
	IsPublic *bool  `json:"isPublic"`
	Rating   *int   `json:"rating"`
}

type reviewResponse struct {
	ID            uint      `json:"id"`
	PerformanceID uint      `json:"performanceId"`
	AuthorUserID  uint      `json:"authorUserId"`
	Content       string    `json:"content"`
	IsPublic      bool      `json:"isPublic"`
	Rating        *int      `json:"rating,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (h *PerformanceHandler) List(c *fiber.Ctx) error {
	params := repository.ListPerformancesParams{
		Region: strings.TrimSpace(c.Query("region")),
		Theme:  strings.TrimSpace(c.Query("theme")),
	}

	var err error
	if params.StartDate, err = queryDatePtr(c, "startDate"); err != nil {
		return err
	}
	if params.EndDate, err = queryDatePtr(c, "endDate"); err != nil {
		return err
	}

	performances, err := h.performances.List(c.Context(), params)
	if err != nil {
		return err
	}

	responses := make([]performanceResponse, 0, len(performances))
	for i := range performances {
		responses = append(responses, toPerformanceResponse(&performances[i]))
	}
	return c.Status(fiber.StatusOK).JSON(responses)
}

func (h *PerformanceHandler) Get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	performance, err := h.performances.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(toPerformanceResponse(performance))
}

func (h *PerformanceHandler) Create(c *fiber.Ctx) error {
	var req performanceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.requirePerformanceAdmin(c, req.ClubID); err != nil {
		return err
	}

	performance, err := requestToPerformance(req)
	if err != nil {
		return err
	}

	if err := h.performances.Create(c.Context(), performance); err != nil {
		return fmt.Errorf("failed to create performance: %w", err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPerformanceResponse(performance))
}

func (h *PerformanceHandler) Update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	existing, err := h.performances.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	if err := h.requirePerformanceAdmin(c, existing.ClubID); err != nil {
		return err
	}

	var req performanceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	// A performance stays attached to the club that created it.
	req.SchoolID = existing.SchoolID
	req.ClubID = existing.ClubID

	performance, err := requestToPerformance(req)
	if err != nil {
		return err
	}
	performance.ID = existing.ID
	performance.CreatedAt = existing.CreatedAt

	if err := h.performances.Update(c.Context(), performance); err != nil {
		return fmt.Errorf("failed to update performance: %w", err)
	}
	return c.Status(fiber.StatusOK).JSON(toPerformanceResponse(performance))
}

func (h *PerformanceHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	existing, err := h.performances.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	if err := h.requirePerformanceAdmin(c, existing.ClubID); err != nil {
		return err
	}

	if err := h.performances.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PerformanceHandler) ListReviews(c *fiber.Ctx) error {
	performanceID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	reviews, err := h.reviews.ListForPerformance(c.Context(), auth.CurrentUser(c), performanceID)
	if err != nil {
		return err
	}

	responses := make([]reviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, toReviewResponse(&reviews[i]))
	}
	return c.Status(fiber.StatusOK).JSON(responses)
}

func (h *PerformanceHandler) CreateReview(c *fiber.Ctx) error {
	performanceID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req createReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	review, err := h.reviews.Create(c.Context(), auth.CurrentUser(c), service.CreateReviewInput{
		PerformanceID: performanceID,
		Content:       req.Content,
		IsPublic:      isPublic,
		Rating:        req.Rating,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toReviewResponse(review))
}

func (h *PerformanceHandler) GetReview(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	review, err := h.reviews.GetByID(c.Context(), auth.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(toReviewResponse(review))
}

func (h *PerformanceHandler) UpdateReview(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req createReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	review, err := h.reviews.Update(c.Context(), auth.CurrentUser(c), id, service.UpdateReviewInput{
		Content:  req.Content,
		IsPublic: isPublic,
		Rating:   req.Rating,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(toReviewResponse(review))
}

func (h *PerformanceHandler) DeleteReview(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.reviews.Delete(c.Context(), auth.CurrentUser(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// requirePerformanceAdmin gates calendar writes. A performance without a
// club is platform-curated and only a platform admin may touch it.
func (h *PerformanceHandler) requirePerformanceAdmin(c *fiber.Ctx, clubID *uint) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "authorization required")
	}
	if user.IsAdmin() {
		return nil
	}
	if clubID == nil {
		return fmt.Errorf("%w: platform admin role required", domain.ErrForbidden)
	}

	isAdmin, err := h.schools.IsClubAdmin(c.Context(), *clubID, user.ID)
	if err != nil {
		return fmt.Errorf("failed to check club admin: %w", err)
	}
	if !isAdmin {
		return fmt.Errorf("%w: club admin role required", domain.ErrForbidden)
	}
	return nil
}

func requestToPerformance(req performanceRequest) (*domain.Performance, error) {
	if req.Date == nil {
		return nil, fmt.Errorf("%w: performance date is required", domain.ErrValidation)
	}

	performance := &domain.Performance{
		SchoolID:        req.SchoolID,
		ClubID:          req.ClubID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Region:          strings.TrimSpace(req.Region),
		ThemeCategory:   strings.TrimSpace(req.ThemeCategory),
		PosterImageURL:  req.PosterImageURL,
		PerformanceDate: *req.Date,
	}
	if err := performance.Validate(); err != nil {
		return nil, err
	}
	return performance, nil
}

func toPerformanceResponse(p *domain.Performance) performanceResponse {
	return performanceResponse{
		ID:             p.ID,
		SchoolID:       p.SchoolID,
		ClubID:         p.ClubID,
		Title:          p.Title,
		Description:    p.Description,
		Region:         p.Region,
		ThemeCategory:  p.ThemeCategory,
		PosterImageURL: p.PosterImageURL,
		Date:           p.PerformanceDate,
		CreatedAt:      p.CreatedAt,
	}
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:            r.ID,
		PerformanceID: r.PerformanceID,
		AuthorUserID:  r.AuthorUserID,
		Content:       r.Content,
		IsPublic:      r.IsPublic,
		Rating:        r.Rating,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
