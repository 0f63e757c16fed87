package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/replayhq/replay/internal/auth"
	"github.com/replayhq/replay/internal/domain"
	"github.com/replayhq/replay/internal/repository"
)

type SchoolHandler struct {
	schools repository.SchoolRepository
}

func NewSchoolHandler(schools repository.SchoolRepository) (*SchoolHandler, error) {
	if schools == nil {
		return nil, fmt.Errorf("school repository is required")
	}
	return &SchoolHandler{schools: schools}, nil
}

func RegisterSchoolRoutes(router fiber.Router, schools repository.SchoolRepository, authenticated, admin fiber.Handler) error {
	h, err := NewSchoolHandler(schools)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Get("/schools", h.ListSchools)
	v1.Post("/schools", authenticated, admin, h.CreateSchool)
	v1.Get("/schools/:id/clubs", h.ListClubs)
	v1.Post("/schools/:id/clubs", authenticated, admin, h.CreateClub)
	v1.Get("/clubs/:id", h.GetClub)
	v1.Get("/me/clubs", authenticated, h.ListManagedClubs)

	return nil
}

type createSchoolRequest struct {
	Name   string  `json:"name"`
	Region *string `json:"region"`
	Code   *string `json:"code"`
}

type createClubRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Genre       *string `json:"genre"`
}

type schoolResponse struct {
	ID     uint    `json:"id"`
	Name   string  `json:"name"`
	Region *string `json:"region,omitempty"`
	Code   *string `json:"code,omitempty"`
}

type clubResponse struct {
	ID          uint    `json:"id"`
	SchoolID    uint    `json:"schoolId"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Genre       *string `json:"genre,omitempty"`
}

func (h *SchoolHandler) ListSchools(c *fiber.Ctx) error {
	schools, err := h.schools.ListSchools(c.Context())
	if err != nil {
		return err
	}

	responses := make([]schoolResponse, 0, len(schools))
	for _, school := range schools {
		responses = append(responses, schoolResponse{
			ID:     school.ID,
			Name:   school.Name,
			Region: school.Region,
			Code:   school.Code,
		})
	}
	return c.Status(fiber.StatusOK).JSON(responses)
}

func (h *SchoolHandler) CreateSchool(c *fiber.Ctx) error {
	var req createSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrValidation)
	}

	school := domain.School{Name: req.Name, Region: req.Region, Code: req.Code}
	if err := school.Validate(); err != nil {
		return err
	}

	if err := h.schools.CreateSchool(c.Context(), &school); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(schoolResponse{
		ID:     school.ID,
		Name:   school.Name,
		Region: school.Region,
		Code:   school.Code,
	})
}

func (h *SchoolHandler) CreateClub(c *fiber.Ctx) error {
	schoolID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req createClubRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrValidation)
	}

	club := domain.Club{
		SchoolID:    schoolID,
		Name:        req.Name,
		Description: req.Description,
		Genre:       req.Genre,
	}
	if err := club.Validate(); err != nil {
		return err
	}

	if err := h.schools.CreateClub(c.Context(), &club); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toClubResponse(club))
}

func (h *SchoolHandler) ListClubs(c *fiber.Ctx) error {
	schoolID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	clubs, err := h.schools.ListClubsBySchool(c.Context(), schoolID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(toClubResponses(clubs))
}

func (h *SchoolHandler) GetClub(c *fiber.Ctx) error {
	clubID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	club, err := h.schools.GetClub(c.Context(), clubID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(toClubResponse(*club))
}

func (h *SchoolHandler) ListManagedClubs(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "authorization required")
	}

	clubs, err := h.schools.ListManagedClubs(c.Context(), user.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(toClubResponses(clubs))
}

func toClubResponses(clubs []domain.Club) []clubResponse {
	responses := make([]clubResponse, 0, len(clubs))
	for _, club := range clubs {
		responses = append(responses, toClubResponse(club))
	}
	return responses
}

func toClubResponse(club domain.Club) clubResponse {
	return clubResponse{
		ID:          club.ID,
		SchoolID:    club.SchoolID,
		Name:        club.Name,
		Description: club.Description,
		Genre:       club.Genre,
	}
}
