package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/replayhq/replay/internal/auth"
	"github.com/replayhq/replay/internal/domain"
	"github.com/replayhq/replay/internal/service"
)

type AuthHandler struct {
	users *service.UserService
}

func NewAuthHandler(users *service.UserService) (*AuthHandler, error) {
	if users == nil {
		return nil, fmt.Errorf("user service is required")
	}
	return &AuthHandler{users: users}, nil
}

func RegisterAuthRoutes(router fiber.Router, users *service.UserService, authenticated fiber.Handler) error {
	h, err := NewAuthHandler(users)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1/auth")
	v1.Post("/signup", h.Signup)
	v1.Post("/login", h.Login)
	v1.Get("/me", authenticated, h.Me)

	return nil
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	SchoolID *uint  `json:"schoolId"`
	ClubID   *uint  `json:"clubId"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	SchoolID  *uint     `json:"schoolId,omitempty"`
	ClubID    *uint     `json:"clubId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.users.Signup(c.Context(), service.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		SchoolID: req.SchoolID,
		ClubID:   req.ClubID,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	token, user, err := h.users.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(loginResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "authorization required")
	}
	return c.Status(fiber.StatusOK).JSON(toUserResponse(user))
}

func toUserResponse(user *domain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role.String(),
		SchoolID:  user.SchoolID,
		ClubID:    user.ClubID,
		CreatedAt: user.CreatedAt,
	}
}
