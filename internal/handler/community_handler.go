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

type CommunityHandler struct {
	community *service.CommunityService
}

func NewCommunityHandler(community *service.CommunityService) (*CommunityHandler, error) {
	if community == nil {
		return nil, fmt.Errorf("community service is required")
	}
	return &CommunityHandler{community: community}, nil
}

func RegisterCommunityRoutes(router fiber.Router, community *service.CommunityService, authenticated fiber.Handler) error {
	h, err := NewCommunityHandler(community)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1/posts")
	v1.Get("/", h.ListPosts)
	v1.Get("/:id", h.GetPost)
	v1.Post("/", authenticated, h.CreatePost)
	v1.Put("/:id", authenticated, h.UpdatePost)
	v1.Delete("/:id", authenticated, h.DeletePost)
	v1.Get("/:id/comments", h.ListComments)
	v1.Post("/:id/comments", authenticated, h.CreateComment)

	router.Delete("/v1/comments/:id", authenticated, h.DeleteComment)

	return nil
}

type createPostRequest struct {
	Type             string     `json:"type"`
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	ImageURL         *string    `json:"imageUrl"`
	Tags             *string    `json:"tags"`
	ClubID           *uint      `json:"clubId"`
	RequestCategory  *string    `json:"requestCategory"`
	DesiredStartDate *time.Time `json:"desiredStartDate"`
	DesiredEndDate   *time.Time `json:"desiredEndDate"`
}

type updatePostRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageURL *string `json:"imageUrl"`
	Tags     *string `json:"tags"`
}

type createCommentRequest struct {
	ParentCommentID *uint  `json:"parentCommentId"`
	Content         string `json:"content"`
}

type postResponse struct {
	ID               uint       `json:"id"`
	Type             string     `json:"type"`
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	ImageURL         *string    `json:"imageUrl,omitempty"`
	Tags             *string    `json:"tags,omitempty"`
	AuthorID         uint       `json:"authorId"`
	ClubID           *uint      `json:"clubId,omitempty"`
	RequestCategory  *string    `json:"requestCategory,omitempty"`
	DesiredStartDate *time.Time `json:"desiredStartDate,omitempty"`
	DesiredEndDate   *time.Time `json:"desiredEndDate,omitempty"`
	LikeCount        int        `json:"likeCount"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type commentResponse struct {
	ID              uint      `json:"id"`
	PostID          uint      `json:"postId"`
	AuthorID        uint      `json:"authorId"`
	ParentCommentID *uint     `json:"parentCommentId,omitempty"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (h *CommunityHandler) ListPosts(c *fiber.Ctx) error {
	page, err := parsePageParams(c)
	if err != nil {
		return err
	}

	params := repository.ListPostsParams{
		Keyword: strings.TrimSpace(c.Query("keyword")),
		Page:    page,
	}
	if rawType := strings.TrimSpace(c.Query("type")); rawType != "" {
		postType, err := domain.ParsePostTypeFromString(rawType)
		if err != nil {
			return err
		}
		params.Type = &postType
	}

	posts, total, err := h.community.ListPosts(c.Context(), params)
	if err != nil {
		return err
	}

	responses := make([]postResponse, 0, len(posts))
	for i := range posts {
		responses = append(responses, toPostResponse(&posts[i]))
	}
	return c.Status(fiber.StatusOK).JSON(listResponse{
		Data: responses,
		Meta: repository.NewPageMeta(page, total),
	})
}

func (h *CommunityHandler) GetPost(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	post, err := h.community.GetPost(c.Context(), id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(toPostResponse(post))
}

func (h *CommunityHandler) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	postType, err := domain.ParsePostTypeFromString(req.Type)
	if err != nil {
		return err
	}

	post, err := h.community.CreatePost(c.Context(), auth.CurrentUser(c), service.CreatePostInput{
		Type:             postType,
		Title:            strings.TrimSpace(req.Title),
		Content:          req.Content,
		ImageURL:         req.ImageURL,
		Tags:             req.Tags,
		ClubID:           req.ClubID,
		RequestCategory:  req.RequestCategory,
		DesiredStartDate: req.DesiredStartDate,
		DesiredEndDate:   req.DesiredEndDate,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toPostResponse(post))
}

func (h *CommunityHandler) UpdatePost(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	post, err := h.community.UpdatePost(c.Context(), auth.CurrentUser(c), id, service.UpdatePostInput{
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Tags:     req.Tags,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(toPostResponse(post))
}

func (h *CommunityHandler) DeletePost(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.community.DeletePost(c.Context(), auth.CurrentUser(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CommunityHandler) ListComments(c *fiber.Ctx) error {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	comments, err := h.community.ListComments(c.Context(), postID)
	if err != nil {
		return err
	}

	responses := make([]commentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, toCommentResponse(&comments[i]))
	}
	return c.Status(fiber.StatusOK).JSON(responses)
}

func (h *CommunityHandler) CreateComment(c *fiber.Ctx) error {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	comment, err := h.community.CreateComment(c.Context(), auth.CurrentUser(c), service.CreateCommentInput{
		PostID:          postID,
		ParentCommentID: req.ParentCommentID,
		Content:         req.Content,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toCommentResponse(comment))
}

func (h *CommunityHandler) DeleteComment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.community.DeleteComment(c.Context(), auth.CurrentUser(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toPostResponse(post *domain.CommunityPost) postResponse {
	return postResponse{
		ID:               post.ID,
		Type:             post.Type.String(),
		Title:            post.Title,
		Content:          post.Content,
		ImageURL:         post.ImageURL,
		Tags:             post.Tags,
		AuthorID:         post.AuthorID,
		ClubID:           post.ClubID,
		RequestCategory:  post.RequestCategory,
		DesiredStartDate: post.DesiredStartDate,
		DesiredEndDate:   post.DesiredEndDate,
		LikeCount:        post.LikeCount,
		CreatedAt:        post.CreatedAt,
		UpdatedAt:        post.UpdatedAt,
	}
}

func toCommentResponse(comment *domain.PostComment) commentResponse {
	return commentResponse{
		ID:              comment.ID,
		PostID:          comment.PostID,
		AuthorID:        comment.AuthorID,
		ParentCommentID: comment.ParentCommentID,
		Content:         comment.Content,
		CreatedAt:       comment.CreatedAt,
	}
}
