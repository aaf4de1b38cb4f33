package server

import (
	"errors"

	"devconnector/internal/models"
	"devconnector/internal/repository"
	"devconnector/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreatePost handles POST /api/posts. Author name and avatar are captured
// here and never resynchronized with later profile edits.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondValidationErrors(c, []models.FieldError{{Msg: "Invalid request body"}})
	}

	v := validation.New().Require("text", req.Text, "Please input something.")
	if !v.Valid() {
		return models.RespondValidationErrors(c, v.Errors())
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondServerError(c, err)
	}

	post := &models.Post{
		UserID: user.ID,
		Name:   user.Name,
		Avatar: user.Avatar,
		Text:   req.Text,
	}
	if err := s.postRepo.Create(c.Context(), post); err != nil {
		return models.RespondServerError(c, err)
	}

	created, err := s.postRepo.GetByID(c.Context(), post.ID)
	if err != nil {
		return models.RespondServerError(c, err)
	}
	return c.JSON(created)
}

// GetPosts handles GET /api/posts, newest first.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postRepo.List(c.Context())
	if err != nil {
		return models.RespondServerError(c, err)
	}
	return c.JSON(posts)
}

// findPost resolves the :id path parameter to a post. A malformed id and a
// missing post both surface as the same nil result.
func (s *Server) findPost(c *fiber.Ctx) (*models.Post, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, nil
	}

	post, err := s.postRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return post, nil
}

// GetPost handles GET /api/posts/:id.
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.findPost(c)
	if err != nil {
		return models.RespondServerError(c, err)
	}
	if post == nil {
		return models.RespondMsg(c, fiber.StatusNotFound, "Post is not found.")
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id; only the author may delete.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	post, err := s.findPost(c)
	if err != nil {
		return models.RespondServerError(c, err)
	}
	if post == nil {
		return models.RespondMsg(c, fiber.StatusNotFound, "Post is not found.")
	}
	if post.UserID != userID {
		return models.RespondMsg(c, fiber.StatusUnauthorized, "User is not authorized.")
	}

	if err := s.postRepo.Delete(c.Context(), post.ID); err != nil {
		return models.RespondServerError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Post is removed."})
}

// LikePost handles PUT /api/posts/like/:id and returns the updated likes
// list, newest first.
func (s *Server) LikePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	post, err := s.findPost(c)
	if err != nil {
		return models.RespondServerError(c, err)
	}
	if post == nil {
		return models.RespondMsg(c, fiber.StatusNotFound, "Post is not found.")
	}

	if err := s.postRepo.Like(c.Context(), post.ID, userID); err != nil {
		if errors.Is(err, repository.ErrAlreadyLiked) {
			return models.RespondMsg(c, fiber.StatusBadRequest, "Post already liked.")
		}
		return models.RespondServerError(c, err)
	}

	updated, err := s.postRepo.GetByID(c.Context(), post.ID)
	if err != nil {
		return models.RespondServerError(c, err)
	}
	return c.JSON(updated.Likes)
}

// UnlikePost handles PUT /api/posts/unlike/:id.
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	post, err := s.findPost(c)
	if err != nil {
		return models.RespondServerError(c, err)
	}
	if post == nil {
		return models.RespondMsg(c, fiber.StatusNotFound, "Post is not found.")
	}

	if err := s.postRepo.Unlike(c.Context(), post.ID, userID); err != nil {
		if errors.Is(err, repository.ErrNotLiked) {
			return models.RespondMsg(c, fiber.StatusBadRequest, "Post has not yet been liked.")
		}
		return models.RespondServerError(c, err)
	}

	updated, err := s.postRepo.GetByID(c.Context(), post.ID)
	if err != nil {
		return models.RespondServerError(c, err)
	}
	return c.JSON(updated.Likes)
}

// CreateComment handles POST /api/posts/comment/:id and returns the updated
// comments list, newest first.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondValidationErrors(c, []models.FieldError{{Msg: "Invalid request body"}})
	}

	v := validation.New().Require("text", req.Text, "Please input something.")
	if !v.Valid() {
		return models.RespondValidationErrors(c, v.Errors())
	}

	post, err := s.findPost(c)
	if err != nil {
		return models.RespondServerError(c, err)
	}
	if post == nil {
		return models.RespondMsg(c, fiber.StatusNotFound, "Post is not found.")
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondServerError(c, err)
	}

	comment := &models.Comment{
		PostID: post.ID,
		UserID: user.ID,
		Name:   user.Name,
		Avatar: user.Avatar,
		Text:   req.Text,
	}
	if err := s.postRepo.AddComment(c.Context(), comment); err != nil {
		return models.RespondServerError(c, err)
	}

	updated, err := s.postRepo.GetByID(c.Context(), post.ID)
	if err != nil {
		return models.RespondServerError(c, err)
	}
	return c.JSON(updated.Comments)
}

// DeleteComment handles DELETE /api/posts/comment/:id/:comment_id; only the
// comment's author may remove it.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	post, err := s.findPost(c)
	if err != nil {
		return models.RespondServerError(c, err)
	}
	if post == nil {
		return models.RespondMsg(c, fiber.StatusNotFound, "Post is not found.")
	}

	commentID, err := c.ParamsInt("comment_id")
	if err != nil || commentID <= 0 {
		return models.RespondMsg(c, fiber.StatusNotFound, "Comment does not exist.")
	}

	comment, err := s.postRepo.GetComment(c.Context(), post.ID, uint(commentID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondMsg(c, fiber.StatusNotFound, "Comment does not exist.")
		}
		return models.RespondServerError(c, err)
	}
	if comment.UserID != userID {
		return models.RespondMsg(c, fiber.StatusUnauthorized, "User is not authorized.")
	}

	if err := s.postRepo.DeleteComment(c.Context(), post.ID, comment.ID); err != nil {
		return models.RespondServerError(c, err)
	}

	updated, err := s.postRepo.GetByID(c.Context(), post.ID)
	if err != nil {
		return models.RespondServerError(c, err)
	}
	return c.JSON(updated.Comments)
}
