package server

import (
	"errors"

	"devconnector/internal/github"
	"devconnector/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GithubRepos handles GET /api/profiles/github/:username. The GitHub API
// response body is relayed as-is.
func (s *Server) GithubRepos(c *fiber.Ctx) error {
	username := c.Params("username")

	body, err := s.github.Repos(c.Context(), username)
	if err != nil {
		if errors.Is(err, github.ErrNoProfile) {
			return models.RespondMsg(c, fiber.StatusNotFound, "No GitHub profile is found.")
		}
		return models.RespondServerError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(body)
}
