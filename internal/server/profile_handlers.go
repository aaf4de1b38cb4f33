package server

import (
	"errors"
	"strings"

	"devconnector/internal/models"
	"devconnector/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// profileRequest is the upsert payload. Skills arrive as one comma-separated
// string; social links are top-level fields, not a nested object.
type profileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Status         string `json:"status"`
	Skills         string `json:"skills"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"githubusername"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

// parseSkills splits the comma-separated skills input, trimming each tag and
// dropping empties.
func parseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	return skills
}

// GetMyProfile handles GET /api/profiles/me.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := s.profileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondMsg(c, fiber.StatusBadRequest, "There is no profile for this user.")
		}
		return models.RespondServerError(c, err)
	}
	return c.JSON(profile)
}

// UpsertProfile handles POST /api/profiles: create when absent, otherwise a
// partial update where omitted optional fields keep their stored values.
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondValidationErrors(c, []models.FieldError{{Msg: "Invalid request body"}})
	}

	v := validation.New().
		Require("status", req.Status, "Status must be provided.").
		Require("skills", req.Skills, "Skills is required")
	if !v.Valid() {
		return models.RespondValidationErrors(c, v.Errors())
	}

	existing, err := s.profileRepo.GetByUserID(c.Context(), userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RespondServerError(c, err)
	}

	if existing == nil {
		profile := &models.Profile{
			UserID:         userID,
			Company:        req.Company,
			Website:        req.Website,
			Location:       req.Location,
			Status:         req.Status,
			Skills:         parseSkills(req.Skills),
			Bio:            req.Bio,
			GithubUsername: req.GithubUsername,
			Social: models.SocialLinks{
				Youtube:   req.Youtube,
				Twitter:   req.Twitter,
				Facebook:  req.Facebook,
				Linkedin:  req.Linkedin,
				Instagram: req.Instagram,
			},
		}
		if err := s.profileRepo.Create(c.Context(), profile); err != nil {
			return models.RespondServerError(c, err)
		}
		created, err := s.profileRepo.GetByUserID(c.Context(), userID)
		if err != nil {
			return models.RespondServerError(c, err)
		}
		return c.JSON(created)
	}

	existing.Status = req.Status
	existing.Skills = parseSkills(req.Skills)
	applyIfSet(&existing.Company, req.Company)
	applyIfSet(&existing.Website, req.Website)
	applyIfSet(&existing.Location, req.Location)
	applyIfSet(&existing.Bio, req.Bio)
	applyIfSet(&existing.GithubUsername, req.GithubUsername)
	applyIfSet(&existing.Social.Youtube, req.Youtube)
	applyIfSet(&existing.Social.Twitter, req.Twitter)
	applyIfSet(&existing.Social.Facebook, req.Facebook)
	applyIfSet(&existing.Social.Linkedin, req.Linkedin)
	applyIfSet(&existing.Social.Instagram, req.Instagram)

	if err := s.profileRepo.Save(c.Context(), existing); err != nil {
		return models.RespondServerError(c, err)
	}
	updated, err := s.profileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		return models.RespondServerError(c, err)
	}
	return c.JSON(updated)
}

// applyIfSet overwrites dst only when the request supplied a value.
func applyIfSet(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// ListProfiles handles GET /api/profiles (public).
func (s *Server) ListProfiles(c *fiber.Ctx) error {
	profiles, err := s.profileRepo.List(c.Context())
	if err != nil {
		return models.RespondServerError(c, err)
	}
	return c.JSON(profiles)
}

// GetProfileByUser handles GET /api/profiles/user/:id. A malformed id and a
// well-formed id with no profile produce the identical response.
func (s *Server) GetProfileByUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return models.RespondMsg(c, fiber.StatusBadRequest, "Profile is not found.")
	}

	profile, err := s.profileRepo.GetByUserID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondMsg(c, fiber.StatusBadRequest, "Profile is not found.")
		}
		return models.RespondServerError(c, err)
	}
	return c.JSON(profile)
}

// DeleteAccount handles DELETE /api/profiles: removes the user, their
// profile, and their posts in one transaction.
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.userRepo.DeleteAccount(c.Context(), userID); err != nil {
		return models.RespondServerError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "User is deleted."})
}

// AddExperience handles PUT /api/profiles/experience.
func (s *Server) AddExperience(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title       string       `json:"title"`
		Company     string       `json:"company"`
		Location    string       `json:"location"`
		From        models.Date  `json:"from"`
		To          *models.Date `json:"to"`
		Current     bool         `json:"current"`
		Description string       `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondValidationErrors(c, []models.FieldError{{Msg: "Invalid request body"}})
	}

	v := validation.New().
		Require("title", req.Title, "Title is required.").
		Require("company", req.Company, "Company is required.")
	if req.From.IsZero() {
		return models.RespondValidationErrors(c, append(v.Errors(), models.FieldError{Msg: "From date is required.", Param: "from"}))
	}
	if !v.Valid() {
		return models.RespondValidationErrors(c, v.Errors())
	}

	profile, err := s.profileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondMsg(c, fiber.StatusBadRequest, "There is no profile for this user.")
		}
		return models.RespondServerError(c, err)
	}

	exp := &models.Experience{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	}
	if err := s.profileRepo.AddExperience(c.Context(), profile.ID, exp); err != nil {
		return models.RespondServerError(c, err)
	}

	updated, err := s.profileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		return models.RespondServerError(c, err)
	}
	return c.JSON(updated)
}

// RemoveExperience handles DELETE /api/profiles/experience/:exp_id. A
// non-matching id removes zero entries and still succeeds.
func (s *Server) RemoveExperience(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	expID, _ := c.ParamsInt("exp_id")

	profile, err := s.profileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondMsg(c, fiber.StatusBadRequest, "There is no profile for this user.")
		}
		return models.RespondServerError(c, err)
	}

	if err := s.profileRepo.RemoveExperience(c.Context(), profile.ID, uint(expID)); err != nil {
		return models.RespondServerError(c, err)
	}

	updated, err := s.profileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		return models.RespondServerError(c, err)
	}
	return c.JSON(updated)
}

// AddEducation handles PUT /api/profiles/education.
func (s *Server) AddEducation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		School       string       `json:"school"`
		Degree       string       `json:"degree"`
		FieldOfStudy string       `json:"fieldofstudy"`
		From         models.Date  `json:"from"`
		To           *models.Date `json:"to"`
		Current      bool         `json:"current"`
		Description  string       `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondValidationErrors(c, []models.FieldError{{Msg: "Invalid request body"}})
	}

	v := validation.New().
		Require("school", req.School, "School is required.").
		Require("degree", req.Degree, "Degree is required.").
		Require("fieldofstudy", req.FieldOfStudy, "Field of study is required.")
	if req.From.IsZero() {
		return models.RespondValidationErrors(c, append(v.Errors(), models.FieldError{Msg: "From date is required.", Param: "from"}))
	}
	if !v.Valid() {
		return models.RespondValidationErrors(c, v.Errors())
	}

	profile, err := s.profileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondMsg(c, fiber.StatusBadRequest, "There is no profile for this user.")
		}
		return models.RespondServerError(c, err)
	}

	edu := &models.Education{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	}
	if err := s.profileRepo.AddEducation(c.Context(), profile.ID, edu); err != nil {
		return models.RespondServerError(c, err)
	}

	updated, err := s.profileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		return models.RespondServerError(c, err)
	}
	return c.JSON(updated)
}

// RemoveEducation handles DELETE /api/profiles/education/:edu_id.
func (s *Server) RemoveEducation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	eduID, _ := c.ParamsInt("edu_id")

	profile, err := s.profileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondMsg(c, fiber.StatusBadRequest, "There is no profile for this user.")
		}
		return models.RespondServerError(c, err)
	}

	if err := s.profileRepo.RemoveEducation(c.Context(), profile.ID, uint(eduID)); err != nil {
		return models.RespondServerError(c, err)
	}

	updated, err := s.profileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		return models.RespondServerError(c, err)
	}
	return c.JSON(updated)
}
