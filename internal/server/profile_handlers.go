package server

import (
	"askme/internal/models"
	"askme/internal/service"
	"askme/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// SettingsRequest is the body of POST /profile/edit. Empty fields are left unchanged.
type SettingsRequest struct {
	Nickname      string `json:"nickname" form:"nickname"`
	Avatar        string `json:"avatar" form:"avatar"`
	Birthday      string `json:"birthday" form:"birthday"`
	OldPassword   string `json:"old_password" form:"old_password"`
	NewPassword   string `json:"new_password" form:"new_password"`
	PasswordCheck string `json:"password_check" form:"password_check"`
}

// SettingsResponse mirrors the editable profile fields.
type SettingsResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Birthday string `json:"birthday"`
}

func settingsResponse(p *models.Profile) SettingsResponse {
	out := SettingsResponse{
		Nickname: p.Nickname,
		Avatar:   p.AvatarOrDefault(),
	}
	if p.User != nil {
		out.Username = p.User.Username
		out.Email = p.User.Email
	}
	if p.Birthday != nil {
		out.Birthday = p.Birthday.Format(validation.BirthdayLayout)
	}
	return out
}

// GetSettings handles GET /profile/edit
// @Summary Current profile settings
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SettingsResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /profile/edit [get]
func (s *Server) GetSettings(c *fiber.Ctx) error {
	profile, err := s.userService.Settings(c.UserContext(), userIDFromLocals(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settingsResponse(profile))
}

// UpdateSettings handles POST /profile/edit
// @Summary Update profile settings
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SettingsRequest true "Settings"
// @Success 200 {object} SettingsResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /profile/edit [post]
func (s *Server) UpdateSettings(c *fiber.Ctx) error {
	var req SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.userService.UpdateSettings(c.UserContext(), service.UpdateSettingsInput{
		UserID:        userIDFromLocals(c),
		Nickname:      req.Nickname,
		Avatar:        req.Avatar,
		Birthday:      req.Birthday,
		OldPassword:   req.OldPassword,
		NewPassword:   req.NewPassword,
		PasswordCheck: req.PasswordCheck,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settingsResponse(profile))
}
