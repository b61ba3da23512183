package server

import (
	"strings"

	"kinship/internal/service"

	"github.com/gofiber/fiber/v2"
)

// IssueCodeRequest asks for a registration code.
type IssueCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SignupRequest registers an account with a previously issued code.
type SignupRequest struct {
	Username  string `json:"username" validate:"required,username"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"max=50"`
	LastName  string `json:"last_name" validate:"max=50"`
	Code      string `json:"code" validate:"required,otp"`
}

// IssueCode handles POST /api/auth/otp
// @Summary Issue signup code
// @Description Send a one-time signup code to an unregistered email address
// @Tags auth
// @Accept json
// @Produce json
// @Param request body server.IssueCodeRequest true "Code request"
// @Success 202 {object} map[string]string
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /auth/otp [post]
func (s *Server) IssueCode(c *fiber.Ctx) error {
	var req IssueCodeRequest
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.otp.Issue(c.UserContext(), email); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Verification code sent",
	})
}

// Signup handles POST /api/auth/signup
// @Summary User signup
// @Description Register a new user account with a previously issued code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body server.SignupRequest true "Signup request"
// @Success 201 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Code:      req.Code,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

