package handlers

import (
	"PantryPal/domain"
	"PantryPal/internal/api/presenters"
	"PantryPal/pkg/user"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	UserHandler interface {
		SignInWithGoogle(c *fiber.Ctx) error
		Logout(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
		UpdateUser(c *fiber.Ctx) error
		RegisterPushToken(c *fiber.Ctx) error
	}

	SessionConfig struct {
		CookieName string
		TTL        time.Duration
		Secure     bool
	}

	userHandler struct {
		userService user.UserService
		validator   *validator.Validate
		session     SessionConfig
	}
)

func NewUserHandler(userService user.UserService, validator *validator.Validate, session SessionConfig) UserHandler {
	return &userHandler{
		userService: userService,
		validator:   validator,
		session:     session,
	}
}

func (h *userHandler) SignInWithGoogle(c *fiber.Ctx) error {
	req := new(domain.GoogleSignInRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLogin, err)
	}

	res, err := h.userService.SignInWithGoogle(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedLogin, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.session.CookieName,
		Value:    res.Token,
		Path:     "/",
		Expires:  time.Now().Add(h.session.TTL),
		HTTPOnly: true,
		Secure:   h.session.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
}

func (h *userHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.session.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessLogout)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)

	res, err := h.userService.Me(c.Context(), email)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDetail)
}

func (h *userHandler) UpdateUser(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)
	req := new(domain.UpdateUserRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateUser, err)
	}

	res, err := h.userService.UpdateProfile(c.Context(), email, *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateUser, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateUser)
}

func (h *userHandler) RegisterPushToken(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)
	req := new(domain.RegisterPushTokenRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRegisterPushToken, err)
	}

	if err := h.userService.RegisterPushToken(c.Context(), email, req.Token); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedRegisterPushToken, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRegisterPushToken)
}
