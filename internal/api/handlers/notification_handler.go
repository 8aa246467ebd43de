package handlers

import (
	"PantryPal/domain"
	"PantryPal/internal/api/presenters"
	"PantryPal/pkg/notification"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	NotificationHandler interface {
		Send(c *fiber.Ctx) error
	}

	notificationHandler struct {
		pushService notification.PushService
		validator   *validator.Validate
	}
)

func NewNotificationHandler(pushService notification.PushService, validator *validator.Validate) NotificationHandler {
	return &notificationHandler{
		pushService: pushService,
		validator:   validator,
	}
}

func (h *notificationHandler) Send(c *fiber.Ctx) error {
	req := new(domain.SendNotificationRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSendNotification, err)
	}

	res, err := h.pushService.Send(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedSendNotification, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSendNotification)
}
