package handlers

import (
	"PantryPal/domain"
	"PantryPal/internal/api/presenters"
	"PantryPal/pkg/inventory"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultExpiringDays = 3
	maxExpiringDays     = 365
)

type (
	InventoryHandler interface {
		GetLocations(c *fiber.Ctx) error
		GetLocation(c *fiber.Ctx) error
		CreateLocation(c *fiber.Ctx) error
		RenameLocation(c *fiber.Ctx) error
		DeleteLocation(c *fiber.Ctx) error

		GetContainers(c *fiber.Ctx) error
		CreateContainer(c *fiber.Ctx) error
		RenameContainer(c *fiber.Ctx) error
		DeleteContainer(c *fiber.Ctx) error

		CreateItem(c *fiber.Ctx) error
		CreateItems(c *fiber.Ctx) error
		UpdateItem(c *fiber.Ctx) error
		DeleteItem(c *fiber.Ctx) error
		UploadItemImage(c *fiber.Ctx) error

		GetItems(c *fiber.Ctx) error
		GetExpiringItems(c *fiber.Ctx) error
	}

	inventoryHandler struct {
		inventoryService inventory.InventoryService
		validator        *validator.Validate
	}
)

func NewInventoryHandler(inventoryService inventory.InventoryService, validator *validator.Validate) InventoryHandler {
	return &inventoryHandler{
		inventoryService: inventoryService,
		validator:        validator,
	}
}

func (h *inventoryHandler) GetLocations(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)

	res, err := h.inventoryService.ListLocations(c.Context(), email)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetLocations, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetLocations)
}

func (h *inventoryHandler) GetLocation(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)

	res, err := h.inventoryService.GetLocation(c.Context(), email, c.Params("locationId"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetLocation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetLocation)
}

func (h *inventoryHandler) CreateLocation(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)
	req := new(domain.NameRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateLocation, err)
	}

	res, err := h.inventoryService.CreateLocation(c.Context(), email, *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateLocation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateLocation)
}

func (h *inventoryHandler) RenameLocation(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)
	req := new(domain.NameRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRenameLocation, err)
	}

	if err := h.inventoryService.RenameLocation(c.Context(), email, c.Params("locationId"), *req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedRenameLocation, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRenameLocation)
}

func (h *inventoryHandler) DeleteLocation(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)

	if err := h.inventoryService.DeleteLocation(c.Context(), email, c.Params("locationId")); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedDeleteLocation, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteLocation)
}

func (h *inventoryHandler) GetContainers(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)

	res, err := h.inventoryService.ListContainers(c.Context(), email, c.Params("locationId"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetContainers, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetContainers)
}

func (h *inventoryHandler) CreateContainer(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)
	req := new(domain.NameRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateContainer, err)
	}

	res, err := h.inventoryService.CreateContainer(c.Context(), email, c.Params("locationId"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateContainer, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateContainer)
}

func (h *inventoryHandler) RenameContainer(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)
	req := new(domain.NameRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRenameContainer, err)
	}

	err := h.inventoryService.RenameContainer(c.Context(), email, c.Params("locationId"), c.Params("containerId"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedRenameContainer, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRenameContainer)
}

func (h *inventoryHandler) DeleteContainer(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)

	err := h.inventoryService.DeleteContainer(c.Context(), email, c.Params("locationId"), c.Params("containerId"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedDeleteContainer, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteContainer)
}

func (h *inventoryHandler) CreateItem(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)
	req := new(domain.CreateItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateItem, err)
	}

	res, err := h.inventoryService.CreateItem(c.Context(), email, c.Params("locationId"), c.Params("containerId"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateItem)
}

func (h *inventoryHandler) CreateItems(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)
	req := new(domain.CreateItemsRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateItems, err)
	}

	res, err := h.inventoryService.CreateItems(c.Context(), email, c.Params("locationId"), c.Params("containerId"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateItems, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateItems)
}

func (h *inventoryHandler) UpdateItem(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)
	req := new(domain.UpdateItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateItem, err)
	}

	res, err := h.inventoryService.UpdateItem(c.Context(), email,
		c.Params("locationId"), c.Params("containerId"), c.Params("itemId"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateItem)
}

func (h *inventoryHandler) DeleteItem(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)

	err := h.inventoryService.DeleteItem(c.Context(), email, c.Params("locationId"), c.Params("containerId"), c.Params("itemId"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedDeleteItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteItem)
}

func (h *inventoryHandler) UploadItemImage(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)
	req := new(domain.UploadItemImageRequest)

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.Image = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadItemImage, err)
	}

	res, err := h.inventoryService.UploadItemImage(c.Context(), email,
		c.Params("locationId"), c.Params("containerId"), c.Params("itemId"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUploadItemImage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUploadItemImage)
}

func (h *inventoryHandler) GetItems(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)

	res, err := h.inventoryService.ListItems(c.Context(), email)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetItems, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetItems)
}

func (h *inventoryHandler) GetExpiringItems(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)

	days := c.QueryInt("days", defaultExpiringDays)
	if days < 0 || days > maxExpiringDays {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetExpiringItems,
			domain.Invalid("days must be between 0 and 365"))
	}

	res, err := h.inventoryService.ListExpiringItems(c.Context(), email, time.Duration(days)*24*time.Hour)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetExpiringItems, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetExpiringItems)
}
