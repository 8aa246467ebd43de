package domain

import (
	"fmt"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessGetLocations     = "storage locations retrieved successfully"
	MessageSuccessGetLocation      = "storage location retrieved successfully"
	MessageSuccessCreateLocation   = "storage location created successfully"
	MessageSuccessRenameLocation   = "storage location renamed successfully"
	MessageSuccessDeleteLocation   = "storage location deleted successfully"
	MessageSuccessGetContainers    = "containers retrieved successfully"
	MessageSuccessCreateContainer  = "container created successfully"
	MessageSuccessRenameContainer  = "container renamed successfully"
	MessageSuccessDeleteContainer  = "container deleted successfully"
	MessageSuccessCreateItem       = "item added successfully"
	MessageSuccessCreateItems      = "items added successfully"
	MessageSuccessUpdateItem       = "item updated successfully"
	MessageSuccessDeleteItem       = "item deleted successfully"
	MessageSuccessUploadItemImage  = "item image uploaded successfully"
	MessageSuccessGetItems         = "items retrieved successfully"
	MessageSuccessGetExpiringItems = "expiring items retrieved successfully"

	MessageFailedGetLocations     = "failed to retrieve storage locations"
	MessageFailedGetLocation      = "failed to retrieve storage location"
	MessageFailedCreateLocation   = "failed to create storage location"
	MessageFailedRenameLocation   = "failed to rename storage location"
	MessageFailedDeleteLocation   = "failed to delete storage location"
	MessageFailedGetContainers    = "failed to retrieve containers"
	MessageFailedCreateContainer  = "failed to create container"
	MessageFailedRenameContainer  = "failed to rename container"
	MessageFailedDeleteContainer  = "failed to delete container"
	MessageFailedCreateItem       = "failed to add item"
	MessageFailedCreateItems      = "failed to add items"
	MessageFailedUpdateItem       = "failed to update item"
	MessageFailedDeleteItem       = "failed to delete item"
	MessageFailedUploadItemImage  = "failed to upload item image"
	MessageFailedGetItems         = "failed to retrieve items"
	MessageFailedGetExpiringItems = "failed to retrieve expiring items"

	ErrInvalidExpirationDate = fmt.Errorf("%w: expiration_date must be YYYY-MM-DD or RFC3339", ErrValidation)
	ErrEmptyName             = fmt.Errorf("%w: name must not be empty", ErrValidation)
	ErrInvalidQuantity       = fmt.Errorf("%w: quantity must be a non-negative number", ErrValidation)
	ErrInvalidImageFormat    = fmt.Errorf("%w: invalid image format", ErrValidation)
	ErrEmptyItemBatch        = fmt.Errorf("%w: at least one item is required", ErrValidation)
)

type (
	NameRequest struct {
		Name string `json:"name" validate:"required,max=100"`
	}

	CreateItemRequest struct {
		Name           string   `json:"name" validate:"required,max=200"`
		Quantity       *float64 `json:"quantity" validate:"required,gte=0"`
		ExpirationDate string   `json:"expiration_date" validate:"omitempty"`
		Image          string   `json:"image" validate:"omitempty,max=2048"`
	}

	CreateItemsRequest struct {
		Items []CreateItemRequest `json:"items" validate:"required,min=1,dive"`
	}

	// UpdateItemRequest carries a partial update. Nil fields are left untouched;
	// an explicit null expiration_date clears the date.
	UpdateItemRequest struct {
		Name           *string      `json:"name" validate:"omitempty,min=1,max=200"`
		Quantity       *float64     `json:"quantity" validate:"omitempty,gte=0"`
		ExpirationDate OptionalDate `json:"expiration_date"`
		Image          *string      `json:"image" validate:"omitempty,max=2048"`
	}

	UploadItemImageRequest struct {
		Image *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	CreatedResponse struct {
		ID string `json:"id"`
	}

	CreatedItemsResponse struct {
		IDs []string `json:"ids"`
	}

	ContainerSummary struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	ItemResponse struct {
		ID             string     `json:"id"`
		Name           string     `json:"name"`
		Quantity       float64    `json:"quantity"`
		ExpirationDate *time.Time `json:"expiration_date"`
		Image          string     `json:"image,omitempty"`
	}

	// ItemRow is one flattened entry of the user's inventory projection.
	ItemRow struct {
		ItemID         string     `json:"item_id"`
		Name           string     `json:"name"`
		Quantity       float64    `json:"quantity"`
		ExpirationDate *time.Time `json:"expiration_date"`
		Image          string     `json:"image,omitempty"`
		LocationID     string     `json:"location_id"`
		LocationName   string     `json:"location_name"`
		ContainerID    string     `json:"container_id"`
		ContainerName  string     `json:"container_name"`
	}
)
