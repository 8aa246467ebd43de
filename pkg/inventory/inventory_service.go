package inventory

import (
	"PantryPal/domain"
	"PantryPal/entities"
	"PantryPal/internal/metrics"
	"PantryPal/internal/utils/storage"
	"PantryPal/pkg/user"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const itemImageFolder = "items"

var errImageStorageDisabled = errors.New("AWS_S3_BUCKET is not configured")

type (
	// InventoryService applies single-node changes to a user's storage tree.
	// Every mutation is one load, one in-memory change and one versioned save.
	InventoryService interface {
		ListLocations(ctx context.Context, email string) ([]entities.StorageLocation, error)
		GetLocation(ctx context.Context, email string, locationID string) (entities.StorageLocation, error)
		CreateLocation(ctx context.Context, email string, req domain.NameRequest) (entities.StorageLocation, error)
		RenameLocation(ctx context.Context, email string, locationID string, req domain.NameRequest) error
		DeleteLocation(ctx context.Context, email string, locationID string) error

		ListContainers(ctx context.Context, email string, locationID string) ([]domain.ContainerSummary, error)
		CreateContainer(ctx context.Context, email string, locationID string, req domain.NameRequest) (domain.CreatedResponse, error)
		RenameContainer(ctx context.Context, email string, locationID, containerID string, req domain.NameRequest) error
		DeleteContainer(ctx context.Context, email string, locationID, containerID string) error

		CreateItem(ctx context.Context, email string, locationID, containerID string, req domain.CreateItemRequest) (domain.ItemResponse, error)
		CreateItems(ctx context.Context, email string, locationID, containerID string, req domain.CreateItemsRequest) (domain.CreatedItemsResponse, error)
		UpdateItem(ctx context.Context, email string, locationID, containerID, itemID string, req domain.UpdateItemRequest) (domain.ItemResponse, error)
		DeleteItem(ctx context.Context, email string, locationID, containerID, itemID string) error
		UploadItemImage(ctx context.Context, email string, locationID, containerID, itemID string, req domain.UploadItemImageRequest) (domain.ItemResponse, error)

		ListItems(ctx context.Context, email string) ([]domain.ItemRow, error)
		ListExpiringItems(ctx context.Context, email string, within time.Duration) ([]domain.ItemRow, error)
	}

	inventoryService struct {
		userRepository user.UserRepository
		s3             storage.AwsS3
		now            func() time.Time
	}
)

// NewInventoryService accepts a nil s3 when image storage is not configured.
func NewInventoryService(userRepository user.UserRepository, s3 storage.AwsS3) InventoryService {
	return &inventoryService{
		userRepository: userRepository,
		s3:             s3,
		now:            time.Now,
	}
}

// ownerOf loads the user holding locationID and checks it is the caller.
// A location owned by someone else is reported as missing.
func (s *inventoryService) ownerOf(ctx context.Context, email string, locationID string) (*entities.User, error) {
	u, err := s.userRepository.FindByLocationID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if u.Email != user.NormalizeEmail(email) {
		return nil, domain.ErrLocationNotFound
	}
	return u, nil
}

func (s *inventoryService) save(ctx context.Context, u *entities.User) error {
	u.UpdatedAt = s.now()
	return s.userRepository.Save(ctx, u)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrEmptyName
	}
	return name, nil
}

func (s *inventoryService) ListLocations(ctx context.Context, email string) ([]entities.StorageLocation, error) {
	u, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u.Storage == nil {
		return []entities.StorageLocation{}, nil
	}
	return u.Storage, nil
}

func (s *inventoryService) GetLocation(ctx context.Context, email string, locationID string) (entities.StorageLocation, error) {
	if err := validateIDs(locationID); err != nil {
		return entities.StorageLocation{}, err
	}
	u, err := s.ownerOf(ctx, email, locationID)
	if err != nil {
		return entities.StorageLocation{}, err
	}
	loc, err := ResolveLocation(u, locationID)
	if err != nil {
		return entities.StorageLocation{}, err
	}
	return *loc, nil
}

func (s *inventoryService) CreateLocation(ctx context.Context, email string, req domain.NameRequest) (res entities.StorageLocation, err error) {
	defer func() { metrics.RecordMutation("create_location", err) }()

	name, err := cleanName(req.Name)
	if err != nil {
		return entities.StorageLocation{}, err
	}

	u, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return entities.StorageLocation{}, err
	}

	loc := entities.StorageLocation{
		ID:         uuid.NewString(),
		Name:       name,
		Containers: []entities.Container{},
	}
	u.Storage = append(u.Storage, loc)

	if err = s.save(ctx, u); err != nil {
		return entities.StorageLocation{}, err
	}
	return loc, nil
}

func (s *inventoryService) RenameLocation(ctx context.Context, email string, locationID string, req domain.NameRequest) (err error) {
	defer func() { metrics.RecordMutation("rename_location", err) }()

	if err = validateIDs(locationID); err != nil {
		return err
	}
	name, err := cleanName(req.Name)
	if err != nil {
		return err
	}

	u, err := s.ownerOf(ctx, email, locationID)
	if err != nil {
		return err
	}
	loc, err := ResolveLocation(u, locationID)
	if err != nil {
		return err
	}
	loc.Name = name

	return s.save(ctx, u)
}

func (s *inventoryService) DeleteLocation(ctx context.Context, email string, locationID string) (err error) {
	defer func() { metrics.RecordMutation("delete_location", err) }()

	if err = validateIDs(locationID); err != nil {
		return err
	}
	u, err := s.ownerOf(ctx, email, locationID)
	if err != nil {
		return err
	}
	removed, err := removeLocation(u, locationID)
	if err != nil {
		return err
	}

	if err = s.save(ctx, u); err != nil {
		return err
	}

	for _, con := range removed.Containers {
		s.deleteStoredImages(ctx, imageLinks(con.Items))
	}
	s.deleteStoredImages(ctx, imageLinks(removed.LegacyItems))
	return nil
}

func (s *inventoryService) ListContainers(ctx context.Context, email string, locationID string) ([]domain.ContainerSummary, error) {
	loc, err := s.GetLocation(ctx, email, locationID)
	if err != nil {
		return nil, err
	}

	res := make([]domain.ContainerSummary, 0, len(loc.Containers))
	for _, c := range loc.Containers {
		res = append(res, domain.ContainerSummary{ID: c.ID, Name: c.Name})
	}
	return res, nil
}

func (s *inventoryService) CreateContainer(ctx context.Context, email string, locationID string, req domain.NameRequest) (res domain.CreatedResponse, err error) {
	defer func() { metrics.RecordMutation("create_container", err) }()

	if err = validateIDs(locationID); err != nil {
		return domain.CreatedResponse{}, err
	}
	name, err := cleanName(req.Name)
	if err != nil {
		return domain.CreatedResponse{}, err
	}

	u, err := s.ownerOf(ctx, email, locationID)
	if err != nil {
		return domain.CreatedResponse{}, err
	}
	loc, err := ResolveLocation(u, locationID)
	if err != nil {
		return domain.CreatedResponse{}, err
	}

	con := entities.Container{
		ID:    uuid.NewString(),
		Name:  name,
		Items: []entities.Item{},
	}
	loc.Containers = append(loc.Containers, con)

	if err = s.save(ctx, u); err != nil {
		return domain.CreatedResponse{}, err
	}
	return domain.CreatedResponse{ID: con.ID}, nil
}

func (s *inventoryService) RenameContainer(ctx context.Context, email string, locationID, containerID string, req domain.NameRequest) (err error) {
	defer func() { metrics.RecordMutation("rename_container", err) }()

	if err = validateIDs(locationID, containerID); err != nil {
		return err
	}
	name, err := cleanName(req.Name)
	if err != nil {
		return err
	}

	u, err := s.ownerOf(ctx, email, locationID)
	if err != nil {
		return err
	}
	con, err := ResolveContainer(u, locationID, containerID)
	if err != nil {
		return err
	}
	con.Name = name

	return s.save(ctx, u)
}

func (s *inventoryService) DeleteContainer(ctx context.Context, email string, locationID, containerID string) (err error) {
	defer func() { metrics.RecordMutation("delete_container", err) }()

	if err = validateIDs(locationID, containerID); err != nil {
		return err
	}
	u, err := s.ownerOf(ctx, email, locationID)
	if err != nil {
		return err
	}
	loc, err := ResolveLocation(u, locationID)
	if err != nil {
		return err
	}
	removed, err := removeContainer(loc, containerID)
	if err != nil {
		return err
	}

	if err = s.save(ctx, u); err != nil {
		return err
	}

	s.deleteStoredImages(ctx, imageLinks(removed.Items))
	return nil
}

// newItem validates a create request and builds the item it describes.
func (s *inventoryService) newItem(req domain.CreateItemRequest) (entities.Item, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return entities.Item{}, err
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		return entities.Item{}, domain.ErrInvalidQuantity
	}
	expiration, err := domain.ParseDate(req.ExpirationDate)
	if err != nil {
		return entities.Item{}, err
	}

	now := s.now()
	return entities.Item{
		ID:             uuid.NewString(),
		Name:           name,
		Quantity:       *req.Quantity,
		ExpirationDate: expiration,
		Image:          strings.TrimSpace(req.Image),
		Timestamp:      entities.Timestamp{CreatedAt: now, UpdatedAt: now},
	}, nil
}

func (s *inventoryService) CreateItem(ctx context.Context, email string, locationID, containerID string, req domain.CreateItemRequest) (res domain.ItemResponse, err error) {
	defer func() { metrics.RecordMutation("create_item", err) }()

	if err = validateIDs(locationID, containerID); err != nil {
		return domain.ItemResponse{}, err
	}
	item, err := s.newItem(req)
	if err != nil {
		return domain.ItemResponse{}, err
	}

	u, err := s.ownerOf(ctx, email, locationID)
	if err != nil {
		return domain.ItemResponse{}, err
	}
	con, err := ResolveContainer(u, locationID, containerID)
	if err != nil {
		return domain.ItemResponse{}, err
	}
	con.Items = append(con.Items, item)

	if err = s.save(ctx, u); err != nil {
		return domain.ItemResponse{}, err
	}
	return toItemResponse(item), nil
}

func (s *inventoryService) CreateItems(ctx context.Context, email string, locationID, containerID string, req domain.CreateItemsRequest) (res domain.CreatedItemsResponse, err error) {
	defer func() { metrics.RecordMutation("create_items", err) }()

	if err = validateIDs(locationID, containerID); err != nil {
		return domain.CreatedItemsResponse{}, err
	}
	if len(req.Items) == 0 {
		return domain.CreatedItemsResponse{}, domain.ErrEmptyItemBatch
	}

	items := make([]entities.Item, 0, len(req.Items))
	for _, r := range req.Items {
		item, err := s.newItem(r)
		if err != nil {
			return domain.CreatedItemsResponse{}, err
		}
		items = append(items, item)
	}

	u, err := s.ownerOf(ctx, email, locationID)
	if err != nil {
		return domain.CreatedItemsResponse{}, err
	}
	con, err := ResolveContainer(u, locationID, containerID)
	if err != nil {
		return domain.CreatedItemsResponse{}, err
	}
	con.Items = append(con.Items, items...)

	if err = s.save(ctx, u); err != nil {
		return domain.CreatedItemsResponse{}, err
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return domain.CreatedItemsResponse{IDs: ids}, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, email string, locationID, containerID, itemID string, req domain.UpdateItemRequest) (res domain.ItemResponse, err error) {
	defer func() { metrics.RecordMutation("update_item", err) }()

	if err = validateIDs(locationID, containerID, itemID); err != nil {
		return domain.ItemResponse{}, err
	}

	u, err := s.ownerOf(ctx, email, locationID)
	if err != nil {
		return domain.ItemResponse{}, err
	}
	item, err := ResolveItem(u, locationID, containerID, itemID)
	if err != nil {
		return domain.ItemResponse{}, err
	}

	if req.Name != nil {
		name, err := cleanName(*req.Name)
		if err != nil {
			return domain.ItemResponse{}, err
		}
		item.Name = name
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return domain.ItemResponse{}, domain.ErrInvalidQuantity
		}
		item.Quantity = *req.Quantity
	}
	if req.ExpirationDate.Set {
		item.ExpirationDate = req.ExpirationDate.Value
	}
	previousImage := ""
	if req.Image != nil {
		if image := strings.TrimSpace(*req.Image); image != item.Image {
			previousImage = item.Image
			item.Image = image
		}
	}
	item.UpdatedAt = s.now()
	updated := *item

	if err = s.save(ctx, u); err != nil {
		return domain.ItemResponse{}, err
	}

	s.deleteStoredImage(ctx, previousImage)
	return toItemResponse(updated), nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, email string, locationID, containerID, itemID string) (err error) {
	defer func() { metrics.RecordMutation("delete_item", err) }()

	if err = validateIDs(locationID, containerID, itemID); err != nil {
		return err
	}

	u, err := s.ownerOf(ctx, email, locationID)
	if err != nil {
		return err
	}
	con, err := ResolveContainer(u, locationID, containerID)
	if err != nil {
		return err
	}
	removed, err := removeItem(con, itemID)
	if err != nil {
		return err
	}

	if err = s.save(ctx, u); err != nil {
		return err
	}

	s.deleteStoredImage(ctx, removed.Image)
	return nil
}

func (s *inventoryService) UploadItemImage(ctx context.Context, email string, locationID, containerID, itemID string, req domain.UploadItemImageRequest) (res domain.ItemResponse, err error) {
	defer func() { metrics.RecordMutation("upload_item_image", err) }()

	if err = validateIDs(locationID, containerID, itemID); err != nil {
		return domain.ItemResponse{}, err
	}
	if s.s3 == nil {
		return domain.ItemResponse{}, domain.Upstream("image storage", errImageStorageDisabled)
	}

	u, err := s.ownerOf(ctx, email, locationID)
	if err != nil {
		return domain.ItemResponse{}, err
	}
	item, err := ResolveItem(u, locationID, containerID, itemID)
	if err != nil {
		return domain.ItemResponse{}, err
	}

	key, err := s.s3.UploadFile(ctx, uuid.NewString(), req.Image, itemImageFolder, storage.AllowImage...)
	if err != nil {
		return domain.ItemResponse{}, err
	}

	previous := item.Image
	item.Image = s.s3.GetPublicLinkKey(key)
	item.UpdatedAt = s.now()
	updated := *item

	if err = s.save(ctx, u); err != nil {
		if delErr := s.s3.DeleteFile(ctx, key); delErr != nil {
			log.Warnw("orphaned item image", "key", key, "error", delErr)
		}
		return domain.ItemResponse{}, err
	}

	s.deleteStoredImage(ctx, previous)
	return toItemResponse(updated), nil
}

// deleteStoredImage removes an image we uploaded. Failures only leave an orphaned object.
func (s *inventoryService) deleteStoredImage(ctx context.Context, link string) {
	if s.s3 == nil || link == "" {
		return
	}
	key := s.s3.GetObjectKeyFromLink(link)
	if key == "" {
		return
	}
	if err := s.s3.DeleteFile(ctx, key); err != nil {
		log.Warnw("failed to delete item image", "key", key, "error", err)
	}
}

func (s *inventoryService) deleteStoredImages(ctx context.Context, links []string) {
	for _, link := range links {
		s.deleteStoredImage(ctx, link)
	}
}

func (s *inventoryService) ListItems(ctx context.Context, email string) ([]domain.ItemRow, error) {
	u, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return Project(u), nil
}

func (s *inventoryService) ListExpiringItems(ctx context.Context, email string, within time.Duration) ([]domain.ItemRow, error) {
	rows, err := s.ListItems(ctx, email)
	if err != nil {
		return nil, err
	}
	return ExpiringBefore(rows, s.now().Add(within)), nil
}

func toItemResponse(it entities.Item) domain.ItemResponse {
	return domain.ItemResponse{
		ID:             it.ID,
		Name:           it.Name,
		Quantity:       it.Quantity,
		ExpirationDate: it.ExpirationDate,
		Image:          it.Image,
	}
}
