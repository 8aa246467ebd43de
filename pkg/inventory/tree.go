package inventory

import (
	"PantryPal/domain"
	"PantryPal/entities"

	"github.com/google/uuid"
)

// Resolution walks the tree top down. The first missing level decides the error.

func ResolveLocation(u *entities.User, locationID string) (*entities.StorageLocation, error) {
	for i := range u.Storage {
		if u.Storage[i].ID == locationID {
			return &u.Storage[i], nil
		}
	}
	return nil, domain.ErrLocationNotFound
}

func ResolveContainer(u *entities.User, locationID, containerID string) (*entities.Container, error) {
	loc, err := ResolveLocation(u, locationID)
	if err != nil {
		return nil, err
	}
	for i := range loc.Containers {
		if loc.Containers[i].ID == containerID {
			return &loc.Containers[i], nil
		}
	}
	return nil, domain.ErrContainerNotFound
}

func ResolveItem(u *entities.User, locationID, containerID, itemID string) (*entities.Item, error) {
	con, err := ResolveContainer(u, locationID, containerID)
	if err != nil {
		return nil, err
	}
	for i := range con.Items {
		if con.Items[i].ID == itemID {
			return &con.Items[i], nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func removeLocation(u *entities.User, locationID string) (entities.StorageLocation, error) {
	for i := range u.Storage {
		if u.Storage[i].ID == locationID {
			removed := u.Storage[i]
			u.Storage = append(u.Storage[:i], u.Storage[i+1:]...)
			return removed, nil
		}
	}
	return entities.StorageLocation{}, domain.ErrLocationNotFound
}

func removeContainer(loc *entities.StorageLocation, containerID string) (entities.Container, error) {
	for i := range loc.Containers {
		if loc.Containers[i].ID == containerID {
			removed := loc.Containers[i]
			loc.Containers = append(loc.Containers[:i], loc.Containers[i+1:]...)
			return removed, nil
		}
	}
	return entities.Container{}, domain.ErrContainerNotFound
}

// imageLinks collects the non-empty image links of items.
func imageLinks(items []entities.Item) []string {
	links := make([]string, 0, len(items))
	for _, it := range items {
		if it.Image != "" {
			links = append(links, it.Image)
		}
	}
	return links
}

func removeItem(con *entities.Container, itemID string) (entities.Item, error) {
	for i := range con.Items {
		if con.Items[i].ID == itemID {
			removed := con.Items[i]
			con.Items = append(con.Items[:i], con.Items[i+1:]...)
			return removed, nil
		}
	}
	return entities.Item{}, domain.ErrItemNotFound
}

// validateIDs rejects malformed identifiers before any store round trip.
func validateIDs(ids ...string) error {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return domain.ErrParseUUID
		}
	}
	return nil
}
