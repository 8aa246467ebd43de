package entities

import "time"

// User is the aggregate root. The whole storage tree is persisted as one document
// and written back in full, guarded by Version.
type User struct {
	ID             string            `json:"id" bson:"_id"`
	Name           string            `json:"name" bson:"name"`
	Email          string            `json:"email" bson:"email"`
	Image          string            `json:"image,omitempty" bson:"image,omitempty"`
	CustomerID     string            `json:"customer_id,omitempty" bson:"customer_id,omitempty"`
	PriceID        string            `json:"price_id,omitempty" bson:"price_id,omitempty"`
	HasAccess      bool              `json:"has_access" bson:"has_access"`
	FirstLogin     bool              `json:"first_login" bson:"first_login"`
	SetupCompleted bool              `json:"setup_completed" bson:"setup_completed"`
	DeviceType     string            `json:"device_type,omitempty" bson:"device_type,omitempty"`
	PushTokens     []string          `json:"push_tokens,omitempty" bson:"push_tokens,omitempty"`
	Storage        []StorageLocation `json:"storage" bson:"storage"`
	Version        int64             `json:"version" bson:"version"`
	LastLogin      *time.Time        `json:"last_login,omitempty" bson:"last_login,omitempty"`
	Timestamp      `bson:",inline"`
}

type StorageLocation struct {
	ID         string      `json:"id" bson:"id"`
	Name       string      `json:"name" bson:"name"`
	Containers []Container `json:"containers" bson:"containers"`

	// LegacyItems holds items of documents written before containers existed.
	// Startup migration moves them into a container and clears the field.
	LegacyItems []Item `json:"-" bson:"items,omitempty"`
}

type Container struct {
	ID    string `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	Items []Item `json:"items" bson:"items"`
}

type Item struct {
	ID             string     `json:"id" bson:"id"`
	Name           string     `json:"name" bson:"name"`
	Quantity       float64    `json:"quantity" bson:"quantity"`
	ExpirationDate *time.Time `json:"expiration_date" bson:"expiration_date"`
	Image          string     `json:"image,omitempty" bson:"image,omitempty"`
	Timestamp      `bson:",inline"`
}

// Clone returns a deep copy so callers can mutate the tree without touching a cached original.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}

	c := *u
	c.PushTokens = append([]string(nil), u.PushTokens...)
	c.LastLogin = cloneTime(u.LastLogin)
	c.Storage = make([]StorageLocation, len(u.Storage))
	for i, loc := range u.Storage {
		c.Storage[i] = StorageLocation{
			ID:          loc.ID,
			Name:        loc.Name,
			Containers:  make([]Container, len(loc.Containers)),
			LegacyItems: cloneItems(loc.LegacyItems),
		}
		for j, con := range loc.Containers {
			c.Storage[i].Containers[j] = Container{
				ID:    con.ID,
				Name:  con.Name,
				Items: cloneItems(con.Items),
			}
		}
	}
	return &c
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it
		out[i].ExpirationDate = cloneTime(it.ExpirationDate)
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
