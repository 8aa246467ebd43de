package migration

import (
	"PantryPal/cmd/config"
	"PantryPal/entities"
	"PantryPal/pkg/user"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Documents written by the previous web app use camelCase fields and ObjectID
// identifiers at every level of the storage tree.
type (
	LegacyUser struct {
		ID             bson.ObjectID    `bson:"_id"`
		Name           string           `bson:"name"`
		Email          string           `bson:"email"`
		Image          string           `bson:"image"`
		CustomerID     string           `bson:"customerId"`
		PriceID        string           `bson:"priceId"`
		HasAccess      bool             `bson:"hasAccess"`
		SetupCompleted bool             `bson:"setupCompleted"`
		FirstLogin     bool             `bson:"firstLogin"`
		LastLogin      *time.Time       `bson:"lastLogin"`
		Storage        []LegacyLocation `bson:"storage"`
		CreatedAt      time.Time        `bson:"createdAt"`
		UpdatedAt      time.Time        `bson:"updatedAt"`
	}

	LegacyLocation struct {
		ID         bson.ObjectID     `bson:"_id"`
		Name       string            `bson:"name"`
		Containers []LegacyContainer `bson:"containers"`
		Items      []LegacyItem      `bson:"items"`
	}

	LegacyContainer struct {
		ID    bson.ObjectID `bson:"_id"`
		Name  string        `bson:"name"`
		Items []LegacyItem  `bson:"items"`
	}

	LegacyItem struct {
		ID             bson.ObjectID `bson:"_id"`
		Name           string        `bson:"name"`
		Quantity       float64       `bson:"quantity"`
		ExpirationDate *time.Time    `bson:"expirationDate"`
		Image          string        `bson:"image"`
		CreatedAt      time.Time     `bson:"createdAt"`
		UpdatedAt      time.Time     `bson:"updatedAt"`
	}
)

// legacyID derives a stable uuid from an ObjectID so reruns and external
// references map to the same node. A missing ObjectID yields "" and is filled
// in by NormalizeLegacyStorage.
func legacyID(oid bson.ObjectID) string {
	if oid.IsZero() {
		return ""
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(oid.Hex())).String()
}

func convertItems(items []LegacyItem) []entities.Item {
	out := make([]entities.Item, 0, len(items))
	for _, it := range items {
		var expiration *time.Time
		if it.ExpirationDate != nil {
			d := it.ExpirationDate.UTC()
			expiration = &d
		}
		out = append(out, entities.Item{
			ID:             legacyID(it.ID),
			Name:           it.Name,
			Quantity:       it.Quantity,
			ExpirationDate: expiration,
			Image:          it.Image,
			Timestamp:      entities.Timestamp{CreatedAt: it.CreatedAt, UpdatedAt: it.UpdatedAt},
		})
	}
	return out
}

// ConvertLegacyUser maps a previous-app document onto the current aggregate.
// Items kept directly on a location end up in its General container.
func ConvertLegacyUser(legacy LegacyUser) *entities.User {
	u := &entities.User{
		ID:             legacyID(legacy.ID),
		Name:           legacy.Name,
		Email:          user.NormalizeEmail(legacy.Email),
		Image:          legacy.Image,
		CustomerID:     legacy.CustomerID,
		PriceID:        legacy.PriceID,
		HasAccess:      legacy.HasAccess,
		FirstLogin:     legacy.FirstLogin,
		SetupCompleted: legacy.SetupCompleted,
		LastLogin:      legacy.LastLogin,
		Storage:        make([]entities.StorageLocation, 0, len(legacy.Storage)),
		Timestamp:      entities.Timestamp{CreatedAt: legacy.CreatedAt, UpdatedAt: legacy.UpdatedAt},
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	for _, loc := range legacy.Storage {
		next := entities.StorageLocation{
			ID:         legacyID(loc.ID),
			Name:       loc.Name,
			Containers: make([]entities.Container, 0, len(loc.Containers)),
		}
		for _, con := range loc.Containers {
			next.Containers = append(next.Containers, entities.Container{
				ID:    legacyID(con.ID),
				Name:  con.Name,
				Items: convertItems(con.Items),
			})
		}
		if len(loc.Items) > 0 {
			next.LegacyItems = convertItems(loc.Items)
		}
		u.Storage = append(u.Storage, next)
	}

	NormalizeLegacyStorage(u)
	return u
}

// ImportLegacyDocuments rewrites every previous-app user document in place.
// Only the mongo store can hold them. The ObjectID keyed original is removed
// before the converted document is inserted and restored if the insert fails.
func ImportLegacyDocuments(ctx context.Context, store *config.Store) (int, error) {
	if store.Driver != config.DriverMongo {
		return 0, nil
	}
	collection := store.Mongo.Collection(user.UsersCollection)

	cursor, err := collection.Find(ctx, bson.M{"_id": bson.M{"$type": "objectId"}})
	if err != nil {
		return 0, fmt.Errorf("error listing legacy users: %w", err)
	}
	var documents []bson.Raw
	if err := cursor.All(ctx, &documents); err != nil {
		return 0, fmt.Errorf("error reading legacy users: %w", err)
	}

	imported := 0
	var errs []error
	for _, raw := range documents {
		var legacy LegacyUser
		if err := bson.Unmarshal(raw, &legacy); err != nil {
			errs = append(errs, fmt.Errorf("decode legacy user: %w", err))
			continue
		}
		if err := replaceLegacy(ctx, collection, legacy.ID, raw, ConvertLegacyUser(legacy)); err != nil {
			log.Errorw("legacy user import failed", "user", legacy.Email, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", legacy.Email, err))
			continue
		}
		imported++
	}

	if imported > 0 {
		log.Infow("legacy users imported", "users", imported)
	}
	return imported, errors.Join(errs...)
}

func replaceLegacy(ctx context.Context, collection *mongo.Collection, oid bson.ObjectID, original bson.Raw, converted *entities.User) error {
	if _, err := collection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return err
	}
	if _, err := collection.InsertOne(ctx, converted); err != nil {
		if _, restoreErr := collection.InsertOne(ctx, original); restoreErr != nil {
			return errors.Join(err, fmt.Errorf("restore original: %w", restoreErr))
		}
		return err
	}
	return nil
}
