package migration

import (
	"PantryPal/cmd/config"
	"PantryPal/entities"
	"PantryPal/pkg/user"
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const LegacyContainerName = "General"

// Migrate prepares the schema or indexes for the configured store.
func Migrate(ctx context.Context, store *config.Store) error {
	switch store.Driver {
	case config.DriverPostgres:
		if err := store.Gorm.AutoMigrate(&entities.UserDocument{}); err != nil {
			return fmt.Errorf("error migrating user documents: %w", err)
		}
	case config.DriverMongo:
		if err := user.EnsureIndexes(ctx, store.Mongo); err != nil {
			return fmt.Errorf("error creating user indexes: %w", err)
		}
	}

	log.Info("Database migration complete")
	return nil
}

// NormalizeLegacyStorage moves items stored directly on a location into its
// General container and assigns ids to nodes missing one. It reports whether
// anything changed.
func NormalizeLegacyStorage(u *entities.User) bool {
	changed := false
	for li := range u.Storage {
		loc := &u.Storage[li]
		if loc.ID == "" {
			loc.ID = uuid.NewString()
			changed = true
		}
		if loc.Containers == nil {
			loc.Containers = []entities.Container{}
			changed = true
		}

		if len(loc.LegacyItems) > 0 {
			general := -1
			for ci, con := range loc.Containers {
				if con.Name == LegacyContainerName {
					general = ci
					break
				}
			}
			if general < 0 {
				loc.Containers = append(loc.Containers, entities.Container{
					ID:    uuid.NewString(),
					Name:  LegacyContainerName,
					Items: []entities.Item{},
				})
				general = len(loc.Containers) - 1
			}
			loc.Containers[general].Items = append(loc.Containers[general].Items, loc.LegacyItems...)
			loc.LegacyItems = nil
			changed = true
		}

		for ci := range loc.Containers {
			con := &loc.Containers[ci]
			if con.ID == "" {
				con.ID = uuid.NewString()
				changed = true
			}
			if con.Items == nil {
				con.Items = []entities.Item{}
				changed = true
			}
			for ii := range con.Items {
				if con.Items[ii].ID == "" {
					con.Items[ii].ID = uuid.NewString()
					changed = true
				}
			}
		}
	}
	return changed
}

// MigrateLegacyStorage normalizes every user document, saving only the changed
// ones. A failure on one user is logged and does not stop the run.
func MigrateLegacyStorage(ctx context.Context, repo user.UserRepository) (int, error) {
	users, err := repo.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	migrated := 0
	var errs []error
	for _, u := range users {
		if !NormalizeLegacyStorage(u) {
			continue
		}
		if err := repo.Save(ctx, u); err != nil {
			log.Errorw("legacy storage migration failed", "user", u.Email, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", u.Email, err))
			continue
		}
		migrated++
	}

	if migrated > 0 {
		log.Infow("legacy storage migrated", "users", migrated)
	}
	return migrated, errors.Join(errs...)
}
