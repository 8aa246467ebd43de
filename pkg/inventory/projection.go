package inventory

import (
	"PantryPal/domain"
	"PantryPal/entities"
	"sort"
	"time"
)

// Project flattens the storage tree into one row per item, ordered by
// expiration date ascending. Undated items follow all dated ones and
// ties keep tree order.
func Project(u *entities.User) []domain.ItemRow {
	rows := make([]domain.ItemRow, 0)
	for _, loc := range u.Storage {
		for _, con := range loc.Containers {
			for _, it := range con.Items {
				rows = append(rows, domain.ItemRow{
					ItemID:         it.ID,
					Name:           it.Name,
					Quantity:       it.Quantity,
					ExpirationDate: it.ExpirationDate,
					Image:          it.Image,
					LocationID:     loc.ID,
					LocationName:   loc.Name,
					ContainerID:    con.ID,
					ContainerName:  con.Name,
				})
			}
		}
	}

	SortByExpiration(rows)
	return rows
}

func SortByExpiration(rows []domain.ItemRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].ExpirationDate, rows[j].ExpirationDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}

// ExpiringBefore keeps dated rows whose expiration falls before cutoff, already expired included.
func ExpiringBefore(rows []domain.ItemRow, cutoff time.Time) []domain.ItemRow {
	out := make([]domain.ItemRow, 0)
	for _, r := range rows {
		if r.ExpirationDate != nil && r.ExpirationDate.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}
