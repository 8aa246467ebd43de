package inventory

import (
	"PantryPal/entities"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func item(id string, exp *time.Time) entities.Item {
	return entities.Item{ID: id, Name: id, Quantity: 1, ExpirationDate: exp}
}

func TestProjectOrdersByExpirationWithUndatedLast(t *testing.T) {
	u := &entities.User{
		Storage: []entities.StorageLocation{
			{
				ID: "pantry", Name: "Kitchen Pantry",
				Containers: []entities.Container{
					{ID: "shelf", Name: "Shelf", Items: []entities.Item{
						item("rice", nil),
						item("beans", date("2026-03-01")),
						item("flour", nil),
					}},
				},
			},
			{
				ID: "fridge", Name: "Kitchen Fridge",
				Containers: []entities.Container{
					{ID: "door", Name: "Door", Items: []entities.Item{
						item("milk", date("2026-01-05")),
						item("butter", date("2026-03-01")),
					}},
					{ID: "drawer", Name: "Drawer", Items: []entities.Item{
						item("lettuce", date("2026-01-02")),
					}},
				},
			},
		},
	}

	rows := Project(u)

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ItemID)
	}
	// equal dates keep tree order: beans (pantry) before butter (fridge)
	assert.Equal(t, []string{"lettuce", "milk", "beans", "butter", "rice", "flour"}, ids)

	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1].ExpirationDate, rows[i].ExpirationDate
		if prev == nil {
			assert.Nil(t, cur, "dated row after an undated one")
			continue
		}
		if cur != nil {
			assert.False(t, cur.Before(*prev), "dates out of order")
		}
	}

	assert.Equal(t, "fridge", rows[0].LocationID)
	assert.Equal(t, "Kitchen Fridge", rows[0].LocationName)
	assert.Equal(t, "drawer", rows[0].ContainerID)
	assert.Equal(t, "Drawer", rows[0].ContainerName)
}

func TestProjectEmptyTree(t *testing.T) {
	rows := Project(&entities.User{})
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestExpiringBefore(t *testing.T) {
	u := &entities.User{Storage: []entities.StorageLocation{{
		ID: "l", Name: "L",
		Containers: []entities.Container{{ID: "c", Name: "C", Items: []entities.Item{
			item("past", date("2025-12-30")),
			item("edge", date("2026-01-04")),
			item("future", date("2026-01-20")),
			item("none", nil),
		}}},
	}}}

	rows := ExpiringBefore(Project(u), *date("2026-01-04"))
	assert.Len(t, rows, 1)
	assert.Equal(t, "past", rows[0].ItemID)
}
