package domain

import (
	"sort"
	"time"
)

// creationTime resolves a nullable creation timestamp for ordering. A nil
// timestamp means the write has not been acknowledged by the store yet; such
// records sort as "now" so optimistic writes stay at the expected position
// instead of jumping to the front of the board.
func creationTime(t *time.Time, now time.Time) time.Time {
	if t == nil {
		return now
	}
	return *t
}

// SortCategoriesByCreation orders categories ascending by creation time,
// pending writes last.
func SortCategoriesByCreation(categories []Category) {
	now := time.Now()
	sort.SliceStable(categories, func(i, j int) bool {
		return creationTime(categories[i].CreatedAt, now).Before(creationTime(categories[j].CreatedAt, now))
	})
}

// SortTasksByCreation orders tasks ascending by creation time, pending
// writes last.
func SortTasksByCreation(tasks []Task) {
	now := time.Now()
	sort.SliceStable(tasks, func(i, j int) bool {
		return creationTime(tasks[i].CreatedAt, now).Before(creationTime(tasks[j].CreatedAt, now))
	})
}
