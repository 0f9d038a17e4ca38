package engine

import (
	"cmp"
	"slices"
	"sync/atomic"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"gametracker/models"
)

var titleLocale atomic.Value

func init() {
	titleLocale.Store(language.Spanish)
}

// SetTitleLocale sets the language whose collation rules order titles.
// Called once at startup.
func SetTitleLocale(tag language.Tag) {
	titleLocale.Store(tag)
}

// TitleLocale returns the language currently used for title ordering.
func TitleLocale() language.Tag {
	return titleLocale.Load().(language.Tag)
}

// newCollator builds a collator per sort call; collators keep internal
// buffers and are not safe for concurrent use.
func newCollator() *collate.Collator {
	return collate.New(TitleLocale())
}

// Compare orders a before b (negative), after b (positive) or reports a tie
// (zero) for the given key. Unknown keys compare as SortDate.
func Compare(a, b models.GameRecord, key models.SortKey, col *collate.Collator) int {
	switch key {
	case models.SortTitle:
		if col == nil {
			col = newCollator()
		}
		return col.CompareString(a.Title, b.Title)
	case models.SortHours:
		return cmp.Compare(b.HoursPlayed, a.HoursPlayed)
	case models.SortRating:
		return cmp.Compare(b.Rating, a.Rating)
	default:
		return b.AcquiredDate.Compare(a.AcquiredDate)
	}
}

// Sort returns a stably sorted copy of games.
func Sort(games []models.GameRecord, key models.SortKey) []models.GameRecord {
	out := slices.Clone(games)
	var col *collate.Collator
	if key == models.SortTitle {
		col = newCollator()
	}
	slices.SortStableFunc(out, func(a, b models.GameRecord) int {
		return Compare(a, b, key, col)
	})
	return out
}

// CompareReviews orders reviews: newest first by default, then rating or
// likes descending.
func CompareReviews(a, b models.ReviewRecord, key models.SortKey) int {
	switch key {
	case models.SortRating:
		return cmp.Compare(b.Rating, a.Rating)
	case models.SortLikes:
		return cmp.Compare(b.Likes, a.Likes)
	default:
		return b.Date.Compare(a.Date)
	}
}

// SortReviews returns a stably sorted copy of reviews.
func SortReviews(reviews []models.ReviewRecord, key models.SortKey) []models.ReviewRecord {
	out := slices.Clone(reviews)
	slices.SortStableFunc(out, func(a, b models.ReviewRecord) int {
		return CompareReviews(a, b, key)
	})
	return out
}
