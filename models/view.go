package models

import "strings"

// FilterKey selects the category half of the library predicate.
type FilterKey string

const (
	FilterAll       FilterKey = "all"
	FilterCompleted FilterKey = "completed"
	FilterApollo    FilterKey = FilterKey(DeityApollo)
	FilterHecate    FilterKey = FilterKey(DeityHecate)
	FilterBoth      FilterKey = FilterKey(DeityBoth)
)

// Deity reports whether f is a deity filter and which one.
func (f FilterKey) Deity() (Deity, bool) {
	switch f {
	case FilterApollo, FilterHecate, FilterBoth:
		return Deity(f), true
	}
	return "", false
}

// ParseFilterKey maps user input onto the closed set. Deity names may use the
// server spelling. Anything unrecognised becomes FilterAll.
func ParseFilterKey(s string) FilterKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "todos":
		return FilterAll
	case "completed", "completado", "completados":
		return FilterCompleted
	}
	if d, ok := ParseDeity(s); ok {
		return FilterKey(d)
	}
	return FilterAll
}

// SortKey orders the visible sequence.
type SortKey string

const (
	SortDate   SortKey = "date"
	SortTitle  SortKey = "title"
	SortHours  SortKey = "hours"
	SortRating SortKey = "rating"
	SortLikes  SortKey = "likes"
)

// ParseSortKey maps user input onto the game sort keys; unknown keys fall back
// to SortDate.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortTitle, SortHours, SortRating:
		return k
	}
	return SortDate
}

// ParseReviewSortKey is ParseSortKey for the review list, which sorts by date,
// rating or likes.
func ParseReviewSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortRating, SortLikes:
		return k
	}
	return SortDate
}

// ViewState is the ephemeral filter/search/sort selection of one screen.
type ViewState struct {
	FilterKey  FilterKey `json:"filter"`
	SearchTerm string    `json:"search"`
	SortKey    SortKey   `json:"sort"`
}

// DefaultViewState is what a screen starts with.
func DefaultViewState() ViewState {
	return ViewState{FilterKey: FilterAll, SortKey: SortDate}
}

// NewViewState parses raw query values for the library screen.
func NewViewState(filter, search, sort string) ViewState {
	return ViewState{
		FilterKey:  ParseFilterKey(filter),
		SearchTerm: strings.TrimSpace(search),
		SortKey:    ParseSortKey(sort),
	}
}

// NewReviewViewState parses raw query values for the review screen.
func NewReviewViewState(filter, search, sort string) ViewState {
	return ViewState{
		FilterKey:  ParseFilterKey(filter),
		SearchTerm: strings.TrimSpace(search),
		SortKey:    ParseReviewSortKey(sort),
	}
}
