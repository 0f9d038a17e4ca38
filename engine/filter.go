// Package engine derives read-only views of the collection: filtering,
// sorting and aggregate statistics. Every function is pure and never mutates
// its input.
package engine

import (
	"strings"

	"gametracker/models"
)

// Matches reports whether g passes both the category filter and the text
// search. The Both category matches only records tagged Both.
func Matches(g models.GameRecord, filter models.FilterKey, search string) bool {
	return matchesCategory(g.Completed, g.Deity, filter) &&
		matchesText(strings.ToLower(search), g.Title, g.Genre, g.Platform, g.Tags)
}

// Filter returns the records of games that match state, in input order.
func Filter(games []models.GameRecord, state models.ViewState) []models.GameRecord {
	out := make([]models.GameRecord, 0, len(games))
	for _, g := range games {
		if Matches(g, state.FilterKey, state.SearchTerm) {
			out = append(out, g)
		}
	}
	return out
}

// MatchesReview is Matches for reviews. The search covers the game title,
// the review title, the author and the tags.
func MatchesReview(r models.ReviewRecord, filter models.FilterKey, search string) bool {
	return matchesCategory(r.Completed, r.Deity, filter) &&
		matchesText(strings.ToLower(search), r.Game, r.Title, r.Author, r.Tags)
}

// FilterReviews returns the reviews that match state, in input order.
func FilterReviews(reviews []models.ReviewRecord, state models.ViewState) []models.ReviewRecord {
	out := make([]models.ReviewRecord, 0, len(reviews))
	for _, r := range reviews {
		if MatchesReview(r, state.FilterKey, state.SearchTerm) {
			out = append(out, r)
		}
	}
	return out
}

func matchesCategory(completed bool, deity models.Deity, filter models.FilterKey) bool {
	if filter == models.FilterCompleted {
		return completed
	}
	if d, ok := filter.Deity(); ok {
		return deity == d
	}
	return true
}

// matchesText expects needle already lowercased.
func matchesText(needle, a, b, c string, tags []string) bool {
	if needle == "" {
		return true
	}
	for _, field := range [...]string{a, b, c} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}
