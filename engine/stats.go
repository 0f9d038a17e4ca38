package engine

import (
	"cmp"
	"math"
	"slices"

	"gametracker/models"
)

const topRatedLimit = 3

// Statistics summarises the whole, unfiltered collection.
type Statistics struct {
	TotalCount       int                      `json:"totalCount"`
	CompletedCount   int                      `json:"completedCount"`
	PendingCount     int                      `json:"pendingCount"`
	PlayingCount     int                      `json:"playingCount"`
	TotalHours       float64                  `json:"totalHours"`
	AverageRating    float64                  `json:"averageRating"`
	CompletionRate   float64                  `json:"completionRate"`
	PerDeity         map[models.Deity]int     `json:"perDeity"`
	DeityShare       map[models.Deity]float64 `json:"deityShare"`
	FavoriteGenre    string                   `json:"favoriteGenre"`
	FavoritePlatform string                   `json:"favoritePlatform"`
	TopRated         []string                 `json:"topRated"`
}

// ReviewStatistics summarises the whole review collection.
type ReviewStatistics struct {
	TotalCount     int                  `json:"totalCount"`
	TotalLikes     int                  `json:"totalLikes"`
	AverageRating  float64              `json:"averageRating"`
	CompletedCount int                  `json:"completedCount"`
	PerDeity       map[models.Deity]int `json:"perDeity"`
	MostLiked      string               `json:"mostLiked"`
}

// Aggregate computes Statistics from scratch. Unrated games (rating 0) are
// left out of the average, and an empty or unrated collection averages 0.
func Aggregate(games []models.GameRecord) Statistics {
	stats := Statistics{
		TotalCount: len(games),
		PerDeity:   deityCounts(),
		TopRated:   []string{},
	}
	var ratings ratingMean
	genres := make(map[string]int)
	platforms := make(map[string]int)

	for _, g := range games {
		switch {
		case g.Completed:
			stats.CompletedCount++
		case g.Status == models.StatusPlaying:
			stats.PlayingCount++
		default:
			stats.PendingCount++
		}
		if g.HoursPlayed > 0 {
			stats.TotalHours += g.HoursPlayed
		}
		ratings.add(g.Rating)
		if _, ok := stats.PerDeity[g.Deity]; ok {
			stats.PerDeity[g.Deity]++
		}
		genres[g.Genre]++
		platforms[g.Platform]++
	}

	stats.AverageRating = ratings.value()
	stats.CompletionRate = percent(stats.CompletedCount, stats.TotalCount)
	stats.DeityShare = make(map[models.Deity]float64, len(models.Deities))
	for _, d := range models.Deities {
		stats.DeityShare[d] = percent(stats.PerDeity[d], stats.TotalCount)
	}
	stats.FavoriteGenre = mostFrequent(genres)
	stats.FavoritePlatform = mostFrequent(platforms)
	stats.TopRated = topRated(games, topRatedLimit)
	return stats
}

// AggregateReviews computes ReviewStatistics with the same average guard as
// Aggregate.
func AggregateReviews(reviews []models.ReviewRecord) ReviewStatistics {
	stats := ReviewStatistics{
		TotalCount: len(reviews),
		PerDeity:   deityCounts(),
	}
	var ratings ratingMean
	mostLikes := -1
	for _, r := range reviews {
		if r.Likes > 0 {
			stats.TotalLikes += r.Likes
		}
		ratings.add(r.Rating)
		if r.Completed {
			stats.CompletedCount++
		}
		if _, ok := stats.PerDeity[r.Deity]; ok {
			stats.PerDeity[r.Deity]++
		}
		if r.Likes > mostLikes {
			mostLikes = r.Likes
			stats.MostLiked = r.Game
		}
	}
	stats.AverageRating = ratings.value()
	return stats
}

// ratingMean accumulates positive ratings only; values above 5 count as 5.
type ratingMean struct {
	sum, n int
}

func (m *ratingMean) add(rating int) {
	if rating <= 0 {
		return
	}
	m.sum += min(rating, 5)
	m.n++
}

// value is the mean rounded to one decimal, 0 when nothing was rated.
func (m ratingMean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return round1(float64(m.sum) / float64(m.n))
}

func deityCounts() map[models.Deity]int {
	counts := make(map[models.Deity]int, len(models.Deities))
	for _, d := range models.Deities {
		counts[d] = 0
	}
	return counts
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) * 100 / float64(total))
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

// mostFrequent returns the key with the highest count, breaking ties
// alphabetically so the result does not depend on map iteration order.
func mostFrequent(counts map[string]int) string {
	best, bestN := "", 0
	for k, n := range counts {
		if n > bestN || (n == bestN && k < best) {
			best, bestN = k, n
		}
	}
	return best
}

// topRated picks up to limit rated titles by rating, then hours, then input
// order.
func topRated(games []models.GameRecord, limit int) []string {
	rated := make([]models.GameRecord, 0, len(games))
	for _, g := range games {
		if g.Rating > 0 {
			rated = append(rated, g)
		}
	}
	slices.SortStableFunc(rated, func(a, b models.GameRecord) int {
		if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
			return c
		}
		return cmp.Compare(b.HoursPlayed, a.HoursPlayed)
	})
	titles := make([]string, 0, limit)
	for i := 0; i < len(rated) && i < limit; i++ {
		titles = append(titles, rated[i].Title)
	}
	return titles
}
