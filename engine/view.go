package engine

import "gametracker/models"

// View is what the library screen renders.
type View struct {
	State      models.ViewState    `json:"state"`
	Visible    []models.GameRecord `json:"visible"`
	Statistics Statistics          `json:"statistics"`
}

// ReviewView is what the review screen renders.
type ReviewView struct {
	State      models.ViewState      `json:"state"`
	Visible    []models.ReviewRecord `json:"visible"`
	Statistics ReviewStatistics      `json:"statistics"`
}

// Compose filters and sorts games for display and aggregates statistics over
// the full, unfiltered slice.
func Compose(games []models.GameRecord, state models.ViewState) View {
	return View{
		State:      state,
		Visible:    Sort(Filter(games, state), state.SortKey),
		Statistics: Aggregate(games),
	}
}

// ComposeReviews is Compose for the review list.
func ComposeReviews(reviews []models.ReviewRecord, state models.ViewState) ReviewView {
	return ReviewView{
		State:      state,
		Visible:    SortReviews(FilterReviews(reviews, state), state.SortKey),
		Statistics: AggregateReviews(reviews),
	}
}
