package concurrent

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"gametracker/models"
)

/*
1. FetchCollections - games and reviews are independent requests to the
   persistence API, so the dashboard loads them in parallel.

2. ImportGames - bulk creation through a bounded worker pool; every game is
   an independent POST.
*/

// ==================== 1. PARALLEL COLLECTION FETCH ====================

type GamesLoader func(ctx context.Context) ([]models.GameRecord, error)

type ReviewsLoader func(ctx context.Context) ([]models.ReviewRecord, error)

// Collections holds both normalized collections.
type Collections struct {
	Games   []models.GameRecord
	Reviews []models.ReviewRecord
}

// FetchCollections runs both loaders concurrently. The first error cancels
// the other request.
func FetchCollections(ctx context.Context, loadGames GamesLoader, loadReviews ReviewsLoader) (*Collections, error) {
	g, ctx := errgroup.WithContext(ctx)
	result := &Collections{}

	g.Go(func() error {
		games, err := loadGames(ctx)
		if err != nil {
			return fmt.Errorf("games: %w", err)
		}
		result.Games = games
		return nil
	})

	g.Go(func() error {
		reviews, err := loadReviews(ctx)
		if err != nil {
			return fmt.Errorf("reviews: %w", err)
		}
		result.Reviews = reviews
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// ==================== 2. BULK IMPORT WITH WORKER POOL ====================

type GameCreator func(ctx context.Context, game models.RawGame) (models.RawGame, error)

type importJob struct {
	Index int
	Game  models.RawGame
}

// ImportResult is the outcome for one input, reported at its input index.
type ImportResult struct {
	Index   int            `json:"index"`
	Title   string         `json:"title"`
	Success bool           `json:"success"`
	Game    models.RawGame `json:"game,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// ImportGames creates games with numWorkers concurrent requests. Results come
// back in input order; a failed item does not stop the others. Cancelling ctx
// marks the remaining items as failed.
func ImportGames(ctx context.Context, create GameCreator, games []models.RawGame, numWorkers int) []ImportResult {
	if numWorkers <= 0 {
		numWorkers = 4
	}
	if numWorkers > len(games) {
		numWorkers = len(games)
	}

	jobs := make(chan importJob, len(games))
	results := make([]ImportResult, len(games))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results[job.Index] = processImport(ctx, create, job)
			}
		}()
	}

	for i, game := range games {
		jobs <- importJob{Index: i, Game: game}
	}
	close(jobs)

	wg.Wait()
	return results
}

func processImport(ctx context.Context, create GameCreator, job importJob) ImportResult {
	result := ImportResult{Index: job.Index, Title: job.Game.Nombre}
	if err := ctx.Err(); err != nil {
		result.Error = err.Error()
		return result
	}
	created, err := create(ctx, job.Game)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Success = true
	result.Game = created
	return result
}
