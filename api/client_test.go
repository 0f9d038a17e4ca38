package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gametracker/models"
)

func TestListGamesBareArrayAndEnvelope(t *testing.T) {
	for _, body := range []string{
		`[{"_id":"1","nombre":"Hades","estado":"Completado"}]`,
		`{"data":[{"_id":"1","nombre":"Hades","estado":"Completado"}]}`,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/juegos", r.URL.Path)
			assert.Equal(t, http.MethodGet, r.Method)
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, body)
		}))

		games, err := NewClient(srv.URL, time.Second, nil).ListGames(context.Background())
		srv.Close()

		require.NoError(t, err)
		require.Len(t, games, 1)
		assert.Equal(t, "1", games[0].MongoID)
		assert.Equal(t, "Hades", games[0].Nombre)
	}
}

func TestCreateGameSendsRawShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var got map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "Celeste", got["nombre"])
		assert.Equal(t, "Hécate", got["dios"])
		got["_id"] = "new-id"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(got)
	}))
	defer srv.Close()

	created, err := NewClient(srv.URL, time.Second, nil).CreateGame(context.Background(), models.RawGame{Nombre: "Celeste", Dios: "Hécate"})
	require.NoError(t, err)
	assert.Equal(t, "new-id", created.MongoID)
}

func TestItemPathsAndMethods(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.EscapedPath())
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	ctx := context.Background()
	_, err := c.UpdateGame(ctx, "a b", models.RawGame{Nombre: "x"})
	require.NoError(t, err)
	_, err = c.PatchGame(ctx, "7", map[string]interface{}{"rating": 3})
	require.NoError(t, err)
	require.NoError(t, c.DeleteGame(ctx, "7"))
	_, err = c.PatchReview(ctx, "r1", map[string]interface{}{"likes": 4})
	require.NoError(t, err)
	require.NoError(t, c.DeleteReview(ctx, "r1"))

	assert.Equal(t, []string{
		"PUT /api/juegos/a%20b",
		"PATCH /api/juegos/7",
		"DELETE /api/juegos/7",
		"PATCH /api/resenas/r1",
		"DELETE /api/resenas/r1",
	}, seen)
}

func TestErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/juegos/missing":
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"error":"Juego no encontrado"}`)
		case "/api/juegos/bad":
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"message":"nombre requerido"}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()
	c := NewClient(srv.URL, time.Second, nil)
	ctx := context.Background()

	_, err := c.GetGame(ctx, "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.False(t, Retryable(err))
	assert.Contains(t, err.Error(), "Juego no encontrado")

	_, err = c.UpdateGame(ctx, "bad", models.RawGame{})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "nombre requerido", apiErr.Message)

	_, err = c.ListGames(ctx)
	assert.True(t, Retryable(err))
	assert.Equal(t, http.StatusBadGateway, StatusCode(err))
}

func TestTransportFailureIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second, nil).ListReviews(context.Background())
	require.Error(t, err)
	assert.True(t, Retryable(err))
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, NewCircuitBreaker(2, time.Hour))
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := c.ListGames(ctx)
		require.Error(t, err)
	}
	assert.Equal(t, StateOpen, c.BreakerState())

	_, err := c.ListGames(ctx)
	assert.True(t, errors.Is(err, ErrCircuitOpen))
	assert.Equal(t, http.StatusServiceUnavailable, StatusCode(err))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, NewCircuitBreaker(1, time.Hour))
	for i := 0; i < 5; i++ {
		c.GetGame(context.Background(), "x")
	}
	assert.Equal(t, StateClosed, c.BreakerState())
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(0, time.Minute)
	cb.now = func() time.Time { return now }

	fail := errors.New("boom")
	assert.Equal(t, fail, cb.Execute(func() error { return fail }, nil))
	assert.Equal(t, StateOpen, cb.GetState())
	assert.Equal(t, ErrCircuitOpen, cb.Execute(func() error { return nil }, nil))

	now = now.Add(2 * time.Minute)
	assert.NoError(t, cb.Execute(func() error { return nil }, nil))
	assert.Equal(t, StateClosed, cb.GetState())

	cb.Execute(func() error { return fail }, nil)
	now = now.Add(2 * time.Minute)
	cb.Execute(func() error { return fail }, nil)
	assert.Equal(t, StateOpen, cb.GetState())
}

func TestBreakerAdmitsSingleTrialWhenHalfOpen(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(0, time.Minute)
	cb.now = func() time.Time { return now }

	fail := errors.New("boom")
	cb.Execute(func() error { return fail }, nil)
	require.Equal(t, StateOpen, cb.GetState())
	now = now.Add(2 * time.Minute)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- cb.Execute(func() error {
			close(started)
			<-release
			return nil
		}, nil)
	}()
	<-started

	var ran int32
	err := cb.Execute(func() error {
		atomic.AddInt32(&ran, 1)
		return nil
	}, nil)
	assert.Equal(t, ErrCircuitOpen, err)
	assert.Zero(t, atomic.LoadInt32(&ran))
	assert.Equal(t, StateHalfOpen, cb.GetState())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateClosed, cb.GetState())
	assert.NoError(t, cb.Execute(func() error { return nil }, nil))
}
