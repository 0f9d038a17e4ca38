package models

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// NormalizeGame maps a raw server record into a fully populated GameRecord.
// It is the only place where missing or malformed fields get defaults; now
// supplies "today" for absent dates.
func NormalizeGame(raw RawGame, now time.Time) GameRecord {
	today := truncateDay(now)
	status := parseStatus(raw.Estado)
	deity, ok := ParseDeity(raw.Dios)
	if !ok {
		deity = DeityApollo
	}
	return GameRecord{
		ID:           firstNonEmpty(raw.MongoID, raw.ID),
		Title:        orDefault(raw.Nombre, UntitledGame),
		CoverURL:     strings.TrimSpace(raw.PortadaURL),
		Status:       status,
		Completed:    status == StatusCompleted,
		HoursPlayed:  nonNegative(raw.HorasJugadas),
		Rating:       clampRating(raw.Rating),
		Genre:        orDefault(raw.Genero, UnknownGenre),
		Platform:     orDefault(raw.Plataforma, UnspecifiedPlatform),
		Deity:        deity,
		AcquiredDate: parseDate(raw.FechaAdquisicion, today),
		LastPlayed:   parseDate(raw.UltimaSesion, today),
		Tags:         DedupeTags(raw.Tags),
		Description:  strings.TrimSpace(raw.Descripcion),
	}
}

// NormalizeGames normalizes a whole fetch result.
func NormalizeGames(raws []RawGame, now time.Time) []GameRecord {
	out := make([]GameRecord, 0, len(raws))
	for _, r := range raws {
		out = append(out, NormalizeGame(r, now))
	}
	return out
}

// NormalizeReview maps a raw review into a ReviewRecord.
func NormalizeReview(raw RawReview, now time.Time) ReviewRecord {
	deity, ok := ParseDeity(raw.Dios)
	if !ok {
		deity = DeityApollo
	}
	likes := raw.Likes
	if likes < 0 {
		likes = 0
	}
	return ReviewRecord{
		ID:          firstNonEmpty(raw.MongoID, raw.ID),
		Game:        orDefault(raw.Juego, UntitledGame),
		GameID:      strings.TrimSpace(raw.JuegoID),
		Author:      orDefault(raw.Autor, AnonymousAuthor),
		Rating:      clampRating(raw.Rating),
		Date:        parseDate(raw.Fecha, truncateDay(now)),
		Title:       strings.TrimSpace(raw.Titulo),
		Body:        strings.TrimSpace(raw.Contenido),
		Tags:        DedupeTags(raw.Tags),
		HoursPlayed: nonNegative(raw.HorasJugadas),
		Completed:   raw.Completado,
		Platform:    orDefault(raw.Plataforma, UnspecifiedPlatform),
		Deity:       deity,
		Likes:       likes,
	}
}

// NormalizeReviews normalizes a whole fetch result.
func NormalizeReviews(raws []RawReview, now time.Time) []ReviewRecord {
	out := make([]ReviewRecord, 0, len(raws))
	for _, r := range raws {
		out = append(out, NormalizeReview(r, now))
	}
	return out
}

// DenormalizeGame is the inverse mapping used for update bodies. Sentinels go
// back to blanks.
func DenormalizeGame(g GameRecord) RawGame {
	return RawGame{
		ID:               g.ID,
		Nombre:           g.Title,
		PortadaURL:       g.CoverURL,
		Estado:           string(g.Status),
		HorasJugadas:     g.HoursPlayed,
		Rating:           g.Rating,
		Genero:           blankSentinel(g.Genre, UnknownGenre),
		Plataforma:       blankSentinel(g.Platform, UnspecifiedPlatform),
		Dios:             g.Deity.Raw(),
		FechaAdquisicion: g.AcquiredDate.Format(DateLayout),
		UltimaSesion:     g.LastPlayed.Format(DateLayout),
		Tags:             g.Tags,
		Descripcion:      g.Description,
	}
}

// DenormalizeReview is the inverse mapping used for update bodies.
func DenormalizeReview(r ReviewRecord) RawReview {
	return RawReview{
		ID:           r.ID,
		Juego:        r.Game,
		JuegoID:      r.GameID,
		Autor:        blankSentinel(r.Author, AnonymousAuthor),
		Rating:       r.Rating,
		Fecha:        r.Date.Format(DateLayout),
		Titulo:       r.Title,
		Contenido:    r.Body,
		HorasJugadas: r.HoursPlayed,
		Completado:   r.Completed,
		Plataforma:   blankSentinel(r.Platform, UnspecifiedPlatform),
		Dios:         r.Deity.Raw(),
		Likes:        r.Likes,
		Tags:         r.Tags,
	}
}

// DedupeTags trims tags, drops blanks and removes case-insensitive duplicates,
// keeping the first spelling and the original order. Never returns nil.
func DedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

func parseStatus(s string) Status {
	switch fold(s) {
	case "completado", "completed":
		return StatusCompleted
	case "jugando", "playing":
		return StatusPlaying
	}
	return StatusPending
}

func parseDate(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return truncateDay(t)
	}
	return fallback
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func clampRating(r int) int {
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}

func nonNegative(f float64) float64 {
	// also catches NaN
	if !(f > 0) {
		return 0
	}
	return f
}

func blankSentinel(s, sentinel string) string {
	if s == sentinel {
		return ""
	}
	return s
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
