package models

import (
	"strings"
	"time"
)

const AnonymousAuthor = "Anonymous"

// ReviewRecord is one normalized review. It references its game by title.
type ReviewRecord struct {
	ID          string    `json:"id"`
	Game        string    `json:"game"`
	GameID      string    `json:"gameId,omitempty"`
	Author      string    `json:"author"`
	Rating      int       `json:"rating"`
	Date        time.Time `json:"date"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Tags        []string  `json:"tags"`
	HoursPlayed float64   `json:"hoursPlayed"`
	Completed   bool      `json:"completed"`
	Platform    string    `json:"platform"`
	Deity       Deity     `json:"deity"`
	Likes       int       `json:"likes"`
}

// RawReview is the shape served by GET /api/resenas.
type RawReview struct {
	MongoID      string   `json:"_id,omitempty"`
	ID           string   `json:"id,omitempty"`
	Juego        string   `json:"juego"`
	JuegoID      string   `json:"juegoId,omitempty"`
	Autor        string   `json:"autor,omitempty"`
	Rating       int      `json:"rating"`
	Fecha        string   `json:"fecha,omitempty"`
	Titulo       string   `json:"titulo,omitempty"`
	Contenido    string   `json:"contenido,omitempty"`
	HorasJugadas float64  `json:"horasJugadas"`
	Completado   bool     `json:"completado"`
	Plataforma   string   `json:"plataforma,omitempty"`
	Dios         string   `json:"dios,omitempty"`
	Likes        int      `json:"likes"`
	Tags         []string `json:"tags"`
}

// ReviewInput is the body accepted by the review create and update endpoints.
type ReviewInput struct {
	Game        string   `json:"game" validate:"required,max=200"`
	GameID      string   `json:"gameId" validate:"max=64"`
	Author      string   `json:"author" validate:"max=80"`
	Rating      int      `json:"rating" validate:"gte=0,lte=5"`
	Title       string   `json:"title" validate:"required,max=200"`
	Body        string   `json:"body" validate:"max=10000"`
	Tags        []string `json:"tags" validate:"max=30,dive,max=40"`
	HoursPlayed float64  `json:"hoursPlayed" validate:"gte=0"`
	Completed   bool     `json:"completed"`
	Platform    string   `json:"platform" validate:"max=80"`
	Deity       string   `json:"deity" validate:"omitempty,deity"`
}

// Raw converts validated input into the raw server shape. Likes start at zero
// and the date is stamped with today.
func (in ReviewInput) Raw(now time.Time) RawReview {
	deity := DeityApollo
	if d, ok := ParseDeity(in.Deity); ok {
		deity = d
	}
	return RawReview{
		Juego:        in.Game,
		JuegoID:      in.GameID,
		Autor:        in.Author,
		Rating:       in.Rating,
		Fecha:        now.Format(DateLayout),
		Titulo:       in.Title,
		Contenido:    in.Body,
		HorasJugadas: in.HoursPlayed,
		Completado:   in.Completed,
		Plataforma:   in.Platform,
		Dios:         deity.Raw(),
		Tags:         DedupeTags(in.Tags),
	}
}

// Apply overlays an edit on the stored review. Date and likes are not
// editable and stay as stored.
func (in ReviewInput) Apply(r ReviewRecord) ReviewRecord {
	r.Game = orDefault(in.Game, UntitledGame)
	r.GameID = strings.TrimSpace(in.GameID)
	r.Author = orDefault(in.Author, AnonymousAuthor)
	r.Rating = clampRating(in.Rating)
	r.Title = strings.TrimSpace(in.Title)
	r.Body = strings.TrimSpace(in.Body)
	r.Tags = DedupeTags(in.Tags)
	r.HoursPlayed = nonNegative(in.HoursPlayed)
	r.Completed = in.Completed
	r.Platform = orDefault(in.Platform, UnspecifiedPlatform)
	if d, ok := ParseDeity(in.Deity); ok {
		r.Deity = d
	}
	return r
}
