package models

import (
	"strings"
	"time"
)

// Status is the play state of a game as the persistence API reports it.
type Status string

const (
	StatusCompleted Status = "Completado"
	StatusPending   Status = "Pendiente"
	StatusPlaying   Status = "Jugando"
)

// Sentinels used instead of blank labels.
const (
	UnknownGenre        = "Unknown"
	UnspecifiedPlatform = "Unspecified"
	UntitledGame        = "Untitled"
)

// GameRecord is one normalized entry of the collection.
type GameRecord struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CoverURL     string    `json:"coverUrl,omitempty"`
	Status       Status    `json:"status"`
	Completed    bool      `json:"completed"`
	HoursPlayed  float64   `json:"hoursPlayed"`
	Rating       int       `json:"rating"`
	Genre        string    `json:"genre"`
	Platform     string    `json:"platform"`
	Deity        Deity     `json:"deityAffinity"`
	AcquiredDate time.Time `json:"acquiredDate"`
	LastPlayed   time.Time `json:"lastPlayedDate"`
	Tags         []string  `json:"tags"`
	Description  string    `json:"description,omitempty"`
}

// RawGame is the shape served by GET /api/juegos.
type RawGame struct {
	MongoID          string   `json:"_id,omitempty"`
	ID               string   `json:"id,omitempty"`
	Nombre           string   `json:"nombre"`
	PortadaURL       string   `json:"portadaURL,omitempty"`
	Estado           string   `json:"estado,omitempty"`
	HorasJugadas     float64  `json:"horasJugadas"`
	Rating           int      `json:"rating"`
	Genero           string   `json:"genero,omitempty"`
	Plataforma       string   `json:"plataforma,omitempty"`
	Dios             string   `json:"dios,omitempty"`
	FechaAdquisicion string   `json:"fechaAdquisicion,omitempty"`
	UltimaSesion     string   `json:"ultimaSesion,omitempty"`
	Tags             []string `json:"tags"`
	Descripcion      string   `json:"descripcion,omitempty"`
}

// GameInput is the body accepted by the create and update endpoints.
type GameInput struct {
	Title        string   `json:"title" validate:"required,min=1,max=200"`
	CoverURL     string   `json:"coverUrl" validate:"omitempty,url"`
	Status       string   `json:"status" validate:"omitempty,oneof=Completado Pendiente Jugando"`
	HoursPlayed  float64  `json:"hoursPlayed" validate:"gte=0"`
	Rating       int      `json:"rating" validate:"gte=0,lte=5"`
	Genre        string   `json:"genre" validate:"max=80"`
	Platform     string   `json:"platform" validate:"max=80"`
	Deity        string   `json:"deityAffinity" validate:"omitempty,deity"`
	AcquiredDate string   `json:"acquiredDate" validate:"omitempty,datetime=2006-01-02"`
	LastPlayed   string   `json:"lastPlayedDate" validate:"omitempty,datetime=2006-01-02"`
	Tags         []string `json:"tags" validate:"max=30,dive,max=40"`
	Description  string   `json:"description" validate:"max=2000"`
}

// Raw converts validated form input into the raw server shape of a new game.
// Blank dates are stamped with the day of now so the stored record does not
// drift with every read.
func (in GameInput) Raw(now time.Time) RawGame {
	today := now.Format(DateLayout)
	status := in.Status
	if status == "" {
		status = string(StatusPending)
	}
	deity := DeityApollo
	if d, ok := ParseDeity(in.Deity); ok {
		deity = d
	}
	return RawGame{
		Nombre:           in.Title,
		PortadaURL:       in.CoverURL,
		Estado:           status,
		HorasJugadas:     in.HoursPlayed,
		Rating:           in.Rating,
		Genero:           in.Genre,
		Plataforma:       in.Platform,
		Dios:             deity.Raw(),
		FechaAdquisicion: orDefault(in.AcquiredDate, today),
		UltimaSesion:     orDefault(in.LastPlayed, today),
		Tags:             DedupeTags(in.Tags),
		Descripcion:      in.Description,
	}
}

// Apply overlays a full update on the stored record. Blank status, deity and
// dates keep the stored values.
func (in GameInput) Apply(g GameRecord) GameRecord {
	g.Title = orDefault(in.Title, UntitledGame)
	g.CoverURL = strings.TrimSpace(in.CoverURL)
	if in.Status != "" {
		g.Status = parseStatus(in.Status)
	}
	g.Completed = g.Status == StatusCompleted
	g.HoursPlayed = nonNegative(in.HoursPlayed)
	g.Rating = clampRating(in.Rating)
	g.Genre = orDefault(in.Genre, UnknownGenre)
	g.Platform = orDefault(in.Platform, UnspecifiedPlatform)
	if d, ok := ParseDeity(in.Deity); ok {
		g.Deity = d
	}
	if d, err := time.Parse(DateLayout, strings.TrimSpace(in.AcquiredDate)); err == nil {
		g.AcquiredDate = d
	}
	if d, err := time.Parse(DateLayout, strings.TrimSpace(in.LastPlayed)); err == nil {
		g.LastPlayed = d
	}
	g.Tags = DedupeTags(in.Tags)
	g.Description = strings.TrimSpace(in.Description)
	return g
}
