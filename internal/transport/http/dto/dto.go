// Package dto shapes domain values for JSON responses.
package dto

import (
	"time"
	_ "time/tzdata"

	"sortir/internal/account"
	"sortir/internal/domain"
)

// TimestampLayout renders instants as dd/MM/yyyy HH:mm:ss.
const TimestampLayout = "02/01/2006 15:04:05"

var paris = mustLoad("Europe/Paris")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Timestamp formats t in Paris time; the zero time gives "".
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(paris).Format(TimestampLayout)
}

type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Ratio  string `json:"ratio,omitempty"`
}

type EventDate struct {
	LocalDate string `json:"localDate"`
	LocalTime string `json:"localTime,omitempty"`
	DateTime  string `json:"dateTime,omitempty"`
}

type Venue struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name,omitempty"`
	Type        string   `json:"type,omitempty"`
	Locale      string   `json:"locale,omitempty"`
	City        string   `json:"city,omitempty"`
	Country     string   `json:"country,omitempty"`
	CountryCode string   `json:"countryCode,omitempty"`
	Address     string   `json:"address,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Images      []Image  `json:"images,omitempty"`
}

type PriceRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency,omitempty"`
}

type Event struct {
	ExternalID  string         `json:"externalId"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	URL         string         `json:"url,omitempty"`
	Images      []Image        `json:"images"`
	Date        EventDate      `json:"date"`
	Venue       *Venue         `json:"venue,omitempty"`
	Segment     string         `json:"segment"`
	Genre       string         `json:"genre,omitempty"`
	SubGenre    string         `json:"subGenre,omitempty"`
	PriceRange  *PriceRange    `json:"priceRange,omitempty"`
	Sales       map[string]any `json:"sales,omitempty"`
	Status      string         `json:"status,omitempty"`
	SyncedAt    string         `json:"syncedAt"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
}

func images(in []domain.Image) []Image {
	out := make([]Image, len(in))
	for i, img := range in {
		out[i] = Image{URL: img.URL, Width: img.Width, Height: img.Height, Ratio: img.Ratio}
	}
	return out
}

func NewEvent(e domain.Event) Event {
	out := Event{
		ExternalID:  e.ExternalID,
		Name:        e.Name,
		Description: e.Description,
		URL:         e.URL,
		Images:      images(e.Images),
		Date:        EventDate{LocalDate: e.Date.LocalDate, LocalTime: e.Date.LocalTime, DateTime: e.Date.DateTime},
		Segment:     e.Segment,
		Genre:       e.Genre,
		SubGenre:    e.SubGenre,
		Sales:       e.Sales,
		Status:      e.Status,
		SyncedAt:    Timestamp(e.SyncedAt),
		CreatedAt:   Timestamp(e.CreatedAt),
		UpdatedAt:   Timestamp(e.UpdatedAt),
	}
	if v := e.Venue; v != nil {
		out.Venue = &Venue{
			ID:          v.ID,
			Name:        v.Name,
			Type:        v.Type,
			Locale:      v.Locale,
			City:        v.City,
			Country:     v.Country,
			CountryCode: v.CountryCode,
			Address:     v.Address,
			Latitude:    v.Latitude,
			Longitude:   v.Longitude,
		}
		if len(v.Images) > 0 {
			out.Venue.Images = images(v.Images)
		}
	}
	if p := e.PriceRange; p != nil {
		out.PriceRange = &PriceRange{Min: p.Min, Max: p.Max, Currency: p.Currency}
	}
	return out
}

func NewEvents(in []domain.Event) []Event {
	out := make([]Event, len(in))
	for i, e := range in {
		out[i] = NewEvent(e)
	}
	return out
}

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

func NewUser(u *domain.User) User {
	return User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		CreatedAt: Timestamp(u.CreatedAt),
	}
}

type Preference struct {
	ClassificationID   string `json:"classificationId"`
	ClassificationName string `json:"classificationName"`
}

func NewPreferences(in []domain.Preference) []Preference {
	out := make([]Preference, len(in))
	for i, p := range in {
		out[i] = Preference{ClassificationID: p.ClassificationID, ClassificationName: p.ClassificationName}
	}
	return out
}

type Favorite struct {
	ExternalID string `json:"externalId"`
	CreatedAt  string `json:"createdAt"`
	Event      *Event `json:"event"`
}

func NewFavorites(in []account.FavoriteView) []Favorite {
	out := make([]Favorite, len(in))
	for i, f := range in {
		out[i] = Favorite{ExternalID: f.ExternalID, CreatedAt: Timestamp(f.CreatedAt)}
		if f.Event != nil {
			ev := NewEvent(*f.Event)
			out[i].Event = &ev
		}
	}
	return out
}

type EventStats struct {
	Total    int64  `json:"total"`
	LastSync string `json:"lastSync"`
}

func NewEventStats(s domain.EventStats) EventStats {
	out := EventStats{Total: s.Total}
	if s.LastSync != nil {
		out.LastSync = Timestamp(*s.LastSync)
	}
	return out
}
