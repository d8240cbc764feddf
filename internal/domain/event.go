package domain

import "time"

// StatusCancelled is the Ticketmaster status code excluded from every feed.
const StatusCancelled = "cancelled"

type Event struct {
	ExternalID  string         `bson:"externalId"`
	Name        string         `bson:"name"`
	Description string         `bson:"description,omitempty"`
	URL         string         `bson:"url,omitempty"`
	Images      []Image        `bson:"images"`
	Date        EventDate      `bson:"date"`
	Venue       *Venue         `bson:"venue,omitempty"`
	Segment     string         `bson:"segment"`
	Genre       string         `bson:"genre,omitempty"`
	SubGenre    string         `bson:"subGenre,omitempty"`
	PriceRange  *PriceRange    `bson:"priceRange,omitempty"`
	Sales       map[string]any `bson:"sales,omitempty"`
	Status      string         `bson:"status,omitempty"`
	SyncedAt    time.Time      `bson:"syncedAt"`
	CreatedAt   time.Time      `bson:"createdAt"`
	UpdatedAt   time.Time      `bson:"updatedAt"`
}

type Image struct {
	URL    string `bson:"url"`
	Width  int    `bson:"width"`
	Height int    `bson:"height"`
	Ratio  string `bson:"ratio,omitempty"`
}

type EventDate struct {
	LocalDate string `bson:"localDate"`
	LocalTime string `bson:"localTime,omitempty"`
	DateTime  string `bson:"dateTime,omitempty"`
}

type Venue struct {
	ID          string   `bson:"id,omitempty"`
	Name        string   `bson:"name,omitempty"`
	Type        string   `bson:"type,omitempty"`
	Locale      string   `bson:"locale,omitempty"`
	City        string   `bson:"city,omitempty"`
	Country     string   `bson:"country,omitempty"`
	CountryCode string   `bson:"countryCode,omitempty"`
	Address     string   `bson:"address,omitempty"`
	Latitude    *float64 `bson:"latitude,omitempty"`
	Longitude   *float64 `bson:"longitude,omitempty"`
	Images      []Image  `bson:"images,omitempty"`
}

type PriceRange struct {
	Min      float64 `bson:"min"`
	Max      float64 `bson:"max"`
	Currency string  `bson:"currency,omitempty"`
}

// EventStats backs the admin statistics view.
type EventStats struct {
	Total    int64
	LastSync *time.Time
}

type EventSort int

const (
	// SortChronological orders by date.localDate then date.localTime.
	SortChronological EventSort = iota
	// SortRecentlySynced orders by syncedAt descending then date.localDate.
	SortRecentlySynced
)

// EventQuery selects upcoming, non-cancelled events. Today and FromTime are
// wall-clock values ("2006-01-02", "15:04:00"): events dated after Today, or on
// Today starting at or after FromTime, match.
type EventQuery struct {
	Today         string
	FromTime      string
	Segments      []string
	Genres        []string
	ExcludeGenres []string
	Sort          EventSort
	Skip          int64
	Limit         int64
}
