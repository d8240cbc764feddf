package ticketmaster

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sortir/internal/domain"
)

// DefaultEventName is stored when the payload carries no name.
const DefaultEventName = "Événement sans nom"

var (
	ErrMissingID   = errors.New("event has no id")
	ErrMissingDate = errors.New("event has no start date")
)

type dimensions struct{ width, height int }

var allowedImageSizes = map[dimensions]struct{}{
	{1024, 576}:  {},
	{2048, 1152}: {},
	{640, 427}:   {},
}

// Normalize converts an enriched payload into the stored event shape.
// fallbackSegment is used when the payload has no segment classification.
// All timestamps are set to now; callers preserve CreatedAt on updates.
func Normalize(e EnrichedEvent, fallbackSegment string, loc *time.Location, now time.Time) (*domain.Event, error) {
	if strings.TrimSpace(e.ID) == "" {
		return nil, ErrMissingID
	}

	date, err := normalizeDate(e.Dates, loc)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", e.ID, err)
	}

	name := strings.TrimSpace(e.Name)
	if name == "" {
		name = DefaultEventName
	}

	description := e.Description
	if description == "" {
		description = e.Info
	}

	segment := e.SegmentName
	if segment == "" {
		segment = fallbackSegment
	}

	out := &domain.Event{
		ExternalID:  e.ID,
		Name:        name,
		Description: description,
		URL:         e.URL,
		Images:      FilterImages(e.Images),
		Date:        date,
		Venue:       normalizeVenue(e.Embedded),
		Segment:     segment,
		Genre:       e.GenreName,
		SubGenre:    e.SubGenreName,
		PriceRange:  normalizePrice(e.PriceRanges),
		Status:      status(e.Dates),
		SyncedAt:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if len(e.Sales) > 0 {
		out.Sales = e.Sales
	}

	return out, nil
}

// FilterImages keeps only whitelisted resolutions, in their original order.
func FilterImages(images []Image) []domain.Image {
	out := make([]domain.Image, 0, len(images))
	for _, img := range images {
		if _, ok := allowedImageSizes[dimensions{img.Width, img.Height}]; !ok {
			continue
		}
		out = append(out, domain.Image{
			URL:    img.URL,
			Width:  img.Width,
			Height: img.Height,
			Ratio:  img.Ratio,
		})
	}
	return out
}

func normalizeDate(d *Dates, loc *time.Location) (domain.EventDate, error) {
	if d == nil || d.Start == nil {
		return domain.EventDate{}, ErrMissingDate
	}
	start := d.Start

	localDate := start.LocalDate
	if localDate == "" && start.DateTime != "" {
		// Derive the wall-clock date from the instant when only the instant is sent.
		t, err := time.Parse(time.RFC3339, start.DateTime)
		if err == nil {
			if loc != nil {
				t = t.In(loc)
			}
			localDate = t.Format(time.DateOnly)
		}
	}
	if localDate == "" {
		return domain.EventDate{}, ErrMissingDate
	}

	return domain.EventDate{
		LocalDate: localDate,
		LocalTime: start.LocalTime,
		DateTime:  start.DateTime,
	}, nil
}

func normalizeVenue(embedded *EventEmbedded) *domain.Venue {
	if embedded == nil || len(embedded.Venues) == 0 {
		return nil
	}
	v := embedded.Venues[0]

	out := &domain.Venue{
		ID:     v.ID,
		Name:   v.Name,
		Type:   v.Type,
		Locale: v.Locale,
		Images: FilterImages(v.Images),
	}
	if v.City != nil {
		out.City = v.City.Name
	}
	if v.Country != nil {
		out.Country = v.Country.Name
		out.CountryCode = v.Country.CountryCode
	}
	if v.Address != nil {
		out.Address = v.Address.Line1
	}
	if v.Location != nil {
		out.Latitude = parseCoordinate(v.Location.Latitude)
		out.Longitude = parseCoordinate(v.Location.Longitude)
	}
	if len(out.Images) == 0 {
		out.Images = nil
	}
	return out
}

func parseCoordinate(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

func normalizePrice(ranges []PriceRange) *domain.PriceRange {
	if len(ranges) == 0 {
		return nil
	}
	p := ranges[0]
	return &domain.PriceRange{Min: p.Min, Max: p.Max, Currency: p.Currency}
}

func status(d *Dates) string {
	if d == nil || d.Status == nil {
		return ""
	}
	return d.Status.Code
}
