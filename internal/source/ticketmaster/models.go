package ticketmaster

// APIResponse represents the Discovery API /events.json response structure.
type APIResponse struct {
	Embedded *EmbeddedEvents `json:"_embedded"`
	Page     PageInfo        `json:"page"`
}

type EmbeddedEvents struct {
	Events []Event `json:"events"`
}

type PageInfo struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

// Events returns the page's events, tolerating a missing _embedded block.
func (r *APIResponse) Events() []Event {
	if r == nil || r.Embedded == nil {
		return nil
	}
	return r.Embedded.Events
}

// Event is the raw event payload. Every nested block is optional.
type Event struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	URL             string           `json:"url"`
	Description     string           `json:"description"`
	Info            string           `json:"info"`
	Images          []Image          `json:"images"`
	Dates           *Dates           `json:"dates"`
	Classifications []Classification `json:"classifications"`
	PriceRanges     []PriceRange     `json:"priceRanges"`
	Sales           map[string]any   `json:"sales"`
	Embedded        *EventEmbedded   `json:"_embedded"`
}

type Image struct {
	Ratio    string `json:"ratio"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Fallback bool   `json:"fallback"`
}

type Dates struct {
	Start    *DateStart  `json:"start"`
	Timezone string      `json:"timezone"`
	Status   *DateStatus `json:"status"`
}

type DateStart struct {
	LocalDate string `json:"localDate"`
	LocalTime string `json:"localTime"`
	DateTime  string `json:"dateTime"`
}

type DateStatus struct {
	Code string `json:"code"`
}

type Classification struct {
	Primary  bool      `json:"primary"`
	Segment  *Taxonomy `json:"segment"`
	Genre    *Taxonomy `json:"genre"`
	SubGenre *Taxonomy `json:"subGenre"`
}

type Taxonomy struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PriceRange struct {
	Type     string  `json:"type"`
	Currency string  `json:"currency"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

type EventEmbedded struct {
	Venues []Venue `json:"venues"`
}

type Venue struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Locale   string    `json:"locale"`
	City     *Named    `json:"city"`
	Country  *Country  `json:"country"`
	Address  *Address  `json:"address"`
	Location *Location `json:"location"`
	Images   []Image   `json:"images"`
}

type Named struct {
	Name string `json:"name"`
}

type Country struct {
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
}

type Address struct {
	Line1 string `json:"line1"`
}

// Location carries coordinates as strings, the way the API sends them.
type Location struct {
	Longitude string `json:"longitude"`
	Latitude  string `json:"latitude"`
}

// EnrichedEvent is a raw event with its classification ids resolved to
// display names.
type EnrichedEvent struct {
	Event
	SegmentName  string
	GenreName    string
	SubGenreName string
}
