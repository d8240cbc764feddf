package domain

import "time"

// SaveStats holds the outcome of persisting one batch of events.
type SaveStats struct {
	Saved     int `json:"saved"`
	Updated   int `json:"updated"`
	Errors    int `json:"errors"`
	Published int `json:"-"`
}

func (s *SaveStats) Add(other SaveStats) {
	s.Saved += other.Saved
	s.Updated += other.Updated
	s.Errors += other.Errors
	s.Published += other.Published
}

// Total is the number of events written (inserted or updated).
func (s SaveStats) Total() int {
	return s.Saved + s.Updated
}

// SegmentStats holds the per-segment counters of one crawl.
type SegmentStats struct {
	Segment   string `json:"segment"`
	SegmentID string `json:"segmentId"`
	Fetched   int    `json:"fetched"`
	DayErrors int    `json:"dayErrors"`
	SaveStats
}

// CrawlStats aggregates a crawl over every segment.
type CrawlStats struct {
	Fetched  int            `json:"fetched"`
	Segments []SegmentStats `json:"segments"`
	Duration time.Duration  `json:"-"`
	SaveStats
}
