package ticketmaster

import "sortir/internal/classification"

// Enrich resolves the primary classification of every event through the
// catalog. Ids the catalog does not know become "undefined"; a missing segment
// is left empty so that normalization can apply the synchronization fallback.
func Enrich(events []Event) []EnrichedEvent {
	out := make([]EnrichedEvent, 0, len(events))
	for _, e := range events {
		enriched := EnrichedEvent{Event: e}

		if c := primaryClassification(e.Classifications); c != nil {
			if c.Segment != nil && c.Segment.ID != "" {
				enriched.SegmentName = classification.NameOrUndefined(c.Segment.ID)
			}
			if c.Genre != nil && c.Genre.ID != "" {
				enriched.GenreName = classification.NameOrUndefined(c.Genre.ID)
			}
			if c.SubGenre != nil && c.SubGenre.ID != "" {
				enriched.SubGenreName = classification.NameOrUndefined(c.SubGenre.ID)
			}
		}

		out = append(out, enriched)
	}
	return out
}

func primaryClassification(cs []Classification) *Classification {
	for i := range cs {
		if cs[i].Primary {
			return &cs[i]
		}
	}
	if len(cs) > 0 {
		return &cs[0]
	}
	return nil
}
