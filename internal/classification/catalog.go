// Package classification maps Ticketmaster taxonomy identifiers to the French
// display names used across the application, and back.
package classification

import "strings"

type Kind string

const (
	KindSegment Kind = "segment"
	KindGenre   Kind = "genre"
)

type Classification struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Segment string `json:"segment,omitempty"`
}

const (
	SegmentMusicID  = "KZFzniwnSyZfZ7v7nJ"
	SegmentSportsID = "KZFzniwnSyZfZ7v7nE"
	SegmentArtsID   = "KZFzniwnSyZfZ7v7na"

	SegmentMusic  = "Musique"
	SegmentSports = "Sports"
	SegmentArts   = "Arts & Théâtre"
)

var segments = []Classification{
	{ID: SegmentMusicID, Name: SegmentMusic, Kind: KindSegment},
	{ID: SegmentSportsID, Name: SegmentSports, Kind: KindSegment},
	{ID: SegmentArtsID, Name: SegmentArts, Kind: KindSegment},
}

var sportsGenres = []Classification{
	{ID: "KZazBEonSMnZfZ7vFJA", Name: "Football", Kind: KindGenre, Segment: SegmentSports},
	{ID: "KnvZfZ7vAde", Name: "Basketball", Kind: KindGenre, Segment: SegmentSports},
	{ID: "KnvZfZ7vAdt", Name: "Rugby", Kind: KindGenre, Segment: SegmentSports},
	{ID: "KnvZfZ7vAAn", Name: "Tennis", Kind: KindGenre, Segment: SegmentSports},
	{ID: "KnvZfZ7vAdI", Name: "Hockey", Kind: KindGenre, Segment: SegmentSports},
	{ID: "KnvZfZ7vAdv", Name: "Baseball", Kind: KindGenre, Segment: SegmentSports},
	{ID: "KnvZfZ7vAdA", Name: "Boxe", Kind: KindGenre, Segment: SegmentSports},
	{ID: "KnvZfZ7vAdl", Name: "Golf", Kind: KindGenre, Segment: SegmentSports},
	{ID: "KnvZfZ7vAd7", Name: "Sports mécaniques", Kind: KindGenre, Segment: SegmentSports},
	{ID: "KnvZfZ7vAAI", Name: "Volley-ball", Kind: KindGenre, Segment: SegmentSports},
	{ID: "KnvZfZ7vAAd", Name: "Handball", Kind: KindGenre, Segment: SegmentSports},
	{ID: "KZazBEonSMnZfZ7vktt", Name: "Arts martiaux", Kind: KindGenre, Segment: SegmentSports},
	{ID: "KnvZfZ7vAJ7", Name: "Catch", Kind: KindGenre, Segment: SegmentSports},
	{ID: "KnvZfZ7vAAk", Name: "Cyclisme", Kind: KindGenre, Segment: SegmentSports},
	{ID: "KnvZfZ7vA1n", Name: "Multisports", Kind: KindGenre, Segment: SegmentSports},
}

var musicGenres = []Classification{
	{ID: "KnvZfZ7vAeA", Name: "Rock", Kind: KindGenre, Segment: SegmentMusic},
	{ID: "KnvZfZ7vAev", Name: "Pop", Kind: KindGenre, Segment: SegmentMusic},
	{ID: "KnvZfZ7vAv1", Name: "Hip-Hop/Rap", Kind: KindGenre, Segment: SegmentMusic},
	{ID: "KnvZfZ7vAvE", Name: "Jazz", Kind: KindGenre, Segment: SegmentMusic},
	{ID: "KnvZfZ7v7nJ", Name: "Classique", Kind: KindGenre, Segment: SegmentMusic},
	{ID: "KnvZfZ7vAv6", Name: "Country", Kind: KindGenre, Segment: SegmentMusic},
	{ID: "KnvZfZ7vAvF", Name: "Électro", Kind: KindGenre, Segment: SegmentMusic},
	{ID: "KnvZfZ7vAee", Name: "R&B", Kind: KindGenre, Segment: SegmentMusic},
	{ID: "KnvZfZ7vAvt", Name: "Metal", Kind: KindGenre, Segment: SegmentMusic},
	{ID: "KnvZfZ7vAvv", Name: "Alternatif", Kind: KindGenre, Segment: SegmentMusic},
	{ID: "KnvZfZ7vAvd", Name: "Blues", Kind: KindGenre, Segment: SegmentMusic},
	{ID: "KnvZfZ7vAva", Name: "Folk", Kind: KindGenre, Segment: SegmentMusic},
	{ID: "KnvZfZ7vAed", Name: "Reggae", Kind: KindGenre, Segment: SegmentMusic},
	{ID: "KnvZfZ7vAeF", Name: "Musiques du monde", Kind: KindGenre, Segment: SegmentMusic},
	{ID: "KnvZfZ7vAJ6", Name: "Latino", Kind: KindGenre, Segment: SegmentMusic},
	{ID: "KnvZfZ7vAe6", Name: "Chanson française", Kind: KindGenre, Segment: SegmentMusic},
	{ID: "KnvZfZ7vAvl", Name: "Autre", Kind: KindGenre, Segment: SegmentMusic},
}

var artsGenres = []Classification{
	{ID: "KnvZfZ7v7l1", Name: "Théâtre", Kind: KindGenre, Segment: SegmentArts},
	{ID: "KnvZfZ7vAe1", Name: "Humour", Kind: KindGenre, Segment: SegmentArts},
	{ID: "KnvZfZ7v7nI", Name: "Danse", Kind: KindGenre, Segment: SegmentArts},
	{ID: "KnvZfZ7v7lJ", Name: "Opéra", Kind: KindGenre, Segment: SegmentArts},
	{ID: "KnvZfZ7v7n1", Name: "Cirque", Kind: KindGenre, Segment: SegmentArts},
	{ID: "KnvZfZ7v7lv", Name: "Multimédia", Kind: KindGenre, Segment: SegmentArts},
	{ID: "KnvZfZ7v7na", Name: "Spectacle jeunesse", Kind: KindGenre, Segment: SegmentArts},
	{ID: "KnvZfZ7v7nE", Name: "Beaux-arts", Kind: KindGenre, Segment: SegmentArts},
	{ID: "KnvZfZ7v7ll", Name: "Grand spectacle", Kind: KindGenre, Segment: SegmentArts},
	{ID: "KnvZfZ7v7nl", Name: "Performance", Kind: KindGenre, Segment: SegmentArts},
	{ID: "KnvZfZ7v7l7", Name: "Marionnettes", Kind: KindGenre, Segment: SegmentArts},
	{ID: "KnvZfZ7v7lI", Name: "Variétés", Kind: KindGenre, Segment: SegmentArts},
	{ID: "KnvZfZ7v7lk", Name: "Magie", Kind: KindGenre, Segment: SegmentArts},
}

// All returns the segments followed by the sports, music and arts genres.
// The returned slice is a fresh copy.
func All() []Classification {
	out := make([]Classification, 0, len(segments)+len(sportsGenres)+len(musicGenres)+len(artsGenres))
	out = append(out, segments...)
	out = append(out, sportsGenres...)
	out = append(out, musicGenres...)
	out = append(out, artsGenres...)
	return out
}

// ResolveName returns the display name of a taxonomy id.
func ResolveName(id string) (string, bool) {
	if id == "" {
		return "", false
	}
	for _, c := range All() {
		if c.ID == id {
			return c.Name, true
		}
	}
	return "", false
}

// ResolveID returns the taxonomy id of a display name. Matching ignores case.
func ResolveID(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	for _, c := range All() {
		if strings.EqualFold(c.Name, name) {
			return c.ID, true
		}
	}
	return "", false
}

// NameOrUndefined resolves id and degrades to the "undefined" marker.
func NameOrUndefined(id string) string {
	if name, ok := ResolveName(id); ok {
		return name
	}
	return "undefined"
}

// Segment describes one of the three crawled top-level buckets.
type Segment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Segments returns the crawled segments in crawl order.
func Segments() []Segment {
	return []Segment{
		{ID: SegmentMusicID, Name: SegmentMusic},
		{ID: SegmentSportsID, Name: SegmentSports},
		{ID: SegmentArtsID, Name: SegmentArts},
	}
}
