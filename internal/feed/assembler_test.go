package feed

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"sortir/internal/classification"
	"sortir/internal/domain"
	"sortir/internal/feed/mocks"
)

type AssemblerTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	events *mocks.MockEventReader
	prefs  *mocks.MockPreferenceReader

	assembler *Assembler
}

func (s *AssemblerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.events = mocks.NewMockEventReader(s.ctrl)
	s.prefs = mocks.NewMockPreferenceReader(s.ctrl)

	paris, err := time.LoadLocation("Europe/Paris")
	s.Require().NoError(err)
	now := time.Date(2025, 8, 11, 14, 30, 45, 0, paris)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.assembler = NewAssembler(s.events, s.prefs, paris, logger).
		WithClock(func() time.Time { return now })
}

func (s *AssemblerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAssemblerTestSuite(t *testing.T) {
	suite.Run(t, new(AssemblerTestSuite))
}

func upcomingQuery() domain.EventQuery {
	return domain.EventQuery{Today: "2025-08-11", FromTime: "14:30:00", Sort: domain.SortChronological}
}

func events(ids ...string) []domain.Event {
	out := make([]domain.Event, len(ids))
	for i, id := range ids {
		out[i] = domain.Event{ExternalID: id}
	}
	return out
}

func prefs(names ...string) []domain.Preference {
	out := make([]domain.Preference, len(names))
	for i, n := range names {
		out[i] = domain.Preference{ClassificationName: n}
	}
	return out
}

func (s *AssemblerTestSuite) TestPersonalized_NoPreferencesFallsBackToAll() {
	ctx := context.Background()
	page := Page{Number: 1, Limit: 10}

	q := upcomingQuery()
	paged := q
	paged.Limit = 10

	s.prefs.EXPECT().ListByUser(ctx, "u1").Return(prefs(), nil)
	s.events.EXPECT().Count(ctx, q).Return(int64(2), nil)
	s.events.EXPECT().Find(ctx, paged).Return(events("a", "b"), nil)

	res, err := s.assembler.Personalized(ctx, "u1", page)

	s.Require().NoError(err)
	s.Equal(ReasonNoPreferences, res.Reason)
	s.Len(res.Events, 2)
	s.Equal(int64(2), res.Pagination.Total)
}

func (s *AssemblerTestSuite) TestPersonalized_NoMatchingGenres() {
	ctx := context.Background()

	q := upcomingQuery()
	q.Genres = []string{"Rock", "Jazz"}

	s.prefs.EXPECT().ListByUser(ctx, "u1").Return(prefs("Rock", "Jazz"), nil)
	s.events.EXPECT().Count(ctx, q).Return(int64(0), nil)

	res, err := s.assembler.Personalized(ctx, "u1", Page{Number: 1, Limit: 10})

	s.Require().NoError(err)
	s.Equal(ReasonNoMatchingGenres, res.Reason)
	s.Empty(res.Events)
	s.Equal(int64(0), res.Pagination.Total)
	s.Equal(0, res.Pagination.TotalPages)
}

func (s *AssemblerTestSuite) TestPersonalized_PagesThroughMatches() {
	ctx := context.Background()

	q := upcomingQuery()
	q.Genres = []string{"Rock"}
	paged := q
	paged.Skip = 20
	paged.Limit = 10

	s.prefs.EXPECT().ListByUser(ctx, "u1").Return(prefs("Rock"), nil)
	s.events.EXPECT().Count(ctx, q).Return(int64(25), nil)
	s.events.EXPECT().Find(ctx, paged).Return(events("x", "y", "z", "v", "w"), nil)

	res, err := s.assembler.Personalized(ctx, "u1", Page{Number: 3, Limit: 10})

	s.Require().NoError(err)
	s.Empty(res.Reason)
	s.Len(res.Events, 5)
	s.Equal(3, res.Pagination.TotalPages)
	s.False(res.Pagination.HasNext)
	s.True(res.Pagination.HasPrev)
}

func (s *AssemblerTestSuite) TestPersonalized_PageBeyondTotalSkipsFind() {
	ctx := context.Background()

	s.prefs.EXPECT().ListByUser(ctx, "u1").Return(prefs("Rock"), nil)
	s.events.EXPECT().Count(ctx, gomock.Any()).Return(int64(5), nil)

	res, err := s.assembler.Personalized(ctx, "u1", Page{Number: 2, Limit: 10})

	s.Require().NoError(err)
	s.Empty(res.Events)
	s.NotNil(res.Events)
}

func (s *AssemblerTestSuite) TestDiscovery_ExcludesPreferredGenres() {
	ctx := context.Background()

	q := upcomingQuery()
	q.ExcludeGenres = []string{"Rock"}
	paged := q
	paged.Limit = 20

	s.prefs.EXPECT().ListByUser(ctx, "u1").Return(prefs("Rock"), nil)
	s.events.EXPECT().Count(ctx, q).Return(int64(1), nil)
	s.events.EXPECT().Find(ctx, paged).Return(events("jazz-night"), nil)

	res, err := s.assembler.Discovery(ctx, "u1", Page{Number: 1, Limit: 20})

	s.Require().NoError(err)
	s.Len(res.Events, 1)
	s.Empty(res.Reason)
}

func (s *AssemblerTestSuite) TestAll_MergesFilters() {
	ctx := context.Background()

	q := upcomingQuery()
	q.Segments = []string{"Sports", "Musique"}
	q.Genres = []string{"Rugby"}
	paged := q
	paged.Limit = 10

	s.events.EXPECT().Count(ctx, q).Return(int64(1), nil)
	s.events.EXPECT().Find(ctx, paged).Return(events("match"), nil)

	res, err := s.assembler.All(ctx, Filter{
		Segment:  "Sports",
		Segments: []string{"Musique", "Sports"},
		Genres:   []string{"Rugby"},
	}, Page{Number: 1, Limit: 10})

	s.Require().NoError(err)
	s.Len(res.Events, 1)
}

func (s *AssemblerTestSuite) TestPreferenceFailurePropagates() {
	ctx := context.Background()
	s.prefs.EXPECT().ListByUser(ctx, "u1").Return(nil, errors.New("db down"))

	_, err := s.assembler.Personalized(ctx, "u1", Page{Number: 1, Limit: 10})

	s.ErrorContains(err, "db down")
}

func (s *AssemblerTestSuite) TestPublicRandom_BalancesSegments() {
	ctx := context.Background()
	page := Page{Number: 2, Limit: 31}

	segmentQuery := func(name string, quota int64) (domain.EventQuery, domain.EventQuery) {
		q := upcomingQuery()
		q.Segments = []string{name}
		paged := q
		paged.Sort = domain.SortRecentlySynced
		paged.Skip = quota
		paged.Limit = quota
		return q, paged
	}

	musicQ, musicPaged := segmentQuery(classification.SegmentMusic, 11)
	sportsQ, sportsPaged := segmentQuery(classification.SegmentSports, 10)
	artsQ, _ := segmentQuery(classification.SegmentArts, 10)

	// arts holds 5 events, all on page 1, so it is not queried for page 2
	gomock.InOrder(
		s.events.EXPECT().Count(ctx, musicQ).Return(int64(100), nil),
		s.events.EXPECT().Find(ctx, musicPaged).Return(events("m1", "m2"), nil),
		s.events.EXPECT().Count(ctx, sportsQ).Return(int64(50), nil),
		s.events.EXPECT().Find(ctx, sportsPaged).Return(events("s1"), nil),
		s.events.EXPECT().Count(ctx, artsQ).Return(int64(5), nil),
	)

	s.assembler.WithRandom(func(n int) int { return n - 1 })
	res, err := s.assembler.PublicRandom(ctx, page)

	s.Require().NoError(err)
	s.Equal(int64(155), res.Pagination.Total)
	s.Equal(10, res.Pagination.TotalPages, "music needs ceil(100/11) pages")
	s.True(res.Pagination.HasNext)
	s.Equal([]string{"m1", "m2", "s1"}, ids(res.Events))
}

func (s *AssemblerTestSuite) TestPublicRandom_LastPageReachesLargestSegment() {
	ctx := context.Background()
	page := Page{Number: 10, Limit: 31}

	musicQ := upcomingQuery()
	musicQ.Segments = []string{classification.SegmentMusic}
	musicPaged := musicQ
	musicPaged.Sort = domain.SortRecentlySynced
	musicPaged.Skip = 99
	musicPaged.Limit = 11

	gomock.InOrder(
		s.events.EXPECT().Count(ctx, musicQ).Return(int64(100), nil),
		s.events.EXPECT().Find(ctx, musicPaged).Return(events("m100"), nil),
		s.events.EXPECT().Count(ctx, gomock.Any()).Return(int64(50), nil),
		s.events.EXPECT().Count(ctx, gomock.Any()).Return(int64(5), nil),
	)

	res, err := s.assembler.PublicRandom(ctx, page)

	s.Require().NoError(err)
	s.Equal([]string{"m100"}, ids(res.Events))
	s.Equal(10, res.Pagination.TotalPages)
	s.False(res.Pagination.HasNext)
	s.True(res.Pagination.HasPrev)
}

func (s *AssemblerTestSuite) TestPublicRandom_EmptyStore() {
	ctx := context.Background()

	s.events.EXPECT().Count(ctx, gomock.Any()).Return(int64(0), nil).Times(3)

	res, err := s.assembler.PublicRandom(ctx, Page{Number: 1, Limit: 20})

	s.Require().NoError(err)
	s.Empty(res.Events)
	s.NotNil(res.Events)
	s.Equal(0, res.Pagination.TotalPages)
	s.False(res.Pagination.HasNext)
}

func (s *AssemblerTestSuite) TestPublicRandom_TruncatesToLimit() {
	ctx := context.Background()

	s.events.EXPECT().Count(ctx, gomock.Any()).Return(int64(10), nil).Times(3)
	s.events.EXPECT().Find(ctx, gomock.Any()).Return(events("a", "b", "c"), nil).Times(2)

	res, err := s.assembler.PublicRandom(ctx, Page{Number: 1, Limit: 2})

	s.Require().NoError(err)
	s.Len(res.Events, 2)
}

func ids(evs []domain.Event) []string {
	out := make([]string, len(evs))
	for i, e := range evs {
		out[i] = e.ExternalID
	}
	return out
}
