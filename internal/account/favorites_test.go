package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"sortir/internal/account"
	"sortir/internal/account/mocks"
	"sortir/internal/domain"
)

type FavoriteServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	favorites *mocks.MockFavoriteRepository
	events    *mocks.MockEventLookup

	service *account.FavoriteService
}

func (s *FavoriteServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.favorites = mocks.NewMockFavoriteRepository(s.ctrl)
	s.events = mocks.NewMockEventLookup(s.ctrl)
	s.service = account.NewFavoriteService(s.favorites, s.events, testLogger())
}

func (s *FavoriteServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestFavoriteServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FavoriteServiceTestSuite))
}

func (s *FavoriteServiceTestSuite) TestAdd_UnknownEvent() {
	ctx := context.Background()
	s.events.EXPECT().FindByExternalID(ctx, "ev-1").Return(nil, domain.ErrNotFoundRecord)

	_, err := s.service.Add(ctx, "u1", "ev-1")

	s.True(domain.IsCode(err, domain.CodeNotFound))
}

func (s *FavoriteServiceTestSuite) TestAdd_Idempotent() {
	ctx := context.Background()
	s.events.EXPECT().FindByExternalID(ctx, "ev-1").Return(&domain.Event{ExternalID: "ev-1"}, nil).Times(2)
	gomock.InOrder(
		s.favorites.EXPECT().Add(ctx, "u1", "ev-1").Return(true, nil),
		s.favorites.EXPECT().Add(ctx, "u1", "ev-1").Return(false, nil),
	)

	created, err := s.service.Add(ctx, "u1", "ev-1")
	s.Require().NoError(err)
	s.True(created)

	created, err = s.service.Add(ctx, "u1", "ev-1")
	s.Require().NoError(err)
	s.False(created)
}

func (s *FavoriteServiceTestSuite) TestAdd_BlankID() {
	_, err := s.service.Add(context.Background(), "u1", "  ")
	s.True(domain.IsCode(err, domain.CodeValidation))
}

func (s *FavoriteServiceTestSuite) TestRemove_Missing() {
	ctx := context.Background()
	s.favorites.EXPECT().Remove(ctx, "u1", "ev-1").Return(domain.ErrNotFoundRecord)

	err := s.service.Remove(ctx, "u1", "ev-1")

	s.True(domain.IsCode(err, domain.CodeNotFound))
}

func (s *FavoriteServiceTestSuite) TestList_JoinsEventsKeepingOrder() {
	ctx := context.Background()
	t1 := time.Date(2025, 8, 11, 10, 0, 0, 0, time.UTC)
	t0 := t1.Add(-time.Hour)

	s.favorites.EXPECT().ListByUser(ctx, "u1").Return([]domain.Favorite{
		{UserID: "u1", EventExternalID: "ev-2", CreatedAt: t1},
		{UserID: "u1", EventExternalID: "gone", CreatedAt: t0},
	}, nil)
	s.events.EXPECT().FindByExternalIDs(ctx, []string{"ev-2", "gone"}).
		Return([]domain.Event{{ExternalID: "ev-2", Name: "Concert"}}, nil)

	views, err := s.service.List(ctx, "u1")

	s.Require().NoError(err)
	s.Require().Len(views, 2)
	s.Equal("ev-2", views[0].ExternalID)
	s.Require().NotNil(views[0].Event)
	s.Equal("Concert", views[0].Event.Name)
	s.Equal("gone", views[1].ExternalID)
	s.Nil(views[1].Event)
}

func (s *FavoriteServiceTestSuite) TestList_Empty() {
	ctx := context.Background()
	s.favorites.EXPECT().ListByUser(ctx, "u1").Return([]domain.Favorite{}, nil)

	views, err := s.service.List(ctx, "u1")

	s.Require().NoError(err)
	s.NotNil(views)
	s.Empty(views)
}
