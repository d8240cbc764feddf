package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"sortir/internal/account"
	"sortir/internal/account/mocks"
	"sortir/internal/domain"
)

type PreferenceServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	prefs *mocks.MockPreferenceRepository
	tx    *mocks.MockTransactionManager

	service *account.PreferenceService
}

func (s *PreferenceServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.prefs = mocks.NewMockPreferenceRepository(s.ctrl)
	s.tx = mocks.NewMockTransactionManager(s.ctrl)

	s.tx.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).AnyTimes()

	s.service = account.NewPreferenceService(s.prefs, s.tx, testLogger())
}

func (s *PreferenceServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestPreferenceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PreferenceServiceTestSuite))
}

func (s *PreferenceServiceTestSuite) TestReplace_DeletesThenInserts() {
	ctx := context.Background()

	gomock.InOrder(
		s.prefs.EXPECT().DeleteByUser(gomock.Any(), "u1").Return(nil),
		s.prefs.EXPECT().InsertBatch(gomock.Any(), []domain.Preference{
			{UserID: "u1", ClassificationID: "KnvZfZ7vAeA", ClassificationName: "Rock"},
			{UserID: "u1", ClassificationID: "KnvZfZ7vAvE", ClassificationName: "Jazz"},
		}).Return(nil),
	)

	prefs, err := s.service.Replace(ctx, "u1", account.PreferencesInput{
		Classifications: []string{"rock", "Jazz", "ROCK"},
	})

	s.Require().NoError(err)
	s.Len(prefs, 2)
}

func (s *PreferenceServiceTestSuite) TestReplace_UnknownNameRejected() {
	_, err := s.service.Replace(context.Background(), "u1", account.PreferencesInput{
		Classifications: []string{"Rock", "Polka"},
	})

	s.Require().Error(err)
	s.True(domain.IsCode(err, domain.CodeValidation))

	var ae *domain.AppError
	s.Require().ErrorAs(err, &ae)
	s.Equal("Polka", ae.Meta["classification"])
}

func (s *PreferenceServiceTestSuite) TestReplace_EmptyClearsPreferences() {
	s.prefs.EXPECT().DeleteByUser(gomock.Any(), "u1").Return(nil)

	prefs, err := s.service.Replace(context.Background(), "u1", account.PreferencesInput{})

	s.Require().NoError(err)
	s.Empty(prefs)
}

func (s *PreferenceServiceTestSuite) TestReplace_InsertFailureAborts() {
	s.prefs.EXPECT().DeleteByUser(gomock.Any(), "u1").Return(nil)
	s.prefs.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).Return(errors.New("constraint"))

	_, err := s.service.Replace(context.Background(), "u1", account.PreferencesInput{
		Classifications: []string{"Rock"},
	})

	s.ErrorContains(err, "insert preferences")
}
