package account_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"sortir/internal/account"
	"sortir/internal/account/mocks"
	"sortir/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type AuthServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	users     *mocks.MockUserRepository
	blacklist *mocks.MockTokenBlacklist
	hasher    *mocks.MockPasswordHasher
	signer    *mocks.MockTokenSigner

	service *account.AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.users = mocks.NewMockUserRepository(s.ctrl)
	s.blacklist = mocks.NewMockTokenBlacklist(s.ctrl)
	s.hasher = mocks.NewMockPasswordHasher(s.ctrl)
	s.signer = mocks.NewMockTokenSigner(s.ctrl)

	s.service = account.NewAuthService(s.users, s.blacklist, s.hasher, s.signer, testLogger())
}

func (s *AuthServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()

	s.hasher.EXPECT().Hash("Password1").Return("hashed", nil)
	s.users.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, u *domain.User) error {
		s.Equal("alice@example.com", u.Email)
		s.Equal("hashed", u.PasswordHash)
		s.Equal(domain.RoleUser, u.Role)
		s.NotEmpty(u.ID)
		return nil
	})

	user, err := s.service.Register(ctx, account.RegisterInput{
		Email:     "  Alice@Example.com ",
		Password:  "Password1",
		FirstName: "Alice",
		LastName:  "Martin",
	})

	s.Require().NoError(err)
	s.Equal("alice@example.com", user.Email)
}

func (s *AuthServiceTestSuite) TestRegister_ValidationFailure() {
	_, err := s.service.Register(context.Background(), account.RegisterInput{
		Email:    "not-an-email",
		Password: "short",
	})

	s.Require().Error(err)
	s.True(domain.IsCode(err, domain.CodeValidation))

	var ae *domain.AppError
	s.Require().ErrorAs(err, &ae)
	s.Contains(ae.Meta, "email")
	s.Contains(ae.Meta, "password")
	s.Contains(ae.Meta, "firstName")
}

func (s *AuthServiceTestSuite) TestRegister_DuplicateEmail() {
	ctx := context.Background()

	s.hasher.EXPECT().Hash(gomock.Any()).Return("hashed", nil)
	s.users.EXPECT().Create(ctx, gomock.Any()).Return(domain.ErrDuplicateKey)

	_, err := s.service.Register(ctx, account.RegisterInput{
		Email: "alice@example.com", Password: "Password1", FirstName: "A", LastName: "M",
	})

	s.True(domain.IsCode(err, domain.CodeConflict))
}

func (s *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	exp := time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC)
	user := &domain.User{ID: "u1", Email: "alice@example.com", PasswordHash: "hashed", Role: domain.RoleUser}

	s.users.EXPECT().GetByEmail(ctx, "alice@example.com").Return(user, nil)
	s.hasher.EXPECT().Compare("hashed", "Password1").Return(nil)
	s.signer.EXPECT().Sign("u1", domain.RoleUser).Return("jwt", exp, nil)

	session, err := s.service.Login(ctx, account.LoginInput{Email: "ALICE@example.com", Password: "Password1"})

	s.Require().NoError(err)
	s.Equal("jwt", session.Token)
	s.Equal(exp, session.ExpiresAt)
	s.Equal("u1", session.User.ID)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownEmailAndWrongPasswordLookAlike() {
	ctx := context.Background()

	s.users.EXPECT().GetByEmail(ctx, "ghost@example.com").Return(nil, domain.ErrNotFoundRecord)
	_, errUnknown := s.service.Login(ctx, account.LoginInput{Email: "ghost@example.com", Password: "x"})

	s.users.EXPECT().GetByEmail(ctx, "alice@example.com").Return(&domain.User{PasswordHash: "hashed"}, nil)
	s.hasher.EXPECT().Compare("hashed", "x").Return(errors.New("mismatch"))
	_, errWrong := s.service.Login(ctx, account.LoginInput{Email: "alice@example.com", Password: "x"})

	s.True(domain.IsCode(errUnknown, domain.CodeUnauthorized))
	s.Equal(errUnknown.Error(), errWrong.Error())
}

func (s *AuthServiceTestSuite) TestLogout_BlacklistsUntilExpiry() {
	ctx := context.Background()
	exp := time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC)

	s.signer.EXPECT().Verify("jwt").Return(account.Claims{UserID: "u1", ExpiresAt: exp}, nil)
	s.blacklist.EXPECT().Add(ctx, "jwt", exp).Return(nil)

	s.NoError(s.service.Logout(ctx, "jwt"))
}

func (s *AuthServiceTestSuite) TestAuthenticate_RevokedToken() {
	ctx := context.Background()

	s.signer.EXPECT().Verify("jwt").Return(account.Claims{UserID: "u1"}, nil)
	s.blacklist.EXPECT().IsBlacklisted(ctx, "jwt").Return(true, nil)

	_, err := s.service.Authenticate(ctx, "jwt")

	s.True(domain.IsCode(err, domain.CodeUnauthorized))
	s.Contains(err.Error(), "revoked")
}

func (s *AuthServiceTestSuite) TestAuthenticate_BlacklistFailure() {
	ctx := context.Background()

	s.signer.EXPECT().Verify("jwt").Return(account.Claims{UserID: "u1"}, nil)
	s.blacklist.EXPECT().IsBlacklisted(ctx, "jwt").Return(false, errors.New("db down"))

	_, err := s.service.Authenticate(ctx, "jwt")

	s.Require().Error(err)
	s.False(domain.IsCode(err, domain.CodeUnauthorized))
}

func (s *AuthServiceTestSuite) TestProfile_NotFound() {
	ctx := context.Background()
	s.users.EXPECT().GetByID(ctx, "u1").Return(nil, domain.ErrNotFoundRecord)

	_, err := s.service.Profile(ctx, "u1")

	s.True(domain.IsCode(err, domain.CodeNotFound))
}
