package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type VerifierMock struct{ mock.Mock }

func (m *VerifierMock) Verify(hash string, plain string) error {
	args := m.Called(hash, plain)
	return args.Error(0)
}

type IssuerMock struct{ mock.Mock }

func (m *IssuerMock) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	args := m.Called(userID, role, now)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func TestAuthUsecase_Login_MissingFields(t *testing.T) {
	userRepo := new(UserRepoMock)
	verifier := new(VerifierMock)
	issuer := new(IssuerMock)

	uc := usecase.NewAuthUsecase(userRepo, verifier, issuer, &fixedClock{now: testNow})

	_, err := uc.Login(context.Background(), usecase.LoginInput{Email: "", Password: "x"})
	assertErrContains(t, err, "required")
}

func TestAuthUsecase_Login_UnknownEmail(t *testing.T) {
	userRepo := new(UserRepoMock)
	verifier := new(VerifierMock)
	issuer := new(IssuerMock)

	userRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(model.User{}, repo.ErrNotFound)

	uc := usecase.NewAuthUsecase(userRepo, verifier, issuer, &fixedClock{now: testNow})

	_, err := uc.Login(context.Background(), usecase.LoginInput{Email: "admin@example.com", Password: "pw"})
	assertErrContains(t, err, "invalid credentials")
}

func TestAuthUsecase_Login_InactiveUser(t *testing.T) {
	userRepo := new(UserRepoMock)
	verifier := new(VerifierMock)
	issuer := new(IssuerMock)

	userRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(model.User{
		ID: 1, Email: "admin@example.com", IsActive: false,
	}, nil)

	uc := usecase.NewAuthUsecase(userRepo, verifier, issuer, &fixedClock{now: testNow})

	_, err := uc.Login(context.Background(), usecase.LoginInput{Email: "admin@example.com", Password: "pw"})
	assertErrContains(t, err, "invalid credentials")
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	userRepo := new(UserRepoMock)
	verifier := new(VerifierMock)
	issuer := new(IssuerMock)

	userRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(model.User{
		ID: 1, Email: "admin@example.com", PasswordHash: "hash", IsActive: true,
	}, nil)
	verifier.On("Verify", "hash", "bad").Return(errors.New("mismatch"))

	uc := usecase.NewAuthUsecase(userRepo, verifier, issuer, &fixedClock{now: testNow})

	_, err := uc.Login(context.Background(), usecase.LoginInput{Email: "admin@example.com", Password: "bad"})
	assertErrContains(t, err, "invalid credentials")

	issuer.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

// メールは小文字に寄せて引く
func TestAuthUsecase_Login_Success_NormalizesEmail(t *testing.T) {
	userRepo := new(UserRepoMock)
	verifier := new(VerifierMock)
	issuer := new(IssuerMock)

	user := model.User{
		ID: 5, Email: "admin@example.com", PasswordHash: "hash",
		Role: model.RoleAdmin, IsActive: true,
	}
	userRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(user, nil)
	verifier.On("Verify", "hash", "pw").Return(nil)

	expiresAt := testNow.Add(15 * time.Minute)
	issuer.On("Issue", int64(5), model.RoleAdmin, testNow).Return("signed-token", expiresAt, nil)

	userRepo.On("UpdateLastLogin", mock.Anything, int64(5), testNow).Return(nil)

	uc := usecase.NewAuthUsecase(userRepo, verifier, issuer, &fixedClock{now: testNow})

	out, err := uc.Login(context.Background(), usecase.LoginInput{Email: "  Admin@Example.COM ", Password: "pw"})
	assert.NoError(t, err)
	assert.Equal(t, "signed-token", out.AccessToken)
	assert.Equal(t, expiresAt, out.ExpiresAt)

	userRepo.AssertExpectations(t)
	issuer.AssertExpectations(t)
}

// 実bcryptでの検証（ハッシュ形式が変わっても気づけるように1本だけ）
func TestBcryptPasswordVerifier_RoundTrip(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	assert.NoError(t, err)

	v := usecase.NewBcryptPasswordVerifier()
	assert.NoError(t, v.Verify(string(hash), "secret"))
	assert.Error(t, v.Verify(string(hash), "wrong"))
}
