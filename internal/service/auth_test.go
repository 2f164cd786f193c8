package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/challenger-asso/challenger-api/internal/domain"
	"github.com/challenger-asso/challenger-api/internal/repository"
	"github.com/challenger-asso/challenger-api/internal/service"
)

type fakeAuthRepo struct {
	byEmail map[string]domain.User
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{byEmail: make(map[string]domain.User)}
}

func (f *fakeAuthRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := f.byEmail[user.Email]; ok {
		return domain.User{}, repository.ErrUserEmailExists
	}
	user.ID = uint(len(f.byEmail) + 1)
	f.byEmail[user.Email] = user

	return user, nil
}

func (f *fakeAuthRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func TestSignup_HashesPasswordAndDefaultsRole(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := service.NewAuthService(repo)

	created, err := svc.Signup(context.Background(), domain.User{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})

	require.NoError(t, err)
	assert.Equal(t, "participant", created.Role)
	assert.NotEqual(t, "s3cret-pass", created.Password, "the password must never be stored in clear")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("s3cret-pass")))
}

func TestSignup_DuplicateEmail(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := service.NewAuthService(repo)

	_, err := svc.Signup(context.Background(), domain.User{Email: "a@b.fr", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), domain.User{Email: "a@b.fr", Password: "password1"})
	assert.ErrorIs(t, err, service.ErrUserEmailExists)
}

func TestLogin(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := service.NewAuthService(repo)

	_, err := svc.Signup(context.Background(), domain.User{Email: "a@b.fr", Password: "password1"})
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), "a@b.fr", "password1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.fr", user.Email)

	_, err = svc.Login(context.Background(), "a@b.fr", "wrong")
	assert.ErrorIs(t, err, service.ErrWrongPassword)

	_, err = svc.Login(context.Background(), "nobody@b.fr", "password1")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
