package service

import (
	"context"
	"testing"

	"github.com/solanoize/optika-api/internal/dto"
	"github.com/solanoize/optika-api/internal/model"
	"github.com/solanoize/optika-api/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	users map[string]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.Username] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := r.users[username]
	if !ok || !u.Active {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func seedUser(repo *stubUserRepo, username, password, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Name:         username,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	repo.users[username] = u
	return u
}

func TestLogin_Success(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "alice", "s3cret-pass", "staff")
	svc := NewAuthService(repo, "test-secret", 8)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "alice", Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "staff", resp.User.Role)
}

func TestLogin_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "alice", "s3cret-pass", "staff")
	svc := NewAuthService(repo, "test-secret", 8)

	_, errWrongPass := svc.Login(context.Background(), dto.LoginRequest{
		Username: "alice", Password: "nope",
	})
	_, errNoUser := svc.Login(context.Background(), dto.LoginRequest{
		Username: "mallory", Password: "nope",
	})

	// Both failure modes return the same error, leaking nothing
	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(repo, "alice", "s3cret-pass", "staff")
	u.Active = false
	svc := NewAuthService(repo, "test-secret", 8)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "alice", Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "alice", "s3cret-pass", "staff")
	svc := NewAuthService(repo, "test-secret", 8)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "alice", Name: "Alice", Password: "another-pass", Role: "staff",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}
