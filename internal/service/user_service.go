package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"userhub/internal/auth"
	"userhub/internal/cache"
	apperrors "userhub/internal/errors"
	"userhub/internal/model"
	"userhub/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// ImageRemover releases stored image files by reference.
type ImageRemover interface {
	Delete(ref string) error
}

// RegisterInput carries the fields accepted when creating a user. Role is
// honoured only when it names a known role; callers gate who may set it.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Image    *string
	Role     string
}

// UserPatch is a presence-aware partial update: nil fields are left
// untouched, set fields replace the stored value.
type UserPatch struct {
	Email    *string
	Password *string
	FullName *string
	Image    *string
	Role     *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Email == nil && p.Password == nil && p.FullName == nil &&
		p.Image == nil && p.Role == nil
}

// UserService exposes account lifecycle operations.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context, opts repository.ListOptions) ([]model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, patch UserPatch) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo   repository.UserRepository
	jwt    *auth.JWTService
	cache  *cache.Client
	images ImageRemover
}

// NewUserService wires the account service with its collaborators.
func NewUserService(repo repository.UserRepository, jwt *auth.JWTService, cache *cache.Client, images ImageRemover) UserService {
	return &userService{repo: repo, jwt: jwt, cache: cache, images: images}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

// Register creates a new account with a hashed password. The email pre-check
// gives a clean error in the common case; the unique index closes the race.
func (s *userService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	existing, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil && err != apperrors.ErrUserNotFound {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrEmailTaken
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := model.RoleUser
	if input.Role != "" {
		if !model.ValidRole(input.Role) {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, input.Role)
		}
		role = input.Role
	}

	user := &model.User{
		Email:        input.Email,
		PasswordHash: hashed,
		FullName:     input.FullName,
		Image:        input.Image,
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates by email and password and issues a bearer token.
// An unknown email reports NotFound, a wrong password InvalidCredentials.
func (s *userService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwt.IssueToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, user, nil
}

// GetUser reads through the cache. Cached copies never include the password
// hash, which read paths have no use for.
func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, opts repository.ListOptions) ([]model.User, error) {
	if opts.Size > 100 {
		opts.Size = 100
	}
	return s.repo.List(ctx, opts)
}

// UpdateUser applies a partial update. An empty patch returns the current
// record unchanged. A replaced image file is released after the row is saved.
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, patch UserPatch) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Empty() {
		return user, nil
	}

	if patch.Email != nil && *patch.Email != user.Email {
		taken, err := s.repo.EmailTaken(ctx, *patch.Email, id)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, apperrors.ErrEmailTaken
		}
		user.Email = *patch.Email
	}

	if patch.Password != nil {
		hashed, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}

	if patch.Role != nil {
		if !model.ValidRole(*patch.Role) {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, *patch.Role)
		}
		user.Role = *patch.Role
	}

	var oldImage string
	if patch.Image != nil {
		if user.Image != nil {
			oldImage = *user.Image
		}
		user.Image = patch.Image
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if oldImage != "" {
		_ = s.images.Delete(oldImage)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	return user, nil
}

// DeleteUser removes the record permanently and releases its image file.
func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if user.Image != nil {
		_ = s.images.Delete(*user.Image)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	return nil
}
