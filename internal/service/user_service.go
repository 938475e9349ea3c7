package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/auth"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/mapper"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// User service errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrCannotDeleteSelf   = errors.New("you cannot delete your own account")
	ErrRoleChangeDenied   = errors.New("only admins can change role or active status")
)

// TokenIssuer signs access tokens for authenticated users
type TokenIssuer interface {
	Issue(user *domain.User) (string, time.Time, error)
}

// UserService manages staff accounts and logins
type UserService struct {
	userRepo *repository.UserRepository
	tokens   TokenIssuer
	logger   *zap.Logger
}

func NewUserService(userRepo *repository.UserRepository, tokens TokenIssuer, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, tokens: tokens, logger: logger}
}

// Login checks the password and issues a token. Unknown, inactive and wrong-password
// attempts all return ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Info("rejected login", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	now := time.Now().UTC()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to record last login", zap.String("userID", user.ID.String()), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}

	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		User:      mapper.ToUserDTO(user),
	}, nil
}

// Me returns the calling user
func (s *UserService) Me(ctx context.Context) (*domain.UserDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	if userCtx.IsSystem {
		return &domain.UserDTO{
			Email:     userCtx.Email,
			FirstName: userCtx.DisplayName,
			Role:      userCtx.Role,
			IsActive:  true,
		}, nil
	}
	return s.getDTO(ctx, userCtx.UserID)
}

func (s *UserService) get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) getDTO(ctx context.Context, id uuid.UUID) (*domain.UserDTO, error) {
	user, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// GetByID returns a user to an admin or to the user themselves
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	if !userCtx.CanAccessUser(id) {
		return nil, ErrPermissionDenied
	}
	return s.getDTO(ctx, id)
}

// List returns all users to admins. Everyone else only sees their own account.
func (s *UserService) List(ctx context.Context, page, pageSize int, search string, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	page, pageSize = repository.NormalizePage(page, pageSize)

	if !userCtx.IsAdmin() {
		self, err := s.getDTO(ctx, userCtx.UserID)
		if err != nil {
			return nil, err
		}
		return domain.NewPaginatedResponse([]domain.UserDTO{*self}, 1, 1, pageSize), nil
	}

	users, total, err := s.userRepo.List(ctx, page, pageSize, search, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	dtos := make([]domain.UserDTO, len(users))
	for i := range users {
		dtos[i] = mapper.ToUserDTO(&users[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}

// Create adds a staff account with a bcrypt password hash
func (s *UserService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		IsActive:     true,
		Phone:        req.Phone,
		Department:   req.Department,
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created",
		zap.String("userID", user.ID.String()),
		zap.String("role", string(user.Role)))

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Update edits a user. Non-admins may edit only themselves and never their role or active flag.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateUserRequest) (*domain.UserDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	if !userCtx.CanAccessUser(id) {
		return nil, ErrPermissionDenied
	}

	user, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !userCtx.IsAdmin() {
		if req.Role != nil && *req.Role != user.Role {
			return nil, ErrRoleChangeDenied
		}
		if req.IsActive != nil && *req.IsActive != user.IsActive {
			return nil, ErrRoleChangeDenied
		}
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = req.Phone
	user.Department = req.Department
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Delete removes a user. Admins cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUserContextRequired
	}
	if !userCtx.IsAdmin() {
		return ErrPermissionDenied
	}
	if userCtx.UserID == id {
		return ErrCannotDeleteSelf
	}

	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("user deleted", zap.String("userID", id.String()), zap.String("by", userCtx.Email))
	return nil
}

// CreateAdmin bootstraps an admin account from the CLI
func (s *UserService) CreateAdmin(ctx context.Context, email, password, firstName, lastName string) (*domain.UserDTO, error) {
	return s.Create(ctx, &domain.CreateUserRequest{
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		Role:      domain.RoleAdmin,
	})
}
