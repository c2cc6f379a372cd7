package identity

import (
	"context"
	"time"

	"github.com/epicoop/backend/internal/domain/identity"
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles member account management
type UserService struct {
	userRepo identity.UserRepository
	roleRepo identity.RoleRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// CreateUserInput contains input for creating a user
type CreateUserInput struct {
	Username     string      `json:"username" binding:"required,min=3,max=100"`
	Password     string      `json:"password" binding:"required,min=8"`
	Email        string      `json:"email" binding:"omitempty,email"`
	Phone        string      `json:"phone"`
	DisplayName  string      `json:"display_name"`
	MemberNumber string      `json:"member_number"`
	RoleIDs      []uuid.UUID `json:"role_ids"`
	Active       bool        `json:"active"`
}

// UpdateUserInput contains input for updating a user
type UpdateUserInput struct {
	ID           uuid.UUID `json:"-"`
	Email        *string   `json:"email" binding:"omitempty,email"`
	Phone        *string   `json:"phone"`
	DisplayName  *string   `json:"display_name"`
	MemberNumber *string   `json:"member_number"`
	Notes        *string   `json:"notes"`
}

// UserDTO is the user representation returned to callers
type UserDTO struct {
	ID             uuid.UUID   `json:"id"`
	Username       string      `json:"username"`
	Email          string      `json:"email,omitempty"`
	Phone          string      `json:"phone,omitempty"`
	DisplayName    string      `json:"display_name,omitempty"`
	MemberNumber   string      `json:"member_number,omitempty"`
	Status         string      `json:"status"`
	RoleIDs        []uuid.UUID `json:"role_ids"`
	LastLoginAt    *time.Time  `json:"last_login_at,omitempty"`
	FailedAttempts int         `json:"failed_attempts"`
	Notes          string      `json:"notes,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// UserListFilter narrows user listings
type UserListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	RoleID   string `form:"role_id"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// Create creates a new member account
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this username already exists")
	}

	var user *identity.User
	if input.Active {
		user, err = identity.NewActiveUser(input.Username, input.Password)
	} else {
		user, err = identity.NewUser(input.Username, input.Password)
	}
	if err != nil {
		return nil, err
	}

	if input.Email != "" {
		if err := user.SetEmail(input.Email); err != nil {
			return nil, err
		}
	}
	if input.Phone != "" {
		if err := user.SetPhone(input.Phone); err != nil {
			return nil, err
		}
	}
	if input.DisplayName != "" {
		if err := user.SetDisplayName(input.DisplayName); err != nil {
			return nil, err
		}
	}
	if input.MemberNumber != "" {
		if err := user.SetMemberNumber(input.MemberNumber); err != nil {
			return nil, err
		}
	}

	if len(input.RoleIDs) > 0 {
		if err := s.verifyRolesExist(ctx, input.RoleIDs); err != nil {
			return nil, err
		}
		if err := user.SetRoles(input.RoleIDs); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return toUserDTO(user), nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

// List retrieves users matching the filter
func (s *UserService) List(ctx context.Context, filter UserListFilter) (*shared.Paginated[UserDTO], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	domainFilter.OrderBy = "username"
	domainFilter.OrderDir = "asc"
	if filter.Status != "" {
		domainFilter.Filters = map[string]any{"status": filter.Status}
	}

	var (
		users []identity.User
		err   error
	)
	if filter.RoleID != "" {
		roleID, parseErr := uuid.Parse(filter.RoleID)
		if parseErr != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid role ID")
		}
		users, err = s.userRepo.FindByRole(ctx, roleID, domainFilter)
	} else {
		users, err = s.userRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]UserDTO, len(users))
	for i := range users {
		items[i] = *toUserDTO(&users[i])
	}

	result := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// Update updates a user's profile fields
func (s *UserService) Update(ctx context.Context, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if err := user.SetEmail(*input.Email); err != nil {
			return nil, err
		}
	}
	if input.Phone != nil {
		if err := user.SetPhone(*input.Phone); err != nil {
			return nil, err
		}
	}
	if input.DisplayName != nil {
		if err := user.SetDisplayName(*input.DisplayName); err != nil {
			return nil, err
		}
	}
	if input.MemberNumber != nil {
		if err := user.SetMemberNumber(*input.MemberNumber); err != nil {
			return nil, err
		}
	}
	if input.Notes != nil {
		user.SetNotes(*input.Notes)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return toUserDTO(user), nil
}

// Activate activates a pending or deactivated account
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := user.Activate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User activated", zap.String("user_id", id.String()))
	return toUserDTO(user), nil
}

// Deactivate deactivates an account
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := user.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User deactivated", zap.String("user_id", id.String()))
	return toUserDTO(user), nil
}

// Unlock clears a lockout so the member can try logging in again
func (s *UserService) Unlock(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Unlock()

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User unlocked", zap.String("user_id", id.String()))
	return toUserDTO(user), nil
}

// ResetPassword sets a new password without requiring the old one.
// Admin operation for members who forgot theirs.
func (s *UserService) ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("User password reset", zap.String("user_id", userID.String()))
	return nil
}

// AssignRoles replaces a user's role assignments
func (s *UserService) AssignRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.verifyRolesExist(ctx, roleIDs); err != nil {
		return nil, err
	}

	if err := user.SetRoles(roleIDs); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User roles assigned",
		zap.String("user_id", userID.String()),
		zap.Int("role_count", len(roleIDs)))

	return toUserDTO(user), nil
}

// Delete removes a user account
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("User deleted", zap.String("user_id", id.String()))
	return nil
}

func (s *UserService) verifyRolesExist(ctx context.Context, roleIDs []uuid.UUID) error {
	if len(roleIDs) == 0 {
		return nil
	}
	roles, err := s.roleRepo.FindByIDs(ctx, roleIDs)
	if err != nil {
		return err
	}
	if len(roles) != len(roleIDs) {
		return shared.NewDomainError("ROLE_NOT_FOUND", "One or more roles do not exist")
	}
	return nil
}

func toUserDTO(user *identity.User) *UserDTO {
	roleIDs := user.RoleIDs
	if roleIDs == nil {
		roleIDs = []uuid.UUID{}
	}
	return &UserDTO{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Phone:          user.Phone,
		DisplayName:    user.DisplayName,
		MemberNumber:   user.MemberNumber,
		Status:         string(user.Status),
		RoleIDs:        roleIDs,
		LastLoginAt:    user.LastLoginAt,
		FailedAttempts: user.FailedAttempts,
		Notes:          user.Notes,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}
