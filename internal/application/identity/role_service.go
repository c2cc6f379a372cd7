package identity

import (
	"context"
	"time"

	"github.com/epicoop/backend/internal/domain/identity"
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoleService handles role and permission management
type RoleService struct {
	roleRepo identity.RoleRepository
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(
	roleRepo identity.RoleRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// CreateRoleInput contains input for creating a role
type CreateRoleInput struct {
	Code        string   `json:"code" binding:"required,min=2,max=50"`
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description"`
	OwnScoped   bool     `json:"own_scoped"`
	Permissions []string `json:"permissions"`
}

// UpdateRoleInput contains input for updating a role
type UpdateRoleInput struct {
	ID          uuid.UUID `json:"-"`
	Name        string    `json:"name" binding:"required,max=100"`
	Description string    `json:"description"`
	OwnScoped   *bool     `json:"own_scoped"`
}

// RoleDTO is the role representation returned to callers
type RoleDTO struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsSystem    bool      `json:"is_system"`
	OwnScoped   bool      `json:"own_scoped"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Create creates a new role with the given permissions
func (s *RoleService) Create(ctx context.Context, input CreateRoleInput) (*RoleDTO, error) {
	if existing, err := s.roleRepo.FindByCode(ctx, input.Code); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A role with this code already exists")
	}

	role, err := identity.NewRole(input.Code, input.Name)
	if err != nil {
		return nil, err
	}

	if input.Description != "" {
		if err := role.Update(input.Name, input.Description); err != nil {
			return nil, err
		}
	}
	role.SetOwnScoped(input.OwnScoped)

	for _, code := range input.Permissions {
		perm, err := identity.NewPermissionFromCode(code)
		if err != nil {
			return nil, err
		}
		if err := role.GrantPermission(*perm); err != nil {
			return nil, err
		}
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		s.logger.Error("Failed to create role", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Role created",
		zap.String("role_id", role.ID.String()),
		zap.String("code", role.Code))

	return toRoleDTO(role), nil
}

// GetByID retrieves a role by ID
func (s *RoleService) GetByID(ctx context.Context, id uuid.UUID) (*RoleDTO, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRoleDTO(role), nil
}

// GetByCode retrieves a role by its code
func (s *RoleService) GetByCode(ctx context.Context, code string) (*RoleDTO, error) {
	role, err := s.roleRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return toRoleDTO(role), nil
}

// List retrieves all roles
func (s *RoleService) List(ctx context.Context, page, pageSize int) (*shared.Paginated[RoleDTO], error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	filter.OrderBy = "code"
	filter.OrderDir = "asc"

	roles, err := s.roleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.roleRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]RoleDTO, len(roles))
	for i := range roles {
		items[i] = *toRoleDTO(&roles[i])
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update updates a role's name, description and scoping
func (s *RoleService) Update(ctx context.Context, input UpdateRoleInput) (*RoleDTO, error) {
	role, err := s.roleRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if err := role.Update(input.Name, input.Description); err != nil {
		return nil, err
	}
	if input.OwnScoped != nil {
		role.SetOwnScoped(*input.OwnScoped)
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	return toRoleDTO(role), nil
}

// SetPermissions replaces a role's permission set
func (s *RoleService) SetPermissions(ctx context.Context, roleID uuid.UUID, permissionCodes []string) (*RoleDTO, error) {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	perms := make([]identity.Permission, 0, len(permissionCodes))
	for _, code := range permissionCodes {
		perm, err := identity.NewPermissionFromCode(code)
		if err != nil {
			return nil, err
		}
		perms = append(perms, *perm)
	}

	for _, existing := range append([]identity.Permission(nil), role.Permissions...) {
		if err := role.RevokePermission(existing.Code); err != nil {
			return nil, err
		}
	}
	for _, perm := range perms {
		if err := role.GrantPermission(perm); err != nil {
			return nil, err
		}
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	s.logger.Info("Role permissions updated",
		zap.String("role_id", roleID.String()),
		zap.Int("permission_count", len(perms)))

	return toRoleDTO(role), nil
}

// Delete removes a role. System roles and roles still assigned to
// users are refused.
func (s *RoleService) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !role.CanDelete() {
		return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be deleted")
	}

	holders, err := s.userRepo.FindByRole(ctx, id, shared.DefaultFilter())
	if err != nil {
		return err
	}
	if len(holders) > 0 {
		return shared.NewDomainError("ROLE_IN_USE", "Role is still assigned to users")
	}

	if err := s.roleRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Role deleted", zap.String("role_id", id.String()))
	return nil
}

func toRoleDTO(role *identity.Role) *RoleDTO {
	codes := make([]string, len(role.Permissions))
	for i, perm := range role.Permissions {
		codes[i] = perm.Code
	}
	return &RoleDTO{
		ID:          role.ID,
		Code:        role.Code,
		Name:        role.Name,
		Description: role.Description,
		IsSystem:    role.IsSystem,
		OwnScoped:   role.OwnScoped,
		Permissions: codes,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}
