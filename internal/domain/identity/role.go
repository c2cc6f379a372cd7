package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/epicoop/backend/internal/domain/shared"
)

// Well-known role codes seeded at installation. Custom roles can be
// created alongside them but these four cannot be deleted.
const (
	RoleCodeAdmin    = "ADMIN"
	RoleCodeCashier  = "CAISSIER"
	RoleCodeReferent = "REFERENT"
	RoleCodeMember   = "MEMBRE"
)

// Permission is a functional permission in resource:action form,
// e.g. "product:create" or "caisse:checkout".
type Permission struct {
	Code        string `gorm:"type:varchar(100);not null"`
	Resource    string `gorm:"type:varchar(50);not null"`
	Action      string `gorm:"type:varchar(50);not null"`
	Description string `gorm:"type:varchar(200)"`
}

// NewPermission creates a new Permission value object
func NewPermission(resource, action string) (*Permission, error) {
	if err := validatePermissionPart(resource, "resource"); err != nil {
		return nil, err
	}
	if err := validatePermissionPart(action, "action"); err != nil {
		return nil, err
	}

	resource = strings.ToLower(strings.TrimSpace(resource))
	action = strings.ToLower(strings.TrimSpace(action))

	return &Permission{
		Code:     resource + ":" + action,
		Resource: resource,
		Action:   action,
	}, nil
}

// NewPermissionFromCode creates a Permission from a "resource:action" string
func NewPermissionFromCode(code string) (*Permission, error) {
	parts := strings.SplitN(code, ":", 2)
	if len(parts) != 2 {
		return nil, shared.NewDomainError("INVALID_PERMISSION_CODE", "Permission code must be in format 'resource:action'")
	}
	return NewPermission(parts[0], parts[1])
}

// Equals checks if two permissions are equal
func (p Permission) Equals(other Permission) bool {
	return p.Code == other.Code
}

// Role groups permissions. A role can be scoped to the resources the
// holder owns, which is how referents are limited to their own
// catalogues.
type Role struct {
	shared.BaseAggregateRoot
	Code        string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string       `gorm:"type:varchar(100);not null"`
	Description string       `gorm:"type:text"`
	IsSystem    bool         `gorm:"not null;default:false"` // Seeded roles cannot be deleted
	OwnScoped   bool         `gorm:"not null;default:false"` // Restrict to resources owned by the holder
	Permissions []Permission `gorm:"serializer:json;type:jsonb"`
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "roles"
}

// NewRole creates a new role
func NewRole(code, name string) (*Role, error) {
	if err := validateRoleCode(code); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Role name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Role name cannot exceed 100 characters")
	}

	role := &Role{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Permissions:       make([]Permission, 0),
	}

	role.AddDomainEvent(NewRoleCreatedEvent(role))

	return role, nil
}

// NewSystemRole creates a seeded role that cannot be deleted
func NewSystemRole(code, name string) (*Role, error) {
	role, err := NewRole(code, name)
	if err != nil {
		return nil, err
	}
	role.IsSystem = true
	return role, nil
}

// Update updates name and description
func (r *Role) Update(name, description string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Role name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Role name cannot exceed 100 characters")
	}

	r.Name = name
	r.Description = description
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetOwnScoped restricts or widens the role to the holder's own resources
func (r *Role) SetOwnScoped(scoped bool) {
	r.OwnScoped = scoped
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// GrantPermission adds a permission to the role
func (r *Role) GrantPermission(permission Permission) error {
	if permission.Code == "" {
		return shared.NewDomainError("INVALID_PERMISSION", "Permission cannot be empty")
	}
	for _, p := range r.Permissions {
		if p.Equals(permission) {
			return shared.NewDomainError("PERMISSION_ALREADY_GRANTED", "Role already has this permission")
		}
	}

	r.Permissions = append(r.Permissions, permission)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRolePermissionGrantedEvent(r, permission.Code))

	return nil
}

// RevokePermission removes a permission from the role
func (r *Role) RevokePermission(code string) error {
	found := false
	remaining := make([]Permission, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		if p.Code != code {
			remaining = append(remaining, p)
		} else {
			found = true
		}
	}

	if !found {
		return shared.NewDomainError("PERMISSION_NOT_GRANTED", "Role does not have this permission")
	}

	r.Permissions = remaining
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// HasPermission checks for a permission, honoring resource wildcards.
// A role holding "product:*" has every product action.
func (r *Role) HasPermission(code string) bool {
	parts := strings.SplitN(code, ":", 2)
	for _, p := range r.Permissions {
		if p.Code == code {
			return true
		}
		if len(parts) == 2 && p.Action == "*" && p.Resource == parts[0] {
			return true
		}
		if p.Code == "*:*" {
			return true
		}
	}
	return false
}

// CanDelete reports whether the role may be deleted
func (r *Role) CanDelete() bool {
	return !r.IsSystem
}

// Validation functions

var roleCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func validateRoleCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Role code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Role code cannot exceed 50 characters")
	}
	if !roleCodePattern.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "Role code can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

func validatePermissionPart(part, kind string) error {
	part = strings.TrimSpace(part)
	if part == "" {
		return shared.NewDomainError("INVALID_PERMISSION", "Permission "+kind+" cannot be empty")
	}
	if len(part) > 50 {
		return shared.NewDomainError("INVALID_PERMISSION", "Permission "+kind+" cannot exceed 50 characters")
	}
	return nil
}
