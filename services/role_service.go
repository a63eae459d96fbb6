package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"hotel-billing/models"
)

type RoleService struct {
	DB *gorm.DB
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{DB: db}
}

type RoleMember struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// RoleView is a role with its permissions expanded to module -> action -> granted.
type RoleView struct {
	ID          uint                       `json:"id"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Permissions map[string]map[string]bool `json:"permissions"`
	Members     []RoleMember               `json:"members"`
}

func (s *RoleService) List(ctx context.Context, id Identity) ([]RoleView, error) {
	if err := id.Require(models.PermRolesView); err != nil {
		return nil, err
	}
	var roles []models.Role
	if err := s.DB.WithContext(ctx).Preload("Permissions").Preload("Members").Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}

	views := make([]RoleView, 0, len(roles))
	for _, role := range roles {
		perms := emptyPermissionMap()
		for _, p := range role.Permissions {
			module, action, ok := strings.Cut(p.Permission, ".")
			if !ok {
				continue
			}
			if _, known := perms[module]; !known {
				perms[module] = map[string]bool{}
			}
			perms[module][action] = true
		}
		members := make([]RoleMember, 0, len(role.Members))
		for _, m := range role.Members {
			members = append(members, RoleMember{ID: m.ID, Name: m.FullName, Username: m.Username})
		}
		views = append(views, RoleView{
			ID:          role.ID,
			Name:        role.Name,
			Description: role.Description,
			Permissions: perms,
			Members:     members,
		})
	}
	return views, nil
}

// UpdatePermissions replaces a role's permission set. ref is a role id or
// name. The owner role is fixed to every permission.
func (s *RoleService) UpdatePermissions(ctx context.Context, id Identity, ref string, permissions []string) error {
	if err := id.Require(models.PermRolesEdit); err != nil {
		return err
	}
	known := map[string]bool{}
	for _, p := range models.AllPermissions() {
		known[p] = true
	}
	clean := make([]string, 0, len(permissions))
	seen := map[string]bool{}
	for _, p := range permissions {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		if !known[p] {
			return Validation("role.unknownPermission", "unknown permission %q", p)
		}
		seen[p] = true
		clean = append(clean, p)
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := findRole(tx, ref)
		if err != nil {
			return err
		}
		if strings.EqualFold(role.Name, models.RoleOwner) {
			return Validation("role.ownerLocked", "the owner role always has every permission")
		}
		if err := tx.Where("role_id = ?", role.ID).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		if len(clean) == 0 {
			return nil
		}
		perms := make([]models.RolePermission, 0, len(clean))
		for _, p := range clean {
			perms = append(perms, models.RolePermission{RoleID: role.ID, Permission: p})
		}
		return tx.Create(&perms).Error
	})
}

func emptyPermissionMap() map[string]map[string]bool {
	out := map[string]map[string]bool{}
	for module, actions := range models.ActionsByModule {
		out[module] = map[string]bool{}
		for _, action := range actions {
			out[module][action] = false
		}
	}
	return out
}

func findRole(db *gorm.DB, ref string) (*models.Role, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, Validation("role.required", "role is required")
	}
	var role models.Role
	var err error
	if n, convErr := strconv.ParseUint(ref, 10, 64); convErr == nil && n > 0 {
		err = db.First(&role, n).Error
	} else {
		err = db.Where("LOWER(name) = ?", strings.ToLower(ref)).First(&role).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}
