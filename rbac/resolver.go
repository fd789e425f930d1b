// rbac/resolver.go
package rbac

import (
	"context"

	"gorm.io/gorm"

	apperrors "github.com/revguard/api/errors"
	"github.com/revguard/api/model"
)

// Resolver answers permission questions for a user against the catalog.
// Every call is a fresh lookup. Checks gate requests, not hot loops, so
// there is deliberately no cache between the resolver and the store.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// HasPermission reports whether the user holds the exact permission code.
// Administrators hold every permission unconditionally; this bypass is
// hard-coded and not modeled as role-permission rows. For other roles a
// permission is effective only while both it and the owning role are active.
// Unknown role values fail closed with ErrUnknownRole.
func (r *Resolver) HasPermission(ctx context.Context, user *model.User, code string) (bool, error) {
	if user.Role == model.RoleAdmin {
		return true, nil
	}
	if !user.Role.Valid() {
		return false, apperrors.ErrUnknownRole
	}

	var count int64
	err := r.db.WithContext(ctx).
		Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Where("roles.code = ?", user.Role.Code()).
		Where("permissions.code = ?", code).
		Where("permissions.is_active = ?", true).
		Where("roles.is_active = ?", true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasAny reports whether the user holds at least one of the codes.
// Short-circuits on the first hit; an empty set is always false.
func (r *Resolver) HasAny(ctx context.Context, user *model.User, codes []string) (bool, error) {
	for _, code := range codes {
		ok, err := r.HasPermission(ctx, user, code)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// HasAll reports whether the user holds every code. Short-circuits on the
// first miss; an empty set is always true.
func (r *Resolver) HasAll(ctx context.Context, user *model.User, codes []string) (bool, error) {
	for _, code := range codes {
		ok, err := r.HasPermission(ctx, user, code)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// EffectivePermissions returns the user's full permission set. For an
// administrator that is every active permission in the catalog; otherwise the
// active permissions attached to the user's active role.
func (r *Resolver) EffectivePermissions(ctx context.Context, user *model.User) ([]model.Permission, error) {
	if user.Role == model.RoleAdmin {
		var permissions []model.Permission
		err := r.db.WithContext(ctx).
			Where("is_active = ?", true).
			Order("code").
			Find(&permissions).Error
		return permissions, err
	}
	if !user.Role.Valid() {
		return nil, apperrors.ErrUnknownRole
	}

	var permissions []model.Permission
	err := r.db.WithContext(ctx).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Where("roles.code = ?", user.Role.Code()).
		Where("permissions.is_active = ?", true).
		Where("roles.is_active = ?", true).
		Order("permissions.code").
		Find(&permissions).Error
	return permissions, err
}
