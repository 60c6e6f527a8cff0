// Package authz holds the authorization policy: a pure per-operation,
// per-entity-type decision function over the caller's role.
package authz

import "github.com/ruetfest/festcrm/internal/core/domain"

// Operation enumerates everything the resource engine can do.
type Operation string

const (
	OpGet    Operation = "get"
	OpSearch Operation = "search"
	OpAdd    Operation = "add"
	OpList   Operation = "list"
	OpExport Operation = "export"
	OpCount  Operation = "count"
	OpDelete Operation = "delete"
	OpUpdate Operation = "update"
)

// Allowed reports whether role may perform op on records of type t.
//
// The matrix is deliberately uniform across entity types: search and get need
// only an authenticated session; add is open to admin and moderator; every
// read-all or mutating surface (list, export, count, delete, update) is admin
// only, count included.
func Allowed(role string, t domain.EntityType, op Operation) bool {
	if role == "" {
		return false
	}
	switch op {
	case OpGet, OpSearch:
		return role == domain.RoleAdmin || role == domain.RoleModerator || role == domain.RoleUser
	case OpAdd:
		return role == domain.RoleAdmin || role == domain.RoleModerator
	case OpList, OpExport, OpCount, OpDelete, OpUpdate:
		return role == domain.RoleAdmin
	default:
		return false
	}
}
