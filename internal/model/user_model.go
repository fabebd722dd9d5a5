package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// User represents an account returned by the identity endpoints.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	RoleID   int64  `json:"role_id,omitempty"`
	IsActive bool   `json:"is_active"`
}

// UserInput is the create/update form for a user.
// Password is omitted on update when blank.
type UserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	RoleID   int64  `json:"role_id"`
	IsActive bool   `json:"is_active"`
}

// Role is a named permission policy.
type Role struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Permissions []Permission `json:"permissions,omitempty"`
}

// Permission is a single grantable capability.
type Permission struct {
	ID          int64  `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// LoginResponse is the token payload returned by the login endpoint.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// UnmarshalJSON accepts a permission object or a bare permission id
func (p *Permission) UnmarshalJSON(data []byte) error {
	if trimmed := strings.TrimSpace(string(data)); trimmed != "" && trimmed[0] != '{' {
		var id int64
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("permission must be an object or an id: %w", err)
		}
		*p = Permission{ID: id}
		return nil
	}
	type plain Permission
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Permission(v)
	return nil
}

// PermissionIDs returns the ids of the role's permissions
func (r Role) PermissionIDs() []int64 {
	ids := make([]int64, len(r.Permissions))
	for i, p := range r.Permissions {
		ids[i] = p.ID
	}
	return ids
}

// RoleInput is the create form for a role.
type RoleInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
