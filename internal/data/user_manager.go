package data

import (
	"context"
	"strings"

	"hompulse/console/internal/event"
	"hompulse/console/internal/log"
	"hompulse/console/internal/model"
)

// UserManager manages users, roles and the permission catalogue
type UserManager struct {
	client      Client
	users       *Collection[model.User]
	roles       *Collection[model.Role]
	permissions *Collection[model.Permission]
	events      *event.EventManager
}

// NewUserManager creates a user manager for the /users endpoints
func NewUserManager(client Client, events *event.EventManager, logger *log.Logger) *UserManager {
	return &UserManager{
		client:      client,
		users:       NewCollection[model.User](client, "user", "/users/", "", logger),
		roles:       NewCollection[model.Role](client, "role", "/users/roles", "", logger),
		permissions: NewCollection[model.Permission](client, "permission", "/users/permissions", "", logger),
		events:      events,
	}
}

// Users fetches the user list
func (um *UserManager) Users(ctx context.Context) ([]model.User, error) {
	return um.users.Fetch(ctx)
}

// Search filters the loaded users by username or email, case-insensitively
func (um *UserManager) Search(query string) []model.User {
	query = strings.ToLower(strings.TrimSpace(query))
	users := um.users.Items()
	if query == "" {
		return users
	}
	var out []model.User
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Username), query) || strings.Contains(strings.ToLower(u.Email), query) {
			out = append(out, u)
		}
	}
	return out
}

// CreateUser provisions a user
func (um *UserManager) CreateUser(ctx context.Context, in model.UserInput) error {
	in.Username = strings.TrimSpace(in.Username)
	switch {
	case in.Username == "":
		return invalid("user", "create", "username is required")
	case in.Password == "":
		return invalid("user", "create", "password is required")
	case in.RoleID <= 0:
		return invalid("user", "create", "role_id is required")
	}
	return um.users.Create(ctx, in)
}

// UpdateUser patches a user; a blank password is not sent
func (um *UserManager) UpdateUser(ctx context.Context, id int64, patch map[string]any) error {
	if pw, ok := patch["password"]; ok && pw == "" {
		delete(patch, "password")
	}
	if len(patch) == 0 {
		return invalid("user", "update", "no fields to update")
	}
	return um.users.Update(ctx, id, patch)
}

// SuspendUser deletes (suspends) a user account
func (um *UserManager) SuspendUser(ctx context.Context, id int64) error {
	return um.users.Remove(ctx, id)
}

// Roles fetches the role list
func (um *UserManager) Roles(ctx context.Context) ([]model.Role, error) {
	return um.roles.Fetch(ctx)
}

// CreateRole adds a role policy
func (um *UserManager) CreateRole(ctx context.Context, in model.RoleInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalid("role", "create", "name is required")
	}
	if err := um.roles.Create(ctx, in); err != nil {
		return err
	}
	um.events.Publish(event.Event{Type: event.RoleChanged})
	return nil
}

// SetRolePermissions replaces the permission set of a role
func (um *UserManager) SetRolePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	if permissionIDs == nil {
		permissionIDs = []int64{}
	}
	err := um.roles.Mutate(ctx, "assign permissions to", func(ctx context.Context) error {
		return um.client.Put(ctx, um.roles.ItemPath(roleID, "permissions"), map[string]any{"permission_ids": permissionIDs}, nil)
	})
	if err != nil {
		return err
	}
	um.events.Publish(event.Event{Type: event.RoleChanged})
	return nil
}

// Permissions fetches the permission catalogue
func (um *UserManager) Permissions(ctx context.Context) ([]model.Permission, error) {
	return um.permissions.Fetch(ctx)
}
