package session

import (
	"context"
	"fmt"
	"strings"

	"hompulse/console/internal/model"
	"hompulse/console/internal/ui"
)

func userHandlers() map[string]CommandHandler {
	return map[string]CommandHandler{
		"ls":     handleUserList,
		"add":    handleUserAdd,
		"update": handleUserUpdate,
		"delete": handleUserDelete,
	}
}

func roleHandlers() map[string]CommandHandler {
	return map[string]CommandHandler{
		"ls":    handleRoleList,
		"add":   handleRoleAdd,
		"perms": handleRolePermissions,
	}
}

func permissionHandlers() map[string]CommandHandler {
	return map[string]CommandHandler{
		"ls": handlePermissionList,
	}
}

// handleUserList handles 'user ls [query]', filtering on username and email
func handleUserList(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	if _, err := s.Data.Users.Users(ctx); err != nil {
		return nil, err
	}
	users := s.Data.Users.Search(strings.Join(cmd.Positional(), " "))

	t := ui.NewTable("Users", "ID", "USERNAME", "EMAIL", "ROLE", "STATUS")
	t.StatusColumn = 4
	for _, u := range users {
		t.Add(u.ID, u.Username, u.Email, s.Data.Directory.RoleName(ctx, u.RoleID), ui.ActiveLabel(u.IsActive))
	}
	return t, nil
}

// handleUserAdd handles 'user add username:<name> password:<pw> role_id:<id> [email:..]'
func handleUserAdd(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	fields := cmd.Fields()
	roleID, err := fieldInt(fields, "role_id")
	if err != nil {
		return nil, err
	}
	active, err := fieldBool(fields, "is_active", true)
	if err != nil {
		return nil, err
	}
	in := model.UserInput{
		Username: fields["username"],
		Email:    fields["email"],
		Password: fields["password"],
		RoleID:   roleID,
		IsActive: active,
	}
	if err := s.Data.Users.CreateUser(ctx, in); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Added user %q", in.Username), nil
}

// handleUserUpdate handles 'user update <id> field:value...'; a blank password is ignored
func handleUserUpdate(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	id, err := positionalID(cmd, 0, "id")
	if err != nil {
		return nil, err
	}
	patch, err := patchFields(cmd.Fields(), patchKinds{ints: []string{"role_id"}, bools: []string{"is_active"}})
	if err != nil {
		return nil, err
	}
	if err := s.Data.Users.UpdateUser(ctx, id, patch); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Updated user %d", id), nil
}

// handleUserDelete handles 'user delete <id>', which suspends the account
func handleUserDelete(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	id, err := positionalID(cmd, 0, "id")
	if err != nil {
		return nil, err
	}
	if me := s.Auth.User(); me != nil && me.ID == id {
		return nil, fmt.Errorf("cannot suspend the logged-in user")
	}
	if err := s.Data.Users.SuspendUser(ctx, id); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Suspended user %d", id), nil
}

func handleRoleList(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	roles, err := s.Data.Users.Roles(ctx)
	if err != nil {
		return nil, err
	}
	t := ui.NewTable("Roles", "ID", "NAME", "DESCRIPTION", "PERMISSIONS")
	for _, r := range roles {
		t.Add(r.ID, r.Name, r.Description, joinIDs(r.PermissionIDs()))
	}
	return t, nil
}

// handleRoleAdd handles 'role add name:<name> [description:..]'
func handleRoleAdd(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	fields := cmd.Fields()
	in := model.RoleInput{Name: fields["name"], Description: fields["description"]}
	if err := s.Data.Users.CreateRole(ctx, in); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Added role %q", in.Name), nil
}

// handleRolePermissions handles 'role perms <role_id> <permission_id>...'
func handleRolePermissions(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	roleID, err := positionalID(cmd, 0, "role_id")
	if err != nil {
		return nil, err
	}
	ids, err := idList(cmd.Positional()[1:])
	if err != nil {
		return nil, err
	}
	if err := s.Data.Users.SetRolePermissions(ctx, roleID, ids); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Role %d now has %d permission(s)", roleID, len(ids)), nil
}

func handlePermissionList(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	perms, err := s.Data.Users.Permissions(ctx)
	if err != nil {
		return nil, err
	}
	t := ui.NewTable("Permissions", "ID", "NAME", "DESCRIPTION")
	for _, p := range perms {
		t.Add(p.ID, p.Name, p.Description)
	}
	return t, nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}
