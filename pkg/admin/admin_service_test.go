package admin

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"Recipe-Platform/pkg/comment"
	"Recipe-Platform/pkg/recipe"
	"Recipe-Platform/pkg/user"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecipeRepo struct {
	recipe.RecipeRepository
	recipes map[string]*entities.Recipe
	decided bool
}

func (s *stubRecipeRepo) GetRecipeByID(_ context.Context, id string) (*entities.Recipe, error) {
	r, ok := s.recipes[id]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *stubRecipeRepo) ModerateRecipe(_ context.Context, r *entities.Recipe) (bool, error) {
	if s.decided || s.recipes[r.ID.String()].Status == r.Status {
		return false, nil
	}
	cp := *r
	s.recipes[r.ID.String()] = &cp
	return true, nil
}

func (s *stubRecipeRepo) GetRecipesByStatus(_ context.Context, status string, _, _ int) ([]*entities.Recipe, int64, error) {
	var out []*entities.Recipe
	for _, r := range s.recipes {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

type stubUserRepo struct {
	user.UserRepository
	users   map[uuid.UUID]*entities.User
	revoked []uuid.UUID
}

func (s *stubUserRepo) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	u, ok := s.users[uid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *stubUserRepo) GetUsers(_ context.Context, filter domain.UserFilter, _, _ int) ([]*entities.User, int64, error) {
	var out []*entities.User
	for _, u := range s.users {
		if filter.Role == "" || u.Role == filter.Role {
			out = append(out, u)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubUserRepo) BanUser(_ context.Context, id uuid.UUID, reason string, until *time.Time) error {
	u := s.users[id]
	u.IsBanned, u.BannedReason, u.BannedUntil = true, reason, until
	return nil
}

func (s *stubUserRepo) UnbanUser(_ context.Context, id uuid.UUID) error {
	u := s.users[id]
	u.IsBanned, u.BannedReason, u.BannedUntil = false, "", nil
	return nil
}

func (s *stubUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role string) error {
	s.users[id].Role = role
	return nil
}

func (s *stubUserRepo) ResetLoginState(_ context.Context, id uuid.UUID, _ *time.Time) error {
	u := s.users[id]
	u.FailedLoginAttempts, u.LockedUntil = 0, nil
	return nil
}

func (s *stubUserRepo) DeleteSessionsByUser(_ context.Context, id uuid.UUID, _ string) (int64, error) {
	s.revoked = append(s.revoked, id)
	return 2, nil
}

type stubCommentService struct {
	comment.CommentService
	deleted []string
}

func (s *stubCommentService) DeleteComment(_ context.Context, _ domain.Actor, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type auditEntry struct {
	action  string
	target  string
	details map[string]any
}

type fakeAudit struct {
	entries []auditEntry
	filter  domain.AuditLogFilter
}

func (a *fakeAudit) Record(_ context.Context, _ domain.Actor, action, _, targetID string, details map[string]any) {
	a.entries = append(a.entries, auditEntry{action: action, target: targetID, details: details})
}

func (a *fakeAudit) ListAuditLogs(_ context.Context, filter domain.AuditLogFilter) ([]domain.AuditLog, domain.Pagination, error) {
	a.filter = filter
	return []domain.AuditLog{{Action: domain.AuditUserBan}}, domain.NewPagination(1, 20, 1), nil
}

type sentNotice struct {
	userID string
	notice domain.Notice
}

type fakeNotifier struct {
	sent []sentNotice
}

func (n *fakeNotifier) Notify(_ context.Context, userID string, notice domain.Notice) {
	n.sent = append(n.sent, sentNotice{userID: userID, notice: notice})
}

func (n *fakeNotifier) NotifyAdmins(context.Context, domain.Notice) {}

type adminEnv struct {
	recipes  *stubRecipeRepo
	users    *stubUserRepo
	comments *stubCommentService
	audit    *fakeAudit
	notifier *fakeNotifier
	svc      AdminService
	now      time.Time
	admin    domain.Actor
}

func newAdminEnv() *adminEnv {
	e := &adminEnv{
		recipes:  &stubRecipeRepo{recipes: map[string]*entities.Recipe{}},
		users:    &stubUserRepo{users: map[uuid.UUID]*entities.User{}},
		comments: &stubCommentService{},
		audit:    &fakeAudit{},
		notifier: &fakeNotifier{},
		now:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	adminUser := e.addUser(domain.RoleAdmin)
	e.admin = domain.Actor{ID: adminUser.ID.String(), Role: domain.RoleAdmin, IPAddress: "10.1.1.1"}

	svc := NewAdminService(e.recipes, e.users, e.comments, e.audit, e.notifier).(*adminService)
	svc.now = func() time.Time { return e.now }
	e.svc = svc
	return e
}

func (e *adminEnv) addUser(role string) *entities.User {
	u := &entities.User{ID: uuid.New(), Name: "someone", Email: uuid.NewString() + "@mail.test", Role: role}
	e.users.users[u.ID] = u
	return u
}

func (e *adminEnv) addRecipe(status string) *entities.Recipe {
	r := &entities.Recipe{ID: uuid.New(), UserID: uuid.New(), Title: "Bibimbap", Status: status}
	e.recipes.recipes[r.ID.String()] = r
	return r
}

func TestApproveRecipe(t *testing.T) {
	e := newAdminEnv()
	ctx := context.Background()
	r := e.addRecipe(domain.RecipeStatusRejected)
	e.recipes.recipes[r.ID.String()].RejectionReason = "too salty"

	got, err := e.svc.ApproveRecipe(ctx, e.admin, r.ID.String(), domain.ApproveRecipeRequest{Note: " nice "})
	require.NoError(t, err)
	assert.Equal(t, domain.RecipeStatusApproved, got.Status)
	assert.Equal(t, "nice", got.ModerationNote)
	assert.Empty(t, got.RejectionReason)
	require.NotNil(t, got.ReviewedAt)
	assert.Equal(t, e.now, *got.ReviewedAt)

	stored := e.recipes.recipes[r.ID.String()]
	assert.Equal(t, e.admin.ID, stored.ReviewedBy.String())

	require.Len(t, e.notifier.sent, 1)
	assert.Equal(t, r.UserID.String(), e.notifier.sent[0].userID)
	assert.Equal(t, domain.NotificationRecipeApproved, e.notifier.sent[0].notice.Type)
	require.Len(t, e.audit.entries, 1)
	assert.Equal(t, domain.AuditRecipeApprove, e.audit.entries[0].action)
	assert.Equal(t, domain.RecipeStatusRejected, e.audit.entries[0].details["previous_status"])

	_, err = e.svc.ApproveRecipe(ctx, e.admin, r.ID.String(), domain.ApproveRecipeRequest{})
	assert.ErrorIs(t, err, domain.ErrRecipeAlreadyApproved)
	_, err = e.svc.ApproveRecipe(ctx, e.admin, uuid.NewString(), domain.ApproveRecipeRequest{})
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestRejectRecipe(t *testing.T) {
	e := newAdminEnv()
	ctx := context.Background()
	approved := e.addRecipe(domain.RecipeStatusApproved)

	_, err := e.svc.RejectRecipe(ctx, e.admin, approved.ID.String(), domain.RejectRecipeRequest{Reason: "  "})
	assert.ErrorIs(t, err, domain.ErrRejectionReasonRequired)

	got, err := e.svc.RejectRecipe(ctx, e.admin, approved.ID.String(), domain.RejectRecipeRequest{Reason: "copied"})
	require.NoError(t, err)
	assert.Equal(t, domain.RecipeStatusRejected, got.Status)
	assert.Equal(t, "copied", got.RejectionReason)

	require.Len(t, e.notifier.sent, 1)
	assert.Equal(t, domain.NotificationRecipeRejected, e.notifier.sent[0].notice.Type)
	assert.Contains(t, e.notifier.sent[0].notice.Message, "copied")
	assert.Equal(t, domain.AuditRecipeReject, e.audit.entries[0].action)

	_, err = e.svc.RejectRecipe(ctx, e.admin, approved.ID.String(), domain.RejectRecipeRequest{Reason: "again"})
	assert.ErrorIs(t, err, domain.ErrRecipeAlreadyRejected)
}

func TestModerationLosesToConcurrentDecision(t *testing.T) {
	e := newAdminEnv()
	ctx := context.Background()
	r := e.addRecipe(domain.RecipeStatusPending)
	e.recipes.decided = true

	_, err := e.svc.ApproveRecipe(ctx, e.admin, r.ID.String(), domain.ApproveRecipeRequest{})
	assert.ErrorIs(t, err, domain.ErrRecipeAlreadyApproved)
	_, err = e.svc.RejectRecipe(ctx, e.admin, r.ID.String(), domain.RejectRecipeRequest{Reason: "dup"})
	assert.ErrorIs(t, err, domain.ErrRecipeAlreadyRejected)

	assert.Empty(t, e.notifier.sent)
	assert.Empty(t, e.audit.entries)
	assert.Equal(t, domain.RecipeStatusPending, e.recipes.recipes[r.ID.String()].Status)
}

func TestListPendingRecipes(t *testing.T) {
	e := newAdminEnv()
	e.addRecipe(domain.RecipeStatusPending)
	e.addRecipe(domain.RecipeStatusApproved)

	list, page, err := e.svc.ListPendingRecipes(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, domain.DefaultLimit, page.Limit)
}

func TestBanUser(t *testing.T) {
	e := newAdminEnv()
	ctx := context.Background()
	chef := e.addUser(domain.RoleChef)

	got, err := e.svc.BanUser(ctx, e.admin, chef.ID.String(), domain.BanUserRequest{Reason: "spam", DurationHours: 48})
	require.NoError(t, err)
	assert.True(t, got.IsBanned)

	stored := e.users.users[chef.ID]
	require.NotNil(t, stored.BannedUntil)
	assert.Equal(t, e.now.Add(48*time.Hour), *stored.BannedUntil)
	assert.Equal(t, []uuid.UUID{chef.ID}, e.users.revoked)

	require.Len(t, e.notifier.sent, 1)
	assert.Equal(t, domain.NotificationAccountBanned, e.notifier.sent[0].notice.Type)
	require.Len(t, e.audit.entries, 1)
	assert.Equal(t, domain.AuditUserBan, e.audit.entries[0].action)
	assert.EqualValues(t, 2, e.audit.entries[0].details["revoked_sessions"])
}

func TestBanUserGuards(t *testing.T) {
	e := newAdminEnv()
	ctx := context.Background()
	other := e.addUser(domain.RoleAdmin)
	regular := e.addUser(domain.RoleUser)

	tests := []struct {
		name   string
		userID string
		reason string
		want   error
	}{
		{"self", e.admin.ID, "x", domain.ErrCannotModerateSelf},
		{"other admin", other.ID.String(), "x", domain.ErrCannotBanAdmin},
		{"no reason", regular.ID.String(), " ", domain.ErrBanReasonRequired},
		{"unknown", uuid.NewString(), "x", domain.ErrUserNotFound},
		{"malformed", "abc", "x", domain.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.BanUser(ctx, e.admin, tt.userID, domain.BanUserRequest{Reason: tt.reason})
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, e.audit.entries)
}

func TestUnbanUser(t *testing.T) {
	e := newAdminEnv()
	ctx := context.Background()
	u := e.addUser(domain.RoleUser)

	_, err := e.svc.UnbanUser(ctx, e.admin, u.ID.String())
	assert.ErrorIs(t, err, domain.ErrUserNotBanned)

	_, err = e.svc.BanUser(ctx, e.admin, u.ID.String(), domain.BanUserRequest{Reason: "abuse"})
	require.NoError(t, err)
	assert.Nil(t, e.users.users[u.ID].BannedUntil)

	got, err := e.svc.UnbanUser(ctx, e.admin, u.ID.String())
	require.NoError(t, err)
	assert.False(t, got.IsBanned)
	assert.Equal(t, domain.AuditUserUnban, e.audit.entries[len(e.audit.entries)-1].action)
}

func TestChangeUserRole(t *testing.T) {
	e := newAdminEnv()
	ctx := context.Background()
	u := e.addUser(domain.RoleUser)

	_, err := e.svc.ChangeUserRole(ctx, e.admin, e.admin.ID, domain.ChangeRoleRequest{Role: domain.RoleUser})
	assert.ErrorIs(t, err, domain.ErrCannotModerateSelf)
	_, err = e.svc.ChangeUserRole(ctx, e.admin, u.ID.String(), domain.ChangeRoleRequest{Role: "OWNER"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	got, err := e.svc.ChangeUserRole(ctx, e.admin, u.ID.String(), domain.ChangeRoleRequest{Role: domain.RoleChef})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleChef, got.Role)
	require.Len(t, e.audit.entries, 1)
	assert.Equal(t, map[string]any{"from": domain.RoleUser, "to": domain.RoleChef}, e.audit.entries[0].details)

	_, err = e.svc.ChangeUserRole(ctx, e.admin, u.ID.String(), domain.ChangeRoleRequest{Role: domain.RoleChef})
	require.NoError(t, err)
	assert.Len(t, e.audit.entries, 1)
}

func TestUnlockUser(t *testing.T) {
	e := newAdminEnv()
	u := e.addUser(domain.RoleUser)
	until := e.now.Add(time.Hour)
	u.FailedLoginAttempts = 5
	u.LockedUntil = &until

	_, err := e.svc.UnlockUser(context.Background(), e.admin, u.ID.String())
	require.NoError(t, err)
	assert.Zero(t, e.users.users[u.ID].FailedLoginAttempts)
	assert.Nil(t, e.users.users[u.ID].LockedUntil)
	assert.Equal(t, domain.AuditUserUnlock, e.audit.entries[0].action)
}

func TestDeleteCommentAndAuditLogs(t *testing.T) {
	e := newAdminEnv()
	ctx := context.Background()
	id := uuid.NewString()

	require.NoError(t, e.svc.DeleteComment(ctx, e.admin, id))
	assert.Equal(t, []string{id}, e.comments.deleted)

	logs, _, err := e.svc.ListAuditLogs(ctx, domain.AuditLogFilter{Action: domain.AuditUserBan})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.Equal(t, domain.AuditUserBan, e.audit.filter.Action)
}

func TestListUsers(t *testing.T) {
	e := newAdminEnv()
	e.addUser(domain.RoleChef)
	e.addUser(domain.RoleUser)

	users, page, err := e.svc.ListUsers(context.Background(), domain.UserFilter{Role: domain.RoleChef})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.EqualValues(t, 1, page.Total)
}
