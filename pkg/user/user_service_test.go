package user

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"Recipe-Platform/internal/utils"
	"Recipe-Platform/internal/utils/oauth"
	"Recipe-Platform/internal/utils/storage"
	"Recipe-Platform/pkg/jwt"
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entities.User
	sessions map[string]*entities.Session
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    map[uuid.UUID]*entities.User{},
		sessions: map[string]*entities.Session{},
	}
}

func (f *fakeUserRepo) RegisterUser(_ context.Context, user *entities.User) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailAlreadyExists
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	cp := *user
	f.users[user.ID] = &cp
	return user, nil
}

func (f *fakeUserRepo) find(match func(*entities.User) bool) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	return f.find(func(u *entities.User) bool { return u.ID.String() == id })
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	return f.find(func(u *entities.User) bool { return u.Email == email })
}

func (f *fakeUserRepo) GetUserByOAuth(_ context.Context, provider string, oauthID string) (*entities.User, error) {
	return f.find(func(u *entities.User) bool {
		return u.OAuthProvider != nil && *u.OAuthProvider == provider && u.OAuthID != nil && *u.OAuthID == oauthID
	})
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, user *entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID uuid.UUID, hash string, changedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[userID]
	u.Password = hash
	u.PasswordChangedAt = &changedAt
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	return nil
}

func (f *fakeUserRepo) IncrementFailedLogin(_ context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[userID].FailedLoginAttempts++
	return f.users[userID].FailedLoginAttempts, nil
}

func (f *fakeUserRepo) LockUser(_ context.Context, userID uuid.UUID, until time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[userID].LockedUntil = &until
	return nil
}

func (f *fakeUserRepo) ResetLoginState(_ context.Context, userID uuid.UUID, lastLogin *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[userID]
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	if lastLogin != nil {
		u.LastLoginAt = lastLogin
	}
	return nil
}

func (f *fakeUserRepo) CreateSession(_ context.Context, session *entities.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session.ID = uuid.New()
	f.sessions[session.Token] = session
	return nil
}

func (f *fakeUserRepo) GetSessionByToken(_ context.Context, token string) (*entities.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	cp := *s
	if u, ok := f.users[s.UserID]; ok {
		uc := *u
		cp.User = &uc
	}
	return &cp, nil
}

func (f *fakeUserRepo) DeleteSession(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, token)
	return nil
}

func (f *fakeUserRepo) DeleteSessionsByUser(_ context.Context, userID uuid.UUID, keepToken string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for token, s := range f.sessions {
		if s.UserID == userID && token != keepToken {
			delete(f.sessions, token)
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepo) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for token, s := range f.sessions {
		if !s.ExpiresAt.After(now) {
			delete(f.sessions, token)
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepo) GetUsers(_ context.Context, filter domain.UserFilter, _, _ int) ([]*entities.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.User
	for _, u := range f.users {
		if filter.Role == "" || u.Role == filter.Role {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) BanUser(_ context.Context, userID uuid.UUID, reason string, until *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[userID]
	u.IsBanned = true
	u.BannedReason = reason
	u.BannedUntil = until
	return nil
}

func (f *fakeUserRepo) UnbanUser(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[userID]
	u.IsBanned = false
	u.BannedReason = ""
	u.BannedUntil = nil
	return nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, userID uuid.UUID, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[userID].Role = role
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *fakeMailer) SendMail(to string, subject string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+"|"+subject+"|"+body)
	return m.err
}

func (m *fakeMailer) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1]
}

type fakeS3 struct {
	deleted []string
}

func (s *fakeS3) UploadFile(_ context.Context, _ *multipart.FileHeader, folder string, _ ...string) (string, error) {
	return folder + "/new.png", nil
}

func (s *fakeS3) DeleteFile(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeS3) PresignUpload(_ context.Context, folder string, _ string) (storage.PresignedUpload, error) {
	return storage.PresignedUpload{Key: folder + "/presigned.png", URL: "https://upload.test/" + folder}, nil
}

func (s *fakeS3) GetPublicLinkKey(key string) string {
	return "https://cdn.test/" + key
}

func (s *fakeS3) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://cdn.test/")
}

type fakeProvider struct {
	info *oauth.UserInfo
	err  error
}

func (p *fakeProvider) Name() string { return "google" }

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.test/auth?state=" + state
}

func (p *fakeProvider) Exchange(context.Context, string) (*oauth.UserInfo, error) {
	return p.info, p.err
}

type testEnv struct {
	repo   *fakeUserRepo
	mailer *fakeMailer
	s3     *fakeS3
	jwt    jwt.JWTService
	svc    *userService
}

func newTestEnv(t *testing.T, provider oauth.Provider) *testEnv {
	t.Helper()
	env := &testEnv{
		repo:   newFakeUserRepo(),
		mailer: &fakeMailer{},
		s3:     &fakeS3{},
		jwt:    jwt.NewJWTService("test-secret", time.Hour),
	}
	svc := NewUserService(env.repo, env.jwt, env.s3, env.mailer, provider, "https://app.test/")
	env.svc = svc.(*userService)
	return env
}

func (e *testEnv) seedUser(t *testing.T, email, password, role string) *entities.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	u, err := e.repo.RegisterUser(context.Background(), &entities.User{
		Name:     "Test",
		Email:    email,
		Password: hash,
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	res, err := env.svc.Register(ctx, domain.UserRegisterRequest{
		Name:     "Ana",
		Email:    "  Ana@Example.com ",
		Password: "Secret123!",
		Role:     domain.RoleChef,
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", res.Email)
	assert.Equal(t, domain.RoleChef, res.Role)
	assert.False(t, res.IsVerified)
	assert.Contains(t, env.mailer.last(), "https://app.test/verify?token=")

	_, err = env.svc.Register(ctx, domain.UserRegisterRequest{
		Name:     "Ana Again",
		Email:    "ana@example.com",
		Password: "Secret123!",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterNeverGrantsAdmin(t *testing.T) {
	env := newTestEnv(t, nil)

	res, err := env.svc.Register(context.Background(), domain.UserRegisterRequest{
		Name:     "Mallory",
		Email:    "mallory@example.com",
		Password: "Secret123!",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, res.Role)
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	env.mailer.err = errors.New("smtp down")

	_, err := env.svc.Register(context.Background(), domain.UserRegisterRequest{
		Name:     "Bo",
		Email:    "bo@example.com",
		Password: "Secret123!",
	})
	assert.NoError(t, err)
}

func TestLoginCreatesSession(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.seedUser(t, "cook@example.com", "Secret123!", domain.RoleChef)

	res, err := env.svc.Login(context.Background(), domain.UserLoginRequest{
		Email:    "COOK@example.com",
		Password: "Secret123!",
	}, domain.ClientInfo{UserAgent: "test-agent", IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, u.ID.String(), res.User.ID)
	assert.NotNil(t, res.User.LastLoginAt)

	userID, role, jti, err := env.jwt.GetUserIDByToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), userID)
	assert.Equal(t, domain.RoleChef, role)

	session, err := env.repo.GetSessionByToken(context.Background(), jti)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", session.IPAddress)
	assert.Equal(t, "test-agent", session.UserAgent)
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.svc.Login(context.Background(), domain.UserLoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	}, domain.ClientInfo{})
	assert.ErrorIs(t, err, domain.ErrCredentialsNotMatched)
}

func TestLoginLocksAfterRepeatedFailures(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.seedUser(t, "lock@example.com", "Secret123!", domain.RoleUser)
	ctx := context.Background()
	wrong := domain.UserLoginRequest{Email: "lock@example.com", Password: "nope"}

	for i := 1; i < domain.MaxFailedLoginAttempts; i++ {
		_, err := env.svc.Login(ctx, wrong, domain.ClientInfo{})
		require.ErrorIs(t, err, domain.ErrCredentialsNotMatched, "attempt %d", i)
	}

	_, err := env.svc.Login(ctx, wrong, domain.ClientInfo{})
	require.ErrorIs(t, err, domain.ErrAccountLocked)

	// the right password is refused while the lock holds
	_, err = env.svc.Login(ctx, domain.UserLoginRequest{Email: "lock@example.com", Password: "Secret123!"}, domain.ClientInfo{})
	assert.ErrorIs(t, err, domain.ErrAccountLocked)

	stored, err := env.repo.GetUserByID(ctx, u.ID.String())
	require.NoError(t, err)
	require.NotNil(t, stored.LockedUntil)
	assert.WithinDuration(t, time.Now().Add(domain.AccountLockDuration), *stored.LockedUntil, 5*time.Second)
}

func TestLoginAfterLockExpires(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.seedUser(t, "later@example.com", "Secret123!", domain.RoleUser)
	ctx := context.Background()

	past := time.Now().Add(-time.Minute)
	env.repo.users[u.ID].FailedLoginAttempts = domain.MaxFailedLoginAttempts
	env.repo.users[u.ID].LockedUntil = &past

	// one wrong password after expiry must not relock immediately
	_, err := env.svc.Login(ctx, domain.UserLoginRequest{Email: "later@example.com", Password: "nope"}, domain.ClientInfo{})
	assert.ErrorIs(t, err, domain.ErrCredentialsNotMatched)

	_, err = env.svc.Login(ctx, domain.UserLoginRequest{Email: "later@example.com", Password: "Secret123!"}, domain.ClientInfo{})
	require.NoError(t, err)

	stored, err := env.repo.GetUserByID(ctx, u.ID.String())
	require.NoError(t, err)
	assert.Zero(t, stored.FailedLoginAttempts)
	assert.Nil(t, stored.LockedUntil)
}

func TestLoginBanned(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.seedUser(t, "banned@example.com", "Secret123!", domain.RoleUser)
	env.repo.users[u.ID].IsBanned = true

	_, err := env.svc.Login(context.Background(), domain.UserLoginRequest{
		Email:    "banned@example.com",
		Password: "Secret123!",
	}, domain.ClientInfo{})
	assert.ErrorIs(t, err, domain.ErrUserBanned)
}

func TestLoginExpiredBanIsIgnored(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.seedUser(t, "was-banned@example.com", "Secret123!", domain.RoleUser)
	past := time.Now().Add(-time.Hour)
	env.repo.users[u.ID].IsBanned = true
	env.repo.users[u.ID].BannedUntil = &past

	_, err := env.svc.Login(context.Background(), domain.UserLoginRequest{
		Email:    "was-banned@example.com",
		Password: "Secret123!",
	}, domain.ClientInfo{})
	assert.NoError(t, err)
}

func TestValidateSession(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.seedUser(t, "s@example.com", "Secret123!", domain.RoleUser)
	ctx := context.Background()

	require.NoError(t, env.repo.CreateSession(ctx, &entities.Session{
		UserID:    u.ID,
		Token:     "live",
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, env.repo.CreateSession(ctx, &entities.Session{
		UserID:    u.ID,
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	got, err := env.svc.ValidateSession(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = env.svc.ValidateSession(ctx, "stale")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	_, err = env.repo.GetSessionByToken(ctx, "stale")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = env.svc.ValidateSession(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestLogoutAndLogoutAll(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.seedUser(t, "out@example.com", "Secret123!", domain.RoleUser)
	ctx := context.Background()

	for _, token := range []string{"a", "b", "c"} {
		require.NoError(t, env.repo.CreateSession(ctx, &entities.Session{UserID: u.ID, Token: token, ExpiresAt: time.Now().Add(time.Hour)}))
	}

	require.NoError(t, env.svc.Logout(ctx, "a"))
	_, err := env.svc.ValidateSession(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.NoError(t, env.svc.LogoutAll(ctx, u.ID.String()))
	assert.Empty(t, env.repo.sessions)

	assert.ErrorIs(t, env.svc.LogoutAll(ctx, "not-a-uuid"), domain.ErrParseUUID)
}

func TestChangePasswordRevokesOtherSessions(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.seedUser(t, "cp@example.com", "Secret123!", domain.RoleUser)
	ctx := context.Background()

	for _, token := range []string{"current", "other"} {
		require.NoError(t, env.repo.CreateSession(ctx, &entities.Session{UserID: u.ID, Token: token, ExpiresAt: time.Now().Add(time.Hour)}))
	}

	err := env.svc.ChangePassword(ctx, u.ID.String(), "current", domain.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "Newer123!",
	})
	assert.ErrorIs(t, err, domain.ErrPasswordNotMatched)

	err = env.svc.ChangePassword(ctx, u.ID.String(), "current", domain.ChangePasswordRequest{
		OldPassword: "Secret123!",
		NewPassword: "Newer123!",
	})
	require.NoError(t, err)

	_, err = env.svc.ValidateSession(ctx, "current")
	assert.NoError(t, err)
	_, err = env.svc.ValidateSession(ctx, "other")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = env.svc.Login(ctx, domain.UserLoginRequest{Email: "cp@example.com", Password: "Newer123!"}, domain.ClientInfo{})
	assert.NoError(t, err)
}

func TestVerifyEmail(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.seedUser(t, "v@example.com", "Secret123!", domain.RoleUser)
	ctx := context.Background()

	require.NoError(t, env.svc.SendVerificationEmail(ctx, domain.SendVerifyEmailRequest{Email: "v@example.com"}))
	mail := env.mailer.last()
	idx := strings.Index(mail, "token=")
	require.Greater(t, idx, 0)
	token := mail[idx+len("token="):]
	token = token[:strings.IndexAny(token, "\"<& \n")]

	require.NoError(t, env.svc.VerifyEmail(ctx, domain.VerifyEmailRequest{Token: token}))
	stored, _ := env.repo.GetUserByID(ctx, u.ID.String())
	assert.True(t, stored.IsVerified)

	assert.ErrorIs(t, env.svc.VerifyEmail(ctx, domain.VerifyEmailRequest{Token: token}), domain.ErrAccountAlreadyVerified)
	assert.ErrorIs(t, env.svc.SendVerificationEmail(ctx, domain.SendVerifyEmailRequest{Email: "v@example.com"}), domain.ErrAccountAlreadyVerified)
}

func TestVerifyEmailRejectsResetToken(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedUser(t, "mix@example.com", "Secret123!", domain.RoleUser)

	token, err := env.jwt.GeneratePurposeToken(domain.TokenPurposeResetPassword, map[string]any{"email": "mix@example.com"}, time.Minute)
	require.NoError(t, err)

	err = env.svc.VerifyEmail(context.Background(), domain.VerifyEmailRequest{Token: token})
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestForgotAndResetPassword(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.seedUser(t, "f@example.com", "Secret123!", domain.RoleUser)
	ctx := context.Background()
	require.NoError(t, env.repo.CreateSession(ctx, &entities.Session{UserID: u.ID, Token: "old", ExpiresAt: time.Now().Add(time.Hour)}))

	require.NoError(t, env.svc.ForgotPassword(ctx, domain.ForgetPasswordRequest{Email: "nobody@example.com"}))
	assert.Empty(t, env.mailer.sent)

	require.NoError(t, env.svc.ForgotPassword(ctx, domain.ForgetPasswordRequest{Email: "f@example.com"}))
	token := mailedToken(t, env.mailer.last(), "https://app.test/reset-password?token=")
	require.NoError(t, env.svc.ResetPassword(ctx, domain.ResetPasswordRequest{Token: token, NewPassword: "Brand123!"}))

	assert.Empty(t, env.repo.sessions)
	_, err := env.svc.Login(ctx, domain.UserLoginRequest{Email: "f@example.com", Password: "Brand123!"}, domain.ClientInfo{})
	assert.NoError(t, err)

	err = env.svc.ResetPassword(ctx, domain.ResetPasswordRequest{Token: token, NewPassword: "Other123!"})
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestResetLinkRetiredByPasswordChange(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.seedUser(t, "r@example.com", "Secret123!", domain.RoleUser)
	ctx := context.Background()

	require.NoError(t, env.svc.ForgotPassword(ctx, domain.ForgetPasswordRequest{Email: "r@example.com"}))
	token := mailedToken(t, env.mailer.last(), "https://app.test/reset-password?token=")

	require.NoError(t, env.svc.ChangePassword(ctx, u.ID.String(), "current", domain.ChangePasswordRequest{
		OldPassword: "Secret123!",
		NewPassword: "Changed123!",
	}))

	err := env.svc.ResetPassword(ctx, domain.ResetPasswordRequest{Token: token, NewPassword: "Brand123!"})
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	_, err = env.svc.Login(ctx, domain.UserLoginRequest{Email: "r@example.com", Password: "Changed123!"}, domain.ClientInfo{})
	assert.NoError(t, err)
}

func mailedToken(t *testing.T, body, prefix string) string {
	t.Helper()
	idx := strings.Index(body, prefix)
	require.GreaterOrEqual(t, idx, 0, body)
	token := body[idx+len(prefix):]
	if end := strings.IndexAny(token, "\"<& \n"); end >= 0 {
		token = token[:end]
	}
	require.NotEmpty(t, token)
	return token
}

func TestUpdateProfileAndAvatar(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.seedUser(t, "p@example.com", "Secret123!", domain.RoleUser)
	env.repo.users[u.ID].AvatarURL = "https://cdn.test/avatars/old.png"
	ctx := context.Background()

	bio := "I bake."
	res, err := env.svc.UpdateProfile(ctx, u.ID.String(), domain.UpdateUserRequest{Name: " Pat ", Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Pat", res.Name)
	assert.Equal(t, "I bake.", res.Bio)

	res, err = env.svc.UpdateProfile(ctx, u.ID.String(), domain.UpdateUserRequest{Name: "Patricia"})
	require.NoError(t, err)
	assert.Equal(t, "I bake.", res.Bio, "absent bio is left alone")

	empty := ""
	res, err = env.svc.UpdateProfile(ctx, u.ID.String(), domain.UpdateUserRequest{Bio: &empty})
	require.NoError(t, err)
	assert.Empty(t, res.Bio)
	assert.Equal(t, "Patricia", res.Name)
	assert.Empty(t, env.repo.users[u.ID].Bio)

	res, err = env.svc.UploadAvatar(ctx, u.ID.String(), &multipart.FileHeader{Filename: "me.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/avatars/new.png", res.AvatarURL)
	assert.Equal(t, []string{"avatars/old.png"}, env.s3.deleted)
}

func TestGetPublicProfile(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.seedUser(t, "pub@example.com", "Secret123!", domain.RoleChef)

	res, err := env.svc.GetPublicProfile(context.Background(), u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleChef, res.Role)

	_, err = env.svc.GetPublicProfile(context.Background(), "bad-id")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestOAuthNotConfigured(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.svc.OAuthLoginURL(context.Background())
	assert.ErrorIs(t, err, domain.ErrOAuthNotConfigured)
	_, err = env.svc.OAuthCallback(context.Background(), domain.OAuthCallbackRequest{State: "s", Code: "c"}, domain.ClientInfo{})
	assert.ErrorIs(t, err, domain.ErrOAuthNotConfigured)
}

// oauthStart begins a login and returns the callback request the browser
// would send back, with the nonce from its state cookie.
func oauthStart(t *testing.T, env *testEnv) domain.OAuthCallbackRequest {
	t.Helper()
	res, err := env.svc.OAuthLoginURL(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, res.Nonce)
	idx := strings.Index(res.URL, "state=")
	require.Greater(t, idx, 0)
	return domain.OAuthCallbackRequest{State: res.URL[idx+len("state="):], Code: "code", Nonce: res.Nonce}
}

func TestOAuthCallbackCreatesUser(t *testing.T) {
	provider := &fakeProvider{info: &oauth.UserInfo{
		ID:            "g-123",
		Email:         "New@Gmail.com",
		EmailVerified: true,
		Name:          "Newcomer",
	}}
	env := newTestEnv(t, provider)
	ctx := context.Background()

	res, err := env.svc.OAuthCallback(ctx, oauthStart(t, env), domain.ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, "new@gmail.com", res.User.Email)
	assert.Equal(t, domain.RoleUser, res.User.Role)
	assert.True(t, res.User.IsVerified)

	again, err := env.svc.OAuthCallback(ctx, oauthStart(t, env), domain.ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, again.User.ID)
	assert.Len(t, env.repo.users, 1)
}

func TestOAuthCallbackLinksVerifiedEmail(t *testing.T) {
	provider := &fakeProvider{info: &oauth.UserInfo{ID: "g-9", Email: "link@example.com", EmailVerified: true}}
	env := newTestEnv(t, provider)
	u := env.seedUser(t, "link@example.com", "Secret123!", domain.RoleChef)

	res, err := env.svc.OAuthCallback(context.Background(), oauthStart(t, env), domain.ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), res.User.ID)
	assert.Equal(t, domain.RoleChef, res.User.Role)

	stored, _ := env.repo.GetUserByID(context.Background(), u.ID.String())
	require.NotNil(t, stored.OAuthID)
	assert.Equal(t, "g-9", *stored.OAuthID)
}

func TestOAuthCallbackRefusesUnverifiedLink(t *testing.T) {
	provider := &fakeProvider{info: &oauth.UserInfo{ID: "g-1", Email: "taken@example.com", EmailVerified: false}}
	env := newTestEnv(t, provider)
	env.seedUser(t, "taken@example.com", "Secret123!", domain.RoleUser)

	_, err := env.svc.OAuthCallback(context.Background(), oauthStart(t, env), domain.ClientInfo{})
	assert.ErrorIs(t, err, domain.ErrOAuthEmailUnverified)
}

func TestOAuthCallbackBadState(t *testing.T) {
	env := newTestEnv(t, &fakeProvider{})

	_, err := env.svc.OAuthCallback(context.Background(), domain.OAuthCallbackRequest{State: "forged", Code: "code"}, domain.ClientInfo{})
	assert.ErrorIs(t, err, domain.ErrOAuthStateInvalid)
}

func TestOAuthCallbackRequiresStateCookie(t *testing.T) {
	provider := &fakeProvider{info: &oauth.UserInfo{ID: "g-5", Email: "x@example.com", EmailVerified: true}}
	env := newTestEnv(t, provider)
	ctx := context.Background()

	req := oauthStart(t, env)
	req.Nonce = ""
	_, err := env.svc.OAuthCallback(ctx, req, domain.ClientInfo{})
	assert.ErrorIs(t, err, domain.ErrOAuthStateInvalid)

	other := oauthStart(t, env)
	req.Nonce = other.Nonce
	_, err = env.svc.OAuthCallback(ctx, req, domain.ClientInfo{})
	assert.ErrorIs(t, err, domain.ErrOAuthStateInvalid)
	assert.Empty(t, env.repo.users)
}

func TestOAuthCallbackExchangeFailure(t *testing.T) {
	env := newTestEnv(t, &fakeProvider{err: errors.New("bad code")})

	_, err := env.svc.OAuthCallback(context.Background(), oauthStart(t, env), domain.ClientInfo{})
	assert.ErrorIs(t, err, domain.ErrOAuthExchangeFailed)
}

func TestPurgeExpiredSessions(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.seedUser(t, "purge@example.com", "Secret123!", domain.RoleUser)
	ctx := context.Background()
	require.NoError(t, env.repo.CreateSession(ctx, &entities.Session{UserID: u.ID, Token: "old", ExpiresAt: time.Now().Add(-time.Hour)}))
	require.NoError(t, env.repo.CreateSession(ctx, &entities.Session{UserID: u.ID, Token: "new", ExpiresAt: time.Now().Add(time.Hour)}))

	n, err := env.svc.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
