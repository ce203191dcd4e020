package user

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"Recipe-Platform/internal/metrics"
	"Recipe-Platform/internal/utils"
	"Recipe-Platform/internal/utils/logging"
	"Recipe-Platform/internal/utils/mailing"
	"Recipe-Platform/internal/utils/oauth"
	"Recipe-Platform/internal/utils/storage"
	"Recipe-Platform/pkg/jwt"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	verifyTokenTTL = 24 * time.Hour
	resetTokenTTL  = 30 * time.Minute
	oauthStateTTL  = 10 * time.Minute
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.UserRegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.UserLoginRequest, client domain.ClientInfo) (domain.UserLoginResponse, error)
		Logout(ctx context.Context, jti string) error
		LogoutAll(ctx context.Context, userID string) error
		ValidateSession(ctx context.Context, jti string) (*entities.User, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetPublicProfile(ctx context.Context, userID string) (domain.PublicProfileResponse, error)
		UpdateProfile(ctx context.Context, userID string, req domain.UpdateUserRequest) (domain.UserResponse, error)
		UploadAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (domain.UserResponse, error)
		ChangePassword(ctx context.Context, userID string, jti string, req domain.ChangePasswordRequest) error
		SendVerificationEmail(ctx context.Context, req domain.SendVerifyEmailRequest) error
		VerifyEmail(ctx context.Context, req domain.VerifyEmailRequest) error
		ForgotPassword(ctx context.Context, req domain.ForgetPasswordRequest) error
		ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
		OAuthLoginURL(ctx context.Context) (domain.OAuthRedirectResponse, error)
		OAuthCallback(ctx context.Context, req domain.OAuthCallbackRequest, client domain.ClientInfo) (domain.UserLoginResponse, error)
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		PurgeExpiredSessions(ctx context.Context) (int64, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		s3             storage.AwsS3
		mailer         mailing.Mailer
		oauthProvider  oauth.Provider
		appURL         string
		now            func() time.Time
	}
)

func NewUserService(
	userRepository UserRepository,
	jwtService jwt.JWTService,
	s3 storage.AwsS3,
	mailer mailing.Mailer,
	oauthProvider oauth.Provider,
	appURL string,
) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		s3:             s3,
		mailer:         mailer,
		oauthProvider:  oauthProvider,
		appURL:         strings.TrimRight(appURL, "/"),
		now:            time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req domain.UserRegisterRequest) (domain.UserResponse, error) {
	email := normalizeEmail(req.Email)

	_, err := s.userRepository.GetUserByEmail(ctx, email)
	if err == nil {
		return domain.UserResponse{}, domain.ErrEmailAlreadyExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.UserResponse{}, err
	}

	role := req.Role
	if role != domain.RoleChef {
		role = domain.RoleUser
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return domain.UserResponse{}, err
	}

	user, err := s.userRepository.RegisterUser(ctx, &entities.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hash,
		Role:     role,
	})
	if err != nil {
		return domain.UserResponse{}, err
	}

	if err := s.sendVerification(user); err != nil {
		logging.Warn().Err(err).Str("user_id", user.ID.String()).Msg("verification email not sent")
	}

	return ToUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req domain.UserLoginRequest, client domain.ClientInfo) (domain.UserLoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.RecordLogin("invalid")
			return domain.UserLoginResponse{}, domain.ErrCredentialsNotMatched
		}
		return domain.UserLoginResponse{}, err
	}

	now := s.now()
	if user.BanActive(now) {
		metrics.RecordLogin("banned")
		return domain.UserLoginResponse{}, domain.ErrUserBanned
	}
	if user.LockActive(now) {
		metrics.RecordLogin("locked")
		return domain.UserLoginResponse{}, domain.ErrAccountLocked
	}
	if user.LockedUntil != nil {
		// lock expired, start counting from zero again
		if err := s.userRepository.ResetLoginState(ctx, user.ID, nil); err != nil {
			return domain.UserLoginResponse{}, err
		}
	}

	if user.Password == "" {
		metrics.RecordLogin("invalid")
		return domain.UserLoginResponse{}, domain.ErrCredentialsNotMatched
	}
	if ok, _ := utils.CheckPassword(user.Password, []byte(req.Password)); !ok {
		return domain.UserLoginResponse{}, s.recordFailedLogin(ctx, user.ID, now)
	}

	if err := s.userRepository.ResetLoginState(ctx, user.ID, &now); err != nil {
		return domain.UserLoginResponse{}, err
	}
	user.LastLoginAt = &now
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil

	metrics.RecordLogin("success")
	return s.issueSession(ctx, user, client)
}

func (s *userService) recordFailedLogin(ctx context.Context, userID uuid.UUID, now time.Time) error {
	attempts, err := s.userRepository.IncrementFailedLogin(ctx, userID)
	if err != nil {
		return err
	}
	if attempts >= domain.MaxFailedLoginAttempts {
		if err := s.userRepository.LockUser(ctx, userID, now.Add(domain.AccountLockDuration)); err != nil {
			return err
		}
		logging.Warn().Str("user_id", userID.String()).Int("attempts", attempts).Msg("account locked")
		metrics.RecordLogin("locked")
		return domain.ErrAccountLocked
	}
	metrics.RecordLogin("invalid")
	return domain.ErrCredentialsNotMatched
}

func (s *userService) issueSession(ctx context.Context, user *entities.User, client domain.ClientInfo) (domain.UserLoginResponse, error) {
	token, jti, expiresAt, err := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	if err != nil {
		return domain.UserLoginResponse{}, err
	}

	session := &entities.Session{
		UserID:    user.ID,
		Token:     jti,
		UserAgent: truncate(client.UserAgent, 255),
		IPAddress: client.IPAddress,
		ExpiresAt: expiresAt,
	}
	if err := s.userRepository.CreateSession(ctx, session); err != nil {
		return domain.UserLoginResponse{}, err
	}

	return domain.UserLoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      ToUserResponse(user),
	}, nil
}

func (s *userService) Logout(ctx context.Context, jti string) error {
	return s.userRepository.DeleteSession(ctx, jti)
}

func (s *userService) LogoutAll(ctx context.Context, userID string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	_, err = s.userRepository.DeleteSessionsByUser(ctx, id, "")
	return err
}

func (s *userService) ValidateSession(ctx context.Context, jti string) (*entities.User, error) {
	session, err := s.userRepository.GetSessionByToken(ctx, jti)
	if err != nil {
		return nil, err
	}

	if !session.ExpiresAt.After(s.now()) {
		if err := s.userRepository.DeleteSession(ctx, jti); err != nil {
			logging.Warn().Err(err).Msg("failed to purge expired session")
		}
		return nil, domain.ErrSessionExpired
	}

	if session.User == nil {
		return s.userRepository.GetUserByID(ctx, session.UserID.String())
	}
	return session.User, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return ToUserResponse(user), nil
}

func (s *userService) GetPublicProfile(ctx context.Context, userID string) (domain.PublicProfileResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return domain.PublicProfileResponse{}, domain.ErrUserNotFound
	}
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.PublicProfileResponse{}, err
	}
	return domain.PublicProfileResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateUserRequest) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}

	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.UserResponse{}, err
	}
	return ToUserResponse(user), nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (domain.UserResponse, error) {
	if s.s3 == nil {
		return domain.UserResponse{}, domain.ErrStorageNotConfigured
	}
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	key, err := s.s3.UploadFile(ctx, file, "avatars", storage.AllowImage...)
	if err != nil {
		return domain.UserResponse{}, err
	}

	oldKey := s.s3.GetObjectKeyFromLink(user.AvatarURL)
	user.AvatarURL = s.s3.GetPublicLinkKey(key)
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.UserResponse{}, err
	}

	if oldKey != "" {
		if err := s.s3.DeleteFile(ctx, oldKey); err != nil {
			logging.Warn().Err(err).Str("key", oldKey).Msg("failed to delete old avatar")
		}
	}
	return ToUserResponse(user), nil
}

// ChangePassword keeps the caller's own session and revokes the others.
func (s *userService) ChangePassword(ctx context.Context, userID string, jti string, req domain.ChangePasswordRequest) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Password == "" {
		return domain.ErrPasswordNotSet
	}
	if ok, _ := utils.CheckPassword(user.Password, []byte(req.OldPassword)); !ok {
		return domain.ErrPasswordNotMatched
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepository.UpdatePassword(ctx, user.ID, hash, s.passwordChangeTime()); err != nil {
		return err
	}

	_, err = s.userRepository.DeleteSessionsByUser(ctx, user.ID, jti)
	return err
}

func (s *userService) SendVerificationEmail(ctx context.Context, req domain.SendVerifyEmailRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return err
	}
	if user.IsVerified {
		return domain.ErrAccountAlreadyVerified
	}
	return s.sendVerification(user)
}

func (s *userService) sendVerification(user *entities.User) error {
	if s.mailer == nil {
		return errors.New("mailer not configured")
	}
	token, err := s.jwtService.GeneratePurposeToken(domain.TokenPurposeVerifyEmail, map[string]any{
		"email": user.Email,
	}, verifyTokenTTL)
	if err != nil {
		return err
	}

	body, err := mailing.VerifyEmailBody(mailing.LinkEmailData{
		Name:      user.Name,
		Link:      fmt.Sprintf("%s/verify?token=%s", s.appURL, token),
		ExpiresIn: "24 hours",
	})
	if err != nil {
		return err
	}
	return s.mailer.SendMail(user.Email, "Verify your email", body)
}

func (s *userService) VerifyEmail(ctx context.Context, req domain.VerifyEmailRequest) error {
	claims, err := s.jwtService.ValidatePurposeToken(domain.TokenPurposeVerifyEmail, req.Token)
	if err != nil {
		return err
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return domain.ErrTokenInvalid
	}

	user, err := s.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return domain.ErrAccountAlreadyVerified
	}

	user.IsVerified = true
	return s.userRepository.UpdateUser(ctx, user)
}

// ForgotPassword does not reveal whether the email is registered.
func (s *userService) ForgotPassword(ctx context.Context, req domain.ForgetPasswordRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token, err := s.jwtService.GeneratePurposeToken(domain.TokenPurposeResetPassword, map[string]any{
		"email": user.Email,
		"pwd":   passwordStamp(user),
	}, resetTokenTTL)
	if err != nil {
		return err
	}

	body, err := mailing.ResetPasswordBody(mailing.LinkEmailData{
		Name:      user.Name,
		Link:      fmt.Sprintf("%s/reset-password?token=%s", s.appURL, token),
		ExpiresIn: "30 minutes",
	})
	if err != nil {
		return err
	}

	if s.mailer == nil {
		logging.Warn().Str("user_id", user.ID.String()).Msg("reset email not sent, mailer not configured")
		return nil
	}
	if err := s.mailer.SendMail(user.Email, "Reset your password", body); err != nil {
		logging.Warn().Err(err).Str("user_id", user.ID.String()).Msg("reset email not sent")
	}
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	claims, err := s.jwtService.ValidatePurposeToken(domain.TokenPurposeResetPassword, req.Token)
	if err != nil {
		return err
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return domain.ErrTokenInvalid
	}

	user, err := s.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if stamp, _ := claims["pwd"].(string); stamp != passwordStamp(user) {
		return domain.ErrTokenInvalid
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepository.UpdatePassword(ctx, user.ID, hash, s.passwordChangeTime()); err != nil {
		return err
	}

	_, err = s.userRepository.DeleteSessionsByUser(ctx, user.ID, "")
	return err
}

// passwordStamp changes with every password change, which retires reset links
// issued before it.
func passwordStamp(user *entities.User) string {
	if user.PasswordChangedAt == nil {
		return ""
	}
	return user.PasswordChangedAt.UTC().Format(time.RFC3339Nano)
}

// passwordChangeTime is truncated to the precision postgres stores.
func (s *userService) passwordChangeTime() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *userService) OAuthLoginURL(ctx context.Context) (domain.OAuthRedirectResponse, error) {
	if s.oauthProvider == nil {
		return domain.OAuthRedirectResponse{}, domain.ErrOAuthNotConfigured
	}
	nonce := uuid.NewString()
	state, err := s.jwtService.GeneratePurposeToken(domain.TokenPurposeOAuthState, map[string]any{
		"nonce":    nonce,
		"provider": s.oauthProvider.Name(),
	}, oauthStateTTL)
	if err != nil {
		return domain.OAuthRedirectResponse{}, err
	}
	return domain.OAuthRedirectResponse{URL: s.oauthProvider.AuthCodeURL(state), Nonce: nonce}, nil
}

// OAuthCallback links the provider account by provider id first, then by a
// verified email, and otherwise creates a new USER.
func (s *userService) OAuthCallback(ctx context.Context, req domain.OAuthCallbackRequest, client domain.ClientInfo) (domain.UserLoginResponse, error) {
	if s.oauthProvider == nil {
		return domain.UserLoginResponse{}, domain.ErrOAuthNotConfigured
	}
	// The state must come back to the browser that started the flow.
	claims, err := s.jwtService.ValidatePurposeToken(domain.TokenPurposeOAuthState, req.State)
	if err != nil {
		return domain.UserLoginResponse{}, domain.ErrOAuthStateInvalid
	}
	if nonce, _ := claims["nonce"].(string); nonce == "" || nonce != req.Nonce {
		return domain.UserLoginResponse{}, domain.ErrOAuthStateInvalid
	}

	info, err := s.oauthProvider.Exchange(ctx, req.Code)
	if err != nil {
		logging.Warn().Err(err).Msg("oauth exchange failed")
		return domain.UserLoginResponse{}, domain.ErrOAuthExchangeFailed
	}

	provider := s.oauthProvider.Name()
	user, err := s.userRepository.GetUserByOAuth(ctx, provider, info.ID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return domain.UserLoginResponse{}, err
	}

	if user == nil {
		user, err = s.linkOrCreateOAuthUser(ctx, provider, info)
		if err != nil {
			return domain.UserLoginResponse{}, err
		}
	}

	now := s.now()
	if user.BanActive(now) {
		return domain.UserLoginResponse{}, domain.ErrUserBanned
	}
	if err := s.userRepository.ResetLoginState(ctx, user.ID, &now); err != nil {
		return domain.UserLoginResponse{}, err
	}
	user.LastLoginAt = &now

	return s.issueSession(ctx, user, client)
}

func (s *userService) linkOrCreateOAuthUser(ctx context.Context, provider string, info *oauth.UserInfo) (*entities.User, error) {
	email := normalizeEmail(info.Email)
	existing, err := s.userRepository.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if !info.EmailVerified {
			return nil, domain.ErrOAuthEmailUnverified
		}
		existing.OAuthProvider = &provider
		existing.OAuthID = &info.ID
		existing.IsVerified = true
		if existing.AvatarURL == "" {
			existing.AvatarURL = info.Picture
		}
		if err := s.userRepository.UpdateUser(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case errors.Is(err, domain.ErrUserNotFound):
		name := strings.TrimSpace(info.Name)
		if name == "" {
			name = strings.Split(email, "@")[0]
		}
		oauthID := info.ID
		return s.userRepository.RegisterUser(ctx, &entities.User{
			Name:          name,
			Email:         email,
			Role:          domain.RoleUser,
			AvatarURL:     info.Picture,
			IsVerified:    info.EmailVerified,
			OAuthProvider: &provider,
			OAuthID:       &oauthID,
		})
	default:
		return nil, err
	}
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	return s.userRepository.GetUserByID(ctx, id)
}

func (s *userService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.userRepository.DeleteExpiredSessions(ctx, s.now())
}

func ToUserResponse(user *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:          user.ID.String(),
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		AvatarURL:   user.AvatarURL,
		Bio:         user.Bio,
		IsVerified:  user.IsVerified,
		IsBanned:    user.IsBanned,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
