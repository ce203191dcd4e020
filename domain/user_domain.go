package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

const (
	MaxFailedLoginAttempts = 5
	AccountLockDuration    = 15 * time.Minute

	TokenPurposeResetPassword = "reset_password"
	TokenPurposeVerifyEmail   = "verify_email"
	TokenPurposeOAuthState    = "oauth_state"
)

var (
	MessageSuccessRegister         = "register success"
	MessageSuccessLogin            = "login success"
	MessageSuccessLogout           = "logout success"
	MessageSuccessGetDetailUser    = "success get detail user"
	MessageSuccessUpdateUser       = "success update user"
	MessageSuccessUploadAvatar     = "avatar uploaded successfully"
	MessageSuccessChangePassword   = "password changed successfully"
	MessageSuccessSendVerification = "verification email sent"
	MessageSuccessVerify           = "email verified successfully"
	MessageSuccessForgetPassword   = "if the email is registered, a reset link has been sent"
	MessageSuccessResetPassword    = "password reset successfully"
	MessageSuccessOAuthRedirect    = "oauth redirect url created"
	MessageSuccessGetPublicProfile = "success get user profile"
	MessageFailedRegister          = "failed to register"
	MessageFailedLogin             = "failed to login"
	MessageFailedLogout            = "failed to logout"
	MessageFailedGetDetailUser     = "failed get detail user"
	MessageFailedUpdateUser        = "failed update user"
	MessageFailedUploadAvatar      = "failed to upload avatar"
	MessageFailedChangePassword    = "failed to change password"
	MessageFailedSendVerification  = "failed to send verification email"
	MessageFailedVerify            = "failed to verify email"
	MessageFailedForgetPassword    = "failed to process forgot password"
	MessageFailedResetPassword     = "failed to reset password"
	MessageFailedOAuth             = "failed to sign in with provider"
	MessageFailedGetPublicProfile  = "failed to get user profile"

	ErrEmailAlreadyExists     = errors.New("email already exists")
	ErrUserNotFound           = errors.New("user not found")
	ErrCredentialsNotMatched  = errors.New("credentials not matched")
	ErrAccountLocked          = errors.New("account locked after too many failed login attempts")
	ErrUserBanned             = errors.New("user is banned")
	ErrAccountAlreadyVerified = errors.New("account already verified")
	ErrPasswordNotMatched     = errors.New("old password does not match")
	ErrPasswordNotSet         = errors.New("account has no password, sign in with your provider")
	ErrSessionNotFound        = errors.New("session not found")
	ErrSessionExpired         = errors.New("session expired")
	ErrOAuthNotConfigured     = errors.New("oauth provider not configured")
	ErrOAuthStateInvalid      = errors.New("oauth state invalid")
	ErrOAuthExchangeFailed    = errors.New("oauth code exchange failed")
	ErrOAuthEmailUnverified   = errors.New("oauth account email is not verified")
)

type (
	UserRegisterRequest struct {
		Name     string `json:"name" validate:"required,min=2,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,password"`
		Role     string `json:"role" validate:"omitempty,role"`
	}

	UserLoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	UserLoginResponse struct {
		Token     string       `json:"token"`
		ExpiresAt time.Time    `json:"expires_at"`
		User      UserResponse `json:"user"`
	}

	UserResponse struct {
		ID          string     `json:"id"`
		Name        string     `json:"name"`
		Email       string     `json:"email"`
		Role        string     `json:"role"`
		AvatarURL   string     `json:"avatar_url,omitempty"`
		Bio         string     `json:"bio,omitempty"`
		IsVerified  bool       `json:"is_verified"`
		IsBanned    bool       `json:"is_banned"`
		LastLoginAt *time.Time `json:"last_login_at,omitempty"`
		CreatedAt   time.Time  `json:"created_at"`
	}

	PublicProfileResponse struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Role      string    `json:"role"`
		AvatarURL string    `json:"avatar_url,omitempty"`
		Bio       string    `json:"bio,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}

	UpdateUserRequest struct {
		Name string  `json:"name" validate:"omitempty,min=2,max=100"`
		Bio  *string `json:"bio" validate:"omitempty,max=1000"`
	}

	UploadAvatarRequest struct {
		Avatar *multipart.FileHeader `json:"avatar" form:"avatar" validate:"required"`
	}

	ChangePasswordRequest struct {
		OldPassword string `json:"old_password" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,password"`
	}

	SendVerifyEmailRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	VerifyEmailRequest struct {
		Token string `json:"token" validate:"required"`
	}

	ForgetPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordRequest struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,password"`
	}

	OAuthRedirectResponse struct {
		URL   string `json:"url"`
		Nonce string `json:"-"`
	}

	// OAuthCallbackRequest carries Nonce from the state cookie set when the
	// flow started.
	OAuthCallbackRequest struct {
		State string `json:"state" query:"state" validate:"required"`
		Code  string `json:"code" query:"code" validate:"required"`
		Nonce string `json:"-" query:"-"`
	}

	// ClientInfo describes the caller of a session-creating request.
	ClientInfo struct {
		UserAgent string
		IPAddress string
	}
)
