package domain

import (
	"errors"
	"time"
)

const (
	NotificationRecipeSubmitted   = "recipe_submitted"
	NotificationRecipeResubmitted = "recipe_resubmitted"
	NotificationRecipeApproved    = "recipe_approved"
	NotificationRecipeRejected    = "recipe_rejected"
	NotificationCommentCreated    = "comment_created"
	NotificationCommentReply      = "comment_reply"
	NotificationRecipeRated       = "recipe_rated"
	NotificationAccountBanned     = "account_banned"
)

var (
	MessageSuccessGetNotifications    = "success get notifications"
	MessageSuccessReadNotification    = "notification marked as read"
	MessageSuccessReadAllNotification = "all notifications marked as read"
	MessageSuccessDeleteNotification  = "notification deleted"
	MessageSuccessGetPreferences      = "success get notification preferences"
	MessageSuccessUpdatePreferences   = "notification preferences updated"
	MessageSuccessGetUnreadCount      = "success get unread count"

	MessageFailedGetNotifications    = "failed to get notifications"
	MessageFailedReadNotification    = "failed to mark notification as read"
	MessageFailedReadAllNotification = "failed to mark all notifications as read"
	MessageFailedDeleteNotification  = "failed to delete notification"
	MessageFailedGetPreferences      = "failed to get notification preferences"
	MessageFailedUpdatePreferences   = "failed to update notification preferences"
	MessageFailedGetUnreadCount      = "failed to get unread count"

	ErrNotificationNotFound = errors.New("notification not found")
)

type (
	// Notice is a notification about to be delivered to one user.
	Notice struct {
		Type    string
		Title   string
		Message string
		Link    string
	}

	Notification struct {
		ID        string     `json:"id"`
		Type      string     `json:"type"`
		Title     string     `json:"title"`
		Message   string     `json:"message"`
		Link      string     `json:"link,omitempty"`
		IsRead    bool       `json:"is_read"`
		ReadAt    *time.Time `json:"read_at,omitempty"`
		CreatedAt time.Time  `json:"created_at"`
	}

	NotificationPreference struct {
		EmailEnabled    bool `json:"email_enabled"`
		PushEnabled     bool `json:"push_enabled"`
		InAppEnabled    bool `json:"in_app_enabled"`
		RecipeUpdates   bool `json:"recipe_updates"`
		CommentActivity bool `json:"comment_activity"`
		RatingActivity  bool `json:"rating_activity"`
		HasPushToken    bool `json:"has_push_token"`
	}

	UpdatePreferenceRequest struct {
		EmailEnabled    *bool   `json:"email_enabled"`
		PushEnabled     *bool   `json:"push_enabled"`
		InAppEnabled    *bool   `json:"in_app_enabled"`
		RecipeUpdates   *bool   `json:"recipe_updates"`
		CommentActivity *bool   `json:"comment_activity"`
		RatingActivity  *bool   `json:"rating_activity"`
		PushToken       *string `json:"push_token" validate:"omitempty,max=255"`
	}
)

// NoticeCategory groups notification types under the preference toggle that
// controls them. An empty result means the type is always delivered.
func NoticeCategory(noticeType string) string {
	switch noticeType {
	case NotificationRecipeSubmitted, NotificationRecipeResubmitted, NotificationRecipeApproved, NotificationRecipeRejected:
		return "recipe_updates"
	case NotificationCommentCreated, NotificationCommentReply:
		return "comment_activity"
	case NotificationRecipeRated:
		return "rating_activity"
	default:
		return ""
	}
}
