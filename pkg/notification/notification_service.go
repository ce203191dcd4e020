package notification

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"Recipe-Platform/internal/metrics"
	"Recipe-Platform/internal/utils/logging"
	"Recipe-Platform/internal/utils/mailing"
	"Recipe-Platform/internal/utils/push"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type (
	// Notifier is what other services use to tell users about events.
	// Delivery problems are logged, never returned.
	Notifier interface {
		Notify(ctx context.Context, userID string, notice domain.Notice)
		NotifyAdmins(ctx context.Context, notice domain.Notice)
	}

	NotificationService interface {
		Notifier
		List(ctx context.Context, userID string, unreadOnly bool, page, limit int) ([]domain.Notification, domain.Pagination, error)
		UnreadCount(ctx context.Context, userID string) (int64, error)
		MarkRead(ctx context.Context, userID, id string) error
		MarkAllRead(ctx context.Context, userID string) (int64, error)
		Delete(ctx context.Context, userID, id string) error
		GetPreferences(ctx context.Context, userID string) (domain.NotificationPreference, error)
		UpdatePreferences(ctx context.Context, userID string, req domain.UpdatePreferenceRequest) (domain.NotificationPreference, error)
		PurgeRead(ctx context.Context, olderThan time.Duration) (int64, error)
	}

	notificationService struct {
		notificationRepository NotificationRepository
		mailer                 mailing.Mailer
		pusher                 push.Sender
		appURL                 string
		now                    func() time.Time
	}
)

// NewNotificationService accepts a nil mailer or pusher; that channel is then
// skipped.
func NewNotificationService(
	notificationRepository NotificationRepository,
	mailer mailing.Mailer,
	pusher push.Sender,
	appURL string,
) NotificationService {
	return &notificationService{
		notificationRepository: notificationRepository,
		mailer:                 mailer,
		pusher:                 pusher,
		appURL:                 strings.TrimRight(appURL, "/"),
		now:                    time.Now,
	}
}

func (s *notificationService) Notify(ctx context.Context, userID string, notice domain.Notice) {
	log := logging.With().Str("user_id", userID).Str("type", notice.Type).Logger()

	uid, err := uuid.Parse(userID)
	if err != nil {
		log.Warn().Err(err).Msg("notify: invalid user id")
		return
	}

	pref, err := s.notificationRepository.GetPreference(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("notify: failed to load preferences")
		return
	}
	if pref == nil {
		def := entities.DefaultNotificationPreference(uid)
		pref = &def
	}

	if !categoryEnabled(pref, domain.NoticeCategory(notice.Type)) {
		return
	}

	if pref.InAppEnabled {
		err := s.notificationRepository.CreateNotification(ctx, &entities.Notification{
			UserID:  uid,
			Type:    notice.Type,
			Title:   notice.Title,
			Message: notice.Message,
			Link:    notice.Link,
		})
		metrics.RecordNotification("in_app", err)
		if err != nil {
			log.Error().Err(err).Msg("notify: failed to store notification")
		}
	}

	if pref.EmailEnabled && s.mailer != nil {
		err := s.sendEmail(ctx, userID, notice)
		metrics.RecordNotification("email", err)
		if err != nil {
			log.Warn().Err(err).Msg("notify: email not delivered")
		}
	}

	if pref.PushEnabled && pref.PushToken != "" && s.pusher != nil {
		err := s.pusher.Send(ctx, push.Message{
			To:    pref.PushToken,
			Title: notice.Title,
			Body:  notice.Message,
			Data:  map[string]string{"type": notice.Type, "link": notice.Link},
		})
		metrics.RecordNotification("push", err)
		if err != nil {
			log.Warn().Err(err).Msg("notify: push not delivered")
		}
	}
}

func (s *notificationService) sendEmail(ctx context.Context, userID string, notice domain.Notice) error {
	user, err := s.notificationRepository.GetRecipient(ctx, userID)
	if err != nil {
		return err
	}

	link := notice.Link
	if link != "" && strings.HasPrefix(link, "/") {
		link = s.appURL + link
	}

	body, err := mailing.NotificationBody(mailing.NotificationEmailData{
		Name:    user.Name,
		Message: notice.Message,
		Link:    link,
	})
	if err != nil {
		return err
	}
	return s.mailer.SendMail(user.Email, notice.Title, body)
}

func (s *notificationService) NotifyAdmins(ctx context.Context, notice domain.Notice) {
	ids, err := s.notificationRepository.GetUserIDsByRole(ctx, domain.RoleAdmin)
	if err != nil {
		logging.Error().Err(err).Str("type", notice.Type).Msg("notify: failed to load admins")
		return
	}
	for _, id := range ids {
		s.Notify(ctx, id.String(), notice)
	}
}

func categoryEnabled(pref *entities.NotificationPreference, category string) bool {
	switch category {
	case "recipe_updates":
		return pref.RecipeUpdates
	case "comment_activity":
		return pref.CommentActivity
	case "rating_activity":
		return pref.RatingActivity
	default:
		return true
	}
}

func (s *notificationService) List(ctx context.Context, userID string, unreadOnly bool, page, limit int) ([]domain.Notification, domain.Pagination, error) {
	page, limit = domain.NormalizePage(page, limit)

	rows, count, err := s.notificationRepository.GetNotifications(ctx, userID, unreadOnly, page, limit)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	res := make([]domain.Notification, 0, len(rows))
	for _, n := range rows {
		res = append(res, domain.Notification{
			ID:        n.ID.String(),
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			Link:      n.Link,
			IsRead:    n.IsRead,
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		})
	}
	return res, domain.NewPagination(page, limit, count), nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.notificationRepository.CountUnread(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotificationNotFound
	}
	return s.notificationRepository.MarkRead(ctx, userID, id, s.now())
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.notificationRepository.MarkAllRead(ctx, userID, s.now())
}

func (s *notificationService) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotificationNotFound
	}
	return s.notificationRepository.DeleteNotification(ctx, userID, id)
}

func (s *notificationService) GetPreferences(ctx context.Context, userID string) (domain.NotificationPreference, error) {
	pref, err := s.loadPreference(ctx, userID)
	if err != nil {
		return domain.NotificationPreference{}, err
	}
	return toPreference(pref), nil
}

func (s *notificationService) UpdatePreferences(ctx context.Context, userID string, req domain.UpdatePreferenceRequest) (domain.NotificationPreference, error) {
	pref, err := s.loadPreference(ctx, userID)
	if err != nil {
		return domain.NotificationPreference{}, err
	}

	setBool(&pref.EmailEnabled, req.EmailEnabled)
	setBool(&pref.PushEnabled, req.PushEnabled)
	setBool(&pref.InAppEnabled, req.InAppEnabled)
	setBool(&pref.RecipeUpdates, req.RecipeUpdates)
	setBool(&pref.CommentActivity, req.CommentActivity)
	setBool(&pref.RatingActivity, req.RatingActivity)
	if req.PushToken != nil {
		pref.PushToken = strings.TrimSpace(*req.PushToken)
	}
	pref.UpdatedAt = s.now()

	if err := s.notificationRepository.SavePreference(ctx, pref); err != nil {
		return domain.NotificationPreference{}, err
	}
	return toPreference(pref), nil
}

func (s *notificationService) loadPreference(ctx context.Context, userID string) (*entities.NotificationPreference, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	pref, err := s.notificationRepository.GetPreference(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		def := entities.DefaultNotificationPreference(uid)
		pref = &def
	}
	return pref, nil
}

// PurgeRead removes read notifications created before now-olderThan.
func (s *notificationService) PurgeRead(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.notificationRepository.DeleteReadBefore(ctx, s.now().Add(-olderThan))
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func toPreference(p *entities.NotificationPreference) domain.NotificationPreference {
	return domain.NotificationPreference{
		EmailEnabled:    p.EmailEnabled,
		PushEnabled:     p.PushEnabled,
		InAppEnabled:    p.InAppEnabled,
		RecipeUpdates:   p.RecipeUpdates,
		CommentActivity: p.CommentActivity,
		RatingActivity:  p.RatingActivity,
		HasPushToken:    p.PushToken != "",
	}
}
