package hooks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/mailer"
	"github.com/pulsecrm/backend/internal/queue"
	"github.com/pulsecrm/backend/internal/sms"
)

type userGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Recorder bundles the side effects that run after successful mutations:
// activity log entries, user notifications and webhook deliveries. Every
// method is best-effort; a failing side effect is logged and swallowed so it
// never fails the request that triggered it.
type Recorder struct {
	activities    domain.ActivityRepository
	notifications domain.NotificationRepository
	webhooks      domain.WebhookRepository
	users         userGetter
	mail          mailer.Sender
	sms           sms.Sender
	queue         *queue.Client
	dispatcher    *Dispatcher
	logger        zerolog.Logger
}

func NewRecorder(
	activities domain.ActivityRepository,
	notifications domain.NotificationRepository,
	webhooks domain.WebhookRepository,
	users userGetter,
	mail mailer.Sender,
	smsSender sms.Sender,
	queueClient *queue.Client,
	dispatcher *Dispatcher,
	logger zerolog.Logger,
) *Recorder {
	return &Recorder{
		activities:    activities,
		notifications: notifications,
		webhooks:      webhooks,
		users:         users,
		mail:          mail,
		sms:           smsSender,
		queue:         queueClient,
		dispatcher:    dispatcher,
		logger:        logger.With().Str("component", "hooks").Logger(),
	}
}

// LogActivity writes an activity log entry. Returns the entry ID, or
// uuid.Nil when the write failed.
func (r *Recorder) LogActivity(ctx context.Context, activity *domain.Activity) uuid.UUID {
	activity.ID = uuid.New()
	activity.CreatedAt = time.Now().UTC()

	if err := r.activities.Create(ctx, activity); err != nil {
		r.logger.Error().Err(err).
			Str("entity_type", activity.EntityType).
			Str("activity_type", activity.ActivityType).
			Msg("failed to write activity entry")
		return uuid.Nil
	}

	return activity.ID
}

// Notify delivers a templated notification to a user across their enabled
// channels. A preference row with every channel off short-circuits before
// any insert or send.
func (r *Recorder) Notify(ctx context.Context, workspaceID, userID uuid.UUID, templateType string, vars map[string]any) {
	pref, err := r.notifications.GetPreference(ctx, userID, templateType)
	if err != nil {
		r.logger.Error().Err(err).Str("template", templateType).Msg("failed to load channel preference")
		return
	}
	if pref == nil {
		// No row means the user never opted out: in-app and email on, SMS off.
		pref = &domain.ChannelPreference{InApp: true, Email: true}
	}
	if pref.AllDisabled() {
		return
	}

	title, body := resolveTemplate(templateType, vars)

	if pref.InApp {
		notification := &domain.Notification{
			ID:           uuid.New(),
			WorkspaceID:  workspaceID,
			UserID:       userID,
			TemplateType: templateType,
			Title:        title,
			Body:         body,
			Variables:    vars,
			CreatedAt:    time.Now().UTC(),
		}
		if err := r.notifications.Create(ctx, notification); err != nil {
			r.logger.Error().Err(err).Str("template", templateType).Msg("failed to create notification")
		}
	}

	if !pref.Email && !pref.SMS {
		return
	}

	user, err := r.users.GetByID(ctx, userID)
	if err != nil || user == nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to load user for notification")
		return
	}

	if pref.Email && r.mail.Enabled() && user.Email != "" {
		email := mailer.Email{
			To:      []string{user.Email},
			Subject: title,
			Text:    body,
		}
		if err := r.mail.Send(ctx, email); err != nil {
			r.logger.Error().Err(err).Str("template", templateType).Msg("failed to send notification email")
		}
	}

	if pref.SMS && r.sms.Enabled() && user.Phone != "" {
		if err := r.sms.Send(ctx, user.Phone, title+": "+body); err != nil {
			r.logger.Error().Err(err).Str("template", templateType).Msg("failed to send notification sms")
		}
	}
}

// webhookEnvelope is the wire format posted to endpoints.
type webhookEnvelope struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// FireWebhook posts an event to every active endpoint subscribed to it. One
// delivery row is recorded per endpoint regardless of outcome; a failed first
// attempt is handed to the queue for retry with backoff.
func (r *Recorder) FireWebhook(ctx context.Context, workspaceID uuid.UUID, event string, data any) {
	endpoints, err := r.webhooks.ListSubscribed(ctx, workspaceID, event)
	if err != nil {
		r.logger.Error().Err(err).Str("event", event).Msg("failed to list subscribed endpoints")
		return
	}
	if len(endpoints) == 0 {
		return
	}

	payload, err := json.Marshal(webhookEnvelope{
		Event:     event,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		r.logger.Error().Err(err).Str("event", event).Msg("failed to marshal webhook payload")
		return
	}

	for i := range endpoints {
		r.deliverTo(ctx, &endpoints[i], event, payload)
	}
}

// FireTo posts an event at one specific endpoint, subscribed or not. Used by
// the endpoint test action.
func (r *Recorder) FireTo(ctx context.Context, endpointID uuid.UUID, event string, data any) {
	payload, err := json.Marshal(webhookEnvelope{
		Event:     event,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		r.logger.Error().Err(err).Str("event", event).Msg("failed to marshal webhook payload")
		return
	}

	r.deliverTo(ctx, &domain.WebhookEndpoint{ID: endpointID}, event, payload)
}

func (r *Recorder) deliverTo(ctx context.Context, listed *domain.WebhookEndpoint, event string, payload []byte) {
	// ListSubscribed omits secrets; reload with the secret for signing.
	endpoint, err := r.webhooks.GetWithSecret(ctx, listed.ID)
	if err != nil || endpoint == nil {
		r.logger.Error().Err(err).Str("endpoint_id", listed.ID.String()).Msg("failed to load endpoint secret")
		return
	}

	now := time.Now().UTC()
	delivery := &domain.WebhookDelivery{
		ID:         uuid.New(),
		EndpointID: endpoint.ID,
		Event:      event,
		Payload:    payload,
		Status:     domain.DeliveryStatusFailed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.webhooks.CreateDelivery(ctx, delivery); err != nil {
		r.logger.Error().Err(err).Str("endpoint_id", endpoint.ID.String()).Msg("failed to create delivery record")
		return
	}

	if err := r.dispatcher.Attempt(ctx, endpoint, delivery); err != nil {
		r.logger.Warn().Err(err).
			Str("endpoint_id", endpoint.ID.String()).
			Str("event", event).
			Msg("webhook delivery failed, scheduling retry")
		r.Redeliver(delivery.ID, endpoint.ID)
	}
}

// Redeliver enqueues a delivery attempt on the worker queue.
func (r *Recorder) Redeliver(deliveryID, endpointID uuid.UUID) {
	err := r.queue.EnqueueWebhookDeliver(queue.WebhookDeliverPayload{
		DeliveryID: deliveryID.String(),
		EndpointID: endpointID.String(),
	})
	if err != nil {
		r.logger.Error().Err(err).Str("delivery_id", deliveryID.String()).Msg("failed to enqueue delivery retry")
	}
}
