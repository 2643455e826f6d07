package queue

// Task types handled by cmd/worker.
const (
	TypeWebhookDeliver  = "webhook:deliver"
	TypeCampaignAdvance = "campaign:advance"
	TypeLoyaltyRetier   = "loyalty:retier"
)

// WebhookDeliverPayload identifies one delivery row to attempt.
type WebhookDeliverPayload struct {
	DeliveryID string `json:"delivery_id"`
	EndpointID string `json:"endpoint_id"`
}
