package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/sentiment"
)

// MockCampaignRepository mocks the CampaignRepository interface
type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	args := m.Called(ctx, campaign)
	return args.Error(0)
}

func (m *MockCampaignRepository) Get(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Campaign, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) List(ctx context.Context, workspaceID uuid.UUID, filter domain.CampaignFilter, params domain.ListParams) ([]domain.Campaign, int, error) {
	args := m.Called(ctx, workspaceID, filter, params)
	return args.Get(0).([]domain.Campaign), args.Int(1), args.Error(2)
}

func (m *MockCampaignRepository) Update(ctx context.Context, workspaceID, id uuid.UUID, update domain.CampaignUpdate) error {
	args := m.Called(ctx, workspaceID, id, update)
	return args.Error(0)
}

func (m *MockCampaignRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	args := m.Called(ctx, workspaceID, id)
	return args.Error(0)
}

func (m *MockCampaignRepository) MarkSending(ctx context.Context, workspaceID, id uuid.UUID) error {
	args := m.Called(ctx, workspaceID, id)
	return args.Error(0)
}

func (m *MockCampaignRepository) FinishSentCampaigns(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCampaignRepository) AddRecipients(ctx context.Context, campaignID uuid.UUID, recipients []domain.Recipient) error {
	args := m.Called(ctx, campaignID, recipients)
	return args.Error(0)
}

func (m *MockCampaignRepository) ListRecipients(ctx context.Context, campaignID uuid.UUID, params domain.ListParams) ([]domain.Recipient, int, error) {
	args := m.Called(ctx, campaignID, params)
	return args.Get(0).([]domain.Recipient), args.Int(1), args.Error(2)
}

func (m *MockCampaignRepository) RecipientStats(ctx context.Context, campaignID uuid.UUID) (*domain.RecipientStats, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecipientStats), args.Error(1)
}

// MockPostRepository mocks the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *domain.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Get(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Post, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, workspaceID uuid.UUID, filter domain.PostFilter, params domain.ListParams) ([]domain.Post, int, error) {
	args := m.Called(ctx, workspaceID, filter, params)
	return args.Get(0).([]domain.Post), args.Int(1), args.Error(2)
}

func (m *MockPostRepository) Update(ctx context.Context, workspaceID, id uuid.UUID, update domain.PostUpdate) error {
	args := m.Called(ctx, workspaceID, id, update)
	return args.Error(0)
}

func (m *MockPostRepository) SetStatus(ctx context.Context, workspaceID, id uuid.UUID, status string, publishedAt *time.Time) error {
	args := m.Called(ctx, workspaceID, id, status, publishedAt)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	args := m.Called(ctx, workspaceID, id)
	return args.Error(0)
}

// MockLoyaltyRepository mocks the LoyaltyRepository interface
type MockLoyaltyRepository struct {
	mock.Mock
}

func (m *MockLoyaltyRepository) Create(ctx context.Context, member *domain.LoyaltyMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockLoyaltyRepository) Get(ctx context.Context, workspaceID, id uuid.UUID) (*domain.LoyaltyMember, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoyaltyMember), args.Error(1)
}

func (m *MockLoyaltyRepository) List(ctx context.Context, workspaceID uuid.UUID, filter domain.LoyaltyFilter, params domain.ListParams) ([]domain.LoyaltyMember, int, error) {
	args := m.Called(ctx, workspaceID, filter, params)
	return args.Get(0).([]domain.LoyaltyMember), args.Int(1), args.Error(2)
}

func (m *MockLoyaltyRepository) Update(ctx context.Context, workspaceID, id uuid.UUID, update domain.LoyaltyMemberUpdate) error {
	args := m.Called(ctx, workspaceID, id, update)
	return args.Error(0)
}

func (m *MockLoyaltyRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	args := m.Called(ctx, workspaceID, id)
	return args.Error(0)
}

func (m *MockLoyaltyRepository) AdjustPoints(ctx context.Context, workspaceID, id uuid.UUID, delta int, reason string) (*domain.LoyaltyMember, error) {
	args := m.Called(ctx, workspaceID, id, delta, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoyaltyMember), args.Error(1)
}

func (m *MockLoyaltyRepository) ListTransactions(ctx context.Context, workspaceID, memberID uuid.UUID, params domain.ListParams) ([]domain.PointsTransaction, int, error) {
	args := m.Called(ctx, workspaceID, memberID, params)
	return args.Get(0).([]domain.PointsTransaction), args.Int(1), args.Error(2)
}

func (m *MockLoyaltyRepository) RecalculateTiers(ctx context.Context, workspaceID uuid.UUID) (int, error) {
	args := m.Called(ctx, workspaceID)
	return args.Int(0), args.Error(1)
}

func (m *MockLoyaltyRepository) RecalculateAllTiers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockReviewRepository mocks the ReviewRepository interface
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Get(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Review, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) List(ctx context.Context, workspaceID uuid.UUID, filter domain.ReviewFilter, params domain.ListParams) ([]domain.Review, int, error) {
	args := m.Called(ctx, workspaceID, filter, params)
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *MockReviewRepository) SetReply(ctx context.Context, workspaceID, id uuid.UUID, reply string) error {
	args := m.Called(ctx, workspaceID, id, reply)
	return args.Error(0)
}

func (m *MockReviewRepository) SetSentiment(ctx context.Context, workspaceID, id uuid.UUID, label string, score float64) error {
	args := m.Called(ctx, workspaceID, id, label, score)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	args := m.Called(ctx, workspaceID, id)
	return args.Error(0)
}

// MockWebhookRepository mocks the WebhookRepository interface
type MockWebhookRepository struct {
	mock.Mock
}

func (m *MockWebhookRepository) Create(ctx context.Context, endpoint *domain.WebhookEndpoint) error {
	args := m.Called(ctx, endpoint)
	return args.Error(0)
}

func (m *MockWebhookRepository) Get(ctx context.Context, workspaceID, id uuid.UUID) (*domain.WebhookEndpoint, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WebhookEndpoint), args.Error(1)
}

func (m *MockWebhookRepository) GetWithSecret(ctx context.Context, id uuid.UUID) (*domain.WebhookEndpoint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WebhookEndpoint), args.Error(1)
}

func (m *MockWebhookRepository) List(ctx context.Context, workspaceID uuid.UUID, params domain.ListParams) ([]domain.WebhookEndpoint, int, error) {
	args := m.Called(ctx, workspaceID, params)
	return args.Get(0).([]domain.WebhookEndpoint), args.Int(1), args.Error(2)
}

func (m *MockWebhookRepository) ListSubscribed(ctx context.Context, workspaceID uuid.UUID, event string) ([]domain.WebhookEndpoint, error) {
	args := m.Called(ctx, workspaceID, event)
	return args.Get(0).([]domain.WebhookEndpoint), args.Error(1)
}

func (m *MockWebhookRepository) Update(ctx context.Context, workspaceID, id uuid.UUID, update domain.WebhookEndpointUpdate) error {
	args := m.Called(ctx, workspaceID, id, update)
	return args.Error(0)
}

func (m *MockWebhookRepository) RotateSecret(ctx context.Context, workspaceID, id uuid.UUID, secret string) error {
	args := m.Called(ctx, workspaceID, id, secret)
	return args.Error(0)
}

func (m *MockWebhookRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	args := m.Called(ctx, workspaceID, id)
	return args.Error(0)
}

func (m *MockWebhookRepository) CreateDelivery(ctx context.Context, delivery *domain.WebhookDelivery) error {
	args := m.Called(ctx, delivery)
	return args.Error(0)
}

func (m *MockWebhookRepository) GetDelivery(ctx context.Context, workspaceID, deliveryID uuid.UUID) (*domain.WebhookDelivery, error) {
	args := m.Called(ctx, workspaceID, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WebhookDelivery), args.Error(1)
}

func (m *MockWebhookRepository) GetDeliveryForDispatch(ctx context.Context, deliveryID uuid.UUID) (*domain.WebhookDelivery, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WebhookDelivery), args.Error(1)
}

func (m *MockWebhookRepository) ListDeliveries(ctx context.Context, workspaceID, endpointID uuid.UUID, params domain.ListParams) ([]domain.WebhookDelivery, int, error) {
	args := m.Called(ctx, workspaceID, endpointID, params)
	return args.Get(0).([]domain.WebhookDelivery), args.Int(1), args.Error(2)
}

func (m *MockWebhookRepository) RecordAttempt(ctx context.Context, deliveryID uuid.UUID, status string, responseStatus int, responseBody string) error {
	args := m.Called(ctx, deliveryID, status, responseStatus, responseBody)
	return args.Error(0)
}

// MockWorkspaceRepository mocks the workspace repository
type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) CreateWithOwner(ctx context.Context, workspace *domain.Workspace, owner *domain.WorkspaceMember) error {
	args := m.Called(ctx, workspace, owner)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) Update(ctx context.Context, id uuid.UUID, update *domain.WorkspaceUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) AddMember(ctx context.Context, member *domain.WorkspaceMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error) {
	args := m.Called(ctx, workspaceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceMember), args.Error(1)
}

func (m *MockWorkspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	args := m.Called(ctx, workspaceID, userID)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) GetCompany(ctx context.Context, workspaceID, companyID uuid.UUID) (*domain.Company, error) {
	args := m.Called(ctx, workspaceID, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

// MockUserRepository mocks the user repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockHooks mocks the Hooks interface
type MockHooks struct {
	mock.Mock
}

func (m *MockHooks) LogActivity(ctx context.Context, activity *domain.Activity) uuid.UUID {
	args := m.Called(ctx, activity)
	return args.Get(0).(uuid.UUID)
}

func (m *MockHooks) Notify(ctx context.Context, workspaceID, userID uuid.UUID, templateType string, vars map[string]any) {
	m.Called(ctx, workspaceID, userID, templateType, vars)
}

func (m *MockHooks) FireWebhook(ctx context.Context, workspaceID uuid.UUID, event string, data any) {
	m.Called(ctx, workspaceID, event, data)
}

func (m *MockHooks) FireTo(ctx context.Context, endpointID uuid.UUID, event string, data any) {
	m.Called(ctx, endpointID, event, data)
}

// noopHooks ignores every hook call, for tests that don't assert on side
// effects.
type noopHooks struct{}

func (noopHooks) LogActivity(context.Context, *domain.Activity) uuid.UUID { return uuid.Nil }
func (noopHooks) Notify(context.Context, uuid.UUID, uuid.UUID, string, map[string]any) {
}
func (noopHooks) FireWebhook(context.Context, uuid.UUID, string, any) {}
func (noopHooks) FireTo(context.Context, uuid.UUID, string, any)      {}

// MockRedeliverer mocks the redeliverer used by WebhookService
type MockRedeliverer struct {
	mock.Mock
}

func (m *MockRedeliverer) Redeliver(deliveryID, endpointID uuid.UUID) {
	m.Called(deliveryID, endpointID)
}

// MockSentimentEngine mocks sentiment.Engine
type MockSentimentEngine struct {
	mock.Mock
}

func (m *MockSentimentEngine) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockSentimentEngine) Analyze(ctx context.Context, text string) (sentiment.Result, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(sentiment.Result), args.Error(1)
}
