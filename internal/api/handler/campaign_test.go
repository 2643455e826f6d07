package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecrm/backend/internal/api/middleware"
	"github.com/pulsecrm/backend/internal/api/response"
	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/service"
)

// stubCampaignRepo implements domain.CampaignRepository with overridable
// function fields. Unset methods are no-ops.
type stubCampaignRepo struct {
	create func(ctx context.Context, campaign *domain.Campaign) error
	get    func(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Campaign, error)
	list   func(ctx context.Context, workspaceID uuid.UUID, filter domain.CampaignFilter, params domain.ListParams) ([]domain.Campaign, int, error)
}

func (s *stubCampaignRepo) Create(ctx context.Context, campaign *domain.Campaign) error {
	if s.create != nil {
		return s.create(ctx, campaign)
	}
	return nil
}

func (s *stubCampaignRepo) Get(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Campaign, error) {
	if s.get != nil {
		return s.get(ctx, workspaceID, id)
	}
	return nil, nil
}

func (s *stubCampaignRepo) List(ctx context.Context, workspaceID uuid.UUID, filter domain.CampaignFilter, params domain.ListParams) ([]domain.Campaign, int, error) {
	if s.list != nil {
		return s.list(ctx, workspaceID, filter, params)
	}
	return nil, 0, nil
}

func (s *stubCampaignRepo) Update(ctx context.Context, workspaceID, id uuid.UUID, update domain.CampaignUpdate) error {
	return nil
}

func (s *stubCampaignRepo) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	return nil
}

func (s *stubCampaignRepo) MarkSending(ctx context.Context, workspaceID, id uuid.UUID) error {
	return nil
}

func (s *stubCampaignRepo) FinishSentCampaigns(ctx context.Context) (int, error) {
	return 0, nil
}

func (s *stubCampaignRepo) AddRecipients(ctx context.Context, campaignID uuid.UUID, recipients []domain.Recipient) error {
	return nil
}

func (s *stubCampaignRepo) ListRecipients(ctx context.Context, campaignID uuid.UUID, params domain.ListParams) ([]domain.Recipient, int, error) {
	return nil, 0, nil
}

func (s *stubCampaignRepo) RecipientStats(ctx context.Context, campaignID uuid.UUID) (*domain.RecipientStats, error) {
	return &domain.RecipientStats{}, nil
}

// silentHooks satisfies service.Hooks without recording anything.
type silentHooks struct{}

func (silentHooks) LogActivity(ctx context.Context, activity *domain.Activity) uuid.UUID {
	return uuid.New()
}
func (silentHooks) Notify(ctx context.Context, workspaceID, userID uuid.UUID, templateType string, vars map[string]any) {
}
func (silentHooks) FireWebhook(ctx context.Context, workspaceID uuid.UUID, event string, data any) {}
func (silentHooks) FireTo(ctx context.Context, endpointID uuid.UUID, event string, data any)       {}

func campaignTestRouter(repo domain.CampaignRepository, tenant domain.TenantContext) http.Handler {
	h := NewCampaignHandler(service.NewCampaignService(repo, silentHooks{}))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), middleware.TenantKey, tenant)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/campaigns", h.List)
	r.Post("/campaigns", h.Create)
	r.Get("/campaigns/{campaignID}", h.Get)
	return r
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestCampaignHandlerGetNotFound(t *testing.T) {
	tenant := domain.TenantContext{WorkspaceID: uuid.New(), UserID: uuid.New(), Role: domain.RoleAdmin}
	router := campaignTestRouter(&stubCampaignRepo{}, tenant)

	req := httptest.NewRequest(http.MethodGet, "/campaigns/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
}

func TestCampaignHandlerGetMalformedID(t *testing.T) {
	tenant := domain.TenantContext{WorkspaceID: uuid.New(), UserID: uuid.New(), Role: domain.RoleAdmin}
	repo := &stubCampaignRepo{
		get: func(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Campaign, error) {
			t.Fatal("repository should not be queried for a malformed ID")
			return nil, nil
		},
	}
	router := campaignTestRouter(repo, tenant)

	req := httptest.NewRequest(http.MethodGet, "/campaigns/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCampaignHandlerCreate(t *testing.T) {
	tenant := domain.TenantContext{WorkspaceID: uuid.New(), UserID: uuid.New(), Role: domain.RoleAdmin}

	t.Run("valid body creates a draft", func(t *testing.T) {
		var stored *domain.Campaign
		repo := &stubCampaignRepo{
			create: func(ctx context.Context, campaign *domain.Campaign) error {
				stored = campaign
				return nil
			},
		}
		router := campaignTestRouter(repo, tenant)

		body := `{"name": "Launch", "subject": "We are live"}`
		req := httptest.NewRequest(http.MethodPost, "/campaigns", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, stored)
		assert.Equal(t, tenant.WorkspaceID, stored.WorkspaceID)
		assert.Equal(t, domain.CampaignStatusDraft, stored.Status)

		resp := decodeEnvelope(t, rec)
		assert.True(t, resp.Success)
		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Launch", data["name"])
		assert.Equal(t, domain.CampaignStatusDraft, data["status"])
	})

	t.Run("missing name fails validation", func(t *testing.T) {
		repo := &stubCampaignRepo{
			create: func(ctx context.Context, campaign *domain.Campaign) error {
				t.Fatal("invalid input should not reach the repository")
				return nil
			},
		}
		router := campaignTestRouter(repo, tenant)

		req := httptest.NewRequest(http.MethodPost, "/campaigns", strings.NewReader(`{"subject": "no name"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		resp := decodeEnvelope(t, rec)
		assert.False(t, resp.Success)
	})

	t.Run("malformed JSON fails validation", func(t *testing.T) {
		router := campaignTestRouter(&stubCampaignRepo{}, tenant)

		req := httptest.NewRequest(http.MethodPost, "/campaigns", strings.NewReader(`{"name":`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestCampaignHandlerList(t *testing.T) {
	tenant := domain.TenantContext{WorkspaceID: uuid.New(), UserID: uuid.New(), Role: domain.RoleMember}

	repo := &stubCampaignRepo{
		list: func(ctx context.Context, workspaceID uuid.UUID, filter domain.CampaignFilter, params domain.ListParams) ([]domain.Campaign, int, error) {
			return []domain.Campaign{{ID: uuid.New(), WorkspaceID: workspaceID, Name: "Only one", Status: domain.CampaignStatusDraft}}, 1, nil
		},
	}
	router := campaignTestRouter(repo, tenant)

	req := httptest.NewRequest(http.MethodGet, "/campaigns?status=draft", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	items, ok := data["data"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)

	meta, ok := data["meta"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), meta["total"])
	assert.Equal(t, float64(domain.DefaultLimit), meta["limit"])
}
