package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	connectionapp "github.com/shoplink/backend/internal/application/connection"
	"github.com/shoplink/backend/internal/domain/catalog"
	"github.com/shoplink/backend/internal/domain/connection"
	"github.com/shoplink/backend/internal/domain/shared"
	"github.com/shoplink/backend/internal/interfaces/http/dto"
)

// MockCredentialRepository implements connection.CredentialRepository for testing
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) FindBySellerAndKind(ctx context.Context, sellerID uuid.UUID, kind connection.ProviderKind) (*connection.ProviderCredential, error) {
	args := m.Called(ctx, sellerID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*connection.ProviderCredential), args.Error(1)
}

func (m *MockCredentialRepository) Save(ctx context.Context, cred *connection.ProviderCredential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockCredentialRepository) ClearBySellerAndKind(ctx context.Context, sellerID uuid.UUID, kind connection.ProviderKind) error {
	args := m.Called(ctx, sellerID, kind)
	return args.Error(0)
}

// MockItemRepository implements catalog.ItemRepository for testing
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, sellerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]catalog.Item, error) {
	args := m.Called(ctx, sellerID, filter)
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, sellerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) FindExternalForSeller(ctx context.Context, sellerID uuid.UUID) ([]catalog.Item, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemRepository) MarkExternalUnavailable(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCatalogProvider implements connection.CatalogProvider for testing
type MockCatalogProvider struct {
	mock.Mock
}

func (m *MockCatalogProvider) Code() connection.ProviderCode {
	return connection.ProviderCodeShopify
}

func (m *MockCatalogProvider) Probe(ctx context.Context, cred *connection.ProviderCredential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockCatalogProvider) FetchCatalog(ctx context.Context, cred *connection.ProviderCredential, fn func(page []catalog.RemoteItem) error) (int, error) {
	args := m.Called(ctx, cred, fn)
	return args.Int(0), args.Error(1)
}

// MockMessagingProvider implements connection.MessagingProvider for testing
type MockMessagingProvider struct {
	mock.Mock
	code connection.ProviderCode
}

func (m *MockMessagingProvider) Code() connection.ProviderCode {
	return m.code
}

func (m *MockMessagingProvider) Probe(ctx context.Context, cred *connection.ProviderCredential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockMessagingProvider) RequiresActivation() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMessagingProvider) IssueActivationToken(ctx context.Context, cred *connection.ProviderCredential) (string, error) {
	args := m.Called(ctx, cred)
	return args.String(0), args.Error(1)
}

// stubRegistry resolves adapters from fixed maps
type stubRegistry struct {
	catalogs   map[connection.ProviderCode]connection.CatalogProvider
	messagings map[connection.ProviderCode]connection.MessagingProvider
}

func (r *stubRegistry) Catalog(code connection.ProviderCode) (connection.CatalogProvider, error) {
	if a, ok := r.catalogs[code]; ok {
		return a, nil
	}
	return nil, connection.ErrProviderNotRegistered
}

func (r *stubRegistry) Messaging(code connection.ProviderCode) (connection.MessagingProvider, error) {
	if a, ok := r.messagings[code]; ok {
		return a, nil
	}
	return nil, connection.ErrProviderNotRegistered
}

// stubGuard always grants the lock
type stubGuard struct{}

func (stubGuard) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (stubGuard) Unlock(ctx context.Context, key string) error { return nil }

// heldGuard always reports the lock as taken
type heldGuard struct{}

func (heldGuard) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return false, nil
}

func (heldGuard) Unlock(ctx context.Context, key string) error { return nil }

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func setupIntegrationHandler(
	credRepo *MockCredentialRepository,
	itemRepo *MockItemRepository,
	registry connection.Registry,
	guard connection.SyncGuard,
) *IntegrationHandler {
	svc := connectionapp.NewService(credRepo, itemRepo, registry, guard, nil, connectionapp.DefaultConfig(), nil)
	return NewIntegrationHandler(svc)
}

func sellerRequest(method, path string, body any, sellerID uuid.UUID) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SellerIDHeader, sellerID.String())
	return req
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestIntegrationHandler_Connect_Catalog_Success(t *testing.T) {
	credRepo := new(MockCredentialRepository)
	itemRepo := new(MockItemRepository)
	adapter := new(MockCatalogProvider)
	registry := &stubRegistry{catalogs: map[connection.ProviderCode]connection.CatalogProvider{
		connection.ProviderCodeShopify: adapter,
	}}
	handler := setupIntegrationHandler(credRepo, itemRepo, registry, stubGuard{})

	sellerID := uuid.New()

	adapter.On("Probe", mock.Anything, mock.Anything).Return(nil)
	adapter.On("FetchCatalog", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			fn := args.Get(2).(func(page []catalog.RemoteItem) error)
			_ = fn([]catalog.RemoteItem{{
				ExternalRef: "shopify:1",
				Name:        "Imported",
				Price:       decimal.NewFromInt(10),
				Available:   true,
			}})
		}).Return(1, nil)
	itemRepo.On("FindExternalForSeller", mock.Anything, sellerID).Return([]catalog.Item{}, nil)
	itemRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Item")).Return(nil)
	credRepo.On("Save", mock.Anything, mock.AnythingOfType("*connection.ProviderCredential")).Return(nil)

	router := setupTestRouter()
	router.POST("/integrations/:kind/connect", handler.Connect)

	reqBody := ConnectRequest{
		Provider:    "shopify",
		AccountID:   "my-shop",
		AccessToken: "shpat_test",
		StoreDomain: "my-shop.myshopify.com",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, sellerRequest(http.MethodPost, "/integrations/catalog/connect", reqBody, sellerID))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "connected", data["state"])
	summary := data["summary"].(map[string]interface{})
	assert.Equal(t, float64(1), summary["imported"])
	credRepo.AssertExpectations(t)
}

func TestIntegrationHandler_Connect_ProbeAuthFailure(t *testing.T) {
	credRepo := new(MockCredentialRepository)
	itemRepo := new(MockItemRepository)
	adapter := new(MockCatalogProvider)
	registry := &stubRegistry{catalogs: map[connection.ProviderCode]connection.CatalogProvider{
		connection.ProviderCodeShopify: adapter,
	}}
	handler := setupIntegrationHandler(credRepo, itemRepo, registry, stubGuard{})

	adapter.On("Probe", mock.Anything, mock.Anything).Return(connection.ErrProviderAuthFailed)

	router := setupTestRouter()
	router.POST("/integrations/:kind/connect", handler.Connect)

	reqBody := ConnectRequest{
		Provider:    "shopify",
		AccountID:   "my-shop",
		AccessToken: "bad-token",
		StoreDomain: "my-shop.myshopify.com",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, sellerRequest(http.MethodPost, "/integrations/catalog/connect", reqBody, uuid.New()))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeProviderAuth, resp.Error.Code)
	// The credential must never be written when the probe fails.
	credRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestIntegrationHandler_Connect_KindMismatch(t *testing.T) {
	handler := setupIntegrationHandler(new(MockCredentialRepository), new(MockItemRepository), &stubRegistry{}, stubGuard{})

	router := setupTestRouter()
	router.POST("/integrations/:kind/connect", handler.Connect)

	reqBody := ConnectRequest{
		Provider:    "shopify",
		AccountID:   "my-shop",
		AccessToken: "shpat_test",
		StoreDomain: "my-shop.myshopify.com",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, sellerRequest(http.MethodPost, "/integrations/messaging/connect", reqBody, uuid.New()))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIntegrationHandler_Connect_InvalidKind(t *testing.T) {
	handler := setupIntegrationHandler(new(MockCredentialRepository), new(MockItemRepository), &stubRegistry{}, stubGuard{})

	router := setupTestRouter()
	router.POST("/integrations/:kind/connect", handler.Connect)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, sellerRequest(http.MethodPost, "/integrations/payments/connect", ConnectRequest{
		Provider:    "shopify",
		AccountID:   "x",
		AccessToken: "y",
	}, uuid.New()))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIntegrationHandler_Connect_MissingSellerHeader(t *testing.T) {
	handler := setupIntegrationHandler(new(MockCredentialRepository), new(MockItemRepository), &stubRegistry{}, stubGuard{})

	router := setupTestRouter()
	router.POST("/integrations/:kind/connect", handler.Connect)

	req := httptest.NewRequest(http.MethodPost, "/integrations/catalog/connect", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIntegrationHandler_Connect_PendingActivation(t *testing.T) {
	credRepo := new(MockCredentialRepository)
	adapter := &MockMessagingProvider{code: connection.ProviderCodeWhatsAppSandbox}
	registry := &stubRegistry{messagings: map[connection.ProviderCode]connection.MessagingProvider{
		connection.ProviderCodeWhatsAppSandbox: adapter,
	}}
	handler := setupIntegrationHandler(credRepo, new(MockItemRepository), registry, stubGuard{})

	adapter.On("Probe", mock.Anything, mock.Anything).Return(nil)
	adapter.On("RequiresActivation").Return(true)
	adapter.On("IssueActivationToken", mock.Anything, mock.Anything).Return("join solid-lake", nil)
	credRepo.On("Save", mock.Anything, mock.AnythingOfType("*connection.ProviderCredential")).Return(nil)

	router := setupTestRouter()
	router.POST("/integrations/:kind/connect", handler.Connect)

	reqBody := ConnectRequest{
		Provider:    "whatsapp_sandbox",
		AccountID:   "14155238886",
		AccessToken: "sandbox-token",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, sellerRequest(http.MethodPost, "/integrations/messaging/connect", reqBody, uuid.New()))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "pending_activation", data["state"])
	assert.Equal(t, "join solid-lake", data["activation_token"])
}

func TestIntegrationHandler_Sync_Conflict(t *testing.T) {
	credRepo := new(MockCredentialRepository)
	adapter := new(MockCatalogProvider)
	registry := &stubRegistry{catalogs: map[connection.ProviderCode]connection.CatalogProvider{
		connection.ProviderCodeShopify: adapter,
	}}
	handler := setupIntegrationHandler(credRepo, new(MockItemRepository), registry, heldGuard{})

	sellerID := uuid.New()
	cred, err := connection.NewProviderCredential(sellerID, connection.CredentialInput{
		Code:        connection.ProviderCodeShopify,
		AccountID:   "my-shop",
		AccessToken: "shpat_test",
		StoreDomain: "my-shop.myshopify.com",
	})
	assert.NoError(t, err)
	credRepo.On("FindBySellerAndKind", mock.Anything, sellerID, connection.ProviderKindCatalog).Return(cred, nil)

	router := setupTestRouter()
	router.POST("/integrations/:kind/sync", handler.Sync)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, sellerRequest(http.MethodPost, "/integrations/catalog/sync", nil, sellerID))

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeSyncInProgress, resp.Error.Code)
}

func TestIntegrationHandler_Sync_NotConnected(t *testing.T) {
	credRepo := new(MockCredentialRepository)
	handler := setupIntegrationHandler(credRepo, new(MockItemRepository), &stubRegistry{}, stubGuard{})

	sellerID := uuid.New()
	credRepo.On("FindBySellerAndKind", mock.Anything, sellerID, connection.ProviderKindCatalog).
		Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.POST("/integrations/:kind/sync", handler.Sync)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, sellerRequest(http.MethodPost, "/integrations/catalog/sync", nil, sellerID))

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeNotConnected, resp.Error.Code)
}

func TestIntegrationHandler_Disconnect_Success(t *testing.T) {
	credRepo := new(MockCredentialRepository)
	itemRepo := new(MockItemRepository)
	handler := setupIntegrationHandler(credRepo, itemRepo, &stubRegistry{}, stubGuard{})

	sellerID := uuid.New()
	itemRepo.On("MarkExternalUnavailable", mock.Anything, sellerID).Return(int64(3), nil)
	credRepo.On("ClearBySellerAndKind", mock.Anything, sellerID, connection.ProviderKindCatalog).Return(nil)

	router := setupTestRouter()
	router.DELETE("/integrations/:kind", handler.Disconnect)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, sellerRequest(http.MethodDelete, "/integrations/catalog", nil, sellerID))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "disconnected", data["state"])
	itemRepo.AssertExpectations(t)
	credRepo.AssertExpectations(t)
}

func TestIntegrationHandler_GetState_Disconnected(t *testing.T) {
	credRepo := new(MockCredentialRepository)
	handler := setupIntegrationHandler(credRepo, new(MockItemRepository), &stubRegistry{}, stubGuard{})

	sellerID := uuid.New()
	credRepo.On("FindBySellerAndKind", mock.Anything, sellerID, connection.ProviderKindMessaging).
		Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.GET("/integrations/:kind", handler.GetState)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, sellerRequest(http.MethodGet, "/integrations/messaging", nil, sellerID))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "disconnected", data["state"])
}

func TestIntegrationHandler_ConfirmActivation_NotPending(t *testing.T) {
	credRepo := new(MockCredentialRepository)
	handler := setupIntegrationHandler(credRepo, new(MockItemRepository), &stubRegistry{}, stubGuard{})

	sellerID := uuid.New()
	credRepo.On("FindBySellerAndKind", mock.Anything, sellerID, connection.ProviderKindMessaging).
		Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.POST("/integrations/:kind/activation/confirm", handler.ConfirmActivation)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, sellerRequest(http.MethodPost, "/integrations/messaging/activation/confirm", nil, sellerID))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)
}
