package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hookharbor/internal/adapter/http/dto"
	"hookharbor/internal/adapter/http/middleware"
	"hookharbor/internal/core/domain"
	"hookharbor/internal/core/ports"
	"hookharbor/internal/core/ports/mocks"
	"hookharbor/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authedContext(t *testing.T, userID uuid.UUID, req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(middleware.CtxUserID, userID)
	return c, w
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	user := &domain.User{
		ID:     uuid.New(),
		Email:  "dev@example.com",
		APIKey: "hh_abc",
	}
	mockAuth.EXPECT().Register(gomock.Any(), "dev@example.com", "password123").Return(user, nil)

	body, _ := json.Marshal(dto.RegisterRequest{Email: "dev@example.com", Password: "password123"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, user.ID.String(), data["id"])
	assert.Equal(t, "dev@example.com", data["email"])
	assert.Equal(t, "hh_abc", data["apiKey"])
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAuthHandler(mocks.NewMockAuthService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_EmailTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, apperror.ErrEmailExists())

	body, _ := json.Marshal(dto.RegisterRequest{Email: "taken@example.com", Password: "password123"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	user := &domain.User{ID: uuid.New(), Email: "dev@example.com"}
	mockAuth.EXPECT().Login(gomock.Any(), "dev@example.com", "password123").Return(&ports.LoginResult{
		User:      user,
		Token:     "jwt-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)

	body, _ := json.Marshal(dto.LoginRequest{Email: "dev@example.com", Password: "password123"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jwt-token")
}

func TestLogin_BadCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, apperror.ErrInvalidCredentials())

	body, _ := json.Marshal(dto.LoginRequest{Email: "dev@example.com", Password: "nope"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Webhook Handler Tests ---

func TestWebhookCreate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockWebhookService(ctrl)
	h := NewWebhookHandler(mockSvc)
	userID := uuid.New()

	info := &ports.WebhookInfo{
		Webhook: domain.Webhook{
			ID:       uuid.New(),
			UserID:   userID,
			Token:    strings.Repeat("ab", 32),
			Name:     "ci-events",
			IsActive: true,
		},
		URL: "https://hooks.example.com/hook/" + strings.Repeat("ab", 32),
	}
	mockSvc.EXPECT().Create(gomock.Any(), userID, "ci-events", gomock.Nil()).Return(info, nil)

	body, _ := json.Marshal(dto.CreateWebhookRequest{Name: "ci-events"})
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c, w := authedContext(t, userID, req)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, info.URL, data["url"])
	assert.Equal(t, true, data["isActive"])
	stats := data["statistics"].(map[string]interface{})
	assert.Equal(t, "0", stats["totalRequests"])
}

func TestWebhookGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockWebhookService(ctrl)
	h := NewWebhookHandler(mockSvc)
	userID := uuid.New()
	id := uuid.New()

	mockSvc.EXPECT().Get(gomock.Any(), id, userID).Return(nil, apperror.ErrNotFound("webhook"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, w := authedContext(t, userID, req)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhookGet_MalformedID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWebhookHandler(mocks.NewMockWebhookService(ctrl))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, w := authedContext(t, uuid.New(), req)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhookDelete_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockWebhookService(ctrl)
	h := NewWebhookHandler(mockSvc)
	userID := uuid.New()
	id := uuid.New()

	mockSvc.EXPECT().Delete(gomock.Any(), id, userID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	c, w := authedContext(t, userID, req)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Delete(c)

	// Outside a running engine gin defers the status write; flush it so the
	// recorder sees the code.
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
}

// --- Request Handler Tests ---

func TestRequestList_PassesQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockRequestService(ctrl)
	h := NewRequestHandler(mockSvc)
	userID := uuid.New()
	webhookID := uuid.New()

	mockSvc.EXPECT().List(gomock.Any(), webhookID, userID, gomock.Any()).DoAndReturn(
		func(_ interface{}, _, _ uuid.UUID, q ports.RequestQuery) ([]domain.WebhookRequest, *ports.PageMeta, error) {
			assert.Equal(t, 2, q.Page)
			assert.Equal(t, 10, q.Limit)
			require.NotNil(t, q.Method)
			assert.Equal(t, "POST", *q.Method)
			assert.Equal(t, "asc", q.SortOrder)
			return []domain.WebhookRequest{}, &ports.PageMeta{Total: 0, Page: 2, Limit: 10}, nil
		})

	req := httptest.NewRequest(http.MethodGet, "/?page=2&limit=10&method=post&sortOrder=asc", nil)
	c, w := authedContext(t, userID, req)
	c.Params = gin.Params{{Key: "id", Value: webhookID.String()}}

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	meta := resp["meta"].(map[string]interface{})
	assert.Equal(t, float64(2), meta["page"])
}

func TestRequestList_RejectsBadSortOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewRequestHandler(mocks.NewMockRequestService(ctrl))

	req := httptest.NewRequest(http.MethodGet, "/?sortOrder=sideways", nil)
	c, w := authedContext(t, uuid.New(), req)
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestRemoveAll_ReportsCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockRequestService(ctrl)
	h := NewRequestHandler(mockSvc)
	userID := uuid.New()
	webhookID := uuid.New()

	mockSvc.EXPECT().RemoveAll(gomock.Any(), webhookID, userID).Return(int64(12), nil)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	c, w := authedContext(t, userID, req)
	c.Params = gin.Params{{Key: "id", Value: webhookID.String()}}

	h.RemoveAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deletedCount":12`)
}

func TestRequestStatistics_ZeroDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockRequestService(ctrl)
	h := NewRequestHandler(mockSvc)
	userID := uuid.New()
	webhookID := uuid.New()

	mockSvc.EXPECT().GetStatistics(gomock.Any(), webhookID, userID).Return(&domain.WebhookStatistic{
		WebhookID:    webhookID,
		MethodsCount: map[string]int64{},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, w := authedContext(t, userID, req)
	c.Params = gin.Params{{Key: "id", Value: webhookID.String()}}

	h.Statistics(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalRequests":"0"`)
}

func TestStatisticsRouteNestedUnderRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReq := mocks.NewMockRequestService(ctrl)
	mockTok := mocks.NewMockTokenService(ctrl)

	userID := uuid.New()
	webhookID := uuid.New()
	requestID := uuid.New()

	mockTok.EXPECT().Validate("valid-token").
		Return(&ports.TokenClaims{UserID: userID, Email: "dev@example.com"}, nil).Times(2)
	mockReq.EXPECT().GetStatistics(gomock.Any(), webhookID, userID).
		Return(&domain.WebhookStatistic{WebhookID: webhookID, MethodsCount: map[string]int64{}}, nil)
	mockReq.EXPECT().GetOne(gomock.Any(), requestID, webhookID, userID).
		Return(&domain.WebhookRequest{ID: requestID, WebhookID: webhookID}, nil)

	r := SetupRouter(RouterDeps{
		RequestSvc: mockReq,
		TokenSvc:   mockTok,
		Logger:     zerolog.Nop(),
	})

	// The statistics readout lives under the requests collection.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/webhooks/"+webhookID.String()+"/requests/statistics", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalRequests":"0"`)

	// The static segment coexists with the :requestId parameter route.
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/webhooks/"+webhookID.String()+"/requests/"+requestID.String(), nil)
	req2.Header.Set("Authorization", "Bearer valid-token")
	r.ServeHTTP(w2, req2)

	assert.Equal(t, http.StatusOK, w2.Code)
}

// --- Receiver Handler Tests ---

func setupIngestRouter(svc ports.ReceiverService) *gin.Engine {
	r := gin.New()
	h := NewReceiverHandler(svc, zerolog.Nop())
	r.Any("/hook/:token", h.Receive)
	r.Any("/hook/:token/*rest", h.Receive)
	return r
}

func TestReceive_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockReceiverService(ctrl)
	requestID := uuid.New()

	mockSvc.EXPECT().Receive(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, in ports.InboundRequest) (*ports.Receipt, error) {
			assert.Equal(t, "tok123", in.Token)
			assert.Equal(t, "POST", in.Method)
			assert.Equal(t, "/hook/tok123/github", in.Path)
			assert.Equal(t, `{"event":"push"}`, string(in.Body))
			assert.Equal(t, "1", in.Query["attempt"])
			return &ports.Receipt{RequestID: requestID, Timestamp: time.Now().UTC()}, nil
		})

	r := setupIngestRouter(mockSvc)
	req := httptest.NewRequest(http.MethodPost, "/hook/tok123/github?attempt=1", strings.NewReader(`{"event":"push"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Webhook received", resp["message"])
	assert.Equal(t, requestID.String(), resp["requestId"])
	assert.NotEmpty(t, resp["timestamp"])
}

func TestReceive_UnknownToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockReceiverService(ctrl)
	mockSvc.EXPECT().Receive(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrWebhookNotFound())

	r := setupIngestRouter(mockSvc)
	req := httptest.NewRequest(http.MethodGet, "/hook/unknown", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Webhook not found or inactive", resp["message"])
}

func TestReceive_InternalError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockReceiverService(ctrl)
	mockSvc.EXPECT().Receive(gomock.Any(), gomock.Any()).Return(nil, apperror.InternalError(assert.AnError))

	r := setupIngestRouter(mockSvc)
	req := httptest.NewRequest(http.MethodPost, "/hook/tok123", strings.NewReader("x"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestReceive_OversizedBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No Receive expectation: nothing may be recorded.
	mockSvc := mocks.NewMockReceiverService(ctrl)

	r := gin.New()
	h := NewReceiverHandler(mockSvc, zerolog.Nop())
	r.Any("/hook/:token", middleware.MaxBodySize(16), h.Receive)

	req := httptest.NewRequest(http.MethodPost, "/hook/tok123", strings.NewReader(strings.Repeat("x", 64)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "Payload too large")
}

// --- Content Handler Tests ---

func TestContentGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockContentService(ctrl)
	h := NewContentHandler(mockSvc)

	mockSvc.EXPECT().Get(gomock.Any(), "banner").Return(&domain.Content{
		Kind:      domain.ContentKindBanner,
		Payload:   json.RawMessage(`{"image":"hero.png"}`),
		UpdatedAt: time.Now().UTC(),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "kind", Value: "banner"}}

	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hero.png")
}

func TestContentUpsert_InvalidKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockContentService(ctrl)
	h := NewContentHandler(mockSvc)

	mockSvc.EXPECT().Upsert(gomock.Any(), "nope", gomock.Any()).
		Return(nil, apperror.Validation("unknown content kind: nope"))

	body := []byte(`{"payload":{"a":1}}`)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "kind", Value: "nope"}}

	h.Upsert(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
