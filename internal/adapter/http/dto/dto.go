package dto

import (
	"encoding/json"
	"strconv"
	"time"

	"hookharbor/internal/core/domain"
	"hookharbor/internal/core/ports"
)

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	APIKey    string    `json:"apiKey"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// CreateWebhookRequest is the request body for registering a capture endpoint.
type CreateWebhookRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
}

// UpdateWebhookRequest carries partial webhook changes; absent fields stay
// untouched.
type UpdateWebhookRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// StatisticsResponse mirrors the counter row. TotalRequests is serialized
// as a string so clients never lose precision on large counters.
type StatisticsResponse struct {
	TotalRequests string           `json:"totalRequests"`
	MethodsCount  map[string]int64 `json:"methodsCount"`
	LastRequestAt *time.Time       `json:"lastRequestAt"`
}

// WebhookResponse is the full management view of a webhook.
type WebhookResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  *string             `json:"description"`
	Token        string              `json:"token"`
	URL          string              `json:"url"`
	IsActive     bool                `json:"isActive"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	Statistics   *StatisticsResponse `json:"statistics,omitempty"`
	RequestCount int64               `json:"requestCount"`
}

// ListRequestsQuery binds the pagination/filter query string.
type ListRequestsQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Method    string `form:"method" binding:"omitempty,http_method,max=16"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

// RequestSummaryResponse is one captured request without its body.
type RequestSummaryResponse struct {
	ID               string            `json:"id"`
	WebhookID        string            `json:"webhookId"`
	Method           string            `json:"method"`
	Path             string            `json:"path"`
	QueryParams      map[string]string `json:"queryParams"`
	Headers          map[string]string `json:"headers"`
	BodySize         int64             `json:"bodySize"`
	IPAddress        string            `json:"ipAddress"`
	UserAgent        *string           `json:"userAgent"`
	ReceivedAt       time.Time         `json:"receivedAt"`
	ProcessingTimeMs int64             `json:"processingTimeMs"`
}

// RequestDetailResponse is one captured request including its body.
type RequestDetailResponse struct {
	RequestSummaryResponse
	Body string `json:"body"`
}

// RemoveAllResponse reports how many captured requests a purge removed.
type RemoveAllResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

// ContentRequest is the request body for writing a CMS document.
type ContentRequest struct {
	Payload json.RawMessage `json:"payload" binding:"required"`
}

// ContentResponse is one CMS document.
type ContentResponse struct {
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// UploadResponse is the stored object location.
type UploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		APIKey:    u.APIKey,
		CreatedAt: u.CreatedAt,
	}
}

// NewStatisticsResponse maps a counter row; nil maps to zeros so clients
// always get a complete object.
func NewStatisticsResponse(s *domain.WebhookStatistic) *StatisticsResponse {
	if s == nil {
		return &StatisticsResponse{
			TotalRequests: "0",
			MethodsCount:  map[string]int64{},
		}
	}
	mc := s.MethodsCount
	if mc == nil {
		mc = map[string]int64{}
	}
	return &StatisticsResponse{
		TotalRequests: strconv.FormatInt(s.TotalRequests, 10),
		MethodsCount:  mc,
		LastRequestAt: s.LastRequestAt,
	}
}

// NewWebhookResponse maps an enriched webhook.
func NewWebhookResponse(info *ports.WebhookInfo) WebhookResponse {
	return WebhookResponse{
		ID:           info.Webhook.ID.String(),
		Name:         info.Webhook.Name,
		Description:  info.Webhook.Description,
		Token:        info.Webhook.Token,
		URL:          info.URL,
		IsActive:     info.Webhook.IsActive,
		CreatedAt:    info.Webhook.CreatedAt,
		UpdatedAt:    info.Webhook.UpdatedAt,
		Statistics:   NewStatisticsResponse(info.Statistics),
		RequestCount: info.RequestCount,
	}
}

// NewRequestSummaryResponse maps a captured request without its body.
func NewRequestSummaryResponse(r *domain.WebhookRequest) RequestSummaryResponse {
	return RequestSummaryResponse{
		ID:               r.ID.String(),
		WebhookID:        r.WebhookID.String(),
		Method:           r.Method,
		Path:             r.Path,
		QueryParams:      r.QueryParams,
		Headers:          r.Headers,
		BodySize:         r.BodySize,
		IPAddress:        r.IPAddress,
		UserAgent:        r.UserAgent,
		ReceivedAt:       r.ReceivedAt,
		ProcessingTimeMs: r.ProcessingTimeMs,
	}
}

// NewRequestDetailResponse maps a captured request including its body.
func NewRequestDetailResponse(r *domain.WebhookRequest) RequestDetailResponse {
	return RequestDetailResponse{
		RequestSummaryResponse: NewRequestSummaryResponse(r),
		Body:                   r.Body,
	}
}

// NewContentResponse maps a CMS document.
func NewContentResponse(c *domain.Content) ContentResponse {
	return ContentResponse{
		Kind:      string(c.Kind),
		Payload:   c.Payload,
		UpdatedAt: c.UpdatedAt,
	}
}
