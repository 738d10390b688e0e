package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"hookharbor/internal/core/domain"
	"hookharbor/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ports.ErrEmailTaken
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (r *inMemoryUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// --- In-Memory Webhook Repo ---

type inMemoryWebhookRepo struct {
	mu       sync.RWMutex
	webhooks map[uuid.UUID]*domain.Webhook
}

func newInMemoryWebhookRepo() *inMemoryWebhookRepo {
	return &inMemoryWebhookRepo{webhooks: make(map[uuid.UUID]*domain.Webhook)}
}

func (r *inMemoryWebhookRepo) Create(ctx context.Context, w *domain.Webhook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.webhooks {
		if existing.Token == w.Token {
			return fmt.Errorf("token already exists")
		}
	}
	r.webhooks[w.ID] = w
	return nil
}

func (r *inMemoryWebhookRepo) GetByToken(ctx context.Context, token string) (*domain.Webhook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.webhooks {
		if w.Token == token {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWebhookRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Webhook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.webhooks[id]
	if !ok || w.UserID != userID {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *inMemoryWebhookRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Webhook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Webhook
	for _, w := range r.webhooks {
		if w.UserID == userID {
			result = append(result, *w)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *inMemoryWebhookRepo) Update(ctx context.Context, w *domain.Webhook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.webhooks[w.ID]; !ok {
		return fmt.Errorf("webhook not found")
	}
	cp := *w
	r.webhooks[w.ID] = &cp
	return nil
}

func (r *inMemoryWebhookRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.webhooks, id)
	return nil
}

// --- In-Memory Request Repo ---

type inMemoryRequestRepo struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]*domain.WebhookRequest
}

func newInMemoryRequestRepo() *inMemoryRequestRepo {
	return &inMemoryRequestRepo{requests: make(map[uuid.UUID]*domain.WebhookRequest)}
}

func (r *inMemoryRequestRepo) Create(ctx context.Context, req *domain.WebhookRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *inMemoryRequestRepo) GetByID(ctx context.Context, id, webhookID uuid.UUID) (*domain.WebhookRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[id]
	if !ok || req.WebhookID != webhookID {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (r *inMemoryRequestRepo) List(ctx context.Context, params ports.RequestListParams) ([]domain.WebhookRequest, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.WebhookRequest
	for _, req := range r.requests {
		if req.WebhookID != params.WebhookID {
			continue
		}
		if params.Method != nil && req.Method != *params.Method {
			continue
		}
		result = append(result, *req)
	}
	total := int64(len(result))

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.ReceivedAt.Equal(b.ReceivedAt) {
			if params.Ascending {
				return a.ReceivedAt.Before(b.ReceivedAt)
			}
			return a.ReceivedAt.After(b.ReceivedAt)
		}
		if params.Ascending {
			return a.ID.String() < b.ID.String()
		}
		return a.ID.String() > b.ID.String()
	})

	start := (params.Page - 1) * params.Limit
	if start >= len(result) {
		return []domain.WebhookRequest{}, total, nil
	}
	end := start + params.Limit
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func (r *inMemoryRequestRepo) CountByWebhook(ctx context.Context, webhookID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, req := range r.requests {
		if req.WebhookID == webhookID {
			n++
		}
	}
	return n, nil
}

func (r *inMemoryRequestRepo) DeleteAllForWebhook(ctx context.Context, tx pgx.Tx, webhookID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, req := range r.requests {
		if req.WebhookID == webhookID {
			delete(r.requests, id)
			n++
		}
	}
	return n, nil
}

// --- In-Memory Statistic Repo ---

type inMemoryStatisticRepo struct {
	mu    sync.Mutex
	stats map[uuid.UUID]*domain.WebhookStatistic
}

func newInMemoryStatisticRepo() *inMemoryStatisticRepo {
	return &inMemoryStatisticRepo{stats: make(map[uuid.UUID]*domain.WebhookStatistic)}
}

func (r *inMemoryStatisticRepo) Increment(ctx context.Context, webhookID uuid.UUID, method string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stats[webhookID]
	if !ok {
		s = &domain.WebhookStatistic{
			WebhookID:    webhookID,
			MethodsCount: make(map[string]int64),
		}
		r.stats[webhookID] = s
	}
	s.TotalRequests++
	s.MethodsCount[method]++
	now := time.Now().UTC()
	s.LastRequestAt = &now
	return nil
}

func (r *inMemoryStatisticRepo) Get(ctx context.Context, webhookID uuid.UUID) (*domain.WebhookStatistic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stats[webhookID]
	if !ok {
		return nil, nil
	}
	cp := domain.WebhookStatistic{
		WebhookID:     s.WebhookID,
		TotalRequests: s.TotalRequests,
		MethodsCount:  make(map[string]int64, len(s.MethodsCount)),
		LastRequestAt: s.LastRequestAt,
	}
	for k, v := range s.MethodsCount {
		cp.MethodsCount[k] = v
	}
	return &cp, nil
}

func (r *inMemoryStatisticRepo) Reset(ctx context.Context, tx pgx.Tx, webhookID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stats[webhookID]
	if !ok {
		return nil
	}
	s.TotalRequests = 0
	s.MethodsCount = make(map[string]int64)
	s.LastRequestAt = nil
	return nil
}

func (r *inMemoryStatisticRepo) DeleteForWebhook(ctx context.Context, tx pgx.Tx, webhookID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stats, webhookID)
	return nil
}

// --- In-Memory Content Repo ---

type inMemoryContentRepo struct {
	mu       sync.RWMutex
	contents map[domain.ContentKind]*domain.Content
}

func newInMemoryContentRepo() *inMemoryContentRepo {
	return &inMemoryContentRepo{contents: make(map[domain.ContentKind]*domain.Content)}
}

func (r *inMemoryContentRepo) Get(ctx context.Context, kind domain.ContentKind) (*domain.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contents[kind]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *inMemoryContentRepo) Upsert(ctx context.Context, content *domain.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *content
	r.contents[content.Kind] = &cp
	return nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
