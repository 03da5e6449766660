package orders

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-nagdy/anasityshop-sub000/internal/commerce/metrics"
	"github.com/a-nagdy/anasityshop-sub000/internal/core/domain"
	"github.com/a-nagdy/anasityshop-sub000/internal/infra/rest"
)

const (
	defaultBasePath = "/orders"

	batchSize  = 10
	batchDelay = 150 * time.Millisecond
)

// Service is the orders facade: listing, placement, cancellation and the
// batched detail fetch behind admin tables.
type Service struct {
	client  *rest.Client
	log     *slog.Logger
	base    string
	timeout time.Duration
	retry   *rest.RetryPolicy
}

// Options configures the facade. Zero values inherit the client defaults.
type Options struct {
	BasePath   string
	Timeout    time.Duration
	MaxRetries int
	Logger     *slog.Logger
}

// New creates the orders facade.
func New(client *rest.Client, opts Options) *Service {
	base := opts.BasePath
	if base == "" {
		base = defaultBasePath
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	var retry *rest.RetryPolicy
	if opts.MaxRetries > 0 {
		retry = &rest.RetryPolicy{MaxRetries: opts.MaxRetries}
	}
	return &Service{client: client, log: log, base: base, timeout: opts.Timeout, retry: retry}
}

// ListParams filters and pages the order listing.
type ListParams struct {
	Page   int
	Limit  int
	Status domain.OrderStatus
}

// List fetches a page of the caller's orders.
func (s *Service) List(ctx context.Context, token string, p ListParams) ([]domain.Order, *domain.Pagination, error) {
	defer s.client.StartTimer("orders.list").Stop()

	q := rest.Query{}
	if p.Page > 0 {
		q["page"] = p.Page
	}
	if p.Limit > 0 {
		q["limit"] = p.Limit
	}
	if p.Status != "" {
		q["status"] = string(p.Status)
	}

	res, err := s.client.Do(ctx, rest.Request{
		Path:    s.base,
		Query:   q,
		Headers: rest.AuthHeader(token),
		Timeout: s.timeout,
		Retry:   s.retry,
	})
	if err != nil {
		return nil, nil, s.fail("orders.list", err)
	}
	orders, err := rest.Decode[[]domain.Order](res)
	if err != nil {
		return nil, nil, s.fail("orders.list", err)
	}
	return orders, res.Pagination, nil
}

// Get fetches one order.
func (s *Service) Get(ctx context.Context, token, id string) (*domain.Order, error) {
	if err := rest.ValidateRequired(map[string]any{"id": id}, "id"); err != nil {
		return nil, s.fail("orders.get", err)
	}
	defer s.client.StartTimer("orders.get").Stop()

	res, err := s.client.Do(ctx, rest.Request{
		Path:    s.base + "/" + id,
		Headers: rest.AuthHeader(token),
		Timeout: s.timeout,
		Retry:   s.retry,
	})
	if err != nil {
		return nil, s.fail("orders.get", err)
	}
	order, err := rest.Decode[domain.Order](res)
	if err != nil {
		return nil, s.fail("orders.get", err)
	}
	return &order, nil
}

// PlaceParams is the order placement payload.
type PlaceParams struct {
	Items         []domain.OrderItem
	Address       *domain.Address
	PaymentMethod string
	Notes         string
}

// Place submits a new order.
func (s *Service) Place(ctx context.Context, token string, p PlaceParams) (*domain.Order, error) {
	body := map[string]any{
		"items":           nil,
		"shippingAddress": nil,
		"paymentMethod":   nil,
		"notes":           nil,
	}
	if len(p.Items) > 0 {
		body["items"] = p.Items
	}
	if p.Address != nil {
		body["shippingAddress"] = p.Address
	}
	if p.PaymentMethod != "" {
		body["paymentMethod"] = p.PaymentMethod
	}
	if p.Notes != "" {
		body["notes"] = p.Notes
	}
	if err := rest.ValidateRequired(body, "items", "shippingAddress", "paymentMethod"); err != nil {
		return nil, s.fail("orders.place", err)
	}
	defer s.client.StartTimer("orders.place").Stop()

	res, err := s.client.Do(ctx, rest.Request{
		Method:  http.MethodPost,
		Path:    s.base,
		Body:    rest.SanitizeBody(body),
		Headers: rest.AuthHeader(token),
		Timeout: s.timeout,
		Retry:   s.retry,
	})
	if err != nil {
		return nil, s.fail("orders.place", err)
	}
	order, err := rest.Decode[domain.Order](res)
	if err != nil {
		return nil, s.fail("orders.place", err)
	}
	return &order, nil
}

// Cancel cancels a pending order. Reason is optional.
func (s *Service) Cancel(ctx context.Context, token, id, reason string) (*domain.Order, error) {
	if err := rest.ValidateRequired(map[string]any{"id": id}, "id"); err != nil {
		return nil, s.fail("orders.cancel", err)
	}
	defer s.client.StartTimer("orders.cancel").Stop()

	body := map[string]any{"reason": nil}
	if reason != "" {
		body["reason"] = reason
	}

	res, err := s.client.Do(ctx, rest.Request{
		Method:  http.MethodPut,
		Path:    s.base + "/" + id + "/cancel",
		Body:    rest.SanitizeBody(body),
		Headers: rest.AuthHeader(token),
		Timeout: s.timeout,
		Retry:   s.retry,
	})
	if err != nil {
		return nil, s.fail("orders.cancel", err)
	}
	order, err := rest.Decode[domain.Order](res)
	if err != nil {
		return nil, s.fail("orders.cancel", err)
	}
	return &order, nil
}

// Details fetches many orders in paced concurrent chunks, results in input
// order. The first failing id aborts the whole fetch.
func (s *Service) Details(ctx context.Context, token string, ids []string) ([]domain.Order, error) {
	defer s.client.StartTimer("orders.details").Stop()

	orders, err := rest.ProcessBatch(ctx, ids, rest.BatchOptions{Size: batchSize, Delay: batchDelay},
		func(ctx context.Context, id string) (domain.Order, error) {
			o, err := s.Get(ctx, token, id)
			if err != nil {
				return domain.Order{}, err
			}
			return *o, nil
		})
	if err != nil {
		return nil, s.fail("orders.details", err)
	}
	return orders, nil
}

// DetailsAll is Details without fail-fast: every id is attempted and ids
// that failed come back with their error attached.
func (s *Service) DetailsAll(ctx context.Context, token string, ids []string) ([]rest.BatchItem[domain.Order], error) {
	defer s.client.StartTimer("orders.details_all").Stop()

	return rest.ProcessBatchAll(ctx, ids, rest.BatchOptions{Size: batchSize, Delay: batchDelay},
		func(ctx context.Context, id string) (domain.Order, error) {
			o, err := s.Get(ctx, token, id)
			if err != nil {
				return domain.Order{}, err
			}
			return *o, nil
		})
}

func (s *Service) fail(op string, err error) error {
	metrics.OperationErrors.WithLabelValues(op, string(rest.Classify(err))).Inc()
	return fmt.Errorf("%s: %w", op, err)
}
