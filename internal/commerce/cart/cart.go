package cart

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

const defaultBasePath = "/cart"

// Service is the cart facade. Every call acts on the cart belonging to the
// bearer token it is given.
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

// New creates the cart facade.
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

// Get fetches the current cart.
func (s *Service) Get(ctx context.Context, token string) (*domain.Cart, error) {
	defer s.client.StartTimer("cart.get").Stop()

	res, err := s.client.Do(ctx, rest.Request{
		Path:    s.base,
		Headers: rest.AuthHeader(token),
		Timeout: s.timeout,
		Retry:   s.retry,
	})
	if err != nil {
		return nil, s.fail("cart.get", err)
	}
	cart, err := rest.Decode[domain.Cart](res)
	if err != nil {
		return nil, s.fail("cart.get", err)
	}
	return &cart, nil
}

// Count returns the number of units in the cart. The badge it feeds is a
// non-critical affordance, so any failure collapses to 0 instead of raising.
func (s *Service) Count(ctx context.Context, token string) int {
	res, err := s.client.Do(ctx, rest.Request{
		Path:    s.base + "/count",
		Headers: rest.AuthHeader(token),
		Timeout: s.timeout,
		Retry:   s.retry,
	})
	if err != nil {
		s.log.Debug("cart count unavailable", "error", err)
		return 0
	}
	out, err := rest.Decode[struct {
		Count int `json:"count"`
	}](res)
	if err != nil {
		s.log.Debug("cart count unavailable", "error", err)
		return 0
	}
	return out.Count
}

// ItemOptions carries the optional variant attributes of a cart line.
type ItemOptions struct {
	Color string
	Size  string
}

// AddItem adds a product to the cart and returns the updated cart.
func (s *Service) AddItem(ctx context.Context, token, productID string, quantity int, opts ItemOptions) (*domain.Cart, error) {
	body := map[string]any{
		"productId": nil,
		"quantity":  quantity,
		"color":     nil,
		"size":      nil,
	}
	if productID != "" {
		body["productId"] = productID
	}
	if opts.Color != "" {
		body["color"] = opts.Color
	}
	if opts.Size != "" {
		body["size"] = opts.Size
	}
	if err := rest.ValidateRequired(body, "productId", "quantity"); err != nil {
		return nil, s.fail("cart.add_item", err)
	}
	if quantity <= 0 {
		return nil, s.fail("cart.add_item", &rest.Error{Kind: rest.KindValidation, Message: "quantity must be positive"})
	}

	return s.mutate(ctx, "cart.add_item", rest.Request{
		Method:  http.MethodPost,
		Path:    s.base,
		Body:    rest.SanitizeBody(body),
		Headers: rest.AuthHeader(token),
		Timeout: s.timeout,
		Retry:   s.retry,
	})
}

// UpdateItem changes the quantity of a cart line.
func (s *Service) UpdateItem(ctx context.Context, token, itemID string, quantity int) (*domain.Cart, error) {
	if err := rest.ValidateRequired(map[string]any{"itemId": itemID}, "itemId"); err != nil {
		return nil, s.fail("cart.update_item", err)
	}
	if quantity <= 0 {
		return nil, s.fail("cart.update_item", &rest.Error{Kind: rest.KindValidation, Message: "quantity must be positive"})
	}

	return s.mutate(ctx, "cart.update_item", rest.Request{
		Method:  http.MethodPut,
		Path:    s.base + "/" + itemID,
		Body:    map[string]any{"quantity": quantity},
		Headers: rest.AuthHeader(token),
		Timeout: s.timeout,
		Retry:   s.retry,
	})
}

// RemoveItem deletes a cart line.
func (s *Service) RemoveItem(ctx context.Context, token, itemID string) (*domain.Cart, error) {
	if err := rest.ValidateRequired(map[string]any{"itemId": itemID}, "itemId"); err != nil {
		return nil, s.fail("cart.remove_item", err)
	}

	return s.mutate(ctx, "cart.remove_item", rest.Request{
		Method:  http.MethodDelete,
		Path:    s.base + "/" + itemID,
		Headers: rest.AuthHeader(token),
		Timeout: s.timeout,
		Retry:   s.retry,
	})
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, token string) error {
	defer s.client.StartTimer("cart.clear").Stop()

	_, err := s.client.Do(ctx, rest.Request{
		Method:  http.MethodDelete,
		Path:    s.base,
		Headers: rest.AuthHeader(token),
		Timeout: s.timeout,
		Retry:   s.retry,
	})
	if err != nil {
		return s.fail("cart.clear", err)
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, op string, req rest.Request) (*domain.Cart, error) {
	defer s.client.StartTimer(op).Stop()

	res, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, s.fail(op, err)
	}
	cart, err := rest.Decode[domain.Cart](res)
	if err != nil {
		return nil, s.fail(op, err)
	}
	return &cart, nil
}

func (s *Service) fail(op string, err error) error {
	metrics.OperationErrors.WithLabelValues(op, string(rest.Classify(err))).Inc()
	return fmt.Errorf("%s: %w", op, err)
}
