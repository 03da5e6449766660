package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/a-nagdy/anasityshop-sub000/internal/commerce/metrics"
	"github.com/a-nagdy/anasityshop-sub000/internal/core/domain"
	"github.com/a-nagdy/anasityshop-sub000/internal/infra/rest"
)

const (
	defaultBasePath = "/products"
	categoriesPath  = "/categories"

	batchSize  = 10
	batchDelay = 150 * time.Millisecond
)

// Service is the catalog facade: product and category reads on top of the
// resilient request layer. Configuration is immutable after New.
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

// New creates the catalog facade.
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

// ListParams filters and pages the product listing.
type ListParams struct {
	Page     int
	Limit    int
	Category string
	Sort     string
	Search   string
}

// List fetches a page of products.
func (s *Service) List(ctx context.Context, p ListParams) ([]domain.Product, *domain.Pagination, error) {
	defer s.client.StartTimer("catalog.list").Stop()

	q := rest.Query{}
	if p.Page > 0 {
		q["page"] = p.Page
	}
	if p.Limit > 0 {
		q["limit"] = p.Limit
	}
	if p.Category != "" {
		q["category"] = p.Category
	}
	if p.Sort != "" {
		q["sort"] = p.Sort
	}
	if p.Search != "" {
		q["search"] = p.Search
	}

	res, err := s.client.Do(ctx, rest.Request{
		Path:    s.base,
		Query:   q,
		Timeout: s.timeout,
		Retry:   s.retry,
	})
	if err != nil {
		return nil, nil, s.fail("catalog.list", err)
	}
	products, err := rest.Decode[[]domain.Product](res)
	if err != nil {
		return nil, nil, s.fail("catalog.list", err)
	}
	return products, res.Pagination, nil
}

// Get fetches one product by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if err := rest.ValidateRequired(map[string]any{"id": id}, "id"); err != nil {
		return nil, s.fail("catalog.get", err)
	}
	defer s.client.StartTimer("catalog.get").Stop()

	res, err := s.client.Do(ctx, rest.Request{
		Path:    s.base + "/" + id,
		Timeout: s.timeout,
		Retry:   s.retry,
	})
	if err != nil {
		return nil, s.fail("catalog.get", err)
	}
	product, err := rest.Decode[domain.Product](res)
	if err != nil {
		return nil, s.fail("catalog.get", err)
	}
	return &product, nil
}

// ByIDs fetches product details in paced concurrent chunks, results in
// input order. The first failing id aborts the whole fetch.
func (s *Service) ByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	defer s.client.StartTimer("catalog.by_ids").Stop()

	products, err := rest.ProcessBatch(ctx, ids, rest.BatchOptions{Size: batchSize, Delay: batchDelay},
		func(ctx context.Context, id string) (domain.Product, error) {
			p, err := s.Get(ctx, id)
			if err != nil {
				return domain.Product{}, err
			}
			return *p, nil
		})
	if err != nil {
		return nil, s.fail("catalog.by_ids", err)
	}
	return products, nil
}

// Categories fetches all categories.
func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	defer s.client.StartTimer("catalog.categories").Stop()

	res, err := s.client.Do(ctx, rest.Request{
		Path:    categoriesPath,
		Timeout: s.timeout,
		Retry:   s.retry,
	})
	if err != nil {
		return nil, s.fail("catalog.categories", err)
	}
	categories, err := rest.Decode[[]domain.Category](res)
	if err != nil {
		return nil, s.fail("catalog.categories", err)
	}
	return categories, nil
}

// NavigationCategories feeds the storefront menu. The menu renders fine
// empty, so failures collapse to an empty list instead of raising.
func (s *Service) NavigationCategories(ctx context.Context) []domain.Category {
	categories, err := s.Categories(ctx)
	if err != nil {
		s.log.Warn("navigation categories unavailable", "error", err)
		return []domain.Category{}
	}
	return categories
}

func (s *Service) fail(op string, err error) error {
	metrics.OperationErrors.WithLabelValues(op, string(rest.Classify(err))).Inc()
	return fmt.Errorf("%s: %w", op, err)
}
