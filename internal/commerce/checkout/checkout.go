package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/a-nagdy/anasityshop-sub000/internal/commerce/orders"
	"github.com/a-nagdy/anasityshop-sub000/internal/core/domain"
)

var (
	// ErrNotFound means the draft expired or never existed; the flow
	// restarts from the cart.
	ErrNotFound = errors.New("checkout draft not found")

	// ErrIncomplete means Complete was called before every wizard step
	// filled its part of the draft.
	ErrIncomplete = errors.New("checkout draft incomplete")
)

// DraftStore is the slice of the draft persistence layer the manager
// needs. The redis client implements it.
type DraftStore interface {
	SaveDraft(ctx context.Context, draft *domain.CheckoutDraft) error
	GetDraft(ctx context.Context, id string) (*domain.CheckoutDraft, error)
	GetDraftBySession(ctx context.Context, sessionID string) (*domain.CheckoutDraft, error)
	DeleteDraft(ctx context.Context, id string) error
}

// Manager owns the checkout wizard's persisted draft state. The request
// core never writes here; the manager serializes its own writes.
type Manager struct {
	store  DraftStore
	orders *orders.Service
	log    *slog.Logger
	ttl    time.Duration

	mu  sync.Mutex
	now func() time.Time
}

// New creates the draft manager. ttl bounds how long an untouched draft
// survives before the sweeper removes it.
func New(store DraftStore, orderSvc *orders.Service, ttl time.Duration, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		store:  store,
		orders: orderSvc,
		log:    log,
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns how long untouched drafts are kept.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Start opens a draft for the session from the given cart lines.
func (m *Manager) Start(ctx context.Context, sessionID string, items []domain.CartItem) (*domain.CheckoutDraft, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("checkout.start: session id is empty")
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("checkout.start: cart is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	subtotal := 0.0
	for _, it := range items {
		subtotal += it.Price * float64(it.Quantity)
	}

	now := m.now().UTC().Format(time.RFC3339)
	draft := &domain.CheckoutDraft{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Items:     items,
		Subtotal:  subtotal,
		Total:     subtotal,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.SaveDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("checkout.start: %w", err)
	}
	m.log.Info("checkout draft opened", "draftId", draft.ID, "items", len(items))
	return draft, nil
}

// Resume returns the session's draft, or ErrNotFound when none survives.
func (m *Manager) Resume(ctx context.Context, sessionID string) (*domain.CheckoutDraft, error) {
	draft, err := m.store.GetDraftBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("checkout.resume: %w", err)
	}
	if draft == nil {
		return nil, ErrNotFound
	}
	return draft, nil
}

// SetAddress records the shipping destination.
func (m *Manager) SetAddress(ctx context.Context, draftID string, addr domain.Address) (*domain.CheckoutDraft, error) {
	return m.update(ctx, "checkout.set_address", draftID, func(d *domain.CheckoutDraft) {
		d.Address = &addr
	})
}

// SetShipping records the chosen shipping option and reprices the draft.
func (m *Manager) SetShipping(ctx context.Context, draftID, code string, cost float64) (*domain.CheckoutDraft, error) {
	return m.update(ctx, "checkout.set_shipping", draftID, func(d *domain.CheckoutDraft) {
		d.ShippingCode = code
		d.Shipping = cost
		d.Total = d.Subtotal + cost
	})
}

// SetPayment records the payment method.
func (m *Manager) SetPayment(ctx context.Context, draftID, method string) (*domain.CheckoutDraft, error) {
	return m.update(ctx, "checkout.set_payment", draftID, func(d *domain.CheckoutDraft) {
		d.PaymentMethod = method
	})
}

// Complete places the order built from the draft and removes the draft.
// The draft survives when placement fails, so the wizard can retry.
func (m *Manager) Complete(ctx context.Context, token, draftID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft, err := m.store.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("checkout.complete: %w", err)
	}
	if draft == nil {
		return nil, ErrNotFound
	}
	if draft.Address == nil || draft.PaymentMethod == "" {
		return nil, ErrIncomplete
	}

	items := make([]domain.OrderItem, 0, len(draft.Items))
	for _, it := range draft.Items {
		line := domain.OrderItem{
			Quantity: it.Quantity,
			Price:    it.Price,
			Color:    it.Color,
			Size:     it.Size,
		}
		if it.Product != nil {
			line.Product = it.Product.ID
			line.Name = it.Product.Name
		}
		items = append(items, line)
	}

	order, err := m.orders.Place(ctx, token, orders.PlaceParams{
		Items:         items,
		Address:       draft.Address,
		PaymentMethod: draft.PaymentMethod,
	})
	if err != nil {
		return nil, fmt.Errorf("checkout.complete: %w", err)
	}

	if err := m.store.DeleteDraft(ctx, draftID); err != nil {
		// The order is placed; the sweeper will collect the leftover draft.
		m.log.Warn("placed order but failed to drop draft", "draftId", draftID, "error", err)
	}
	m.log.Info("checkout completed", "draftId", draftID, "orderId", order.ID)
	return order, nil
}

// Abandon drops a draft explicitly.
func (m *Manager) Abandon(ctx context.Context, draftID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.DeleteDraft(ctx, draftID); err != nil {
		return fmt.Errorf("checkout.abandon: %w", err)
	}
	return nil
}

func (m *Manager) update(ctx context.Context, op, draftID string, mutate func(*domain.CheckoutDraft)) (*domain.CheckoutDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft, err := m.store.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if draft == nil {
		return nil, ErrNotFound
	}

	mutate(draft)
	draft.UpdatedAt = m.now().UTC().Format(time.RFC3339)
	if err := m.store.SaveDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return draft, nil
}
