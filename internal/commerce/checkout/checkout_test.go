package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/a-nagdy/anasityshop-sub000/internal/commerce/orders"
	"github.com/a-nagdy/anasityshop-sub000/internal/core/domain"
	"github.com/a-nagdy/anasityshop-sub000/internal/infra/rest"
)

// =============================================================================
// Fakes
// =============================================================================

type fakeStore struct {
	mu       sync.Mutex
	drafts   map[string]*domain.CheckoutDraft
	sessions map[string]string
	saveErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		drafts:   make(map[string]*domain.CheckoutDraft),
		sessions: make(map[string]string),
	}
}

func (f *fakeStore) SaveDraft(ctx context.Context, draft *domain.CheckoutDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := *draft
	f.drafts[draft.ID] = &cp
	f.sessions[draft.SessionID] = draft.ID
	return nil
}

func (f *fakeStore) GetDraft(ctx context.Context, id string) (*domain.CheckoutDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.drafts[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f *fakeStore) GetDraftBySession(ctx context.Context, sessionID string) (*domain.CheckoutDraft, error) {
	f.mu.Lock()
	id, ok := f.sessions[sessionID]
	f.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return f.GetDraft(ctx, id)
}

func (f *fakeStore) DeleteDraft(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.drafts[id]; ok {
		delete(f.sessions, d.SessionID)
	}
	delete(f.drafts, id)
	return nil
}

func testItems() []domain.CartItem {
	return []domain.CartItem{
		{Product: &domain.Product{ID: "p1", Name: "Mug"}, Quantity: 2, Price: 9.5},
		{Product: &domain.Product{ID: "p2", Name: "Cap"}, Quantity: 1, Price: 14},
	}
}

func newOrdersService(t *testing.T, handler http.HandlerFunc) *orders.Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := rest.New(rest.Options{
		BaseURL: server.URL,
		Retry:   rest.RetryPolicy{MaxRetries: 0, BaseDelay: time.Millisecond, Timeout: 5 * time.Second},
		Logger:  slog.New(slog.DiscardHandler),
	})
	return orders.New(client, orders.Options{Logger: slog.New(slog.DiscardHandler)})
}

func quiet() *slog.Logger { return slog.New(slog.DiscardHandler) }

// =============================================================================
// Tests
// =============================================================================

func TestStartComputesTotals(t *testing.T) {
	store := newFakeStore()
	mgr := New(store, nil, time.Hour, quiet())

	draft, err := mgr.Start(context.Background(), "sess-1", testItems())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if draft.ID == "" {
		t.Error("draft id must be assigned")
	}
	if draft.Subtotal != 33 || draft.Total != 33 {
		t.Errorf("subtotal = %v, total = %v, want 33", draft.Subtotal, draft.Total)
	}
	if _, err := time.Parse(time.RFC3339, draft.CreatedAt); err != nil {
		t.Errorf("createdAt not RFC3339: %q", draft.CreatedAt)
	}
	if stored, _ := store.GetDraft(context.Background(), draft.ID); stored == nil {
		t.Error("draft must be persisted")
	}
}

func TestStartRejectsEmptyCart(t *testing.T) {
	mgr := New(newFakeStore(), nil, time.Hour, quiet())

	if _, err := mgr.Start(context.Background(), "sess-1", nil); err == nil {
		t.Error("empty cart must be rejected")
	}
	if _, err := mgr.Start(context.Background(), "", testItems()); err == nil {
		t.Error("empty session must be rejected")
	}
}

func TestResume(t *testing.T) {
	store := newFakeStore()
	mgr := New(store, nil, time.Hour, quiet())

	opened, err := mgr.Start(context.Background(), "sess-9", testItems())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resumed, err := mgr.Resume(context.Background(), "sess-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resumed.ID != opened.ID {
		t.Errorf("resumed %q, want %q", resumed.ID, opened.ID)
	}

	if _, err := mgr.Resume(context.Background(), "sess-unknown"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestWizardStepsUpdateDraft(t *testing.T) {
	store := newFakeStore()
	mgr := New(store, nil, time.Hour, quiet())
	ctx := context.Background()

	draft, err := mgr.Start(ctx, "sess-2", testItems())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := mgr.SetAddress(ctx, draft.ID, domain.Address{Line1: "1 Main St", City: "Cairo", Country: "EG"}); err != nil {
		t.Fatalf("set address: %v", err)
	}
	updated, err := mgr.SetShipping(ctx, draft.ID, "express", 7)
	if err != nil {
		t.Fatalf("set shipping: %v", err)
	}
	if updated.Total != 40 {
		t.Errorf("total = %v, want subtotal 33 + shipping 7", updated.Total)
	}
	if _, err := mgr.SetPayment(ctx, draft.ID, "card"); err != nil {
		t.Fatalf("set payment: %v", err)
	}

	final, _ := store.GetDraft(ctx, draft.ID)
	if final.Address == nil || final.ShippingCode != "express" || final.PaymentMethod != "card" {
		t.Errorf("persisted draft = %+v", final)
	}

	if _, err := mgr.SetPayment(ctx, "missing-draft", "card"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestCompletePlacesOrderAndDropsDraft(t *testing.T) {
	var gotBody map[string]any
	ordersSvc := newOrdersService(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"success":true,"data":{"_id":"o77","status":"pending","totalPrice":40,"items":[{"product":"p1","quantity":2,"price":9.5}]}}`))
	})

	store := newFakeStore()
	mgr := New(store, ordersSvc, time.Hour, quiet())
	ctx := context.Background()

	draft, _ := mgr.Start(ctx, "sess-3", testItems())
	_, _ = mgr.SetAddress(ctx, draft.ID, domain.Address{Line1: "1 Main St", City: "Cairo", Country: "EG"})
	_, _ = mgr.SetShipping(ctx, draft.ID, "standard", 7)
	_, _ = mgr.SetPayment(ctx, draft.ID, "cod")

	order, err := mgr.Complete(ctx, "tok", draft.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != "o77" {
		t.Errorf("order = %+v", order)
	}

	items, _ := gotBody["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("placed items = %v", gotBody["items"])
	}
	first, _ := items[0].(map[string]any)
	if first["product"] != "p1" || first["name"] != "Mug" {
		t.Errorf("first line = %v", first)
	}

	if left, _ := store.GetDraft(ctx, draft.ID); left != nil {
		t.Error("draft must be deleted after completion")
	}
}

func TestCompleteRequiresAddressAndPayment(t *testing.T) {
	store := newFakeStore()
	mgr := New(store, nil, time.Hour, quiet())
	ctx := context.Background()

	draft, _ := mgr.Start(ctx, "sess-4", testItems())

	if _, err := mgr.Complete(ctx, "tok", draft.ID); !errors.Is(err, ErrIncomplete) {
		t.Errorf("want ErrIncomplete, got %v", err)
	}
	if _, err := mgr.Complete(ctx, "tok", "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestCompleteKeepsDraftWhenPlacementFails(t *testing.T) {
	ordersSvc := newOrdersService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"Insufficient stock"}`))
	})

	store := newFakeStore()
	mgr := New(store, ordersSvc, time.Hour, quiet())
	ctx := context.Background()

	draft, _ := mgr.Start(ctx, "sess-5", testItems())
	_, _ = mgr.SetAddress(ctx, draft.ID, domain.Address{Line1: "1 Main St", City: "Cairo", Country: "EG"})
	_, _ = mgr.SetPayment(ctx, draft.ID, "cod")

	_, err := mgr.Complete(ctx, "tok", draft.ID)
	if err == nil {
		t.Fatal("expected placement failure")
	}
	restErr, ok := rest.AsError(err)
	if !ok || restErr.Kind != rest.KindClient {
		t.Errorf("want client error, got %v", err)
	}

	if left, _ := store.GetDraft(ctx, draft.ID); left == nil {
		t.Error("draft must survive a failed placement for retry")
	}
}

func TestAbandon(t *testing.T) {
	store := newFakeStore()
	mgr := New(store, nil, time.Hour, quiet())
	ctx := context.Background()

	draft, _ := mgr.Start(ctx, "sess-6", testItems())
	if err := mgr.Abandon(ctx, draft.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if left, _ := store.GetDraft(ctx, draft.ID); left != nil {
		t.Error("draft must be gone after abandon")
	}
}
