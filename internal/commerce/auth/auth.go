package auth

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

const defaultBasePath = "/auth"

// Service is the auth facade: login, registration and profile reads.
// Credential failures from upstream classify as terminal, so they never
// burn retry attempts.
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

// New creates the auth facade.
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

// Login authenticates and returns the session with its bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	body := map[string]any{"email": nil, "password": nil}
	if email != "" {
		body["email"] = email
	}
	if password != "" {
		body["password"] = password
	}
	if err := rest.ValidateRequired(body, "email", "password"); err != nil {
		return nil, s.fail("auth.login", err)
	}

	return s.session(ctx, "auth.login", rest.Request{
		Method:  http.MethodPost,
		Path:    s.base + "/login",
		Body:    body,
		Timeout: s.timeout,
		Retry:   s.retry,
	})
}

// RegisterParams is the new-account payload. Phone is optional.
type RegisterParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
}

// Register creates an account and returns the fresh session.
func (s *Service) Register(ctx context.Context, p RegisterParams) (*domain.Session, error) {
	body := map[string]any{
		"firstName": nil,
		"lastName":  nil,
		"email":     nil,
		"password":  nil,
		"phone":     nil,
	}
	if p.FirstName != "" {
		body["firstName"] = p.FirstName
	}
	if p.LastName != "" {
		body["lastName"] = p.LastName
	}
	if p.Email != "" {
		body["email"] = p.Email
	}
	if p.Password != "" {
		body["password"] = p.Password
	}
	if p.Phone != "" {
		body["phone"] = p.Phone
	}
	if err := rest.ValidateRequired(body, "firstName", "lastName", "email", "password"); err != nil {
		return nil, s.fail("auth.register", err)
	}

	return s.session(ctx, "auth.register", rest.Request{
		Method:  http.MethodPost,
		Path:    s.base + "/register",
		Body:    rest.SanitizeBody(body),
		Timeout: s.timeout,
		Retry:   s.retry,
	})
}

// Profile fetches the account behind a token.
func (s *Service) Profile(ctx context.Context, token string) (*domain.User, error) {
	if err := rest.ValidateRequired(map[string]any{"token": token}, "token"); err != nil {
		return nil, s.fail("auth.profile", err)
	}
	defer s.client.StartTimer("auth.profile").Stop()

	res, err := s.client.Do(ctx, rest.Request{
		Path:    s.base + "/profile",
		Headers: rest.AuthHeader(token),
		Timeout: s.timeout,
		Retry:   s.retry,
	})
	if err != nil {
		return nil, s.fail("auth.profile", err)
	}
	user, err := rest.Decode[domain.User](res)
	if err != nil {
		return nil, s.fail("auth.profile", err)
	}
	return &user, nil
}

// Logout invalidates the token upstream. Local state is the caller's to drop.
func (s *Service) Logout(ctx context.Context, token string) error {
	defer s.client.StartTimer("auth.logout").Stop()

	_, err := s.client.Do(ctx, rest.Request{
		Method:  http.MethodPost,
		Path:    s.base + "/logout",
		Headers: rest.AuthHeader(token),
		Timeout: s.timeout,
		Retry:   s.retry,
	})
	if err != nil {
		return s.fail("auth.logout", err)
	}
	return nil
}

func (s *Service) session(ctx context.Context, op string, req rest.Request) (*domain.Session, error) {
	defer s.client.StartTimer(op).Stop()

	res, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, s.fail(op, err)
	}
	session, err := rest.Decode[domain.Session](res)
	if err != nil {
		return nil, s.fail(op, err)
	}
	if session.Token == "" {
		return nil, s.fail(op, &rest.Error{Kind: rest.KindNormalization, Message: "session token missing in response"})
	}
	return &session, nil
}

func (s *Service) fail(op string, err error) error {
	metrics.OperationErrors.WithLabelValues(op, string(rest.Classify(err))).Inc()
	return fmt.Errorf("%s: %w", op, err)
}
