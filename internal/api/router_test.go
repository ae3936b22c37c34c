package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
	"github.com/swiftcargo/movers-portal/internal/core/ports"
)

// routerAuth accepts two fixed tokens, one per role.
type routerAuth struct{ ports.AuthService }

func (routerAuth) ValidateToken(_ context.Context, raw string) (*ports.TokenInfo, error) {
	switch raw {
	case "admin-token":
		return &ports.TokenInfo{SubjectID: "a1", Role: domain.RoleAdmin}, nil
	case "operator-token":
		return &ports.TokenInfo{SubjectID: "o1", Role: domain.RoleOperator}, nil
	}
	return nil, domain.ErrInvalidCredentials
}

func (routerAuth) Me(_ context.Context, id string) (*domain.Admin, error) {
	return &domain.Admin{ID: id, Role: domain.RoleOperator}, nil
}

type routerShipments struct{ ports.ShipmentService }

func (routerShipments) Track(context.Context, string) (*ports.TrackingView, error) {
	return nil, domain.ErrShipmentNotFound
}

func (routerShipments) DeleteShipment(context.Context, string) error { return nil }

type routerContent struct{}

func (routerContent) Content() *domain.SiteContent {
	return &domain.SiteContent{Services: []domain.Service{{Slug: "packing", Title: "Packing"}}}
}

func TestRouter(t *testing.T) {
	e := NewRouter(Deps{
		Logger:    zerolog.Nop(),
		Auth:      routerAuth{},
		Shipments: routerShipments{},
		Content:   routerContent{},
	})

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		code   int
	}{
		{"liveness", http.MethodGet, "/health", "", http.StatusOK},
		{"readiness without deps", http.MethodGet, "/health/ready", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"public site", http.MethodGet, "/v1/site/services", "", http.StatusOK},
		{"public site miss", http.MethodGet, "/v1/site/services/piano", "", http.StatusNotFound},
		{"public tracking", http.MethodGet, "/v1/track/MVR-00000000", "", http.StatusNotFound},
		{"me requires token", http.MethodGet, "/v1/auth/me", "", http.StatusUnauthorized},
		{"me with token", http.MethodGet, "/v1/auth/me", "operator-token", http.StatusOK},
		{"shipments require token", http.MethodGet, "/v1/shipments", "", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/v1/shipments", "forged", http.StatusUnauthorized},
		{"operator cannot delete", http.MethodDelete, "/v1/shipments/s1", "operator-token", http.StatusForbidden},
		{"admin can delete", http.MethodDelete, "/v1/shipments/s1", "admin-token", http.StatusNoContent},
		{"operator cannot bill", http.MethodGet, "/v1/bills", "operator-token", http.StatusForbidden},
		{"operator cannot register", http.MethodPost, "/v1/auth/register", "operator-token", http.StatusForbidden},
		{"unknown route", http.MethodGet, "/v1/nothing", "", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d: %s", tc.code, rec.Code, rec.Body.String())
			}
			if tc.code >= 400 {
				var body errorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error == "" {
					t.Fatalf("expected error envelope, got %q", rec.Body.String())
				}
			}
		})
	}
}
