package router

import (
	"net/http"

	"github.com/cnqrstore/backend/internal/admin"
	"github.com/cnqrstore/backend/internal/catalog"
	"github.com/cnqrstore/backend/internal/checkout"
	"github.com/cnqrstore/backend/internal/dashboard"
	"github.com/cnqrstore/backend/internal/linking"
	"github.com/cnqrstore/backend/internal/pricing"
	"github.com/cnqrstore/backend/internal/verify"
)

// Handlers collects everything the route table serves.
type Handlers struct {
	Catalog   *catalog.Handler
	Pricing   *pricing.Handler
	Checkout  *checkout.Handler
	Verify    *verify.Handler
	Linking   *linking.Handler
	Admin     *admin.Handler
	Dashboard *dashboard.Handler
}

// Middleware wraps a handler (auth chains built in main).
type Middleware func(http.Handler) http.Handler

// New builds the API route table under /api/v1. Identity-protected routes
// need a storefront token; admin routes need an admin token from the PIN
// exchange.
func New(h Handlers, identity, adminAuth Middleware) http.Handler {
	mux := http.NewServeMux()
	const base = "/api/v1"

	// Public storefront surface.
	mux.HandleFunc("GET "+base+"/packages", h.Catalog.List)
	mux.HandleFunc("GET "+base+"/price-mode", h.Pricing.GetMode)
	mux.HandleFunc("GET "+base+"/servers", h.Linking.ListServers)
	mux.HandleFunc("POST "+base+"/verify-payment", h.Verify.Verify)
	mux.HandleFunc("GET "+base+"/transactions/{sessionId}", h.Verify.GetTransaction)
	mux.HandleFunc("POST "+base+"/admin/verify-pin", h.Admin.VerifyPIN)

	// Buyer routes: Discord identity asserted by the identity provider.
	mux.Handle("POST "+base+"/checkout", identity(http.HandlerFunc(h.Checkout.Create)))
	mux.Handle("POST "+base+"/check-link", identity(http.HandlerFunc(h.Linking.CheckLink)))
	mux.Handle("GET "+base+"/user/transactions", identity(http.HandlerFunc(h.Verify.ListMine)))

	// Admin routes.
	mux.Handle("POST "+base+"/price-mode", adminAuth(http.HandlerFunc(h.Pricing.SetMode)))
	mux.Handle("POST "+base+"/packages", adminAuth(http.HandlerFunc(h.Catalog.Create)))
	mux.Handle("PUT "+base+"/packages/{id}", adminAuth(http.HandlerFunc(h.Catalog.Update)))
	mux.Handle("DELETE "+base+"/packages/{id}", adminAuth(http.HandlerFunc(h.Catalog.Delete)))
	mux.Handle("GET "+base+"/admin/packages", adminAuth(http.HandlerFunc(h.Catalog.ListAll)))
	mux.Handle("GET "+base+"/admin/stats", adminAuth(http.HandlerFunc(h.Dashboard.GetStats)))
	mux.Handle("GET "+base+"/admin/transactions", adminAuth(http.HandlerFunc(h.Dashboard.ListTransactions)))
	mux.Handle("POST "+base+"/admin/test-webhook", adminAuth(http.HandlerFunc(h.Admin.TestWebhook)))

	return mux
}
