package main

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/hotel-backoffice/httpx"
	"github.com/diewo77/hotel-backoffice/internal/handlers"
	"github.com/diewo77/hotel-backoffice/internal/middleware"
	"github.com/diewo77/hotel-backoffice/internal/services"
	"gorm.io/gorm"
)

// Services groups the domain services shared by the HTTP API and the
// command-line jobs.
type Services struct {
	Activity     *services.ActivityService
	Clients      *services.ClientService
	Rooms        *services.RoomService
	Reservations *services.ReservationService
	Billing      *services.BillingService
	Catalog      *services.CatalogService
	Orders       *services.OrderService
	Cleaning     *services.CleaningService
	Affiliations *services.AffiliationService
}

// NewServices wires the services on db. cache and rec may be nil.
func NewServices(db *gorm.DB, cache services.Cache, rec services.Recorder) *Services {
	act := services.NewActivityService(db, rec)
	clients := services.NewClientService(db, act)
	return &Services{
		Activity:     act,
		Clients:      clients,
		Rooms:        services.NewRoomService(db, act, cache),
		Reservations: services.NewReservationService(db, act, clients, cache),
		Billing:      services.NewBillingService(db, act),
		Catalog:      services.NewCatalogService(db, act),
		Orders:       services.NewOrderService(db, act),
		Cleaning:     services.NewCleaningService(db, act, cache),
		Affiliations: services.NewAffiliationService(db, act),
	}
}

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	db      *gorm.DB
	svc     *Services
	limiter func(http.Handler) http.Handler
}

// NewApp creates the API. limiter may be nil.
func NewApp(db *gorm.DB, svc *Services, limiter func(http.Handler) http.Handler) *App {
	if limiter == nil {
		limiter = func(next http.Handler) http.Handler { return next }
	}
	app := &App{mux: http.NewServeMux(), db: db, svc: svc, limiter: limiter}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := middleware.Prefs(middleware.RequestInfo(a.limiter(a.mux)))
	handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	a.mux.HandleFunc("GET /health", a.health)
	a.mux.HandleFunc("GET /healthz", a.healthz)

	ch := handlers.NewClientHandler(a.svc.Clients)
	a.mux.HandleFunc("GET /clients", ch.List)
	a.mux.HandleFunc("POST /clients", ch.Create)
	a.mux.HandleFunc("GET /clients/{id}", ch.View)
	a.mux.HandleFunc("PUT /clients/{id}", ch.Update)
	a.mux.HandleFunc("DELETE /clients/{id}", ch.Delete)
	a.mux.HandleFunc("POST /clients/{id}/reconcile", ch.Reconcile)

	rh := handlers.NewRoomHandler(a.svc.Rooms)
	a.mux.HandleFunc("GET /room-categories", rh.ListCategories)
	a.mux.HandleFunc("POST /room-categories", rh.CreateCategory)
	a.mux.HandleFunc("GET /room-categories/{id}", rh.ViewCategory)
	a.mux.HandleFunc("PUT /room-categories/{id}", rh.UpdateCategory)
	a.mux.HandleFunc("DELETE /room-categories/{id}", rh.DeleteCategory)
	a.mux.HandleFunc("GET /rooms", rh.List)
	a.mux.HandleFunc("POST /rooms", rh.Create)
	a.mux.HandleFunc("GET /rooms/{id}", rh.View)
	a.mux.HandleFunc("PUT /rooms/{id}", rh.Update)
	a.mux.HandleFunc("DELETE /rooms/{id}", rh.Delete)
	a.mux.HandleFunc("GET /api/rooms/available", rh.Available)

	resh := handlers.NewReservationHandler(a.svc.Reservations, a.svc.Affiliations)
	a.mux.HandleFunc("GET /reservations", resh.List)
	a.mux.HandleFunc("POST /reservations", resh.Create)
	a.mux.HandleFunc("GET /reservations/{id}", resh.View)
	a.mux.HandleFunc("PUT /reservations/{id}", resh.Update)
	a.mux.HandleFunc("DELETE /reservations/{id}", resh.Delete)
	a.mux.HandleFunc("POST /reservations/{id}/status", resh.SetStatus)
	a.mux.HandleFunc("POST /reservations/{id}/checkin", resh.CheckIn)
	a.mux.HandleFunc("POST /reservations/{id}/checkout", resh.Checkout)
	a.mux.HandleFunc("GET /reservations/{id}/affiliation", resh.Affiliation)
	a.mux.HandleFunc("POST /reservations/{id}/affiliation", resh.CreateAffiliation)
	a.mux.HandleFunc("POST /affiliations/{id}/status", resh.SetAffiliationStatus)

	bh := handlers.NewBillingHandler(a.svc.Billing)
	a.mux.HandleFunc("GET /invoices", bh.List)
	a.mux.HandleFunc("POST /invoices", bh.Create)
	a.mux.HandleFunc("GET /invoices/{id}", bh.View)
	a.mux.HandleFunc("PUT /invoices/{id}", bh.Update)
	a.mux.HandleFunc("DELETE /invoices/{id}", bh.Delete)
	a.mux.HandleFunc("POST /invoices/{id}/lines", bh.AddLine)
	a.mux.HandleFunc("PUT /invoices/{id}/lines/{line_id}", bh.UpdateLine)
	a.mux.HandleFunc("DELETE /invoices/{id}/lines/{line_id}", bh.RemoveLine)
	a.mux.HandleFunc("GET /invoices/{id}/payments", bh.Payments)
	a.mux.HandleFunc("POST /invoices/{id}/payments", bh.RecordPayment)
	a.mux.HandleFunc("POST /billing/nightly-charges", bh.NightlyCharges)
	a.mux.HandleFunc("GET /reports/summary", bh.Summary)

	cat := handlers.NewCatalogHandler(a.svc.Catalog)
	a.mux.HandleFunc("GET /service-categories", cat.ListServiceCategories)
	a.mux.HandleFunc("POST /service-categories", cat.CreateServiceCategory)
	a.mux.HandleFunc("GET /services", cat.ListServices)
	a.mux.HandleFunc("POST /services", cat.CreateService)
	a.mux.HandleFunc("DELETE /services/{id}", cat.DeleteService)
	a.mux.HandleFunc("GET /dish-categories", cat.ListDishCategories)
	a.mux.HandleFunc("POST /dish-categories", cat.CreateDishCategory)
	a.mux.HandleFunc("GET /menu-items", cat.ListMenuItems)
	a.mux.HandleFunc("POST /menu-items", cat.CreateMenuItem)
	a.mux.HandleFunc("PUT /menu-items/{id}", cat.UpdateMenuItem)
	a.mux.HandleFunc("DELETE /menu-items/{id}", cat.DeleteMenuItem)

	oh := handlers.NewOrderHandler(a.svc.Orders)
	a.mux.HandleFunc("POST /api/orders", oh.Place)
	a.mux.HandleFunc("GET /api/orders/pending", oh.Pending)
	a.mux.HandleFunc("GET /api/orders/{id}", oh.View)
	a.mux.HandleFunc("GET /orders", oh.List)
	a.mux.HandleFunc("POST /orders/{id}/status", oh.SetStatus)

	clh := handlers.NewCleaningHandler(a.svc.Cleaning)
	a.mux.HandleFunc("GET /cleanings", clh.List)
	a.mux.HandleFunc("POST /cleanings", clh.Create)
	a.mux.HandleFunc("GET /cleanings/{id}", clh.View)
	a.mux.HandleFunc("POST /cleanings/{id}/start", clh.Start)
	a.mux.HandleFunc("POST /cleanings/{id}/complete", clh.Complete)
	a.mux.HandleFunc("POST /cleanings/{id}/validate", clh.Validate)

	ah := handlers.NewActivityHandler(a.svc.Activity)
	a.mux.HandleFunc("GET /activity-logs", ah.List)
	a.mux.HandleFunc("GET /activity-logs/export.csv", ah.ExportCSV)
	a.mux.HandleFunc("GET /activity-logs/export.xlsx", ah.ExportXLSX)
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// healthz also checks the database connection.
func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := a.db.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": err.Error()})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "ok"})
}
