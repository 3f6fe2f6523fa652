package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/barbackhq/pos-backend/api/controllers"
	"github.com/barbackhq/pos-backend/api/middleware"
	"github.com/barbackhq/pos-backend/internal/cart"
	"github.com/barbackhq/pos-backend/internal/inventory"
	"github.com/barbackhq/pos-backend/internal/kds"
	"github.com/barbackhq/pos-backend/internal/menu"
	"github.com/barbackhq/pos-backend/internal/orders"
	"github.com/barbackhq/pos-backend/internal/payments"
	"github.com/barbackhq/pos-backend/internal/staff"
	"github.com/barbackhq/pos-backend/internal/tables"
	"github.com/barbackhq/pos-backend/pkg/config"
	"github.com/barbackhq/pos-backend/pkg/db"
	"github.com/barbackhq/pos-backend/pkg/logger"
	pkgredis "github.com/barbackhq/pos-backend/pkg/redis"
)

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = time.Minute
)

// Deps carries everything the router wires into its handlers.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger
	DB     db.Pinger
	Redis  *pkgredis.Client

	Staff     staff.Service
	Menu      menu.Service
	Inventory inventory.Service
	Cart      cart.Service
	Orders    orders.Service
	KDS       kds.Service
	Payments  payments.Service
	Tables    tables.Service
}

// NewRouter assembles the HTTP surface: health probes, the public login
// route, and the authenticated register/kitchen API.
func NewRouter(deps Deps) http.Handler {
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))
	r.Use(middleware.CORS())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.DB, deps.Redis, logg))
	})

	login := controllers.Login(deps.Staff, logg)
	if deps.Redis != nil {
		limited := middleware.LoginRateLimit(deps.Redis, logg, loginAttemptLimit, loginAttemptWindow)(login)
		r.Method(http.MethodPost, "/api/v1/auth/login", limited)
	} else {
		r.Post("/api/v1/auth/login", login)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(deps.Config.JWT, logg))
		if deps.Redis != nil {
			r.Use(middleware.Idempotency(deps.Redis, logg))
		}

		r.Route("/menu", func(r chi.Router) {
			r.Get("/", controllers.MenuList(deps.Menu, logg))
			r.Post("/", controllers.MenuCreate(deps.Menu, logg))
			r.Route("/{itemId}", func(r chi.Router) {
				r.Get("/", controllers.MenuGet(deps.Menu, logg))
				r.Patch("/", controllers.MenuUpdate(deps.Menu, logg))
				r.Delete("/", controllers.MenuDelete(deps.Menu, logg))
				r.Patch("/availability", controllers.MenuSetAvailability(deps.Menu, logg))
			})
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(deps.Inventory, logg))
			r.Post("/", controllers.InventoryCreate(deps.Inventory, logg))
			r.Get("/transactions", controllers.InventoryTransactions(deps.Inventory, logg))
			r.Get("/valuation", controllers.InventoryValuation(deps.Inventory, logg))
			r.Get("/alerts", controllers.InventoryAlerts(deps.Inventory, logg))
			r.Route("/{itemId}", func(r chi.Router) {
				r.Get("/", controllers.InventoryGet(deps.Inventory, logg))
				r.Patch("/", controllers.InventoryUpdate(deps.Inventory, logg))
				r.Delete("/", controllers.InventoryDelete(deps.Inventory, logg))
				r.Post("/adjust", controllers.InventoryAdjust(deps.Inventory, logg))
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, deps.Tables, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, deps.Tables, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, deps.Tables, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(deps.Cart, deps.Tables, logg))
			r.Patch("/items/{itemId}/note", controllers.CartUpdateItemNote(deps.Cart, deps.Tables, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.Cart, deps.Tables, logg))
			r.Post("/checkout", controllers.Checkout(deps.Orders, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.Orders, logg))
			r.Post("/", controllers.OrdersCreate(deps.Orders, logg))
			r.Route("/{orderId}", func(r chi.Router) {
				r.Get("/", controllers.OrdersGet(deps.Orders, logg))
				r.Post("/items", controllers.OrdersAddItems(deps.Orders, logg))
				r.Patch("/status", controllers.OrdersUpdateStatus(deps.Orders, logg))
				r.Post("/close", controllers.OrdersClose(deps.Orders, logg))
				r.Get("/payments", controllers.OrderPayments(deps.Orders, deps.Payments, logg))
				r.Get("/receipt", controllers.OrderReceipt(deps.Orders, deps.Payments, logg))
			})
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", controllers.TicketsList(deps.KDS, logg))
			r.Get("/{ticketId}", controllers.TicketsGet(deps.KDS, logg))
			r.Patch("/{ticketId}/status", controllers.TicketsUpdateStatus(deps.KDS, logg))
		})

		r.Post("/payments/{paymentId}/refund", controllers.PaymentRefund(deps.Payments, logg))

		r.Route("/tables", func(r chi.Router) {
			r.Get("/", controllers.TablesList(deps.Tables, logg))
			r.Post("/", controllers.TablesCreate(deps.Tables, logg))
			r.Patch("/{tableId}/status", controllers.TablesSetStatus(deps.Tables, logg))
			r.Delete("/{tableId}", controllers.TablesDelete(deps.Tables, logg))
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", controllers.LocationsList(deps.Tables, logg))
			r.Post("/", controllers.LocationsCreate(deps.Tables, logg))
		})

		r.Route("/staff", func(r chi.Router) {
			r.Get("/", controllers.StaffList(deps.Staff, logg))
			r.Post("/", controllers.StaffCreate(deps.Staff, logg))
			r.Get("/{employeeId}", controllers.StaffGet(deps.Staff, logg))
			r.Delete("/{employeeId}", controllers.StaffDeactivate(deps.Staff, logg))
		})
	})

	return r
}
