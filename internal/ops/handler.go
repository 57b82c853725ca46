package ops

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	aqmtemplate "github.com/aquamarinepk/aqm/template"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	tmplMgr      *aqmtemplate.Manager
	backend      *Backend
	orders       *OrderDataAccess
	orderItems   *OrderItemDataAccess
	tables       *TableDataAccess
	seats        *SeatDataAccess
	payments     *PaymentDataAccess
	menu         *MenuDataAccess
	waiters      *WaiterDataAccess
	settings     *SettingsDataAccess
	board        *OrderBoard
	carts        *CartStore
	notices      *NoticeBoard
	watchHub     *WatchHub
	logger       aqm.Logger
	config       *aqm.Config
	http         *telemetry.HTTP
	sessionStore *SessionStore
	auditLogger  *AuditLogger
	staticFS     fs.FS
}

func NewHandler(
	tmplMgr *aqmtemplate.Manager,
	backend *Backend,
	config *aqm.Config,
	logger aqm.Logger,
) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}

	sessionTTL := 8 * time.Hour
	if ttlStr, ok := config.GetString("auth.session.ttl"); ok && ttlStr != "" {
		if parsed, err := time.ParseDuration(ttlStr); err == nil && parsed > 0 {
			sessionTTL = parsed
		}
	}
	sessionStore := NewSessionStore(sessionTTL)

	return &Handler{
		tmplMgr:      tmplMgr,
		backend:      backend,
		orders:       NewOrderDataAccess(backend),
		orderItems:   NewOrderItemDataAccess(backend),
		tables:       NewTableDataAccess(backend),
		seats:        NewSeatDataAccess(backend),
		payments:     NewPaymentDataAccess(backend),
		menu:         NewMenuDataAccess(backend),
		waiters:      NewWaiterDataAccess(backend),
		settings:     NewSettingsDataAccess(backend),
		board:        NewOrderBoard(logger),
		carts:        NewCartStore(),
		notices:      NewNoticeBoard(),
		logger:       logger,
		config:       config,
		http:         telemetry.NewHTTP(),
		sessionStore: sessionStore,
		auditLogger:  NewAuditLogger(logger),
	}
}

// SetWatchHub hands the handler its watch hub after both exist; the hub
// needs the handler's data access and the handler arms waiter watchers.
func (h *Handler) SetWatchHub(hub *WatchHub) {
	h.watchHub = hub
}

// SetStaticAssets registers the embedded filesystem served under /assets.
func (h *Handler) SetStaticAssets(assets fs.FS) {
	h.staticFS = assets
}

// RegisterRoutes registers all console routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	if h.staticFS != nil {
		r.Handle("/assets/*", http.FileServer(http.FS(h.staticFS)))
	}

	// Public routes
	r.Get("/signin", h.ShowSignIn)
	r.Post("/signin", h.HandleSignIn)
	r.Post("/signout", h.HandleSignOut)

	// Protected routes (require session)
	r.Group(func(r chi.Router) {
		r.Use(h.SessionMiddleware)

		r.Get("/", h.Home)

		// Admin: orders
		r.Get("/orders", h.Orders)
		r.Get("/add-order", h.NewOrderForm)
		r.Post("/add-order", h.CreateOrder)
		r.Post("/orders/{id}/status", h.UpdateOrderStatus)
		r.Post("/delete-order/{id}", h.DeleteOrder)
		r.Get("/orders/{id}/items", h.OrderItems)
		r.Get("/orders/{id}/items/new", h.NewOrderItemForm)
		r.Post("/orders/{id}/items", h.CreateOrderItem)
		r.Get("/order-items/{id}/edit", h.EditOrderItemForm)
		r.Post("/order-items/{id}/update", h.UpdateOrderItem)
		r.Post("/delete-order-item/{id}", h.DeleteOrderItem)

		// Admin: tables and seats
		r.Get("/list-tables", h.Tables)
		r.Post("/add-table", h.CreateTable)
		r.Get("/edit-table/{id}", h.EditTableForm)
		r.Post("/update-table/{id}", h.UpdateTable)
		r.Post("/update-table-status/{id}", h.UpdateTableStatus)
		r.Post("/delete-table/{id}", h.DeleteTable)
		r.Get("/tables/{id}/seats", h.Seats)
		r.Post("/tables/{id}/seats", h.CreateSeat)
		r.Post("/tables/{id}/assign-seats", h.AssignSeats)
		r.Post("/tables/{id}/free-seats", h.FreeSeats)
		r.Post("/seats/{id}/status", h.UpdateSeatStatus)
		r.Post("/seats/{id}/free", h.FreeSeat)
		r.Post("/seats/{id}/assign-order", h.AssignOrderToSeat)
		r.Post("/delete-seat/{id}", h.DeleteSeat)

		// Admin and cashier: payments
		r.Get("/payments", h.Payments)
		r.Get("/add-payment", h.NewPaymentForm)
		r.Post("/add-payment", h.CreatePayment)
		r.Get("/payments/order/{id}", h.PaymentsByOrder)

		// Admin: menu, categories, waiters, settings
		r.Get("/menu", h.MenuItems)
		r.Post("/add-menu-item", h.CreateMenuItem)
		r.Get("/edit-menu-item/{id}", h.EditMenuItemForm)
		r.Post("/update-menu-item/{id}", h.UpdateMenuItem)
		r.Post("/menu-items/{id}/availability", h.ToggleMenuItemAvailability)
		r.Post("/delete-menu-item/{id}", h.DeleteMenuItem)
		r.Get("/categories", h.Categories)
		r.Post("/add-category", h.CreateCategory)
		r.Post("/update-category/{id}", h.UpdateCategory)
		r.Post("/delete-category/{id}", h.DeleteCategory)
		r.Get("/waiters", h.Waiters)
		r.Post("/add-waiter", h.CreateWaiter)
		r.Post("/update-waiter/{id}", h.UpdateWaiter)
		r.Post("/delete-waiter/{id}", h.DeleteWaiter)
		r.Get("/settings", h.Settings)
		r.Post("/settings/passwords", h.UpdateRolePassword)
		r.Post("/settings/passwords/delete", h.DeleteRolePassword)

		// Chef: kitchen board
		r.Get("/kitchen", h.KitchenBoard)
		r.Post("/kitchen/refresh", h.RefreshKitchenBoard)
		r.Post("/kitchen/orders/{id}/preparing", h.MarkOrderPreparing)
		r.Post("/kitchen/orders/{id}/ready", h.MarkOrderReady)

		// Waiter console
		r.Get("/waiter", h.WaiterHome)
		r.Get("/waiter/tables/{id}/orders", h.WaiterTableOrders)
		r.Get("/waiter/new-order", h.WaiterNewOrder)
		r.Post("/waiter/cart/add", h.WaiterCartAdd)
		r.Post("/waiter/cart/remove", h.WaiterCartRemove)
		r.Post("/waiter/orders", h.WaiterSubmitOrder)
		r.Post("/waiter/orders/{id}/deliver", h.WaiterDeliverOrder)
	})
}

func (h *Handler) log() aqm.Logger {
	return h.logger
}

func (h *Handler) renderTemplate(w http.ResponseWriter, templateName, layout string, data map[string]interface{}) {
	tmpl, err := h.tmplMgr.Get(templateName)
	if err != nil {
		h.log().Error("error loading template", "error", err, "template", templateName)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := tmpl.ExecuteTemplate(w, layout, data); err != nil {
		h.log().Error("error rendering template", "error", err, "layout", layout)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Home routes each role to its landing view.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Home")
	defer finish()

	session := h.sessionFromRequest(r)
	if session == nil {
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return
	}

	switch session.Role {
	case RoleChef:
		http.Redirect(w, r, "/kitchen", http.StatusSeeOther)
	case RoleWaiter:
		http.Redirect(w, r, "/waiter", http.StatusSeeOther)
	case RoleCashier:
		http.Redirect(w, r, "/payments", http.StatusSeeOther)
	default:
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
	}
}
