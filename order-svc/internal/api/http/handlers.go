package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"little-lemon/order-svc/internal/access"
	"little-lemon/order-svc/internal/domain"
	"little-lemon/order-svc/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const (
	msgForbidden    = "You do not have permission to perform this action."
	msgNoToken      = "Authentication credentials were not provided."
	msgInvalidToken = "Invalid token."
	msgNotFound     = "Not found."
)

type Handler struct {
	Menu     service.MenuServiceInterface
	Staff    service.StaffServiceInterface
	Cart     service.CartServiceInterface
	Orders   service.OrderServiceInterface
	Resolver service.RoleResolverInterface
	Gate     *access.Gate
	Secret   []byte

	validate *validator.Validate
}

func NewHandler(
	menuSvc service.MenuServiceInterface,
	staffSvc service.StaffServiceInterface,
	cartSvc service.CartServiceInterface,
	orderSvc service.OrderServiceInterface,
	resolver service.RoleResolverInterface,
	gate *access.Gate,
	secret []byte,
) *Handler {
	return &Handler{
		Menu:     menuSvc,
		Staff:    staffSvc,
		Cart:     cartSvc,
		Orders:   orderSvc,
		Resolver: resolver,
		Gate:     gate,
		Secret:   secret,
		validate: newValidator(),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.authenticate)

	api.HandleFunc("/menu-items", h.guard(access.MenuItems, h.listMenuItems)).Methods("GET")
	api.HandleFunc("/menu-items", h.guard(access.MenuItems, h.createMenuItem)).Methods("POST")
	api.HandleFunc("/menu-items/{id:[0-9]+}", h.guard(access.MenuItem, h.getMenuItem)).Methods("GET")
	api.HandleFunc("/menu-items/{id:[0-9]+}", h.guard(access.MenuItem, h.replaceMenuItem)).Methods("PUT")
	api.HandleFunc("/menu-items/{id:[0-9]+}", h.guard(access.MenuItem, h.patchMenuItem)).Methods("PATCH")
	api.HandleFunc("/menu-items/{id:[0-9]+}", h.guard(access.MenuItem, h.deleteMenuItem)).Methods("DELETE")

	api.HandleFunc("/categories", h.guard(access.Categories, h.listCategories)).Methods("GET")
	api.HandleFunc("/categories", h.guard(access.Categories, h.createCategory)).Methods("POST")

	h.registerRoster(api, "/groups/managers/users", roster{
		group: domain.GroupManager, list: access.ManagerRoster, entry: access.ManagerEntry,
	})
	h.registerRoster(api, "/groups/delivery-crew/users", roster{
		group: domain.GroupDeliveryCrew, list: access.DeliveryCrewRoster, entry: access.DeliveryCrewEntry,
	})

	api.HandleFunc("/cart/menu-items", h.guard(access.Cart, h.getCart)).Methods("GET")
	api.HandleFunc("/cart/menu-items", h.guard(access.Cart, h.addToCart)).Methods("POST")
	api.HandleFunc("/cart/menu-items", h.guard(access.Cart, h.clearCart)).Methods("DELETE")

	api.HandleFunc("/orders", h.guard(access.Orders, h.getOrders)).Methods("GET")
	api.HandleFunc("/orders", h.guard(access.Orders, h.placeOrder)).Methods("POST")
	api.HandleFunc("/orders/{id:[0-9]+}", h.getOrder).Methods("GET")
	api.HandleFunc("/orders/{id:[0-9]+}", h.updateOrderStatus).Methods("PATCH")
	api.HandleFunc("/orders/{id:[0-9]+}", h.assignOrder).Methods("PUT")
	api.HandleFunc("/orders/{id:[0-9]+}", h.deleteOrder).Methods("DELETE")
	api.HandleFunc("/orders/{id:[0-9]+}/qrcode", h.getOrderQRCode).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// guard rejects the request unless the caller's role may use resource with
// the request method. Object ownership is not checked here.
func (h *Handler) guard(resource access.Resource, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.allowed(r, resource, 0) {
			writeDetail(w, http.StatusForbidden, msgForbidden)
			return
		}
		next(w, r)
	}
}

func (h *Handler) allowed(r *http.Request, resource access.Resource, ownerID int64) bool {
	p, ok := access.FromContext(r.Context())
	if !ok {
		return false
	}
	return h.Gate.Allowed(p, resource, r.Method, ownerID)
}

func principal(r *http.Request) access.Principal {
	p, _ := access.FromContext(r.Context())
	return p
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeError(w http.ResponseWriter, err error) {
	var (
		verr    *service.ValidationError
		badJSON errBadJSON
	)
	switch {
	case errors.As(err, &verr):
		fields := make(map[string][]string, len(verr.Fields))
		for k, v := range verr.Fields {
			fields[k] = []string{v}
		}
		writeJSON(w, http.StatusBadRequest, fields)
	case errors.As(err, &badJSON):
		writeDetail(w, http.StatusBadRequest, badJSON.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeDetail(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, domain.ErrInUse):
		writeDetail(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrOutOfRange):
		writeDetail(w, http.StatusBadRequest, domain.ErrOutOfRange.Error())
	default:
		log.Printf("Error: %v", err)
		writeDetail(w, http.StatusInternalServerError, err.Error())
	}
}

// bind decodes and validates the request body. It writes the 400 response
// itself and reports false when the body is rejected.
func (h *Handler) bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	fields, err := h.decode(r, dst)
	if err != nil {
		writeError(w, err)
		return false
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, fields)
		return false
	}
	return true
}
