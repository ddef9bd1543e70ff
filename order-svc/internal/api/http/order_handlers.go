package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"little-lemon/order-svc/internal/access"
	"little-lemon/order-svc/internal/domain"
	"little-lemon/order-svc/internal/service"
)

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	lines, err := h.Cart.List(r.Context(), principal(r).UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderList(lines, renderCartLine))
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if !h.bind(w, r, &req) {
		return
	}
	line, err := h.Cart.Add(r.Context(), principal(r).UserID, *req.MenuItem, *req.Quantity)
	if errors.Is(err, service.ErrAlreadyInCart) {
		writeMessage(w, http.StatusOK, err.Error())
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, renderCartLine(*line))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.Cart.Clear(r.Context(), principal(r).UserID); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Deleted")
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.Context(), principal(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderList(orders, renderOrder))
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Checkout(r.Context(), principal(r).UserID)
	if errors.Is(err, service.ErrCartEmpty) {
		writeMessage(w, http.StatusOK, err.Error())
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, fmt.Sprintf("Your order has been placed! Your order number is %d", order.ID))
}

// loadOrder fetches the order named in the path and checks the caller may
// use it with the request method. Unknown orders are reported before
// permission, so a 404 never hides behind a 403.
func (h *Handler) loadOrder(w http.ResponseWriter, r *http.Request) (*domain.Order, bool) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, msgNotFound)
		return nil, false
	}
	order, err := h.Orders.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	if !h.allowed(r, access.OrderDetail, order.User.ID) {
		writeDetail(w, http.StatusForbidden, msgForbidden)
		return nil, false
	}
	return order, true
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, renderOrder(*order))
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !h.bind(w, r, &req) {
		return
	}
	if err := h.Orders.UpdateStatus(r.Context(), order.ID, *req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("order status is updated to %t", *req.Status))
}

func (h *Handler) assignOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	var req assignRequest
	if !h.bind(w, r, &req) {
		return
	}
	crew, err := h.Orders.Assign(r.Context(), order.ID, *req.DeliveryCrew, *req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK,
		fmt.Sprintf("order %d assigned to %s and order status is %t", order.ID, crew.Username, *req.Status))
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	if err := h.Orders.Delete(r.Context(), order.ID); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("order %d deleted", order.ID))
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	png, err := h.Orders.ReceiptQR(order.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
