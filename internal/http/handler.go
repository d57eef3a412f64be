package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/internal/domain/dto"
	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/i18n"
	"github.com/guttosm/cart-service/internal/repository"
	"github.com/guttosm/cart-service/internal/service"
)

const (
	sessionParam = "session"
	indexParam   = "index"
)

// CartHandler serves the cart, checkout and order history of a session.
type CartHandler struct {
	store      *service.CartStore
	dispatcher *service.Dispatcher
}

// NewCartHandler creates a CartHandler. A nil dispatcher is built from store.
func NewCartHandler(store *service.CartStore, dispatcher *service.Dispatcher) *CartHandler {
	if dispatcher == nil {
		dispatcher = service.NewDispatcher(store)
	}
	return &CartHandler{store: store, dispatcher: dispatcher}
}

// GetCart returns the cart with its totals.
// GET /api/sessions/:session/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.store.Cart(c.Request.Context(), c.Param(sessionParam))
	if err != nil {
		h.fail(c, err, model.Notification{})
		return
	}
	NewResponseBuilder(c).SuccessOK(h.cartView(cart))
}

// AddItem adds one unit of a product to the cart.
// POST /api/sessions/:session/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	req, ok := bind[dto.AddItemRequest](c)
	if !ok {
		return
	}
	cart, note, err := h.store.AddItem(c.Request.Context(), c.Param(sessionParam), req.ID, req.Name, req.Price.String())
	if err != nil {
		h.fail(c, err, note)
		return
	}
	NewResponseBuilder(c).SuccessCreated(h.actionResponse(cart, note))
}

// UpdateQuantity sets the quantity of a line from raw shopper input.
// PUT /api/sessions/:session/cart/items/:index
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	index, ok := h.index(c)
	if !ok {
		return
	}
	req, ok := bind[dto.UpdateQuantityRequest](c)
	if !ok {
		return
	}
	cart, note, err := h.store.UpdateQuantity(c.Request.Context(), c.Param(sessionParam), index, req.Quantity.String())
	if err != nil {
		h.fail(c, err, note)
		return
	}
	NewResponseBuilder(c).SuccessOK(h.actionResponse(cart, note))
}

// AdjustQuantity increments or decrements the quantity of a line.
// PATCH /api/sessions/:session/cart/items/:index
func (h *CartHandler) AdjustQuantity(c *gin.Context) {
	index, ok := h.index(c)
	if !ok {
		return
	}
	req, ok := bind[dto.AdjustQuantityRequest](c)
	if !ok {
		return
	}
	cart, note, err := h.store.AdjustQuantity(c.Request.Context(), c.Param(sessionParam), index, req.Delta)
	if err != nil {
		h.fail(c, err, note)
		return
	}
	NewResponseBuilder(c).SuccessOK(h.actionResponse(cart, note))
}

// RemoveItem deletes a line from the cart.
// DELETE /api/sessions/:session/cart/items/:index
func (h *CartHandler) RemoveItem(c *gin.Context) {
	index, ok := h.index(c)
	if !ok {
		return
	}
	removed, cart, note, err := h.store.RemoveItem(c.Request.Context(), c.Param(sessionParam), index)
	if err != nil {
		h.fail(c, err, note)
		return
	}
	resp := h.actionResponse(cart, note)
	resp.Removed = removed
	NewResponseBuilder(c).SuccessOK(resp)
}

// Checkout turns the cart into an order. An empty cart is a 409 carrying
// the "cart is empty" notification.
// POST /api/sessions/:session/checkout
func (h *CartHandler) Checkout(c *gin.Context) {
	order, note, err := h.store.Checkout(c.Request.Context(), c.Param(sessionParam))
	if err != nil {
		h.fail(c, err, note)
		return
	}
	resp := h.actionResponse(model.Cart{}, note)
	resp.Order = &order
	NewResponseBuilder(c).SuccessCreated(resp)
}

// Orders returns the order history, newest first.
// GET /api/sessions/:session/orders
func (h *CartHandler) Orders(c *gin.Context) {
	orders, err := h.store.Orders(c.Request.Context(), c.Param(sessionParam))
	if err != nil {
		h.fail(c, err, model.Notification{})
		return
	}
	NewResponseBuilder(c).SuccessOK(dto.OrdersResponse{Orders: orders, Count: len(orders)})
}

// Command runs any cart action described by a typed command body.
// POST /api/sessions/:session/commands
func (h *CartHandler) Command(c *gin.Context) {
	req, ok := bind[dto.CommandRequest](c)
	if !ok {
		return
	}
	res, err := h.dispatcher.Dispatch(c.Request.Context(), c.Param(sessionParam), toCommand(req))
	if err != nil {
		h.fail(c, err, res.Notification)
		return
	}
	resp := h.actionResponse(res.Cart, res.Notification)
	resp.Removed = res.Removed
	resp.Order = res.Order
	NewResponseBuilder(c).SuccessOK(resp)
}

// toCommand converts a validated request into a service command.
func toCommand(req *dto.CommandRequest) service.Command {
	index := 0
	if req.Index != nil {
		index = *req.Index
	}
	switch req.Type {
	case dto.CommandAddItem:
		return service.AddItem{ID: req.ID, Name: req.Name, Price: req.Price.String()}
	case dto.CommandUpdateQuantity:
		return service.UpdateQuantity{Index: index, Quantity: req.Quantity.String()}
	case dto.CommandAdjustQuantity:
		return service.AdjustQuantity{Index: index, Delta: req.Delta}
	case dto.CommandRemoveItem:
		return service.RemoveItem{Index: index}
	case dto.CommandCheckout:
		return service.Checkout{}
	default:
		return nil
	}
}

func (h *CartHandler) cartView(cart model.Cart) dto.CartView {
	return dto.NewCartView(cart, h.store.Summary(cart), h.store.MaxQuantity(), h.store.FormatMoney)
}

func (h *CartHandler) actionResponse(cart model.Cart, note model.Notification) dto.CartActionResponse {
	resp := dto.CartActionResponse{Cart: h.cartView(cart)}
	if note.Message != "" {
		resp.Notification = &note
	}
	return resp
}

// index parses the :index path parameter. A value that is not a
// position in any cart is reported as a missing item.
func (h *CartHandler) index(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param(indexParam))
	if err != nil || index < 0 {
		NewResponseBuilder(c).Error(http.StatusNotFound, i18n.ErrKeyInvalidIndex, model.ErrInvalidIndex)
		return 0, false
	}
	return index, true
}

func (h *CartHandler) fail(c *gin.Context, err error, note model.Notification) {
	status, key := errorStatus(err)
	NewResponseBuilder(c).ErrorWithNotification(status, key, err, note)
}

// bind decodes and validates the JSON body, writing the 400 itself.
func bind[T any](c *gin.Context) (*T, bool) {
	req, err := BuildRequestAndValidate[T](c)
	if err == nil {
		return req, true
	}
	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		NewResponseBuilder(c).ValidationError(verr)
		return nil, false
	}
	NewResponseBuilder(c).Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
	return nil, false
}

// errorStatus maps a cart service error to its HTTP status and message key.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInvalidPrice):
		return http.StatusBadRequest, i18n.ErrKeyInvalidPrice
	case errors.Is(err, service.ErrInvalidSession):
		return http.StatusBadRequest, i18n.ErrKeyInvalidSession
	case errors.Is(err, service.ErrUnknownCommand), errors.Is(err, service.ErrInvalidCommand):
		return http.StatusBadRequest, i18n.ErrKeyUnknownCommand
	case errors.Is(err, model.ErrInvalidIndex):
		return http.StatusNotFound, i18n.ErrKeyInvalidIndex
	case errors.Is(err, model.ErrEmptyCart):
		return http.StatusConflict, i18n.ErrKeyConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, i18n.ErrKeyTimeout
	case errors.Is(err, repository.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, i18n.ErrKeyStoreUnavailable
	default:
		return http.StatusInternalServerError, i18n.ErrKeyInternalError
	}
}
