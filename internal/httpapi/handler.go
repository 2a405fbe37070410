// Package httpapi отдаёт корзину UI-потребителям по HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
)

// CartService — операции корзины, которые нужны HTTP-слою.
type CartService interface {
	AddToCart(ctx context.Context, productID string, quantity int) error
	RemoveFromCart(ctx context.Context, productID string) error
	UpdateQuantity(ctx context.Context, productID string, quantity int) error
	ClearCart(ctx context.Context) error
	Sync(ctx context.Context) error
	CartItemsWithDetails() []domain.LineItemDetails
	CartTotal() int64
	CartCount() int
	IsInCart(productID string) bool
	ItemQuantity(productID string) int
}

// SessionService управляет токеном сессии.
type SessionService interface {
	Login(ctx context.Context, token string) error
	Logout(ctx context.Context) error
	Token(ctx context.Context) (string, bool)
}

// Handler — HTTP-слой поверх CartService.
type Handler struct {
	cart    CartService
	session SessionService
	logger  *log.Entry
}

// NewHandler создаёт Handler.
func NewHandler(cart CartService, session SessionService, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "httpapi")
	}
	return &Handler{cart: cart, session: session, logger: logger}
}

// RegisterRoutes регистрирует маршруты на router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/cart", h.GetCart).Methods(http.MethodGet)
	r.HandleFunc("/cart", h.ClearCart).Methods(http.MethodDelete)
	r.HandleFunc("/cart/summary", h.Summary).Methods(http.MethodGet)
	r.HandleFunc("/cart/sync", h.SyncCart).Methods(http.MethodPost)
	r.HandleFunc("/cart/items", h.AddItem).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{productId}", h.GetItem).Methods(http.MethodGet)
	r.HandleFunc("/cart/items/{productId}", h.UpdateItem).Methods(http.MethodPut)
	r.HandleFunc("/cart/items/{productId}", h.RemoveItem).Methods(http.MethodDelete)

	if h.session != nil {
		r.HandleFunc("/session", h.Login).Methods(http.MethodPost)
		r.HandleFunc("/session", h.Logout).Methods(http.MethodDelete)
	}
}

// NewRouter возвращает router со всеми маршрутами API.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return r
}

type addItemReq struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity,omitempty"`
}

type updateItemReq struct {
	Quantity int `json:"quantity"`
}

type loginReq struct {
	Token string `json:"token"`
}

type cartResp struct {
	Items   []domain.LineItemDetails `json:"items"`
	Total   int64                    `json:"total"`
	Count   int                      `json:"count"`
	Warning string                   `json:"warning,omitempty"`
}

type summaryResp struct {
	Total int64 `json:"total"`
	Count int   `json:"count"`
	Lines int   `json:"lines"`
}

type itemResp struct {
	ProductID string `json:"productId"`
	InCart    bool   `json:"inCart"`
	Quantity  int    `json:"quantity"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (h *Handler) cartState(warning string) cartResp {
	return cartResp{
		Items:   h.cart.CartItemsWithDetails(),
		Total:   h.cart.CartTotal(),
		Count:   h.cart.CartCount(),
		Warning: warning,
	}
}

// respondMutation переводит результат мутации в ответ. Отказ удалённого API
// или локальной записи не отменяет применённое состояние: 200 и warning.
func (h *Handler) respondMutation(w http.ResponseWriter, op string, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, h.cartState(""))
	case errors.Is(err, domain.ErrProductIDRequired), errors.Is(err, domain.ErrQuantityInvalid):
		writeErr(w, http.StatusBadRequest, err.Error())
	case domain.IsRemoteFailure(err), errors.Is(err, domain.ErrPersist):
		h.logger.WithError(err).WithField("operation", op).Warn("cart mutation applied with warning")
		writeJSON(w, http.StatusOK, h.cartState(err.Error()))
	default:
		h.logger.WithError(err).WithField("operation", op).Error("cart mutation failed")
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

// GetCart handles GET /cart
func (h *Handler) GetCart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.cartState(""))
}

// Summary handles GET /cart/summary
func (h *Handler) Summary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, summaryResp{
		Total: h.cart.CartTotal(),
		Count: h.cart.CartCount(),
		Lines: len(h.cart.CartItemsWithDetails()),
	})
}

// AddItem handles POST /cart/items
// body: { "productId": "p1", "quantity": 2 }; quantity по умолчанию 1.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	quantity := domain.DefaultQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	h.respondMutation(w, "add", h.cart.AddToCart(r.Context(), req.ProductID, quantity))
}

// GetItem handles GET /cart/items/{productId}
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productId"]
	writeJSON(w, http.StatusOK, itemResp{
		ProductID: productID,
		InCart:    h.cart.IsInCart(productID),
		Quantity:  h.cart.ItemQuantity(productID),
	})
}

// UpdateItem handles PUT /cart/items/{productId}
// body: { "quantity": 3 }; quantity <= 0 удаляет позицию.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	productID := mux.Vars(r)["productId"]
	h.respondMutation(w, "update", h.cart.UpdateQuantity(r.Context(), productID, req.Quantity))
}

// RemoveItem handles DELETE /cart/items/{productId}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productId"]
	h.respondMutation(w, "remove", h.cart.RemoveFromCart(r.Context(), productID))
}

// ClearCart handles DELETE /cart
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.respondMutation(w, "clear", h.cart.ClearCart(r.Context()))
}

// SyncCart handles POST /cart/sync
func (h *Handler) SyncCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Sync(r.Context()); err != nil {
		h.logger.WithError(err).Warn("cart sync failed")
		writeErr(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.cartState(""))
}

// Login handles POST /session
// body: { "token": "..." }
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.session.Login(r.Context(), req.Token); err != nil {
		if errors.Is(err, domain.ErrSessionRequired) {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
}

// Logout handles DELETE /session
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": false})
}
