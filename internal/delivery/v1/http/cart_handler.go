package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/internal/usecase"
	"github.com/DRSN-tech/go-cart/internal/view"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

const maxBodySize = 1 << 20

// CartHandler — JSON API той же корзины, что и HTML-страницы.
type CartHandler struct {
	opener  usecase.CartOpener
	stepper view.Stepper
	logger  logger.Logger
}

func NewCartHandler(opener usecase.CartOpener, stepper view.Stepper, logger logger.Logger) *CartHandler {
	return &CartHandler{opener: opener, stepper: stepper, logger: logger}
}

type addItemBody struct {
	ID       *domain.ItemID  `json:"id,omitempty"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity *int            `json:"quantity,omitempty"`
	Color    string          `json:"color"`
}

type updateQuantityBody struct {
	Quantity *int `json:"quantity"`
}

type stepperBody struct {
	Value     string `json:"value"`
	Direction string `json:"direction"`
}

type itemRes struct {
	ID        domain.ItemID `json:"id"`
	Name      string        `json:"name"`
	Price     string        `json:"price"`
	Image     string        `json:"image"`
	Quantity  int           `json:"quantity"`
	Color     string        `json:"color"`
	LineTotal string        `json:"line_total"`
}

type totalsRes struct {
	ItemCount    int    `json:"item_count"`
	Subtotal     string `json:"subtotal"`
	Shipping     string `json:"shipping"`
	Tax          string `json:"tax"`
	Total        string `json:"total"`
	FreeShipping bool   `json:"free_shipping"`
}

type cartRes struct {
	Items  []itemRes `json:"items"`
	Totals totalsRes `json:"totals"`
}

// getCart: GET /api/v1/cart
func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	cart := h.open(r)
	WriteSuccess(w, http.StatusOK, toCartRes(cart))
}

// addItem: POST /api/v1/cart/items
func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var body addItemBody
	if err := decodeBody(w, r, &body); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	req, err := body.toReq()
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	cart := h.open(r)
	if err := cart.Add(r.Context(), req); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toCartRes(cart))
}

// updateQuantity: PATCH /api/v1/cart/items/{id}
func (h *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	raw, err := itemIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var body updateQuantityBody
	if err := decodeBody(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}
	if body.Quantity == nil {
		WriteError(w, e.Wrap(whereami.WhereAmI(), e.ErrMissingFields))
		return
	}

	cart := h.open(r)
	id, err := cart.ResolveID(raw)
	if err != nil {
		WriteError(w, err)
		return
	}
	if err := cart.UpdateQuantity(r.Context(), id, *body.Quantity); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartRes(cart))
}

// removeItem: DELETE /api/v1/cart/items/{id}
func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	raw, err := itemIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	cart := h.open(r)
	id, err := cart.ResolveID(raw)
	if err != nil {
		WriteError(w, err)
		return
	}
	if err := cart.Remove(r.Context(), id); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartRes(cart))
}

// clearCart: DELETE /api/v1/cart
func (h *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	cart := h.open(r)
	if err := cart.Clear(r.Context()); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartRes(cart))
}

// checkout: POST /api/v1/cart/checkout
func (h *CartHandler) checkout(w http.ResponseWriter, r *http.Request) {
	res := h.open(r).Checkout(r.Context())

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"accepted": res.Accepted,
		"message":  res.Message,
	})
}

// badge: GET /api/v1/cart/badge
func (h *CartHandler) badge(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"count": h.open(r).Totals().ItemCount,
	})
}

// step: POST /api/v1/cart/stepper. Корзину не трогает.
func (h *CartHandler) step(w http.ResponseWriter, r *http.Request) {
	var body stepperBody
	if err := decodeBody(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"value": h.stepper.Step(body.Value, body.Direction),
	})
}

func (h *CartHandler) open(r *http.Request) usecase.CartUC {
	return h.opener.Open(r.Context(), usecase.NewOpenCartReq(SessionFromCtx(r.Context()), nil))
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	return nil
}

func (b *addItemBody) toReq() (*usecase.AddItemReq, error) {
	name := strings.TrimSpace(b.Name)
	if name == "" {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrMissingFields)
	}

	price, err := validatePrice(b.Price)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	quantity := 1
	if b.Quantity != nil {
		quantity = *b.Quantity
	}

	var id domain.ItemID
	if b.ID != nil {
		id = *b.ID
	}

	return usecase.NewAddItemReq(id, name, price, b.Image, quantity, b.Color), nil
}

// MAPPERS
func toCartRes(cart usecase.CartUC) *cartRes {
	items := cart.Items()
	res := &cartRes{
		Items:  make([]itemRes, 0, len(items)),
		Totals: toTotalsRes(cart.Totals()),
	}
	for _, item := range items {
		res.Items = append(res.Items, itemRes{
			ID:        item.ID,
			Name:      item.Name,
			Price:     domain.FormatMoney(item.Price),
			Image:     item.Image,
			Quantity:  item.Quantity,
			Color:     item.Color,
			LineTotal: domain.FormatMoney(item.LineTotal()),
		})
	}

	return res
}

func toTotalsRes(t domain.Totals) totalsRes {
	return totalsRes{
		ItemCount:    t.ItemCount,
		Subtotal:     domain.FormatMoney(t.Subtotal),
		Shipping:     domain.FormatMoney(t.Shipping),
		Tax:          domain.FormatMoney(t.Tax),
		Total:        domain.FormatMoney(t.Total),
		FreeShipping: t.FreeShipping(),
	}
}
