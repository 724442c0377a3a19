package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/internal/usecase"
	"github.com/DRSN-tech/go-cart/internal/view"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

const (
	productPageTitle = "ShopHub - " + defaultProductName
	cartPageTitle    = "Shopping Cart - ShopHub"
	saveFailedNotice = "Your cart could not be saved. Please try again."
)

// PageHandler отдаёт HTML-страницы товара и корзины. Каждый запрос
// открывает свою корзину и рисует её в собственную view.Page.
type PageHandler struct {
	opener  usecase.CartOpener
	tmpl    *view.Templates
	stepper view.Stepper
	logger  logger.Logger
}

func NewPageHandler(opener usecase.CartOpener, tmpl *view.Templates, stepper view.Stepper, logger logger.Logger) *PageHandler {
	return &PageHandler{
		opener:  opener,
		tmpl:    tmpl,
		stepper: stepper,
		logger:  logger,
	}
}

// productPage: GET /?color=&image=&qty=&step=
func (p *PageHandler) productPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := view.NewProductPage()
	p.openCart(r, page)

	data := p.productData(page, q.Get("color"), q.Get("image"), p.stepper.Step(q.Get("qty"), q.Get("step")))
	p.render(w, view.TemplateProduct, data)
}

// addToCart: POST /cart/items. Страница товара рисуется сразу, чтобы
// показать диалог "Added to cart!".
func (p *PageHandler) addToCart(w http.ResponseWriter, r *http.Request) {
	req, err := p.parseProductForm(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		writePageError(w, err)
		return
	}

	page := view.NewProductPage()
	cart := p.openCart(r, page)

	if err := cart.Add(r.Context(), req); err != nil {
		p.saveFailed(r, page, err)
	}

	data := p.productData(page, req.Color, thumbnailForImage(req.Image), p.stepper.Clamp(req.Quantity))
	p.render(w, view.TemplateProduct, data)
}

// buyNow: POST /cart/buy-now. Добавляет товар и переходит в корзину.
func (p *PageHandler) buyNow(w http.ResponseWriter, r *http.Request) {
	req, err := p.parseProductForm(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		writePageError(w, err)
		return
	}

	page := view.NewCartPage()
	cart := p.openCart(r, page)

	if err := cart.Add(r.Context(), req); err != nil {
		p.saveFailed(r, page, err)
		p.render(w, view.TemplateCart, p.cartData(page))
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// cartPage: GET /cart?confirm=delete&item=, /cart?confirm=clear, /cart?edit=&qty=&step=
func (p *PageHandler) cartPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := view.NewCartPage()
	cart := p.openCart(r, page)
	dialogs := view.NewDialogs(page)
	data := p.cartData(page)

	switch {
	case q.Get("confirm") == "delete" && q.Get("item") != "":
		data.DeleteItemID = q.Get("item")
		dialogs.Show(r.Context(), usecase.DialogDelete)
	case q.Get("confirm") == "clear":
		dialogs.Show(r.Context(), usecase.DialogClearCart)
	case q.Get("edit") != "":
		id, err := cart.ResolveID(q.Get("edit"))
		if err != nil {
			break
		}
		item, ok := cart.Find(id)
		if !ok {
			break
		}

		raw := q.Get("qty")
		if raw == "" {
			raw = strconv.Itoa(item.Quantity)
		}
		page.SetText(view.RegionModalQuantity, strconv.Itoa(p.stepper.Step(raw, q.Get("step"))))
		data.EditItemID = item.ID.String()
		dialogs.Show(r.Context(), usecase.DialogQuantity)
	}

	p.render(w, view.TemplateCart, data)
}

// updateQuantity: POST /cart/items/{id}/quantity. Количество <= 0 удаляет позицию.
func (p *PageHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	raw, err := itemIDParam(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		writePageError(w, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		writePageError(w, e.Wrap(whereami.WhereAmI(), e.ErrStatusBadRequest))
		return
	}

	quantity, err := parseQuantity(r.PostForm.Get("quantity"))
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		writePageError(w, err)
		return
	}

	p.mutateCart(w, r, func(cart usecase.CartUC) error {
		id, err := cart.ResolveID(raw)
		if err != nil {
			return err
		}
		return cart.UpdateQuantity(r.Context(), id, quantity)
	})
}

// removeItem: POST /cart/items/{id}/delete
func (p *PageHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	raw, err := itemIDParam(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		writePageError(w, err)
		return
	}

	p.mutateCart(w, r, func(cart usecase.CartUC) error {
		id, err := cart.ResolveID(raw)
		if err != nil {
			return err
		}
		return cart.Remove(r.Context(), id)
	})
}

// clearCart: POST /cart/clear
func (p *PageHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	p.mutateCart(w, r, func(cart usecase.CartUC) error {
		return cart.Clear(r.Context())
	})
}

// checkout: POST /cart/checkout. Для пустой корзины страница просто перерисовывается.
func (p *PageHandler) checkout(w http.ResponseWriter, r *http.Request) {
	page := view.NewCartPage()
	cart := p.openCart(r, page)

	res := cart.Checkout(r.Context())
	if res.Accepted {
		page.SetText(view.RegionCheckoutText, res.Message)
	}

	p.render(w, view.TemplateCart, p.cartData(page))
}

// addRecommended: POST /cart/recommended. Всегда цвет "default" и количество 1.
func (p *PageHandler) addRecommended(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writePageError(w, e.Wrap(whereami.WhereAmI(), e.ErrStatusBadRequest))
		return
	}

	name := strings.TrimSpace(r.PostForm.Get("name"))
	if name == "" {
		writePageError(w, e.Wrap(whereami.WhereAmI(), e.ErrMissingFields))
		return
	}

	price, err := parsePrice(r.PostForm.Get("price"))
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		writePageError(w, err)
		return
	}

	page := view.NewCartPage()
	cart := p.openCart(r, page)

	req := usecase.NewAddItemReq(domain.ItemID{}, name, price, r.PostForm.Get("image"), 1, recommendedColor)
	if err := cart.Add(r.Context(), req); err != nil {
		p.saveFailed(r, page, err)
	} else {
		view.NewDialogs(page).Notify(r.Context(), name+" added to cart!")
	}

	p.render(w, view.TemplateCart, p.cartData(page))
}

// mutateCart применяет операцию и делает redirect на /cart. Если слот
// недоступен, страница рисуется сразу с уведомлением.
func (p *PageHandler) mutateCart(w http.ResponseWriter, r *http.Request, op func(cart usecase.CartUC) error) {
	page := view.NewCartPage()
	cart := p.openCart(r, page)

	if err := op(cart); err != nil {
		if !errors.Is(err, e.ErrSlotUnavailable) {
			p.logger.Warnf("cart operation rejected: %v", err)
			writePageError(w, err)
			return
		}
		p.saveFailed(r, page, err)
		p.render(w, view.TemplateCart, p.cartData(page))
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (p *PageHandler) openCart(r *http.Request, page *view.Page) usecase.CartUC {
	binder := view.NewBinder(page, p.tmpl, p.stepper, p.logger)
	return p.opener.Open(r.Context(), usecase.NewOpenCartReq(SessionFromCtx(r.Context()), view.NewDialogs(page), binder))
}

func (p *PageHandler) saveFailed(r *http.Request, page *view.Page, err error) {
	p.logger.Warnf("cart not saved for session %s: %v", SessionFromCtx(r.Context()), err)
	view.NewDialogs(page).Notify(r.Context(), saveFailedNotice)
}

func (p *PageHandler) parseProductForm(r *http.Request) (*usecase.AddItemReq, error) {
	if err := r.ParseForm(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrStatusBadRequest)
	}
	form := r.PostForm

	name := strings.TrimSpace(form.Get("name"))
	if name == "" {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrMissingFields)
	}

	price, err := parsePrice(form.Get("price"))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	quantity := 1
	if raw := form.Get("quantity"); raw != "" {
		if quantity, err = parseQuantity(raw); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return usecase.NewAddItemReq(domain.ItemID{}, name, price, form.Get("image"), quantity, form.Get("color")), nil
}

func (p *PageHandler) productData(page *view.Page, color, thumbnail string, quantity int) *view.PageData {
	colorElements(page, color)
	thumbnailElements(page, thumbnail)

	selectedColor := view.ActiveByClass(page, view.ClassColorOption).Attr("color")
	selectedThumb := view.ActiveByClass(page, view.ClassThumbnail).Attr("src")

	page.SetText(view.RegionProductTitle, defaultProductName)
	page.SetText(view.RegionProductPrice, view.Money(decimal.RequireFromString(defaultProductPrice)))
	mainImage := defaultProductImage
	if selectedThumb != "" {
		mainImage = view.MainImageFor(selectedThumb)
	}
	page.SetText(view.RegionMainImage, mainImage)
	page.SetText(view.RegionQuantity, strconv.Itoa(quantity))

	return &view.PageData{
		Title:         productPageTitle,
		Page:          page,
		BackURL:       "/",
		Colors:        page.QueryByClass(view.ClassColorOption),
		Thumbnails:    page.QueryByClass(view.ClassThumbnail),
		SelectedColor: selectedColor,
		SelectedImage: selectedThumb,
	}
}

func (p *PageHandler) cartData(page *view.Page) *view.PageData {
	return &view.PageData{
		Title:       cartPageTitle,
		Page:        page,
		BackURL:     "/cart",
		Recommended: recommendedProducts,
	}
}

func (p *PageHandler) render(w http.ResponseWriter, name string, data *view.PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.tmpl.Render(w, name, data); err != nil {
		p.logger.Errorf(err, "failed to render %s page", name)
	}
}
