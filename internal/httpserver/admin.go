package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/api"
	"storefront/internal/domain"
	"storefront/internal/events"
)

const (
	tabDashboard = "dashboard"
	tabProducts  = "products"
	tabUsers     = "users"
	tabOrders    = "orders"
	tabBanks     = "banks"
	tabMessages  = "messages"

	adminListLimit    = 100
	recentUsersLimit  = 5
	recentOrdersLimit = 10
)

var adminTabs = []string{tabDashboard, tabProducts, tabUsers, tabOrders, tabBanks, tabMessages}

func validTab(tab string) bool {
	for _, t := range adminTabs {
		if t == tab {
			return true
		}
	}
	return false
}

func tabURL(tab string) string {
	return "/admin?tab=" + tab
}

type adminView struct {
	Tab  string
	Tabs []string

	Stats        *domain.DashboardStats
	RecentUsers  []domain.User
	RecentOrders []domain.Order

	Products    []domain.Product
	EditingID   int64
	ProductForm domain.ProductInput
	// price and discount exactly as the form shows them, so a rejected
	// value is echoed back instead of reset
	PriceText    string
	DiscountText string
	Categories   []string

	Users  *domain.UserPage
	Search string
	Roles  []string

	Orders       *domain.OrderPage
	StatusFilter string
	Statuses     []domain.OrderStatus

	Banks []domain.BankAccount

	Messages []domain.ContactMessage
	Unread   int
}

func newAdminView(tab string) *adminView {
	return &adminView{
		Tab:        tab,
		Tabs:       adminTabs,
		Categories: domain.ProductCategories,
		Roles:      []string{domain.RoleUser, domain.RoleAdmin},
		Statuses:   domain.OrderStatuses,
	}
}

func (v *adminView) setProductForm(in domain.ProductInput) {
	v.ProductForm = in
	v.PriceText = in.Price.String()
	v.DiscountText = in.DiscountPercentage.String()
}

func (h *handlers) adminPage(c *gin.Context) {
	tab := c.DefaultQuery("tab", tabDashboard)
	if !validTab(tab) {
		tab = tabDashboard
	}
	tok, ok := h.token(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	v := newAdminView(tab)

	var err error
	switch tab {
	case tabDashboard:
		if v.Stats, err = h.deps.Admin.Stats(ctx, tok); err != nil {
			break
		}
		if v.RecentUsers, err = h.deps.Admin.RecentUsers(ctx, tok, recentUsersLimit); err != nil {
			break
		}
		v.RecentOrders, err = h.deps.Admin.RecentOrders(ctx, tok, recentOrdersLimit)
	case tabProducts:
		v.setProductForm(domain.ProductInput{Category: domain.DefaultProductCategory, IsActive: true})
		if editID, _ := strconv.ParseInt(c.Query("edit"), 10, 64); editID > 0 {
			var p *domain.Product
			if p, err = h.deps.Products.Get(ctx, editID); err != nil {
				break
			}
			v.EditingID = p.ID
			v.setProductForm(domain.InputFromProduct(*p))
		}
		v.Products, err = h.deps.Products.List(ctx, "", "")
	case tabUsers:
		v.Search = strings.TrimSpace(c.Query("search"))
		v.Users, err = h.deps.Admin.Users(ctx, tok, 0, adminListLimit, v.Search)
	case tabOrders:
		v.StatusFilter = c.Query("status")
		if _, known := domain.ParseOrderStatus(v.StatusFilter); !known {
			v.StatusFilter = ""
		}
		v.Orders, err = h.deps.Admin.Orders(ctx, tok, 0, adminListLimit, v.StatusFilter)
	case tabBanks:
		v.Banks, err = h.deps.Banks.All(ctx, tok)
	case tabMessages:
		v.Messages, err = h.deps.Contact.List(ctx, tok)
		for _, m := range v.Messages {
			if !m.IsRead {
				v.Unread++
			}
		}
	}
	if err != nil {
		if h.fail(c, "load admin "+tab, err, "Failed to load data") {
			return
		}
	}
	h.render(c, http.StatusOK, "admin", gin.H{"Admin": v})
}

func (h *handlers) adminOrderDetail(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.redirect(c, tabURL(tabOrders))
		return
	}
	tok, ok := h.token(c)
	if !ok {
		return
	}
	order, err := h.deps.Admin.Order(c.Request.Context(), tok, id)
	if err != nil {
		if h.fail(c, "load order detail", err, "Failed to load order details") {
			return
		}
		h.redirect(c, tabURL(tabOrders))
		return
	}
	h.render(c, http.StatusOK, "admin_order", gin.H{
		"Order":    order,
		"Statuses": domain.OrderStatuses,
	})
}

func checkbox(c *gin.Context, key string) bool {
	switch c.PostForm(key) {
	case "on", "true", "1":
		return true
	}
	return false
}

func productInputFrom(c *gin.Context) (domain.ProductInput, error) {
	in := domain.ProductInput{
		SKU:           strings.TrimSpace(c.PostForm("sku")),
		Name:          strings.TrimSpace(c.PostForm("name")),
		Description:   strings.TrimSpace(c.PostForm("description")),
		ImageURL:      strings.TrimSpace(c.PostForm("image_url")),
		Category:      c.PostForm("category"),
		IsPopular:     checkbox(c, "is_popular"),
		IsSpecial:     checkbox(c, "is_special"),
		IsOffer:       checkbox(c, "is_offer"),
		IsActive:      checkbox(c, "is_active"),
		StockQuantity: formInt(c, "stock_quantity", 0),
	}
	if !domain.IsProductCategory(in.Category) {
		in.Category = domain.DefaultProductCategory
	}
	if in.Name == "" {
		return in, errors.New("Product name is required")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(c.PostForm("price")))
	if err != nil || price.IsNegative() {
		return in, errors.New("Please enter a valid price")
	}
	in.Price = price
	if raw := strings.TrimSpace(c.PostForm("discount_percentage")); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
			return in, errors.New("Discount must be between 0 and 100")
		}
		in.DiscountPercentage = d
	}
	return in, nil
}

func (h *handlers) adminSaveProduct(c *gin.Context) {
	s := currentSession(c)
	tok, ok := h.token(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var id int64
	if c.Param("id") != "" {
		if id, ok = paramID(c); !ok {
			h.redirect(c, tabURL(tabProducts))
			return
		}
	}
	in, err := productInputFrom(c)
	if err != nil {
		s.Error(err.Error())
		h.productFormAgain(c, id, in)
		return
	}

	if fh, err := c.FormFile("image"); err == nil && fh.Size > 0 {
		f, err := fh.Open()
		if err != nil {
			h.logger.Error().Err(err).Msg("open uploaded image")
			s.Error("Failed to upload image")
			h.productFormAgain(c, id, in)
			return
		}
		res, err := h.deps.Upload.Image(ctx, tok, fh.Filename, fh.Header.Get("Content-Type"), f)
		f.Close()
		if err != nil {
			if h.fail(c, "upload image", err, "Failed to upload image") {
				return
			}
			h.productFormAgain(c, id, in)
			return
		}
		in.ImageURL = res.URL
	}

	var saved *domain.Product
	if id > 0 {
		saved, err = h.deps.Products.Update(ctx, tok, id, in)
	} else {
		saved, err = h.deps.Products.Create(ctx, tok, in)
	}
	if err != nil {
		if h.fail(c, "save product", err, "Failed to save product") {
			return
		}
		h.productFormAgain(c, id, in)
		return
	}
	if id > 0 {
		s.Success("Product updated successfully")
	} else {
		s.Success("Product created successfully")
	}
	h.publish(c, events.New(events.ProductSaved, strconv.FormatInt(saved.ID, 10)).With("sku", saved.SKU))
	h.redirect(c, tabURL(tabProducts))
}

// productFormAgain re-renders the products tab with the submitted form so
// nothing the admin typed is lost. The notice is already in the session.
func (h *handlers) productFormAgain(c *gin.Context, id int64, in domain.ProductInput) {
	v := newAdminView(tabProducts)
	v.EditingID = id
	v.setProductForm(in)
	v.PriceText = strings.TrimSpace(c.PostForm("price"))
	v.DiscountText = strings.TrimSpace(c.PostForm("discount_percentage"))

	products, err := h.deps.Products.List(c.Request.Context(), "", "")
	if err != nil {
		h.logger.Warn().Err(err).Msg("reload products after failed save")
	}
	v.Products = products
	h.render(c, http.StatusUnprocessableEntity, "admin", gin.H{"Admin": v})
}

func (h *handlers) adminDeleteProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.redirect(c, tabURL(tabProducts))
		return
	}
	tok, ok := h.token(c)
	if !ok {
		return
	}
	if err := h.deps.Products.Delete(c.Request.Context(), tok, id); err != nil {
		if h.fail(c, "delete product", err, "Failed to delete product") {
			return
		}
	} else {
		currentSession(c).Success("Product deleted")
		h.publish(c, events.New(events.ProductDeleted, strconv.FormatInt(id, 10)))
	}
	h.redirect(c, tabURL(tabProducts))
}

// adminUpload proxies an image to the backend and answers with its URL so
// the product form can preview it before saving.
func (h *handlers) adminUpload(c *gin.Context) {
	tok, err := h.deps.Sessions.AccessToken(c.Request.Context(), currentSession(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No file uploaded"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Failed to upload image"})
		return
	}
	defer f.Close()

	res, err := h.deps.Upload.Image(c.Request.Context(), tok, fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		h.logger.Error().Err(err).Msg("proxy image upload")
		status := http.StatusBadGateway
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
		c.JSON(status, gin.H{"detail": api.DetailOr(err, "Failed to upload image")})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) adminUpdateRole(c *gin.Context) {
	s := currentSession(c)
	id, ok := paramID(c)
	if !ok {
		h.redirect(c, tabURL(tabUsers))
		return
	}
	role := c.PostForm("role")
	if role != domain.RoleUser && role != domain.RoleAdmin {
		s.Error("Invalid role")
		h.redirect(c, tabURL(tabUsers))
		return
	}
	if s.User != nil && s.User.ID == id {
		s.Error("You cannot change your own role.")
		h.redirect(c, tabURL(tabUsers))
		return
	}
	tok, ok := h.token(c)
	if !ok {
		return
	}
	if _, err := h.deps.Admin.UpdateUser(c.Request.Context(), tok, id, role); err != nil {
		if h.fail(c, "update user role", err, "Failed to update user role") {
			return
		}
	} else {
		s.Success("User role updated successfully")
		h.publish(c, events.New(events.UserRoleChanged, strconv.FormatInt(id, 10)).With("role", role))
	}
	h.redirect(c, tabURL(tabUsers))
}

func (h *handlers) adminDeleteUser(c *gin.Context) {
	s := currentSession(c)
	id, ok := paramID(c)
	if !ok {
		h.redirect(c, tabURL(tabUsers))
		return
	}
	tok, ok := h.token(c)
	if !ok {
		return
	}
	if err := h.deps.Admin.DeleteUser(c.Request.Context(), tok, id); err != nil {
		h.logger.Error().Err(err).Int64("user_id", id).Msg("delete user")
		if isUnauthorized(err) {
			h.expired(c, s)
			return
		}
		s.Error("Failed to delete user: " + api.DetailOr(err, "Failed to delete user"))
	} else {
		s.Success("User deleted")
		h.publish(c, events.New(events.UserDeleted, strconv.FormatInt(id, 10)))
	}
	h.redirect(c, tabURL(tabUsers))
}

func (h *handlers) adminUpdateOrderStatus(c *gin.Context) {
	s := currentSession(c)
	id, ok := paramID(c)
	if !ok {
		h.redirect(c, tabURL(tabOrders))
		return
	}
	status, known := domain.ParseOrderStatus(c.PostForm("status"))
	if !known {
		s.Error("Invalid order status")
		h.redirectBack(c, tabURL(tabOrders))
		return
	}
	reason := strings.TrimSpace(c.PostForm("cancellation_reason"))
	if status == domain.OrderCancelled && reason == "" {
		s.Error("Please provide a reason for cancellation")
		h.redirectBack(c, tabURL(tabOrders))
		return
	}
	if status != domain.OrderCancelled {
		reason = ""
	}
	tok, ok := h.token(c)
	if !ok {
		return
	}
	if _, err := h.deps.Admin.UpdateOrderStatus(c.Request.Context(), tok, id, status, reason); err != nil {
		if h.fail(c, "update order status", err, "Failed to update order status") {
			return
		}
	} else {
		s.Success(fmt.Sprintf("Order marked as %s", status))
		h.publish(c, events.New(events.OrderStatusChanged, strconv.FormatInt(id, 10)).With("status", string(status)))
	}
	h.redirectBack(c, tabURL(tabOrders))
}

func (h *handlers) adminConfirmPayment(c *gin.Context) {
	s := currentSession(c)
	id, ok := paramID(c)
	if !ok {
		h.redirect(c, tabURL(tabOrders))
		return
	}
	tok, ok := h.token(c)
	if !ok {
		return
	}
	if err := h.deps.Admin.ConfirmPayment(c.Request.Context(), tok, id); err != nil {
		if h.fail(c, "confirm payment", err, "Failed to confirm payment") {
			return
		}
	} else {
		s.Success("Payment confirmed")
		h.publish(c, events.New(events.PaymentConfirmed, strconv.FormatInt(id, 10)))
	}
	h.redirectBack(c, tabURL(tabOrders))
}

func (h *handlers) adminCreateBank(c *gin.Context) {
	s := currentSession(c)
	active := true
	in := domain.BankAccountInput{
		BankName:      strings.TrimSpace(c.PostForm("bank_name")),
		AccountNumber: strings.TrimSpace(c.PostForm("account_number")),
		AccountName:   strings.TrimSpace(c.PostForm("account_name")),
		IsActive:      &active,
	}
	if in.BankName == "" || in.AccountNumber == "" || in.AccountName == "" {
		s.Error("Please fill in all bank details")
		h.redirect(c, tabURL(tabBanks))
		return
	}
	tok, ok := h.token(c)
	if !ok {
		return
	}
	bank, err := h.deps.Banks.Create(c.Request.Context(), tok, in)
	if err != nil {
		if h.fail(c, "create bank", err, "Failed to add bank account") {
			return
		}
	} else {
		s.Success("Bank account added successfully")
		h.publish(c, events.New(events.BankCreated, strconv.FormatInt(bank.ID, 10)).With("bank_name", bank.BankName))
	}
	h.redirect(c, tabURL(tabBanks))
}

func (h *handlers) adminDeleteBank(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.redirect(c, tabURL(tabBanks))
		return
	}
	tok, ok := h.token(c)
	if !ok {
		return
	}
	if err := h.deps.Banks.Delete(c.Request.Context(), tok, id); err != nil {
		if h.fail(c, "delete bank", err, "Failed to delete bank account") {
			return
		}
	} else {
		currentSession(c).Success("Bank account deleted")
		h.publish(c, events.New(events.BankDeleted, strconv.FormatInt(id, 10)))
	}
	h.redirect(c, tabURL(tabBanks))
}

func (h *handlers) adminMarkRead(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.redirect(c, tabURL(tabMessages))
		return
	}
	tok, ok := h.token(c)
	if !ok {
		return
	}
	if err := h.deps.Contact.MarkRead(c.Request.Context(), tok, id); err != nil {
		if h.fail(c, "mark message read", err, "Failed to mark message as read") {
			return
		}
	} else {
		currentSession(c).Success("Marked as read")
		h.publish(c, events.New(events.MessageRead, strconv.FormatInt(id, 10)))
	}
	h.redirect(c, tabURL(tabMessages))
}
