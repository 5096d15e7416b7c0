package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/api"
	"storefront/internal/domain"
	"storefront/internal/events"
)

const featuredLimit = 8

type menuCategory struct {
	ID   string
	Name string
}

var menuCategories = []menuCategory{
	{ID: "", Name: "All Items"},
	{ID: "appetizers", Name: "Appetizers"},
	{ID: "main", Name: "Main Courses"},
	{ID: "pasta", Name: "Pasta & Pizza"},
	{ID: "seafood", Name: "Seafood"},
	{ID: "desserts", Name: "Desserts"},
	{ID: "beverages", Name: "Beverages"},
}

func (h *handlers) home(c *gin.Context) {
	ctx := c.Request.Context()
	popular, err := h.deps.Products.Popular(ctx, featuredLimit)
	if err != nil {
		h.logger.Error().Err(err).Msg("load popular products")
	}
	special, err := h.deps.Products.Special(ctx, featuredLimit)
	if err != nil {
		h.logger.Error().Err(err).Msg("load special products")
	}
	offers, err := h.deps.Products.Offers(ctx, featuredLimit)
	if err != nil {
		h.logger.Error().Err(err).Msg("load offer products")
	}
	h.render(c, http.StatusOK, "home", gin.H{
		"Popular": popular,
		"Special": special,
		"Offers":  offers,
	})
}

func (h *handlers) menu(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	search := strings.TrimSpace(c.Query("search"))

	products, err := h.deps.Products.List(c.Request.Context(), category, search)
	var loadErr string
	if err != nil {
		h.logger.Error().Err(err).Str("category", category).Msg("load menu")
		loadErr = "Failed to load products"
	}
	h.render(c, http.StatusOK, "menu", gin.H{
		"Products":   products,
		"Categories": menuCategories,
		"Category":   category,
		"Search":     search,
		"LoadError":  loadErr,
	})
}

// addToCart is reachable while signed out so the visitor gets the
// sign-in notice instead of a bare redirect.
func (h *handlers) addToCart(c *gin.Context) {
	s := currentSession(c)
	back := safeNext(c.PostForm("next"))
	if back == "" {
		back = "/menu"
	}
	if !s.SignedIn() {
		s.Error("Please login to add items to cart")
		h.redirect(c, back)
		return
	}
	productID, err := strconv.ParseInt(c.PostForm("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		s.Error("Invalid product")
		h.redirect(c, back)
		return
	}
	qty := formInt(c, "quantity", 1)
	if qty < 1 {
		qty = 1
	}

	tok, ok := h.token(c)
	if !ok {
		return
	}
	if _, err := h.deps.Cart.AddItem(c.Request.Context(), tok, productID, qty); err != nil {
		h.logger.Error().Err(err).Int64("product_id", productID).Msg("add to cart")
		if isUnauthorized(err) {
			h.expired(c, s)
			return
		}
		s.Error("Error: " + api.DetailOr(err, "Failed to add to cart"))
		h.redirect(c, back)
		return
	}
	s.Success("Item added to cart successfully!")
	h.refreshCartCount(c, tok)
	h.publish(c, events.New(events.CartItemAdded, strconv.FormatInt(productID, 10)).With("quantity", strconv.Itoa(qty)))
	h.redirect(c, back)
}

// refreshCartCount updates the header badge from the backend cart.
func (h *handlers) refreshCartCount(c *gin.Context, tok string) *domain.Cart {
	cart, err := h.deps.Cart.Get(c.Request.Context(), tok)
	if err != nil {
		h.logger.Warn().Err(err).Msg("refresh cart count")
		return nil
	}
	currentSession(c).SetCartCount(cart.TotalItems)
	return cart
}
