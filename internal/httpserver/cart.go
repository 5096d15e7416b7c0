package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) cartPage(c *gin.Context) {
	tok, ok := h.token(c)
	if !ok {
		return
	}
	cart, err := h.deps.Cart.Get(c.Request.Context(), tok)
	if err != nil {
		if h.fail(c, "load cart", err, "Failed to load cart") {
			return
		}
	} else {
		currentSession(c).SetCartCount(cart.TotalItems)
	}
	h.render(c, http.StatusOK, "cart", gin.H{"Cart": cart})
}

func (h *handlers) updateCartItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.redirect(c, "/cart")
		return
	}
	tok, ok := h.token(c)
	if !ok {
		return
	}
	qty := formInt(c, "quantity", 1)
	ctx := c.Request.Context()
	if qty < 1 {
		if err := h.deps.Cart.RemoveItem(ctx, tok, id); err != nil {
			if h.fail(c, "remove cart item", err, "Failed to remove item") {
				return
			}
		}
	} else if _, err := h.deps.Cart.UpdateItem(ctx, tok, id, qty); err != nil {
		if h.fail(c, "update cart item", err, "Failed to update quantity") {
			return
		}
	}
	h.redirect(c, "/cart")
}

func (h *handlers) removeCartItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.redirect(c, "/cart")
		return
	}
	tok, ok := h.token(c)
	if !ok {
		return
	}
	if err := h.deps.Cart.RemoveItem(c.Request.Context(), tok, id); err != nil {
		if h.fail(c, "remove cart item", err, "Failed to remove item") {
			return
		}
	} else {
		currentSession(c).Success("Item removed from cart")
	}
	h.redirect(c, "/cart")
}

func (h *handlers) clearCart(c *gin.Context) {
	tok, ok := h.token(c)
	if !ok {
		return
	}
	if err := h.deps.Cart.Clear(c.Request.Context(), tok); err != nil {
		if h.fail(c, "clear cart", err, "Failed to clear cart") {
			return
		}
	} else {
		currentSession(c).SetCartCount(0)
	}
	h.redirect(c, "/cart")
}
