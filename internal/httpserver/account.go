package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/tracking"
)

type orderCounts struct {
	Total     int
	Pending   int
	Delivered int
}

func countOrders(orders []domain.Order) orderCounts {
	out := orderCounts{Total: len(orders)}
	for _, o := range orders {
		switch tracking.Normalize(string(o.Status)) {
		case string(domain.OrderPending):
			out.Pending++
		case string(domain.OrderDelivered), "completed":
			out.Delivered++
		}
	}
	return out
}

func (h *handlers) dashboard(c *gin.Context) {
	s := currentSession(c)
	tok, ok := h.token(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if me, err := h.deps.Auth.Me(ctx, tok); err != nil {
		if isUnauthorized(err) {
			h.expired(c, s)
			return
		}
		h.logger.Warn().Err(err).Msg("refresh profile")
	} else if me != nil {
		s.SetUser(me)
	}

	orders, err := h.deps.Orders.Mine(ctx, tok)
	if err != nil {
		if h.fail(c, "load orders", err, "Failed to load your orders") {
			return
		}
	}
	h.render(c, http.StatusOK, "dashboard", gin.H{
		"Orders": orders,
		"Counts": countOrders(orders),
	})
}

func (h *handlers) clearHistory(c *gin.Context) {
	tok, ok := h.token(c)
	if !ok {
		return
	}
	if err := h.deps.Orders.ClearHistory(c.Request.Context(), tok); err != nil {
		if h.fail(c, "clear history", err, "Failed to clear order history") {
			return
		}
	} else {
		currentSession(c).Success("Order history cleared")
	}
	h.redirect(c, "/dashboard")
}
