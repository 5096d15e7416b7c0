package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/tracking"
)

func (h *handlers) orderConfirmation(c *gin.Context) {
	s := currentSession(c)
	id, ok := paramID(c)
	if !ok {
		h.redirect(c, "/")
		return
	}
	tok, ok := h.token(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	order, err := h.deps.Orders.Get(ctx, tok, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.Error("Order not found")
			h.redirect(c, "/")
			return
		}
		if h.fail(c, "load order", err, "Failed to load order") {
			return
		}
		h.redirect(c, "/dashboard")
		return
	}

	var bank *domain.BankAccount
	if bankID, _ := strconv.ParseInt(c.Query("bank"), 10, 64); bankID > 0 {
		banks, err := h.deps.Banks.Active(ctx)
		if err != nil {
			h.logger.Warn().Err(err).Msg("load banks for confirmation")
		}
		bank = domain.FindBank(banks, bankID)
	}

	h.render(c, http.StatusOK, "confirmation", gin.H{
		"Order":        order,
		"Bank":         bank,
		"Snapshot":     tracking.NewSnapshot(*order),
		"PollInterval": h.deps.PollInterval.Milliseconds(),
	})
}

// orderStatus is the one-shot JSON snapshot of an order's timeline.
func (h *handlers) orderStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid order id"})
		return
	}
	tok, err := h.deps.Sessions.AccessToken(c.Request.Context(), currentSession(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}
	order, err := h.deps.Orders.Get(c.Request.Context(), tok, id)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, domain.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, domain.ErrForbidden):
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"detail": "Failed to load order"})
		return
	}
	c.JSON(http.StatusOK, tracking.NewSnapshot(*order))
}

// orderEvents streams a status snapshot on every poll for as long as the
// browser stays connected.
func (h *handlers) orderEvents(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid order id"})
		return
	}
	ctx := c.Request.Context()
	tok, err := h.deps.Sessions.AccessToken(ctx, currentSession(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}
	saveSessionNow(c, h.deps.Sessions, h.logger)

	updates := make(chan tracking.Snapshot, 1)
	poller := &tracking.Poller{
		Interval: h.deps.PollInterval,
		Fetch: func(ctx context.Context) (*domain.Order, error) {
			return h.deps.Orders.Get(ctx, tok, id)
		},
		OnUpdate: func(o *domain.Order) {
			snap := tracking.NewSnapshot(*o)
			select {
			case updates <- snap:
			default:
				// keep only the newest snapshot
				select {
				case <-updates:
				default:
				}
				updates <- snap
			}
		},
		Logger: h.logger.With().Int64("order_id", id).Logger(),
	}
	go poller.Run(ctx)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	c.Writer.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.streams:
			return
		case snap := <-updates:
			c.SSEvent("status", snap)
			c.Writer.Flush()
		}
	}
}

func (h *handlers) markPaid(c *gin.Context) {
	s := currentSession(c)
	id, ok := paramID(c)
	if !ok {
		h.redirect(c, "/dashboard")
		return
	}
	tok, ok := h.token(c)
	if !ok {
		return
	}
	if err := h.deps.Orders.MarkPaid(c.Request.Context(), tok, id); err != nil {
		if h.fail(c, "mark paid", err, "Failed to update payment status") {
			return
		}
	} else {
		s.Success("Thanks! We'll confirm your transfer shortly.")
		h.publish(c, events.New(events.OrderMarkedPaid, strconv.FormatInt(id, 10)))
	}
	h.redirectBack(c, "/dashboard")
}
