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
	"storefront/internal/checkout"
	"storefront/internal/domain"
	"storefront/internal/events"
)

const noActiveBanksMessage = "No active bank accounts available. Please contact support."

type checkoutView struct {
	Step     checkout.Step
	Steps    []checkout.Step
	Form     checkout.Form
	Cart     *domain.Cart
	Banks    []domain.BankAccount
	Bank     *domain.BankAccount
	States   []string
	Subtotal decimal.Decimal
	Fee      decimal.Decimal
	Total    decimal.Decimal
	NoBanks  bool
}

// loadCheckout fetches the cart and bank list the wizard needs. It returns
// false when it already redirected.
func (h *handlers) loadCheckout(c *gin.Context, tok string, f checkout.Form, step checkout.Step) (*checkoutView, bool) {
	ctx := c.Request.Context()
	s := currentSession(c)

	cart, err := h.deps.Cart.Get(ctx, tok)
	if err != nil {
		if h.fail(c, "checkout cart", err, "Failed to load cart") {
			return nil, false
		}
		h.redirect(c, "/cart")
		return nil, false
	}
	s.SetCartCount(cart.TotalItems)
	if cart.IsEmpty() {
		h.redirect(c, "/cart")
		return nil, false
	}

	banks, err := h.deps.Banks.Active(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("load banks")
		s.Error("Failed to load available banks")
	}

	v := &checkoutView{
		Step:     step,
		Steps:    []checkout.Step{checkout.StepAddress, checkout.StepBank, checkout.StepReview},
		Form:     f,
		Cart:     cart,
		Banks:    banks,
		Bank:     domain.FindBank(banks, f.BankID),
		States:   checkout.NigerianStates,
		Subtotal: cart.Subtotal,
		Fee:      checkout.DeliveryFee(cart.Subtotal, f.State),
		Total:    checkout.Total(cart.Subtotal, f.State),
		NoBanks:  err == nil && len(banks) == 0,
	}
	return v, true
}

func (h *handlers) checkoutPage(c *gin.Context) {
	tok, ok := h.token(c)
	if !ok {
		return
	}
	var f checkout.Form
	if u := currentSession(c).User; u != nil {
		f.Phone = u.Phone
	}
	v, ok := h.loadCheckout(c, tok, f, checkout.StepAddress)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "checkout", gin.H{"Checkout": v})
}

func checkoutFormFrom(c *gin.Context) checkout.Form {
	bankID, _ := strconv.ParseInt(c.PostForm("bank_id"), 10, 64)
	return checkout.Form{
		Street: c.PostForm("street"),
		City:   c.PostForm("city"),
		State:  c.PostForm("state"),
		Phone:  strings.TrimSpace(c.PostForm("phone")),
		Notes:  c.PostForm("notes"),
		BankID: bankID,
	}
}

// checkoutStep handles every wizard submit. The whole form travels with
// each post, so moving between steps needs no stored state.
func (h *handlers) checkoutStep(c *gin.Context) {
	tok, ok := h.token(c)
	if !ok {
		return
	}
	s := currentSession(c)
	f := checkoutFormFrom(c)
	from := checkout.ParseStep(c.PostForm("step"))

	to := from
	switch c.PostForm("action") {
	case "back":
		if from > checkout.StepAddress {
			to = from - 1
		}
	case "next":
		if from < checkout.StepReview {
			to = from + 1
		}
	case "place":
		h.placeOrder(c, tok, f)
		return
	}

	if err := checkout.Advance(from, to, f); err != nil {
		s.Error(err.Error())
		to = from
	}
	v, ok := h.loadCheckout(c, tok, f, to)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "checkout", gin.H{"Checkout": v})
}

func (h *handlers) placeOrder(c *gin.Context, tok string, f checkout.Form) {
	s := currentSession(c)
	if err := checkout.Advance(checkout.StepAddress, checkout.StepReview, f); err != nil {
		s.Error(err.Error())
		step := checkout.StepAddress
		if errors.Is(err, checkout.ErrNoBank) {
			step = checkout.StepBank
		}
		if v, ok := h.loadCheckout(c, tok, f, step); ok {
			h.render(c, http.StatusOK, "checkout", gin.H{"Checkout": v})
		}
		return
	}

	resp, err := h.deps.Checkout.PlaceOrder(c.Request.Context(), tok, checkout.BuildOrderRequest(f))
	if err != nil {
		h.logger.Error().Err(err).Msg("place order")
		if isUnauthorized(err) {
			h.expired(c, s)
			return
		}
		s.Error(api.DetailOr(err, "Failed to place order. Please try again."))
		if v, ok := h.loadCheckout(c, tok, f, checkout.StepReview); ok {
			h.render(c, http.StatusOK, "checkout", gin.H{"Checkout": v})
		}
		return
	}

	s.SetCartCount(0)
	s.Success("Order Pending...")
	h.publish(c, events.New(events.OrderPlaced, strconv.FormatInt(resp.OrderID, 10)).
		With("state", f.State).
		With("bank_id", strconv.FormatInt(f.BankID, 10)))
	h.redirect(c, fmt.Sprintf("/orders/%d/confirmation?bank=%d", resp.OrderID, f.BankID))
}
