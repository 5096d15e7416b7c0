// Package checkout holds the bank-transfer checkout wizard: step gating,
// delivery fee and the order payload sent to the backend.
package checkout

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// Step is a wizard position, 1 through 3.
type Step int

const (
	StepAddress Step = 1
	StepBank    Step = 2
	StepReview  Step = 3
)

// Valid reports whether s is one of the three steps.
func (s Step) Valid() bool {
	return s >= StepAddress && s <= StepReview
}

func (s Step) Title() string {
	switch s {
	case StepAddress:
		return "Delivery Address"
	case StepBank:
		return "Select Bank"
	case StepReview:
		return "Review & Pay"
	}
	return ""
}

// ParseStep reads a step from a form value, defaulting to the first step.
func ParseStep(v string) Step {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || !Step(n).Valid() {
		return StepAddress
	}
	return Step(n)
}

var (
	ErrAddressIncomplete = errors.New("Please fill in all address details.")
	ErrInvalidPhone      = errors.New("Please enter a valid Nigerian phone number.")
	ErrNoBank            = errors.New("Please select a bank to make payment to.")
)

var phonePattern = regexp.MustCompile(`^(0|\+234)\d{9,11}$`)

// ValidPhone accepts 0- or +234-prefixed numbers with 9 to 11 further digits.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// Form is everything the wizard collects. It is re-posted whole on every
// step, so nothing is kept server side between steps.
type Form struct {
	Street string
	City   string
	State  string
	Phone  string
	Notes  string
	BankID int64
}

// AddressComplete reports whether every required address field is filled.
func (f Form) AddressComplete() bool {
	for _, v := range []string{f.Street, f.City, f.State, f.Phone} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// Advance checks whether the wizard may move from one step to another.
// Going back is always allowed; going forward runs the gate of every step
// passed over.
func Advance(from, to Step, f Form) error {
	if !to.Valid() {
		return fmt.Errorf("unknown checkout step %d", to)
	}
	if to <= from {
		return nil
	}
	if from < StepBank {
		if !f.AddressComplete() {
			return ErrAddressIncomplete
		}
		if !ValidPhone(strings.TrimSpace(f.Phone)) {
			return ErrInvalidPhone
		}
	}
	if to >= StepReview && f.BankID == 0 {
		return ErrNoBank
	}
	return nil
}

var (
	// FreeDeliveryThreshold is the subtotal from which delivery is free.
	FreeDeliveryThreshold = decimal.NewFromInt(50000)
	lagosFee              = decimal.NewFromInt(1500)
	outOfStateFee         = decimal.NewFromInt(3500)
)

// DeliveryFee is free from 50000 upward, 1500 within Lagos and 3500
// elsewhere. Before a state is chosen the fee shows as zero.
func DeliveryFee(subtotal decimal.Decimal, state string) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeDeliveryThreshold) {
		return decimal.Zero
	}
	state = strings.ToLower(strings.TrimSpace(state))
	if state == "" {
		return decimal.Zero
	}
	if strings.Contains(state, "lagos") {
		return lagosFee
	}
	return outOfStateFee
}

func Total(subtotal decimal.Decimal, state string) decimal.Decimal {
	return subtotal.Add(DeliveryFee(subtotal, state))
}

// BuildOrderRequest maps the form onto the place-order payload. The phone
// is folded into the notes so couriers see it on the order sheet.
func BuildOrderRequest(f Form) domain.PlaceOrderRequest {
	phone := strings.TrimSpace(f.Phone)
	return domain.PlaceOrderRequest{
		DeliveryAddress: domain.DeliveryAddress{
			Street:  strings.TrimSpace(f.Street),
			City:    strings.TrimSpace(f.City),
			State:   f.State,
			ZipCode: "000000",
			Country: "Nigeria",
			Phone:   phone,
		},
		PaymentMethod: domain.PaymentMethodBankTransfer,
		Notes:         fmt.Sprintf("Phone: %s. %s", phone, strings.TrimSpace(f.Notes)),
	}
}
