// Package tracking maps an order status onto the confirmation timeline and
// polls the backend for status changes.
package tracking

import (
	"strings"

	"storefront/internal/domain"
)

var statusRank = map[string]int{
	"pending":    0,
	"confirmed":  1,
	"preparing":  2,
	"delivering": 3,
	"delivered":  4,
	"completed":  4,
}

// Normalize lower-cases a status and folds the legacy "on_route" value
// into delivering.
func Normalize(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "on_route" {
		return string(domain.OrderDelivering)
	}
	return s
}

// Rank is the ordinal position of status; unknown statuses rank as pending.
func Rank(status string) int {
	return statusRank[Normalize(status)]
}

// Label is the human status shown beside the timeline.
func Label(status string) string {
	s := Normalize(status)
	switch s {
	case "":
		return "Awaiting Approval"
	case string(domain.OrderDelivering):
		return "On Route"
	}
	return strings.ReplaceAll(s, "_", " ")
}

// Stage is one step of the confirmation timeline.
type Stage struct {
	Title      string `json:"title"`
	Completed  bool   `json:"completed"`
	Active     bool   `json:"active"`
	Processing bool   `json:"processing"`
}

type stageDef struct {
	title     string
	threshold int
	// processing ranks, inclusive
	from, to int
	// active ranks, inclusive; a processing stage is always active
	activeFrom, activeTo int
}

var stages = []stageDef{
	{title: "Order Placed", threshold: 0, from: -1, to: -1, activeFrom: 0, activeTo: 4},
	{title: "Payment Verification", threshold: 1, from: 0, to: 0, activeFrom: 0, activeTo: 0},
	{title: "Preparing", threshold: 3, from: 1, to: 2, activeFrom: 1, activeTo: 2},
	{title: "On Route", threshold: 4, from: 3, to: 3, activeFrom: 3, activeTo: 3},
	{title: "Delivered", threshold: 4, from: -1, to: -1, activeFrom: 4, activeTo: 4},
}

// Timeline returns the five stages for status. A stage is completed
// exactly when the rank has reached its threshold.
func Timeline(status string) []Stage {
	rank := Rank(status)
	out := make([]Stage, len(stages))
	for i, d := range stages {
		out[i] = Stage{
			Title:      d.title,
			Completed:  rank >= d.threshold,
			Active:     rank >= d.activeFrom && rank <= d.activeTo,
			Processing: rank >= d.from && rank <= d.to,
		}
	}
	return out
}

const noReasonText = "No specific reason provided. Please contact support for more details."

// CancellationReason returns the reason to show on a cancelled order.
func CancellationReason(o domain.Order) string {
	if r := strings.TrimSpace(o.CancellationReason); r != "" {
		return r
	}
	return noReasonText
}

// Snapshot is the JSON body pushed to the confirmation page.
type Snapshot struct {
	OrderID            int64   `json:"order_id"`
	Status             string  `json:"status"`
	Label              string  `json:"label"`
	PaymentStatus      string  `json:"payment_status"`
	Cancelled          bool    `json:"cancelled"`
	CancellationReason string  `json:"cancellation_reason,omitempty"`
	Stages             []Stage `json:"stages"`
}

func NewSnapshot(o domain.Order) Snapshot {
	s := Snapshot{
		OrderID:       o.ID,
		Status:        Normalize(string(o.Status)),
		Label:         Label(string(o.Status)),
		PaymentStatus: string(o.PaymentStatus),
		Cancelled:     o.IsCancelled(),
		Stages:        Timeline(string(o.Status)),
	}
	if s.Cancelled {
		s.CancellationReason = CancellationReason(o)
	}
	return s
}
