package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func TestRank(t *testing.T) {
	cases := map[string]int{
		"pending":    0,
		"confirmed":  1,
		"preparing":  2,
		"delivering": 3,
		"on_route":   3,
		"ON_ROUTE":   3,
		"delivered":  4,
		"completed":  4,
		"":           0,
		"mystery":    0,
	}
	for status, want := range cases {
		assert.Equal(t, want, Rank(status), status)
	}
}

func TestTimelineCompletesStagesAtOrBelowRank(t *testing.T) {
	thresholds := []int{0, 1, 3, 4, 4}
	for _, status := range []string{"pending", "confirmed", "preparing", "delivering", "delivered"} {
		rank := Rank(status)
		got := Timeline(status)
		require.Len(t, got, 5)
		for i, st := range got {
			assert.Equal(t, rank >= thresholds[i], st.Completed, "%s stage %s", status, st.Title)
		}
	}
}

func TestTimelineProcessingFlags(t *testing.T) {
	processing := func(status string) []string {
		var out []string
		for _, st := range Timeline(status) {
			if st.Processing {
				out = append(out, st.Title)
			}
		}
		return out
	}
	assert.Equal(t, []string{"Payment Verification"}, processing("pending"))
	assert.Equal(t, []string{"Preparing"}, processing("confirmed"))
	assert.Equal(t, []string{"Preparing"}, processing("preparing"))
	assert.Equal(t, []string{"On Route"}, processing("on_route"))
	assert.Empty(t, processing("delivered"))
}

func TestTimelineActiveFlags(t *testing.T) {
	active := func(status string) []string {
		var out []string
		for _, st := range Timeline(status) {
			if st.Active {
				out = append(out, st.Title)
			}
		}
		return out
	}
	assert.Equal(t, []string{"Order Placed", "Payment Verification"}, active("pending"))
	assert.Equal(t, []string{"Order Placed", "Preparing"}, active("confirmed"))
	assert.Equal(t, []string{"Order Placed", "Preparing"}, active("preparing"))
	assert.Equal(t, []string{"Order Placed", "On Route"}, active("delivering"))
	assert.Equal(t, []string{"Order Placed", "Delivered"}, active("delivered"))

	for _, st := range Timeline("preparing") {
		if st.Processing {
			assert.True(t, st.Active, st.Title)
		}
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "On Route", Label("delivering"))
	assert.Equal(t, "On Route", Label("on_route"))
	assert.Equal(t, "awaiting payment", Label("awaiting_payment"))
	assert.Equal(t, "Awaiting Approval", Label(""))
	assert.Equal(t, "confirmed", Label("confirmed"))
}

func TestSnapshotCancelled(t *testing.T) {
	s := NewSnapshot(domain.Order{ID: 4, Status: "CANCELLED"})
	assert.True(t, s.Cancelled)
	assert.Equal(t, noReasonText, s.CancellationReason)

	s = NewSnapshot(domain.Order{ID: 4, Status: domain.OrderCancelled, CancellationReason: "Out of stock"})
	assert.Equal(t, "Out of stock", s.CancellationReason)

	s = NewSnapshot(domain.Order{ID: 5, Status: domain.OrderPreparing})
	assert.False(t, s.Cancelled)
	assert.Empty(t, s.CancellationReason)
}
