// Package models - Test máy trạng thái vòng đời đơn hàng.
package models

import "testing"

func TestIsValidOrderStatus(t *testing.T) {
	valid := []string{
		OrderStatusNew,
		OrderStatusAwaitingConfirmation,
		OrderStatusConfirmed,
		OrderStatusPreparing,
		OrderStatusOutForDelivery,
		OrderStatusCompleted,
		OrderStatusCancelled,
	}
	for _, status := range valid {
		if !IsValidOrderStatus(status) {
			t.Errorf("IsValidOrderStatus(%q) phải là true", status)
		}
	}

	invalid := []string{"", "pending", "NEW", "shipped", "done"}
	for _, status := range invalid {
		if IsValidOrderStatus(status) {
			t.Errorf("IsValidOrderStatus(%q) phải là false", status)
		}
	}
}

func TestIsTerminalOrderStatus(t *testing.T) {
	if !IsTerminalOrderStatus(OrderStatusCompleted) {
		t.Error("completed phải là trạng thái kết thúc")
	}
	if !IsTerminalOrderStatus(OrderStatusCancelled) {
		t.Error("cancelled phải là trạng thái kết thúc")
	}
	for _, status := range []string{OrderStatusNew, OrderStatusAwaitingConfirmation, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusOutForDelivery} {
		if IsTerminalOrderStatus(status) {
			t.Errorf("%q không phải trạng thái kết thúc", status)
		}
	}
}

func TestCanTransitionOrderStatus(t *testing.T) {
	cases := []struct {
		from string
		to   string
		want bool
	}{
		// Tiến theo chuỗi từng bước
		{OrderStatusNew, OrderStatusAwaitingConfirmation, true},
		{OrderStatusAwaitingConfirmation, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, OrderStatusPreparing, true},
		{OrderStatusPreparing, OrderStatusOutForDelivery, true},
		{OrderStatusOutForDelivery, OrderStatusCompleted, true},

		// Nhảy bước về phía trước (đơn không PIX confirm tay từ new)
		{OrderStatusNew, OrderStatusConfirmed, true},
		{OrderStatusNew, OrderStatusCompleted, true},
		{OrderStatusAwaitingConfirmation, OrderStatusOutForDelivery, true},

		// Cancel từ mọi trạng thái chưa kết thúc
		{OrderStatusNew, OrderStatusCancelled, true},
		{OrderStatusAwaitingConfirmation, OrderStatusCancelled, true},
		{OrderStatusOutForDelivery, OrderStatusCancelled, true},

		// Không được lùi
		{OrderStatusConfirmed, OrderStatusAwaitingConfirmation, false},
		{OrderStatusConfirmed, OrderStatusNew, false},
		{OrderStatusCompleted, OrderStatusOutForDelivery, false},

		// Trạng thái kết thúc không đi đâu được nữa
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusNew, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},

		// Trạng thái lạ
		{OrderStatusNew, "shipped", false},
		{"shipped", OrderStatusConfirmed, false},
	}

	for _, tc := range cases {
		if got := CanTransitionOrderStatus(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionOrderStatus(%q, %q) = %v, muốn %v", tc.from, tc.to, got, tc.want)
		}
	}
}
