// Package models - Trạng thái vòng đời đơn hàng và trạng thái thanh toán.
package models

// Trạng thái vòng đời đơn hàng.
// Chuỗi tiến: new → awaiting_confirmation → confirmed → preparing → out_for_delivery → completed.
// cancelled đi được từ mọi trạng thái chưa kết thúc.
const (
	OrderStatusNew                  = "new"
	OrderStatusAwaitingConfirmation = "awaiting_confirmation"
	OrderStatusConfirmed            = "confirmed"
	OrderStatusPreparing            = "preparing"
	OrderStatusOutForDelivery       = "out_for_delivery"
	OrderStatusCompleted            = "completed"
	OrderStatusCancelled            = "cancelled"
)

// Trạng thái thanh toán. paid là terminal (monotonic — webhook về sau không hạ cấp được).
const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusCancelled = "cancelled"
	PaymentStatusExpired   = "expired"
)

// orderStatusRank thứ tự trên chuỗi tiến. cancelled không nằm trong chuỗi.
var orderStatusRank = map[string]int{
	OrderStatusNew:                  0,
	OrderStatusAwaitingConfirmation: 1,
	OrderStatusConfirmed:            2,
	OrderStatusPreparing:            3,
	OrderStatusOutForDelivery:       4,
	OrderStatusCompleted:            5,
}

// IsValidOrderStatus kiểm tra chuỗi có phải trạng thái hợp lệ không.
func IsValidOrderStatus(status string) bool {
	if status == OrderStatusCancelled {
		return true
	}
	_, ok := orderStatusRank[status]
	return ok
}

// IsTerminalOrderStatus trả về true với completed và cancelled — không chuyển tiếp được nữa.
func IsTerminalOrderStatus(status string) bool {
	return status == OrderStatusCompleted || status == OrderStatusCancelled
}

// CanTransitionOrderStatus kiểm tra chuyển trạng thái có hợp lệ không.
// Cho phép: tiến theo chuỗi (kể cả nhảy bước, ví dụ new → confirmed cho đơn không PIX),
// cancelled từ mọi trạng thái chưa kết thúc. Không cho phép lùi hoặc ra khỏi trạng thái kết thúc.
// Chuyển về chính trạng thái hiện tại không đi qua đây — caller xử lý như no-op.
func CanTransitionOrderStatus(from, to string) bool {
	if IsTerminalOrderStatus(from) {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	fromRank, okFrom := orderStatusRank[from]
	toRank, okTo := orderStatusRank[to]
	if !okFrom || !okTo {
		return false
	}
	return toRank > fromRank
}
