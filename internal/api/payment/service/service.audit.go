// Package paymentsvc - Audit reactor: ghi audit log mỗi khi field payment của đơn thay đổi.
// Đăng ký qua event bus nên OrderService không cần biết gì về audit.
package paymentsvc

import (
	"context"

	"mercado_local/internal/api/events"
	ordermodels "mercado_local/internal/api/order/models"
	"mercado_local/internal/global"
	"mercado_local/internal/logger"
)

// paymentAuditFields trích các field audit từ một data change event.
// Trả về false nếu event không phải thay đổi payment trên collection orders.
func paymentAuditFields(e events.DataChangeEvent, ordersCollection string) (map[string]interface{}, bool) {
	if e.CollectionName != ordersCollection {
		return nil, false
	}
	order, ok := e.Document.(ordermodels.Order)
	if !ok {
		return nil, false
	}
	// Đơn chưa từng chạm subsystem thanh toán thì không có gì để audit
	if order.PaymentID == "" && order.PaymentMethod == "" {
		return nil, false
	}
	return map[string]interface{}{
		"orderId":         order.ID.Hex(),
		"producerId":      order.ProducerID.Hex(),
		"operation":       e.Operation,
		"paymentId":       order.PaymentID,
		"paymentStatus":   order.PaymentStatus,
		"paymentMethod":   order.PaymentMethod,
		"paymentProvider": order.PaymentProvider,
		"orderStatus":     order.Status,
	}, true
}

// RegisterPaymentAudit đăng ký reactor audit lên event bus. Gọi một lần lúc khởi động,
// sau khi logger và col names đã init.
func RegisterPaymentAudit() {
	ordersCollection := global.MongoDB_ColNames.Orders
	events.OnDataChanged(func(ctx context.Context, e events.DataChangeEvent) {
		fields, ok := paymentAuditFields(e, ordersCollection)
		if !ok {
			return
		}
		logger.GetAuditLogger().WithFields(fields).Info("💳 [PAYMENT AUDIT] Order payment fields changed")
	})
}
