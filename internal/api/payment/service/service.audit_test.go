// Package paymentsvc - Test trích field audit từ data change event.
package paymentsvc

import (
	"testing"

	"mercado_local/internal/api/events"
	ordermodels "mercado_local/internal/api/order/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPaymentAuditFields(t *testing.T) {
	order := ordermodels.Order{
		ID:            primitive.NewObjectID(),
		ProducerID:    primitive.NewObjectID(),
		PaymentID:     "555",
		PaymentStatus: ordermodels.PaymentStatusPaid,
		PaymentMethod: "pix",
		Status:        ordermodels.OrderStatusConfirmed,
	}

	fields, ok := paymentAuditFields(events.DataChangeEvent{
		CollectionName: "orders",
		Operation:      events.OpUpdate,
		Document:       order,
	}, "orders")
	if !ok {
		t.Fatal("Event thay đổi payment trên orders phải được audit")
	}
	if fields["paymentId"] != "555" {
		t.Errorf("fields[paymentId] = %v, muốn 555", fields["paymentId"])
	}
	if fields["paymentStatus"] != ordermodels.PaymentStatusPaid {
		t.Errorf("fields[paymentStatus] = %v, muốn paid", fields["paymentStatus"])
	}
	if fields["orderId"] != order.ID.Hex() {
		t.Errorf("fields[orderId] = %v, muốn %s", fields["orderId"], order.ID.Hex())
	}

	// Collection khác không được audit
	if _, ok := paymentAuditFields(events.DataChangeEvent{
		CollectionName: "tenants",
		Document:       order,
	}, "orders"); ok {
		t.Error("Event trên collection khác orders không được audit")
	}

	// Document không phải Order không được audit
	if _, ok := paymentAuditFields(events.DataChangeEvent{
		CollectionName: "orders",
		Document:       "không phải order",
	}, "orders"); ok {
		t.Error("Document không phải Order không được audit")
	}

	// Đơn chưa chạm subsystem thanh toán thì bỏ qua
	if _, ok := paymentAuditFields(events.DataChangeEvent{
		CollectionName: "orders",
		Document:       ordermodels.Order{ID: primitive.NewObjectID(), Status: ordermodels.OrderStatusNew},
	}, "orders"); ok {
		t.Error("Đơn không có payment fields không được audit")
	}
}
