// Package events - Test phát và nhận event thay đổi dữ liệu.
package events

import (
	"context"
	"testing"
	"time"
)

func TestEmitDataChanged_DeliversToHandler(t *testing.T) {
	received := make(chan DataChangeEvent, 4)
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		if e.CollectionName == "orders_deliver_test" {
			received <- e
		}
	})

	EmitDataChanged(context.Background(), DataChangeEvent{
		CollectionName: "orders_deliver_test",
		Operation:      OpUpdate,
		Document:       "payload",
	})

	select {
	case e := <-received:
		if e.Operation != OpUpdate {
			t.Errorf("Operation = %q, muốn %q", e.Operation, OpUpdate)
		}
		if e.Document != "payload" {
			t.Errorf("Document = %v, muốn payload", e.Document)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Handler không nhận được event sau 2s")
	}
}

func TestEmitDataChanged_PanickingHandlerIsIsolated(t *testing.T) {
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		if e.CollectionName == "orders_panic_test" {
			panic("handler hỏng")
		}
	})

	received := make(chan struct{}, 4)
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		if e.CollectionName == "orders_panic_test" {
			received <- struct{}{}
		}
	})

	EmitDataChanged(context.Background(), DataChangeEvent{
		CollectionName: "orders_panic_test",
		Operation:      OpInsert,
	})

	select {
	case <-received:
		// Handler thứ hai vẫn chạy dù handler đầu panic
	case <-time.After(2 * time.Second):
		t.Fatal("Handler panic làm handler khác không nhận được event")
	}
}
