// Package paymentsvc - Store seams: phần hợp đồng của order/tenant service mà
// subsystem thanh toán sử dụng. Các service Mongo thật thỏa mãn sẵn các interface này;
// test thay bằng store in-memory để chạy flow không cần database.
package paymentsvc

import (
	"context"

	ordermodels "mercado_local/internal/api/order/models"
	ordersvc "mercado_local/internal/api/order/service"
	tenantmodels "mercado_local/internal/api/tenant/models"
	tenantsvc "mercado_local/internal/api/tenant/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderStore là phần của OrderService mà charge/reconcile/sweep cần: tra đơn,
// tra theo payment id và ghi các field payment lên đơn.
type OrderStore interface {
	FindOneById(ctx context.Context, id primitive.ObjectID) (ordermodels.Order, error)
	FindByPaymentID(ctx context.Context, paymentID string) (ordermodels.Order, error)
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]ordermodels.Order, error)
	UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (ordermodels.Order, error)
}

// ProducerStore là phần của ProducerService mà credential resolver và charge cần.
type ProducerStore interface {
	FindOneById(ctx context.Context, id primitive.ObjectID) (tenantmodels.Producer, error)
}

var (
	_ OrderStore    = (*ordersvc.OrderService)(nil)
	_ ProducerStore = (*tenantsvc.ProducerService)(nil)
)
