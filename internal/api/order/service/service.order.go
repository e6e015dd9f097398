// Package ordersvc - Service đơn hàng (orders).
// CRUD qua BaseServiceMongo + máy trạng thái vòng đời đơn.
package ordersvc

import (
	"context"
	"fmt"

	basesvc "mercado_local/internal/api/base/service"
	ordermodels "mercado_local/internal/api/order/models"
	"mercado_local/internal/common"
	"mercado_local/internal/global"
	"mercado_local/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderService xử lý logic đơn hàng.
type OrderService struct {
	*basesvc.BaseServiceMongoImpl[ordermodels.Order]
}

// NewOrderService tạo OrderService mới.
func NewOrderService() (*OrderService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Orders)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Orders, common.ErrNotFound)
	}
	return &OrderService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[ordermodels.Order](coll),
	}, nil
}

// FindByPaymentID tìm đơn theo charge id của provider.
// Trả về common.ErrNotFound nếu không có đơn nào mang paymentId này.
func (s *OrderService) FindByPaymentID(ctx context.Context, paymentID string) (ordermodels.Order, error) {
	return s.FindOne(ctx, bson.M{"paymentId": paymentID}, nil)
}

// UpdateStatus chuyển trạng thái vòng đời đơn theo thao tác thủ công của producer.
// Idempotent: chuyển về đúng trạng thái hiện tại là no-op, không phải lỗi.
// Lỗi: ErrOrderNotFound (đơn không tồn tại hoặc không thuộc producer), ErrTerminalState
// (đơn đã completed/cancelled), ErrInvalidState (trạng thái đích không hợp lệ hoặc đi lùi).
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, producerID primitive.ObjectID, to string) (ordermodels.Order, error) {
	var zero ordermodels.Order

	if !ordermodels.IsValidOrderStatus(to) {
		return zero, common.ErrInvalidState
	}

	order, err := s.FindOne(ctx, bson.M{"_id": orderID, "producerId": producerID}, nil)
	if err != nil {
		return zero, common.ErrOrderNotFound
	}

	if order.Status == to {
		return order, nil
	}
	if ordermodels.IsTerminalOrderStatus(order.Status) {
		return zero, common.ErrTerminalState
	}
	if !ordermodels.CanTransitionOrderStatus(order.Status, to) {
		return zero, common.ErrInvalidState
	}

	updated, err := s.UpdateById(ctx, orderID, &basesvc.UpdateData{Set: bson.M{"status": to}})
	if err != nil {
		return zero, err
	}

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"orderId": orderID.Hex(),
		"from":    order.Status,
		"to":      to,
	}).Info("📦 [ORDER] Status transition applied")
	return updated, nil
}
