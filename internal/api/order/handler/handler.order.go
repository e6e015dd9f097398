// Package orderhdl - Handler đơn hàng: CRUD đọc + chuyển trạng thái thủ công.
package orderhdl

import (
	"fmt"

	basehdl "mercado_local/internal/api/base/handler"
	orderdto "mercado_local/internal/api/order/dto"
	ordermodels "mercado_local/internal/api/order/models"
	ordersvc "mercado_local/internal/api/order/service"
	"mercado_local/internal/common"
	"mercado_local/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderHandler xử lý API đơn hàng.
type OrderHandler struct {
	*basehdl.BaseHandler[ordermodels.Order, orderdto.OrderCreateInput, orderdto.OrderUpdateInput]
	OrderService *ordersvc.OrderService
}

// NewOrderHandler tạo OrderHandler mới.
func NewOrderHandler() (*OrderHandler, error) {
	svc, err := ordersvc.NewOrderService()
	if err != nil {
		return nil, fmt.Errorf("tạo OrderService: %w", err)
	}
	return &OrderHandler{
		BaseHandler:  basehdl.NewBaseHandler[ordermodels.Order, orderdto.OrderCreateInput, orderdto.OrderUpdateInput](svc),
		OrderService: svc,
	}, nil
}

// HandleUpdateStatus xử lý PUT /orders/:id/status — producer chuyển trạng thái vòng đời đơn.
// Body: {"status": "..."}. Chỉ đơn thuộc producer của user đang đăng nhập.
func (h *OrderHandler) HandleUpdateStatus(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orderID, err := primitive.ObjectIDFromHex(c.Params("id"))
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "ID đơn hàng không hợp lệ", common.StatusBadRequest, nil))
			return nil
		}

		producerIDStr, _ := c.Locals("producer_id").(string)
		producerID, err := primitive.ObjectIDFromHex(producerIDStr)
		if err != nil {
			h.HandleResponse(c, nil, common.ErrTenantNotFound)
			return nil
		}

		var input orderdto.OrderStatusUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		order, err := h.OrderService.UpdateStatus(c.Context(), orderID, producerID, input.Status)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		logger.LogCRUD("update", "order", orderID.Hex(), c, map[string]interface{}{
			"status": input.Status,
		})
		h.HandleResponse(c, order, nil)
		return nil
	})
}
