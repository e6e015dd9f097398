// Package tenanthdl - Handler producer: CRUD chuẩn + disconnect Mercado Pago.
package tenanthdl

import (
	"fmt"

	basehdl "mercado_local/internal/api/base/handler"
	tenantdto "mercado_local/internal/api/tenant/dto"
	tenantmodels "mercado_local/internal/api/tenant/models"
	tenantsvc "mercado_local/internal/api/tenant/service"
	"mercado_local/internal/common"
	"mercado_local/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// ProducerHandler xử lý API producer.
type ProducerHandler struct {
	*basehdl.BaseHandler[tenantmodels.Producer, tenantdto.ProducerCreateInput, tenantdto.ProducerUpdateInput]
	ProducerService *tenantsvc.ProducerService
}

// NewProducerHandler tạo ProducerHandler mới.
func NewProducerHandler() (*ProducerHandler, error) {
	svc, err := tenantsvc.NewProducerService()
	if err != nil {
		return nil, fmt.Errorf("tạo ProducerService: %w", err)
	}
	return &ProducerHandler{
		BaseHandler:     basehdl.NewBaseHandler[tenantmodels.Producer, tenantdto.ProducerCreateInput, tenantdto.ProducerUpdateInput](svc),
		ProducerService: svc,
	}, nil
}

// HandleDisconnect xử lý POST /producers/mp/disconnect — gỡ credential Mercado Pago của producer
// thuộc user đang đăng nhập. Chỉ xóa local, không gọi provider.
func (h *ProducerHandler) HandleDisconnect(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, _ := c.Locals("user_id").(string)
		if userID == "" {
			return basehdl.HandleError(c, common.ErrTokenInvalid)
		}

		producer, err := h.ProducerService.FindByUserID(c.Context(), userID)
		if err != nil {
			return basehdl.HandleError(c, common.ErrTenantNotFound)
		}

		if err := h.ProducerService.ClearCredential(c.Context(), producer.ID, userID); err != nil {
			return basehdl.HandleError(c, err)
		}

		logger.LogPayment("disconnect", c, map[string]interface{}{
			"producerId": producer.ID.Hex(),
		})
		return basehdl.HandleSuccess(c, tenantdto.ProducerDisconnectResponse{
			ProducerID:  producer.ID.Hex(),
			MpConnected: false,
		})
	})
}
