// Package paymenthdl - Handler connect Mercado Pago và tạo mã PIX.
package paymenthdl

import (
	"fmt"

	basehdl "mercado_local/internal/api/base/handler"
	paymentdto "mercado_local/internal/api/payment/dto"
	paymentsvc "mercado_local/internal/api/payment/service"
	"mercado_local/internal/common"
	"mercado_local/internal/global"
	"mercado_local/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentHandler xử lý API thanh toán.
type PaymentHandler struct {
	ConnectService *paymentsvc.ConnectService
	ChargeService  *paymentsvc.ChargeService
}

// NewPaymentHandler tạo PaymentHandler mới.
func NewPaymentHandler() (*PaymentHandler, error) {
	connectSvc, err := paymentsvc.NewConnectService()
	if err != nil {
		return nil, fmt.Errorf("tạo ConnectService: %w", err)
	}
	chargeSvc, err := paymentsvc.NewChargeService()
	if err != nil {
		return nil, fmt.Errorf("tạo ChargeService: %w", err)
	}
	return &PaymentHandler{
		ConnectService: connectSvc,
		ChargeService:  chargeSvc,
	}, nil
}

// HandleConnectStart xử lý GET /payments/mp/connect — trả URL authorization cho dashboard redirect.
func (h *PaymentHandler) HandleConnectStart(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, _ := c.Locals("user_id").(string)
		if userID == "" {
			return basehdl.HandleError(c, common.ErrTokenInvalid)
		}

		authURL, err := h.ConnectService.StartConnect(c.Context(), userID)
		if err != nil {
			return basehdl.HandleError(c, err)
		}

		logger.LogPayment("connect_start", c, nil)
		return basehdl.HandleSuccess(c, paymentdto.ConnectStartResponse{AuthURL: authURL})
	})
}

// HandleConnectComplete xử lý GET /payments/mp/callback?code=...&state=... — hoàn tất exchange.
// Dashboard gọi endpoint này sau khi Mercado Pago redirect browser về FRONTEND_URL.
func (h *PaymentHandler) HandleConnectComplete(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, _ := c.Locals("user_id").(string)
		if userID == "" {
			return basehdl.HandleError(c, common.ErrTokenInvalid)
		}

		input := paymentdto.ConnectCompleteInput{
			Code:  c.Query("code"),
			State: c.Query("state"),
		}
		if err := global.Validate.Struct(&input); err != nil {
			return basehdl.HandleError(c, common.NewError(common.ErrCodeValidationInput, "Thiếu code hoặc state trong callback", common.StatusBadRequest, nil))
		}

		result, err := h.ConnectService.CompleteConnect(c.Context(), userID, input.Code, input.State)
		if err != nil {
			return basehdl.HandleError(c, err)
		}

		logger.LogPayment("connect_complete", c, map[string]interface{}{
			"producerId": result.ProducerID,
		})
		return basehdl.HandleSuccess(c, result)
	})
}

// HandleCreateCharge xử lý POST /payments/pix — tạo mã PIX cho một đơn của producer đang đăng nhập.
// Body: {"orderId": "...", "orderNumber": "..."}. Số tiền đọc từ đơn, không nhận từ client.
func (h *PaymentHandler) HandleCreateCharge(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		producerIDStr, _ := c.Locals("producer_id").(string)
		producerID, err := primitive.ObjectIDFromHex(producerIDStr)
		if err != nil {
			return basehdl.HandleError(c, common.ErrTenantNotFound)
		}

		var input paymentdto.ChargeCreateInput
		if err := c.Bind().Body(&input); err != nil {
			return basehdl.HandleError(c, common.NewError(common.ErrCodeValidationFormat, "Dữ liệu gửi lên không đúng định dạng JSON", common.StatusBadRequest, nil))
		}
		if err := global.Validate.Struct(&input); err != nil {
			return basehdl.HandleError(c, common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error()))
		}

		orderID, err := primitive.ObjectIDFromHex(input.OrderID)
		if err != nil {
			return basehdl.HandleError(c, common.NewError(common.ErrCodeValidationInput, "ID đơn hàng không hợp lệ", common.StatusBadRequest, nil))
		}

		result, err := h.ChargeService.CreateCharge(c.Context(), orderID, producerID, input.OrderNumber)
		if err != nil {
			return basehdl.HandleError(c, err)
		}

		logger.LogPayment("charge_create", c, map[string]interface{}{
			"orderId":   input.OrderID,
			"paymentId": result.PaymentID,
		})
		return basehdl.HandleSuccess(c, result)
	})
}
