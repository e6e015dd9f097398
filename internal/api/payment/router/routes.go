// Package router đăng ký các route thuộc domain payment: connect Mercado Pago + tạo PIX.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"mercado_local/internal/api/middleware"
	paymenthdl "mercado_local/internal/api/payment/handler"
	apirouter "mercado_local/internal/api/router"
)

// Register đăng ký tất cả route payment lên v1. Webhook nhận notification nằm ở domain webhook.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	paymentHandler, err := paymenthdl.NewPaymentHandler()
	if err != nil {
		return fmt.Errorf("tạo PaymentHandler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()
	producerContextMiddleware := middleware.ProducerContextMiddleware()
	authOnly := []fiber.Handler{authMiddleware}
	withProducer := []fiber.Handler{authMiddleware, producerContextMiddleware}

	// GET /payments/mp/connect — bắt đầu OAuth handshake (trả URL authorization)
	apirouter.RegisterRouteWithMiddleware(v1, "/payments", "GET", "/mp/connect", authOnly, paymentHandler.HandleConnectStart)

	// GET /payments/mp/callback — hoàn tất exchange (code + state trong query)
	apirouter.RegisterRouteWithMiddleware(v1, "/payments", "GET", "/mp/callback", authOnly, paymentHandler.HandleConnectComplete)

	// POST /payments/pix — tạo mã PIX cho một đơn của producer
	apirouter.RegisterRouteWithMiddleware(v1, "/payments", "POST", "/pix", withProducer, paymentHandler.HandleCreateCharge)

	return nil
}
