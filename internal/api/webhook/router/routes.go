// Package router đăng ký các route thuộc domain webhook: endpoint nhận notification
// Mercado Pago (public, không auth) và CRUD đọc log (auth).
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"mercado_local/internal/api/middleware"
	apirouter "mercado_local/internal/api/router"
	webhookhdl "mercado_local/internal/api/webhook/handler"
)

// Register đăng ký tất cả route webhook lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	mpHandler, err := webhookhdl.NewMercadoPagoWebhookHandler()
	if err != nil {
		return fmt.Errorf("tạo MercadoPagoWebhookHandler: %w", err)
	}
	logHandler, err := webhookhdl.NewWebhookLogHandler()
	if err != nil {
		return fmt.Errorf("tạo WebhookLogHandler: %w", err)
	}

	// Public — Mercado Pago gọi thẳng, không có auth. POST nhận notification, GET là ping kiểm tra.
	v1.Post("/webhooks/mercadopago", mpHandler.HandleNotification)
	v1.Get("/webhooks/mercadopago", mpHandler.HandleProbe)

	// CRUD chỉ đọc log cho admin debug
	authMiddleware := middleware.AuthMiddleware()
	r.RegisterCRUDRoutes(v1, "/webhook-logs", logHandler, apirouter.ReadOnlyConfig, authMiddleware)

	return nil
}
