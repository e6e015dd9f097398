// Package router đăng ký các route thuộc domain tenant: CRUD producer + disconnect Mercado Pago.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"mercado_local/internal/api/middleware"
	apirouter "mercado_local/internal/api/router"
	tenanthdl "mercado_local/internal/api/tenant/handler"
)

// Register đăng ký tất cả route tenant lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	producerHandler, err := tenanthdl.NewProducerHandler()
	if err != nil {
		return fmt.Errorf("tạo ProducerHandler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()

	// CRUD chuẩn: /producers/*
	r.RegisterCRUDRoutes(v1, "/producers", producerHandler, apirouter.ReadWriteConfig, authMiddleware)

	// POST /producers/mp/disconnect — gỡ credential Mercado Pago (local only)
	apirouter.RegisterRouteWithMiddleware(v1, "/producers", "POST", "/mp/disconnect", []fiber.Handler{authMiddleware}, producerHandler.HandleDisconnect)

	return nil
}
