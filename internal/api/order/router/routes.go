// Package router đăng ký các route thuộc domain order: CRUD đọc + chuyển trạng thái thủ công.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"mercado_local/internal/api/middleware"
	orderhdl "mercado_local/internal/api/order/handler"
	apirouter "mercado_local/internal/api/router"
)

// Register đăng ký tất cả route order lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	orderHandler, err := orderhdl.NewOrderHandler()
	if err != nil {
		return fmt.Errorf("tạo OrderHandler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()
	producerContextMiddleware := middleware.ProducerContextMiddleware()

	// CRUD chỉ đọc: dashboard producer đọc đơn, không tạo/sửa qua đường này
	// (đơn do checkout tạo; payment fields do subsystem thanh toán ghi).
	r.RegisterCRUDRoutes(v1, "/orders", orderHandler, apirouter.ReadOnlyConfig, authMiddleware)

	// PUT /orders/:id/status — producer chuyển trạng thái vòng đời đơn
	apirouter.RegisterRouteWithMiddleware(v1, "/orders", "PUT", "/:id/status",
		[]fiber.Handler{authMiddleware, producerContextMiddleware}, orderHandler.HandleUpdateStatus)

	return nil
}
