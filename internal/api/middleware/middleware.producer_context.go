package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"

	tenantmodels "mercado_local/internal/api/tenant/models"
	"mercado_local/internal/global"
)

// ProducerContextMiddleware tra producer thuộc user đang đăng nhập và set vào context.
// - Đọc user_id (đã được AuthMiddleware set)
// - Tìm producer có userId tương ứng
// - Lưu producer_id và producer_plan vào Locals
// Không tìm thấy producer thì vẫn cho đi tiếp (route tự quyết, ví dụ admin không có producer).
func ProducerContextMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(string)
		if !ok || userID == "" {
			return c.Next()
		}

		coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Tenants)
		if !exist {
			return c.Next()
		}

		var producer tenantmodels.Producer
		if err := coll.FindOne(context.Background(), bson.M{"userId": userID}).Decode(&producer); err != nil {
			return c.Next()
		}

		c.Locals("producer_id", producer.ID.Hex())
		c.Locals("producer_plan", producer.Plan)
		return c.Next()
	}
}
