package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"mercado_local/internal/common"
	"mercado_local/internal/global"
	"mercado_local/internal/logger"
	"mercado_local/internal/utility"
)

// AuthMiddleware middleware xác thực JWT cho Fiber.
// Token được ký HS256 với JwtSecret trong config; claims chứa userId.
// Sau khi xác thực, user_id được lưu vào Locals cho các handler phía sau.
func AuthMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Lấy token từ header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			// Chỉ log khi thiếu token (lỗi quan trọng)
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		token := parts[1]

		// Parse và xác thực JWT
		claims, err := utility.ParseToken(global.MongoDB_ServerConfig.JwtSecret, token)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Invalid or expired token")
			HandleErrorResponse(c, err)
			return nil
		}

		if claims.UserID == "" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Lưu thông tin user vào context
		c.Locals("user_id", claims.UserID)

		return c.Next()
	}
}
