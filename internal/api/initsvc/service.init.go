// Package initsvc chứa InitService dùng để khởi tạo dữ liệu ban đầu khi server khởi động.
// Tách ra package riêng để cmd/server gọi mà không phụ thuộc trực tiếp vào từng domain service.
package initsvc

import (
	"context"
	"fmt"
	"time"

	tenantsvc "mercado_local/internal/api/tenant/service"
	"mercado_local/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
)

// InitService là cấu trúc chứa các phương thức khởi tạo dữ liệu ban đầu cho hệ thống.
type InitService struct {
	producerService *tenantsvc.ProducerService // Service xử lý producer (tenant)
}

// NewInitService tạo mới một đối tượng InitService
// Returns:
//   - *InitService: Instance mới của InitService
//   - error: Lỗi nếu có trong quá trình khởi tạo
func NewInitService() (*InitService, error) {
	producerService, err := tenantsvc.NewProducerService()
	if err != nil {
		return nil, fmt.Errorf("failed to create producer service: %v", err)
	}

	return &InitService{
		producerService: producerService,
	}, nil
}

// InitAdminProducer đảm bảo tồn tại producer plan admin cho tài khoản vận hành nền tảng.
// Idempotent: chạy lại nhiều lần không tạo bản ghi trùng (upsert theo userId).
// Producer plan admin không được phép connect Mercado Pago (chặn ở ConnectService).
func (s *InitService) InitAdminProducer(userID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	producer, err := s.producerService.Upsert(ctx, bson.M{"userId": userID}, map[string]interface{}{
		"userId":    userID,
		"storeName": "Platform Admin",
		"ownerName": "Platform Operator",
		"plan":      "admin",
		"active":    true,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert admin producer: %v", err)
	}

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"producerId": producer.ID.Hex(),
		"userId":     userID,
	}).Info("Admin producer ensured")
	return nil
}
