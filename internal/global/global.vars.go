package global

import (
	"mercado_local/config"
	"mercado_local/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	Tenants     string // Tên collection cho producer (tenant của hệ thống)
	Orders      string // Tên collection cho đơn hàng
	WebhookLogs string // Tên collection cho webhook logs từ Mercado Pago
}

// Các biến toàn cục
var Validate *validator.Validate               // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client              // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration // Cấu hình của server
var MongoDB_ColNames MongoDB_CollectionName    // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases

// InitColNames khởi tạo tên các collection
func InitColNames() {
	MongoDB_ColNames.Tenants = "tenants"
	MongoDB_ColNames.Orders = "orders"
	MongoDB_ColNames.WebhookLogs = "webhook_logs"
}
