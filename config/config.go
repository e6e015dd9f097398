package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng.
// Bao gồm cấu hình server, database và cấu hình tích hợp Mercado Pago.
type Configuration struct {
	InitMode              bool   `env:"INITMODE" envDefault:"false"`               // Chế độ khởi tạo
	Address               string `env:"ADDRESS" envDefault:"8080"`                 // Port server
	JwtSecret             string `env:"JWT_SECRET,required"`                       // Bí mật JWT (token định danh người dùng)
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`                   // Tên cơ sở dữ liệu chính
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting

	// Mercado Pago OAuth (connect tài khoản producer)
	MpClientID     string `env:"MP_CLIENT_ID"`     // Client ID của ứng dụng trên Mercado Pago
	MpClientSecret string `env:"MP_CLIENT_SECRET"` // Client Secret của ứng dụng
	MpRedirectURI  string `env:"MP_REDIRECT_URI"`  // Redirect URI đã đăng ký với Mercado Pago
	MpStateSecret  string `env:"MP_STATE_SECRET"`  // Bí mật ký HMAC cho state token (OAuth handshake)

	// Mercado Pago Payments (tạo mã PIX + đối soát webhook)
	MpAccessTokenFallback string `env:"MP_ACCESS_TOKEN"`                                               // Access token nền tảng (fallback khi producer chưa connect)
	MpWebhookURL          string `env:"MP_WEBHOOK_URL"`                                                // URL nhận webhook (gửi kèm khi tạo charge, optional)
	MpAPIBaseURL          string `env:"MP_API_BASE_URL" envDefault:"https://api.mercadopago.com"`      // Base URL API Mercado Pago
	MpAuthBaseURL         string `env:"MP_AUTH_BASE_URL" envDefault:"https://auth.mercadopago.com.br"` // Base URL trang authorization

	// Đối soát định kỳ các đơn PIX còn pending (defense-in-depth, webhook vẫn là đường chính)
	PaymentSweepEnabled  bool `env:"PAYMENT_SWEEP_ENABLED" envDefault:"true"` // Bật/tắt sweep worker
	PaymentSweepInterval int  `env:"PAYMENT_SWEEP_INTERVAL" envDefault:"300"` // Chu kỳ sweep (giây)
	PaymentSweepMinAge   int  `env:"PAYMENT_SWEEP_MIN_AGE" envDefault:"120"`  // Chỉ sweep đơn pending cũ hơn N giây
	PaymentSweepWorkers  int  `env:"PAYMENT_SWEEP_WORKERS" envDefault:"4"`    // Số goroutine fetch song song khi sweep

	// TLS/HTTPS Configuration
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"` // Bật HTTPS
	TLSCertFile string `env:"TLS_CERT_FILE"`                 // Đường dẫn đến file certificate (.crt hoặc .pem)
	TLSKeyFile  string `env:"TLS_KEY_FILE"`                  // Đường dẫn đến file private key (.key)

	// Frontend URL (trang callback OAuth của dashboard producer)
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// Tài khoản vận hành nền tảng (seed producer plan admin khi khởi động, optional)
	AdminUserID string `env:"ADMIN_USER_ID"`
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env bằng cách đi lên dần từ thư mục hiện tại
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", env))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig sẽ đọc dữ liệu cấu hình từ file env được cung cấp
func NewConfig(files ...string) *Configuration {
	envPath := getEnvPath()
	if envPath == "" {
		fmt.Printf("Không tìm thấy thư mục config/env\n")
		return nil
	}

	err := godotenv.Load(envPath)
	if err != nil {
		fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		return nil
	}

	cfg := Configuration{}
	err = env.Parse(&cfg)
	if err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
