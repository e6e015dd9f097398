package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	// Success Codes (2xx)
	StatusOK        = 200 // Thành công
	StatusCreated   = 201 // Tạo mới thành công
	StatusNoContent = 204 // Thành công nhưng không có nội dung trả về

	// Client Error Codes (4xx)
	StatusBadRequest       = 400 // Yêu cầu không hợp lệ
	StatusUnauthorized     = 401 // Chưa xác thực
	StatusForbidden        = 403 // Không có quyền truy cập
	StatusNotFound         = 404 // Không tìm thấy tài nguyên
	StatusMethodNotAllowed = 405 // Phương thức HTTP không được hỗ trợ
	StatusConflict         = 409 // Xung đột dữ liệu
	StatusTooManyRequests  = 429 // Quá nhiều yêu cầu

	// Server Error Codes (5xx)
	StatusInternalServerError = 500 // Lỗi server
	StatusBadGateway          = 502 // Gateway không hợp lệ
	StatusServiceUnavailable  = 503 // Dịch vụ không khả dụng
)

// Response Messages
const (
	MsgSuccess = "Thao tác thành công"
	MsgCreated = "Tạo mới thành công"

	MsgBadRequest      = "Yêu cầu không hợp lệ"
	MsgUnauthorized    = "Vui lòng đăng nhập"
	MsgForbidden       = "Không có quyền truy cập"
	MsgNotFound        = "Không tìm thấy tài nguyên"
	MsgInternalError   = "Lỗi hệ thống"
	MsgValidationError = "Dữ liệu không hợp lệ"
	MsgDatabaseError   = "Lỗi tương tác với cơ sở dữ liệu"

	// Token Messages
	MsgTokenMissing = "Thiếu token xác thực"
	MsgTokenInvalid = "Token không hợp lệ"
	MsgTokenExpired = "Token đã hết hạn"
)

// ErrorCode định nghĩa mã lỗi chi tiết
type ErrorCode struct {
	Code        string // Mã lỗi (ví dụ: AUTH_001)
	Category    string // Phân loại lỗi (ví dụ: Authentication)
	SubCategory string // Phân loại con (ví dụ: Token)
	Description string // Mô tả chi tiết
}

// Định nghĩa các mã lỗi theo hệ thống phân cấp
var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Lỗi hệ thống nội bộ",
	}

	// Authentication Errors (AUTH_xxx)
	ErrCodeAuthToken = ErrorCode{
		Code:        "AUTH_001",
		Category:    "Authentication",
		SubCategory: "Token",
		Description: "Lỗi liên quan đến token",
	}

	ErrCodeAuthRole = ErrorCode{
		Code:        "AUTH_002",
		Category:    "Authentication",
		SubCategory: "Role",
		Description: "Lỗi liên quan đến vai trò người dùng",
	}

	// Validation Errors (VAL_xxx)
	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Lỗi dữ liệu đầu vào",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Lỗi định dạng dữ liệu",
	}

	// Database Errors (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "Lỗi cơ sở dữ liệu chung",
	}

	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Lỗi kết nối cơ sở dữ liệu",
	}

	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Lỗi truy vấn dữ liệu",
	}

	// Payment Errors (PAY_xxx) - OAuth connect, state token, tạo PIX, đối soát webhook
	ErrCodePaymentState = ErrorCode{
		Code:        "PAY_001",
		Category:    "Payment",
		SubCategory: "StateToken",
		Description: "Lỗi state token trong OAuth handshake",
	}

	ErrCodePaymentConnect = ErrorCode{
		Code:        "PAY_002",
		Category:    "Payment",
		SubCategory: "Connect",
		Description: "Lỗi connect tài khoản Mercado Pago",
	}

	ErrCodePaymentCharge = ErrorCode{
		Code:        "PAY_003",
		Category:    "Payment",
		SubCategory: "Charge",
		Description: "Lỗi tạo mã thanh toán PIX",
	}

	ErrCodePaymentCredential = ErrorCode{
		Code:        "PAY_004",
		Category:    "Payment",
		SubCategory: "Credential",
		Description: "Lỗi credential thanh toán của producer",
	}

	// Business Logic Errors (BIZ_xxx)
	ErrCodeBusinessState = ErrorCode{
		Code:        "BIZ_001",
		Category:    "Business",
		SubCategory: "State",
		Description: "Lỗi trạng thái nghiệp vụ",
	}

	ErrCodeBusinessOperation = ErrorCode{
		Code:        "BIZ_002",
		Category:    "Business",
		SubCategory: "Operation",
		Description: "Lỗi thao tác nghiệp vụ",
	}
)

// Error định nghĩa cấu trúc lỗi chi tiết
type Error struct {
	Code       ErrorCode // Mã lỗi chi tiết
	Message    string    // Thông báo lỗi
	StatusCode int       // HTTP status code
	Details    any       // Thông tin chi tiết thêm về lỗi
}

// Error trả về message của lỗi
func (e *Error) Error() string {
	return e.Message
}

// Is kiểm tra xem error có phải là target error không (hỗ trợ errors.Is)
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if targetErr, ok := target.(*Error); ok {
		return e.Code.Code == targetErr.Code.Code && e.Message == targetErr.Message
	}
	return false
}

// NewError tạo một error mới với đầy đủ thông tin
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Custom errors
var (
	// Authentication Errors
	ErrTokenExpired = NewError(ErrCodeAuthToken, MsgTokenExpired, StatusUnauthorized, nil)
	ErrTokenInvalid = NewError(ErrCodeAuthToken, MsgTokenInvalid, StatusUnauthorized, nil)
	ErrTokenMissing = NewError(ErrCodeAuthToken, MsgTokenMissing, StatusUnauthorized, nil)

	// Validation Errors
	ErrInvalidInput  = NewError(ErrCodeValidationInput, "Dữ liệu đầu vào không hợp lệ", StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, "Định dạng dữ liệu không hợp lệ", StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Thiếu thông tin bắt buộc", StatusBadRequest, nil)

	// Database Errors
	ErrNotFound   = NewError(ErrCodeDatabaseQuery, "Không tìm thấy dữ liệu", StatusNotFound, nil)
	ErrDuplicate  = NewError(ErrCodeDatabaseQuery, "Dữ liệu đã tồn tại", StatusConflict, nil)
	ErrConnection = NewError(ErrCodeDatabaseConnection, "Lỗi kết nối cơ sở dữ liệu", StatusServiceUnavailable, nil)

	// State token (OAuth handshake) - phân biệt 3 loại lỗi để client hiển thị đúng
	ErrStateMalformed        = NewError(ErrCodePaymentState, "State không hợp lệ", StatusBadRequest, nil)
	ErrStateInvalidSignature = NewError(ErrCodePaymentState, "State không hợp lệ (chữ ký sai)", StatusBadRequest, nil)
	ErrStateExpired          = NewError(ErrCodePaymentState, "State đã hết hạn, vui lòng bắt đầu lại", StatusBadRequest, nil)

	// OAuth connect flow
	ErrTenantNotFound    = NewError(ErrCodePaymentConnect, "Không tìm thấy producer", StatusNotFound, nil)
	ErrConnectForbidden  = NewError(ErrCodePaymentConnect, "Tài khoản admin không connect như producer", StatusForbidden, nil)
	ErrStateUserMismatch = NewError(ErrCodePaymentConnect, "Phiên đăng nhập không khớp với state", StatusForbidden, nil)
	ErrExchangeFailed    = NewError(ErrCodePaymentConnect, "Không thể connect Mercado Pago", StatusBadRequest, nil)
	ErrPersistFailed     = NewError(ErrCodePaymentConnect, "Không thể lưu credential cho producer", StatusInternalServerError, nil)

	// Charge creation (PIX)
	ErrOrderNotFound         = NewError(ErrCodePaymentCharge, "Không tìm thấy đơn hàng", StatusNotFound, nil)
	ErrTenantMismatch        = NewError(ErrCodePaymentCharge, "Đơn hàng không thuộc producer này", StatusForbidden, nil)
	ErrInvalidAmount         = NewError(ErrCodePaymentCharge, "Tổng tiền của đơn hàng không hợp lệ", StatusBadRequest, nil)
	ErrNoCredentialAvailable = NewError(ErrCodePaymentCredential, "Producer chưa connect Mercado Pago và hệ thống chưa cấu hình access token fallback", StatusBadRequest, nil)
	ErrNoQrReturned          = NewError(ErrCodePaymentCharge, "Mercado Pago không trả về QR Code của PIX", StatusBadGateway, nil)
	ErrChargeRejected        = NewError(ErrCodePaymentCharge, "Không thể tạo mã PIX, vui lòng thử lại", StatusBadRequest, nil)

	// Business Logic Errors
	ErrInvalidState  = NewError(ErrCodeBusinessState, "Trạng thái không hợp lệ", StatusBadRequest, nil)
	ErrTerminalState = NewError(ErrCodeBusinessState, "Đơn hàng đã ở trạng thái kết thúc, không thể chuyển tiếp", StatusBadRequest, nil)
)

// ConvertMongoError chuyển đổi lỗi MongoDB sang lỗi hệ thống
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	// Không convert ErrNotFound (đã là lỗi hệ thống)
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}

	var mongoErr mongo.CommandError
	if errors.As(err, &mongoErr) {
		switch {
		case mongoErr.Code >= 100 && mongoErr.Code < 200:
			return ErrConnection
		case mongoErr.Code >= 400 && mongoErr.Code < 500:
			return NewError(ErrCodeDatabaseQuery, MsgDatabaseError, StatusInternalServerError, mongoErr.Message)
		}
	}

	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if we.Code == 11000 {
				return ErrDuplicate
			}
		}
	}

	// Mặc định: lỗi truy vấn chung, giữ message gốc trong Details
	return NewError(ErrCodeDatabaseQuery, MsgDatabaseError, StatusInternalServerError, err.Error())
}
