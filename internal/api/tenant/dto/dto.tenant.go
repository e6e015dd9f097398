// Package dto - DTO cho domain tenant (producer).
package dto

// ProducerCreateInput dữ liệu tạo producer mới (admin hoặc onboarding).
type ProducerCreateInput struct {
	UserID    string `json:"userId" validate:"required"`
	StoreName string `json:"storeName" validate:"required,no_xss"`
	OwnerName string `json:"ownerName,omitempty" validate:"omitempty,no_xss"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty"`
	Plan      string `json:"plan,omitempty" validate:"omitempty,plan"`
}

// ProducerUpdateInput dữ liệu cập nhật producer.
// Credential Mercado Pago không cập nhật qua đây — chỉ qua connect/disconnect flow.
type ProducerUpdateInput struct {
	StoreName string `json:"storeName,omitempty" validate:"omitempty,no_xss"`
	OwnerName string `json:"ownerName,omitempty" validate:"omitempty,no_xss"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty"`
	Plan      string `json:"plan,omitempty" validate:"omitempty,plan"`
	Active    bool   `json:"active,omitempty"`
}

// ProducerDisconnectResponse kết quả sau khi gỡ credential Mercado Pago.
type ProducerDisconnectResponse struct {
	ProducerID  string `json:"producerId"`
	MpConnected bool   `json:"mpConnected"`
}
