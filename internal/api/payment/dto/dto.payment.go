// Package dto - DTO cho domain payment (connect Mercado Pago + tạo PIX).
package dto

// ConnectStartResponse URL authorization cho browser của producer follow.
type ConnectStartResponse struct {
	AuthURL string `json:"authUrl"`
}

// ConnectCompleteInput dữ liệu callback OAuth (code + state từ query).
type ConnectCompleteInput struct {
	Code  string `json:"code" validate:"required"`
	State string `json:"state" validate:"required"`
}

// ConnectCompleteResponse kết quả connect thành công.
type ConnectCompleteResponse struct {
	ProducerID  string `json:"producerId"`
	MpUserID    string `json:"mpUserId,omitempty"`
	MpConnected bool   `json:"mpConnected"`
}

// ChargeCreateInput dữ liệu tạo mã PIX cho một đơn hàng.
// Số tiền KHÔNG nằm trong input — luôn đọc từ Total đã lưu trên đơn.
type ChargeCreateInput struct {
	OrderID     string `json:"orderId" validate:"required"`
	OrderNumber string `json:"orderNumber,omitempty"`
}

// ChargeCreateResponse artifacts PIX trả về cho checkout UI.
type ChargeCreateResponse struct {
	PaymentID    string `json:"paymentId"`
	QrCode       string `json:"qrCode"`
	QrCodeBase64 string `json:"qrCodeBase64,omitempty"`
	TicketURL    string `json:"ticketUrl,omitempty"`
	ExpiresAt    int64  `json:"expiresAt"` // Unix ms
}
