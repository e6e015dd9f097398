// Package dto - DTO cho domain webhook (log).
package dto

// WebhookLogCreateInput dữ liệu tạo webhook log (đường CRUD nội bộ; đường chính là handler notification).
type WebhookLogCreateInput struct {
	Source    string            `json:"source" validate:"required"`
	EventType string            `json:"eventType,omitempty"`
	PaymentID string            `json:"paymentId,omitempty"`
	RawBody   string            `json:"rawBody,omitempty"`
	IPAddress string            `json:"ipAddress,omitempty"`
	UserAgent string            `json:"userAgent,omitempty"`
	Headers   map[string]string `json:"requestHeaders,omitempty"`
}

// WebhookLogUpdateInput dữ liệu cập nhật webhook log.
type WebhookLogUpdateInput struct {
	Processed   bool   `json:"processed,omitempty"`
	ProcessNote string `json:"processNote,omitempty"`
}
