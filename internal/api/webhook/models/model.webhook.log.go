// Package models - WebhookLog thuộc domain webhook (webhook_logs).
// Lưu mọi notification nhận được từ Mercado Pago để debug và audit; tự xóa sau 30 ngày.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WebhookLog lưu log của tất cả webhook nhận được.
type WebhookLog struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	// Source
	Source    string `json:"source" bson:"source" index:"single:1"`       // "mercadopago"
	EventType string `json:"eventType,omitempty" bson:"eventType,omitempty"` // type/topic từ notification nếu có
	PaymentID string `json:"paymentId,omitempty" bson:"paymentId,omitempty" index:"single:1"` // Charge id đã rút được (rỗng nếu không có)

	// Request
	RequestHeaders map[string]string `json:"requestHeaders,omitempty" bson:"requestHeaders,omitempty"`
	QueryParams    map[string]string `json:"queryParams,omitempty" bson:"queryParams,omitempty"`
	RawBody        string            `json:"rawBody,omitempty" bson:"rawBody,omitempty"`

	// Processing
	Processed    bool   `json:"processed" bson:"processed" index:"single:1"`
	ProcessNote  string `json:"processNote,omitempty" bson:"processNote,omitempty"` // Reason code từ reconciler (applied, order_not_found...)
	ProcessedAt  int64  `json:"processedAt,omitempty" bson:"processedAt,omitempty"`

	// Metadata
	IPAddress string `json:"ipAddress,omitempty" bson:"ipAddress,omitempty"`
	UserAgent string `json:"userAgent,omitempty" bson:"userAgent,omitempty"`

	// Timestamps. ExpireAt là BSON date cho TTL index (Mongo chỉ expire theo date, không theo int64).
	ReceivedAt int64     `json:"receivedAt" bson:"receivedAt" index:"single:-1,order:-1"` // Unix ms
	ExpireAt   time.Time `json:"-" bson:"expireAt" index:"ttl:0"`
	CreatedAt  int64     `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64     `json:"updatedAt" bson:"updatedAt"`
}
