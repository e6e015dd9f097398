// Package models - Order thuộc domain order (orders).
// Đơn hàng do checkout tạo; subsystem thanh toán chỉ gắn field payment và chuyển trạng thái.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem snapshot một dòng hàng tại thời điểm checkout.
type OrderItem struct {
	ProductID   string  `json:"productId,omitempty" bson:"productId,omitempty"`
	ProductName string  `json:"productName" bson:"productName"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	UnitPrice   float64 `json:"unitPrice" bson:"unitPrice"`
}

// Order lưu đơn hàng (orders).
type Order struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	// Identity
	ProducerID  primitive.ObjectID `json:"producerId" bson:"producerId" index:"single:1"`
	OrderNumber string             `json:"orderNumber" bson:"orderNumber" index:"single:1"` // Số hiển thị cho khách (theo tenant + thời gian, không đảm bảo unique toàn cục)

	// Khách hàng (snapshot từ form checkout)
	CustomerName  string `json:"customerName" bson:"customerName"`
	CustomerEmail string `json:"customerEmail,omitempty" bson:"customerEmail,omitempty"`
	CustomerPhone string `json:"customerPhone,omitempty" bson:"customerPhone,omitempty"`

	// Tiền — bất biến sau khi tạo đơn. Subsystem thanh toán chỉ đọc Total, không bao giờ tính lại.
	Items    []OrderItem `json:"items" bson:"items"`
	Subtotal float64     `json:"subtotal" bson:"subtotal"`
	Total    float64     `json:"total" bson:"total"`

	// Payment
	PaymentMethod   string `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"` // pix | khác (ngoài phạm vi, chỉ lưu)
	PaymentProvider string `json:"paymentProvider,omitempty" bson:"paymentProvider,omitempty"`
	PaymentID       string `json:"paymentId,omitempty" bson:"paymentId,omitempty" index:"unique,sparse"` // Charge id do Mercado Pago cấp; sparse vì chỉ có sau khi tạo PIX
	PaymentStatus   string `json:"paymentStatus" bson:"paymentStatus" default:"pending" index:"single:1"`

	// PIX artifacts từ Mercado Pago
	PixQrCode       string `json:"pixQrCode,omitempty" bson:"pixQrCode,omitempty"`
	PixQrCodeBase64 string `json:"pixQrCodeBase64,omitempty" bson:"pixQrCodeBase64,omitempty"`
	PixTicketURL    string `json:"pixTicketUrl,omitempty" bson:"pixTicketUrl,omitempty"`
	PixExpiresAt    int64  `json:"pixExpiresAt,omitempty" bson:"pixExpiresAt,omitempty"` // Unix ms

	// Trạng thái vòng đời đơn (tách biệt với paymentStatus)
	Status string `json:"status" bson:"status" default:"new" index:"single:1"`

	// Metadata
	CreatedAt int64 `json:"createdAt" bson:"createdAt" index:"single:-1,order:-1"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt" index:"single:1"`
}
