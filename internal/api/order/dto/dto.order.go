// Package dto - DTO cho domain order.
package dto

// OrderCreateInput dữ liệu tạo đơn (checkout gọi nội bộ; CRUD public chỉ đọc).
type OrderCreateInput struct {
	ProducerID    string           `json:"producerId" validate:"required"`
	OrderNumber   string           `json:"orderNumber" validate:"required"`
	CustomerName  string           `json:"customerName" validate:"required,no_xss"`
	CustomerEmail string           `json:"customerEmail,omitempty" validate:"omitempty,email"`
	CustomerPhone string           `json:"customerPhone,omitempty"`
	Items         []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	Subtotal      float64          `json:"subtotal" validate:"gte=0"`
	Total         float64          `json:"total" validate:"gt=0"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
}

// OrderItemInput một dòng hàng trong input tạo đơn.
type OrderItemInput struct {
	ProductID   string  `json:"productId,omitempty"`
	ProductName string  `json:"productName" validate:"required,no_xss"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
}

// OrderUpdateInput dữ liệu cập nhật đơn qua CRUD (chỉ thông tin khách; tiền và payment bất biến qua đường này).
type OrderUpdateInput struct {
	CustomerName  string `json:"customerName,omitempty" validate:"omitempty,no_xss"`
	CustomerEmail string `json:"customerEmail,omitempty" validate:"omitempty,email"`
	CustomerPhone string `json:"customerPhone,omitempty"`
}

// OrderStatusUpdateInput dữ liệu chuyển trạng thái thủ công.
type OrderStatusUpdateInput struct {
	Status string `json:"status" validate:"required,order_status"`
}
