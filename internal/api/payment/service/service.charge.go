// Package paymentsvc - Tạo charge PIX cho đơn hàng (idempotent, số tiền đọc từ đơn).
package paymentsvc

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	ordermodels "mercado_local/internal/api/order/models"
	ordersvc "mercado_local/internal/api/order/service"
	paymentdto "mercado_local/internal/api/payment/dto"
	mpprovider "mercado_local/internal/api/payment/provider"
	basesvc "mercado_local/internal/api/base/service"
	tenantsvc "mercado_local/internal/api/tenant/service"
	"mercado_local/internal/common"
	"mercado_local/internal/global"
	"mercado_local/internal/logger"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// ProviderName ghi lên order.paymentProvider.
	ProviderName = "mercadopago"

	// pixExpiryWindow hạn thanh toán của mã PIX tính từ lúc tạo.
	pixExpiryWindow = 30 * time.Minute

	// fallbackPayerEmail provider bắt buộc email hợp lệ; đơn không có email thì dùng placeholder.
	fallbackPayerEmail = "cliente@exemplo.com"

	// mpTimeLayout định dạng thời gian của Mercado Pago (ISO-8601 có milli + offset).
	mpTimeLayout = "2006-01-02T15:04:05.000-07:00"
)

// ChargeService tạo charge PIX và gắn artifacts lên đơn hàng.
type ChargeService struct {
	Orders     OrderStore
	Producers  ProducerStore
	Resolver   *CredentialResolver
	Client     *mpprovider.Client
	WebhookURL string
}

// NewChargeService tạo ChargeService từ cấu hình global.
func NewChargeService() (*ChargeService, error) {
	orders, err := ordersvc.NewOrderService()
	if err != nil {
		return nil, fmt.Errorf("tạo OrderService: %w", err)
	}
	producers, err := tenantsvc.NewProducerService()
	if err != nil {
		return nil, fmt.Errorf("tạo ProducerService: %w", err)
	}
	cfg := global.MongoDB_ServerConfig
	return &ChargeService{
		Orders:    orders,
		Producers: producers,
		Resolver:  NewCredentialResolver(producers, cfg.MpAccessTokenFallback),
		Client: mpprovider.NewClient(mpprovider.Options{
			APIBaseURL:   cfg.MpAPIBaseURL,
			AuthBaseURL:  cfg.MpAuthBaseURL,
			ClientID:     cfg.MpClientID,
			ClientSecret: cfg.MpClientSecret,
			RedirectURI:  cfg.MpRedirectURI,
		}),
		WebhookURL: cfg.MpWebhookURL,
	}, nil
}

// CreateCharge tạo đúng một charge PIX cho đơn, gắn kết quả lên đơn.
// Idempotency key suy từ order id ("pix_<order-id>") — retry từ checkout không tạo charge trùng
// phía provider. Số tiền luôn đọc từ Total đã lưu, không bao giờ từ input.
// Lỗi: ErrOrderNotFound, ErrTenantMismatch, ErrInvalidAmount, ErrNoCredentialAvailable,
// ErrChargeRejected, ErrNoQrReturned, ErrPersistFailed.
func (s *ChargeService) CreateCharge(ctx context.Context, orderID, producerID primitive.ObjectID, displayNumber string) (*paymentdto.ChargeCreateResponse, error) {
	order, err := s.Orders.FindOneById(ctx, orderID)
	if err != nil {
		return nil, common.ErrOrderNotFound
	}
	if order.ProducerID != producerID {
		return nil, common.ErrTenantMismatch
	}

	if math.IsNaN(order.Total) || math.IsInf(order.Total, 0) {
		return nil, common.ErrInvalidAmount
	}
	amount := decimal.NewFromFloat(order.Total).Round(2)
	if !amount.IsPositive() {
		return nil, common.ErrInvalidAmount
	}

	cred, err := s.Resolver.Resolve(ctx, producerID)
	if err != nil {
		return nil, err
	}

	producer, err := s.Producers.FindOneById(ctx, producerID)
	if err != nil {
		return nil, common.ErrTenantNotFound
	}

	if displayNumber == "" {
		displayNumber = order.OrderNumber
	}
	if displayNumber == "" {
		displayNumber = order.ID.Hex()
	}

	payerEmail := order.CustomerEmail
	if !strings.Contains(payerEmail, "@") {
		payerEmail = fallbackPayerEmail
	}

	localExpiry := time.Now().Add(pixExpiryWindow)
	transactionAmount, _ := amount.Float64()
	request := &mpprovider.ChargeRequest{
		TransactionAmount: transactionAmount,
		Description:       fmt.Sprintf("Pedido %s - %s", displayNumber, producer.StoreName),
		PaymentMethodID:   "pix",
		Payer: mpprovider.Payer{
			Email:     payerEmail,
			FirstName: order.CustomerName,
		},
		ExternalReference: displayNumber,
		Metadata: map[string]string{
			"order_id":  order.ID.Hex(),
			"tenant_id": producerID.Hex(),
		},
		DateOfExpiration: localExpiry.Format(mpTimeLayout),
		NotificationURL:  s.WebhookURL,
	}

	payment, err := s.Client.CreatePixCharge(ctx, cred.AccessToken, "pix_"+order.ID.Hex(), request)
	if err != nil {
		logger.GetErrorLogger().WithFields(map[string]interface{}{
			"orderId":          orderID.Hex(),
			"credentialSource": cred.Source,
			"error":            err.Error(),
		}).Error("❌ [PIX] Charge creation rejected by provider")
		return nil, err
	}

	qr := payment.PointOfInteraction.TransactionData
	if qr.QrCode == "" && qr.QrCodeBase64 == "" {
		// 2xx nhưng không có QR nào — vi phạm contract của provider, không im lặng bỏ qua
		return nil, common.ErrNoQrReturned
	}

	expiresAt := localExpiry.UnixMilli()
	if payment.DateOfExpiration != "" {
		if parsed, perr := time.Parse(mpTimeLayout, payment.DateOfExpiration); perr == nil {
			expiresAt = parsed.UnixMilli()
		}
	}

	set := bson.M{
		"paymentMethod":   "pix",
		"paymentProvider": ProviderName,
		"paymentId":       payment.ID.String(),
		"paymentStatus":   ordermodels.PaymentStatusPending,
		"pixQrCode":       qr.QrCode,
		"pixQrCodeBase64": qr.QrCodeBase64,
		"pixTicketUrl":    qr.TicketURL,
		"pixExpiresAt":    expiresAt,
	}
	if order.Status == ordermodels.OrderStatusNew {
		set["status"] = ordermodels.OrderStatusAwaitingConfirmation
	}
	if _, err := s.Orders.UpdateById(ctx, orderID, &basesvc.UpdateData{Set: set}); err != nil {
		// Đơn biến mất giữa chừng (xóa concurrent) — charge đã tồn tại phía provider nhưng không gắn được
		return nil, common.ErrPersistFailed
	}

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"orderId":          orderID.Hex(),
		"paymentId":        payment.ID.String(),
		"amount":           amount.StringFixed(2),
		"credentialSource": cred.Source,
	}).Info("💳 [PIX] Charge created and attached to order")

	return &paymentdto.ChargeCreateResponse{
		PaymentID:    payment.ID.String(),
		QrCode:       qr.QrCode,
		QrCodeBase64: qr.QrCodeBase64,
		TicketURL:    qr.TicketURL,
		ExpiresAt:    expiresAt,
	}, nil
}
