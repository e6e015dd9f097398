// Package paymentsvc - Đối soát webhook: notification chỉ là con trỏ, trạng thái thật
// luôn fetch lại từ provider. An toàn dưới delivery trùng, sai thứ tự và adversarial.
package paymentsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	ordermodels "mercado_local/internal/api/order/models"
	ordersvc "mercado_local/internal/api/order/service"
	mpprovider "mercado_local/internal/api/payment/provider"
	basesvc "mercado_local/internal/api/base/service"
	tenantsvc "mercado_local/internal/api/tenant/service"
	"mercado_local/internal/global"
	"mercado_local/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
)

// ReconcileOutcome kết quả xử lý một notification. Webhook handler luôn trả 200
// bất kể outcome — Reason chỉ phục vụ log và webhook_logs.
type ReconcileOutcome struct {
	PaymentID     string `json:"paymentId,omitempty"`
	Applied       bool   `json:"applied"`
	Reason        string `json:"reason,omitempty"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
}

// Reason codes cho outcome.
const (
	ReasonNoPaymentID   = "no_payment_id"
	ReasonOrderNotFound = "order_not_found"
	ReasonNoCredential  = "no_credential"
	ReasonFetchFailed   = "fetch_failed"
	ReasonAlreadyPaid   = "already_paid"
	ReasonPersistFailed = "persist_failed"
	ReasonApplied       = "applied"
)

// ReconcileService là writer duy nhất của paymentStatus theo notification từ provider.
type ReconcileService struct {
	Orders   OrderStore
	Resolver *CredentialResolver
	Client   *mpprovider.Client
}

// NewReconcileService tạo ReconcileService từ cấu hình global.
func NewReconcileService() (*ReconcileService, error) {
	orders, err := ordersvc.NewOrderService()
	if err != nil {
		return nil, fmt.Errorf("tạo OrderService: %w", err)
	}
	producers, err := tenantsvc.NewProducerService()
	if err != nil {
		return nil, fmt.Errorf("tạo ProducerService: %w", err)
	}
	cfg := global.MongoDB_ServerConfig
	return &ReconcileService{
		Orders:   orders,
		Resolver: NewCredentialResolver(producers, cfg.MpAccessTokenFallback),
		Client: mpprovider.NewClient(mpprovider.Options{
			APIBaseURL:  cfg.MpAPIBaseURL,
			AuthBaseURL: cfg.MpAuthBaseURL,
		}),
	}, nil
}

// ExtractPaymentID rút charge id từ notification theo danh sách ưu tiên tường minh:
// body.data.id → body.data_id → body.id → query["data.id"] → query["id"]. Mỗi bước thuần và total,
// bước đầu tiên có kết quả thắng. Không tìm thấy → chuỗi rỗng (no-op, không phải lỗi).
func ExtractPaymentID(body []byte, query map[string]string) string {
	var parsed map[string]interface{}
	if len(body) > 0 {
		decoder := json.NewDecoder(strings.NewReader(string(body)))
		decoder.UseNumber()
		_ = decoder.Decode(&parsed)
	}

	attempts := []func() string{
		func() string {
			data, ok := parsed["data"].(map[string]interface{})
			if !ok {
				return ""
			}
			return normalizeIDValue(data["id"])
		},
		func() string { return normalizeIDValue(parsed["data_id"]) },
		func() string { return normalizeIDValue(parsed["id"]) },
		func() string { return query["data.id"] },
		func() string { return query["id"] },
	}
	for _, attempt := range attempts {
		if id := attempt(); id != "" {
			return id
		}
	}
	return ""
}

// normalizeIDValue chuyển giá trị id về chuỗi, số format không exponent.
func normalizeIDValue(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case json.Number:
		return value.String()
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return ""
	}
}

// MapProviderStatus ánh xạ (status, status_detail) của provider sang paymentStatus local.
// Status lạ → pending (mặc định bảo thủ, chờ notification tiếp theo).
func MapProviderStatus(status, statusDetail string) string {
	switch status {
	case "approved":
		return ordermodels.PaymentStatusPaid
	case "pending", "in_process":
		return ordermodels.PaymentStatusPending
	case "cancelled", "rejected", "refunded", "charged_back":
		return ordermodels.PaymentStatusCancelled
	case "expired":
		return ordermodels.PaymentStatusExpired
	}
	if strings.Contains(statusDetail, "expired") {
		return ordermodels.PaymentStatusExpired
	}
	return ordermodels.PaymentStatusPending
}

// HandleNotification xử lý một notification từ provider. Không bao giờ trả error —
// mọi thất bại đều là no-op có log (provider phải luôn nhận 200, notification sau
// hoặc sweep định kỳ sẽ đối soát lại).
func (s *ReconcileService) HandleNotification(ctx context.Context, body []byte, query map[string]string) *ReconcileOutcome {
	paymentID := ExtractPaymentID(body, query)
	if paymentID == "" {
		logger.GetAppLogger().Debug("🔔 [MP WEBHOOK] Notification without payment id, ignored")
		return &ReconcileOutcome{Reason: ReasonNoPaymentID}
	}
	return s.ReconcilePayment(ctx, paymentID)
}

// ReconcilePayment fetch trạng thái thật của charge từ provider và áp lên đơn tương ứng.
// Dùng chung cho webhook và sweep định kỳ.
func (s *ReconcileService) ReconcilePayment(ctx context.Context, paymentID string) *ReconcileOutcome {
	outcome := &ReconcileOutcome{PaymentID: paymentID}

	order, err := s.Orders.FindByPaymentID(ctx, paymentID)
	if err != nil {
		logger.GetAppLogger().WithFields(map[string]interface{}{
			"paymentId": paymentID,
		}).Info("🔔 [MP WEBHOOK] No order matches payment id, ignored")
		outcome.Reason = ReasonOrderNotFound
		return outcome
	}

	cred, err := s.Resolver.Resolve(ctx, order.ProducerID)
	if err != nil {
		logger.GetErrorLogger().WithFields(map[string]interface{}{
			"paymentId": paymentID,
			"orderId":   order.ID.Hex(),
			"error":     err.Error(),
		}).Error("❌ [MP WEBHOOK] Cannot resolve credential, reconcile skipped")
		outcome.Reason = ReasonNoCredential
		return outcome
	}

	// Nguồn sự thật duy nhất: fetch lại từ provider, không tin body webhook
	payment, err := s.Client.GetPayment(ctx, cred.AccessToken, paymentID)
	if err != nil {
		logger.GetErrorLogger().WithFields(map[string]interface{}{
			"paymentId": paymentID,
			"orderId":   order.ID.Hex(),
			"error":     err.Error(),
		}).Error("❌ [MP WEBHOOK] Provider fetch failed, reconcile skipped")
		outcome.Reason = ReasonFetchFailed
		return outcome
	}

	mapped := MapProviderStatus(payment.Status, payment.StatusDetail)
	outcome.PaymentStatus = mapped

	// Monotonicity guard: paid là terminal. Kể cả chargeback về sau cũng không hạ cấp —
	// chargeback là quy trình riêng, không phải flip trạng thái ở đây.
	if order.PaymentStatus == ordermodels.PaymentStatusPaid {
		if mapped != ordermodels.PaymentStatusPaid {
			logger.GetAppLogger().WithFields(map[string]interface{}{
				"paymentId":      paymentID,
				"orderId":        order.ID.Hex(),
				"providerStatus": payment.Status,
			}).Warn("⚠️ [MP WEBHOOK] Order already paid, downgrade ignored")
		}
		outcome.Reason = ReasonAlreadyPaid
		outcome.PaymentStatus = ordermodels.PaymentStatusPaid
		return outcome
	}

	set := bson.M{
		"paymentStatus": mapped,
		"paymentId":     paymentID,
	}
	// Provider trả PIX fields mới hơn thì ghi đè (idempotent — cùng input cùng kết quả)
	qr := payment.PointOfInteraction.TransactionData
	if qr.QrCode != "" {
		set["pixQrCode"] = qr.QrCode
	}
	if qr.QrCodeBase64 != "" {
		set["pixQrCodeBase64"] = qr.QrCodeBase64
	}
	if qr.TicketURL != "" {
		set["pixTicketUrl"] = qr.TicketURL
	}
	if payment.DateOfExpiration != "" {
		if parsed, perr := time.Parse(mpTimeLayout, payment.DateOfExpiration); perr == nil {
			set["pixExpiresAt"] = parsed.UnixMilli()
		}
	}
	// Chỉ promote lifecycle khi lần đầu chuyển sang paid, không bao giờ hạ cấp
	if mapped == ordermodels.PaymentStatusPaid &&
		order.Status != ordermodels.OrderStatusConfirmed &&
		ordermodels.CanTransitionOrderStatus(order.Status, ordermodels.OrderStatusConfirmed) {
		set["status"] = ordermodels.OrderStatusConfirmed
	}

	if _, err := s.Orders.UpdateById(ctx, order.ID, &basesvc.UpdateData{Set: set}); err != nil {
		logger.GetErrorLogger().WithFields(map[string]interface{}{
			"paymentId": paymentID,
			"orderId":   order.ID.Hex(),
			"error":     err.Error(),
		}).Error("❌ [MP WEBHOOK] Failed to persist reconciled status")
		outcome.Reason = ReasonPersistFailed
		return outcome
	}

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"paymentId":      paymentID,
		"orderId":        order.ID.Hex(),
		"providerStatus": payment.Status,
		"paymentStatus":  mapped,
	}).Info("🔔 [MP WEBHOOK] Payment status reconciled")
	outcome.Applied = true
	outcome.Reason = ReasonApplied
	return outcome
}
