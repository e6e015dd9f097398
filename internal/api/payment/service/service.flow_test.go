// Package paymentsvc - Test flow charge và đối soát end-to-end với store in-memory
// và httptest server giả làm Mercado Pago.
package paymentsvc

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	basesvc "mercado_local/internal/api/base/service"
	ordermodels "mercado_local/internal/api/order/models"
	mpprovider "mercado_local/internal/api/payment/provider"
	tenantmodels "mercado_local/internal/api/tenant/models"
	"mercado_local/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// memOrderStore triển khai OrderStore trên map, đủ cho flow test không cần Mongo.
type memOrderStore struct {
	mu          sync.Mutex
	orders      map[primitive.ObjectID]ordermodels.Order
	updateCalls int
}

func newMemOrderStore(orders ...ordermodels.Order) *memOrderStore {
	s := &memOrderStore{orders: make(map[primitive.ObjectID]ordermodels.Order)}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *memOrderStore) FindOneById(_ context.Context, id primitive.ObjectID) (ordermodels.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return ordermodels.Order{}, common.ErrNotFound
	}
	return order, nil
}

func (s *memOrderStore) FindByPaymentID(_ context.Context, paymentID string) (ordermodels.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.PaymentID == paymentID {
			return order, nil
		}
	}
	return ordermodels.Order{}, common.ErrNotFound
}

func (s *memOrderStore) Find(_ context.Context, _ interface{}, _ *options.FindOptions) ([]ordermodels.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]ordermodels.Order, 0, len(s.orders))
	for _, order := range s.orders {
		result = append(result, order)
	}
	return result, nil
}

func (s *memOrderStore) UpdateById(_ context.Context, id primitive.ObjectID, data interface{}) (ordermodels.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++

	order, ok := s.orders[id]
	if !ok {
		return ordermodels.Order{}, common.ErrNotFound
	}
	update, ok := data.(*basesvc.UpdateData)
	if !ok {
		return ordermodels.Order{}, fmt.Errorf("update không phải *UpdateData: %T", data)
	}
	for key, value := range update.Set {
		switch key {
		case "paymentMethod":
			order.PaymentMethod = value.(string)
		case "paymentProvider":
			order.PaymentProvider = value.(string)
		case "paymentId":
			order.PaymentID = value.(string)
		case "paymentStatus":
			order.PaymentStatus = value.(string)
		case "pixQrCode":
			order.PixQrCode = value.(string)
		case "pixQrCodeBase64":
			order.PixQrCodeBase64 = value.(string)
		case "pixTicketUrl":
			order.PixTicketURL = value.(string)
		case "pixExpiresAt":
			order.PixExpiresAt = value.(int64)
		case "status":
			order.Status = value.(string)
		}
	}
	s.orders[id] = order
	return order, nil
}

func (s *memOrderStore) get(t *testing.T, id primitive.ObjectID) ordermodels.Order {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		t.Fatalf("Không tìm thấy order %s trong store", id.Hex())
	}
	return order
}

// memProducerStore triển khai ProducerStore trên map.
type memProducerStore struct {
	producers map[primitive.ObjectID]tenantmodels.Producer
}

func newMemProducerStore(producers ...tenantmodels.Producer) *memProducerStore {
	s := &memProducerStore{producers: make(map[primitive.ObjectID]tenantmodels.Producer)}
	for _, p := range producers {
		s.producers[p.ID] = p
	}
	return s
}

func (s *memProducerStore) FindOneById(_ context.Context, id primitive.ObjectID) (tenantmodels.Producer, error) {
	producer, ok := s.producers[id]
	if !ok {
		return tenantmodels.Producer{}, common.ErrNotFound
	}
	return producer, nil
}

func connectedProducer() tenantmodels.Producer {
	return tenantmodels.Producer{
		ID:            primitive.NewObjectID(),
		StoreName:     "Quitanda da Ana",
		MpConnected:   true,
		MpAccessToken: "APP_USR-producer-token",
	}
}

// paymentJSON dựng response /v1/payments của provider cho test.
func paymentJSON(id, status, detail, dateOfExpiration string) string {
	return fmt.Sprintf(`{
		"id": %s,
		"status": %q,
		"status_detail": %q,
		"date_of_expiration": %q,
		"point_of_interaction": {
			"transaction_data": {
				"qr_code": "pix-qr-payload",
				"qr_code_base64": "cGl4LXFyLXBheWxvYWQ=",
				"ticket_url": "https://mp.example.com/ticket/555"
			}
		}
	}`, id, status, detail, dateOfExpiration)
}

func newReconcileService(orders *memOrderStore, producers *memProducerStore, serverURL string) *ReconcileService {
	return &ReconcileService{
		Orders:   orders,
		Resolver: NewCredentialResolver(producers, ""),
		Client:   mpprovider.NewClient(mpprovider.Options{APIBaseURL: serverURL, AuthBaseURL: serverURL}),
	}
}

func TestReconcilePayment_PaidIsNeverDowngraded(t *testing.T) {
	producer := connectedProducer()
	order := ordermodels.Order{
		ID:            primitive.NewObjectID(),
		ProducerID:    producer.ID,
		PaymentID:     "555",
		PaymentStatus: ordermodels.PaymentStatusPaid,
		Status:        ordermodels.OrderStatusConfirmed,
	}
	orders := newMemOrderStore(order)

	// Provider đã flip sang cancelled (ví dụ chargeback) — đơn đã paid không được hạ cấp
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, paymentJSON("555", "cancelled", "", ""))
	}))
	defer server.Close()

	svc := newReconcileService(orders, newMemProducerStore(producer), server.URL)
	outcome := svc.ReconcilePayment(context.Background(), "555")

	if outcome.Applied {
		t.Error("Outcome Applied = true, muốn false khi đơn đã paid")
	}
	if outcome.Reason != ReasonAlreadyPaid {
		t.Errorf("Outcome Reason = %q, muốn %q", outcome.Reason, ReasonAlreadyPaid)
	}
	if outcome.PaymentStatus != ordermodels.PaymentStatusPaid {
		t.Errorf("Outcome PaymentStatus = %q, muốn paid", outcome.PaymentStatus)
	}

	stored := orders.get(t, order.ID)
	if stored.PaymentStatus != ordermodels.PaymentStatusPaid {
		t.Errorf("PaymentStatus trong store = %q, muốn vẫn paid", stored.PaymentStatus)
	}
	if orders.updateCalls != 0 {
		t.Errorf("UpdateById được gọi %d lần, muốn 0 (no-op)", orders.updateCalls)
	}
}

func TestReconcilePayment_OutOfOrderNotificationsConverge(t *testing.T) {
	producer := connectedProducer()
	order := ordermodels.Order{
		ID:            primitive.NewObjectID(),
		ProducerID:    producer.ID,
		PaymentID:     "555",
		PaymentStatus: ordermodels.PaymentStatusPending,
		Status:        ordermodels.OrderStatusAwaitingConfirmation,
	}
	orders := newMemOrderStore(order)

	// Trạng thái provider thay đổi giữa các notification — mỗi lần đều fetch lại
	var mu sync.Mutex
	providerStatus := "pending"
	expiration := "2026-09-01T12:00:00.000-03:00"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		status := providerStatus
		mu.Unlock()
		fmt.Fprint(w, paymentJSON("555", status, "", expiration))
	}))
	defer server.Close()

	svc := newReconcileService(orders, newMemProducerStore(producer), server.URL)
	ctx := context.Background()

	// Notification đầu: provider vẫn pending
	outcome := svc.ReconcilePayment(ctx, "555")
	if !outcome.Applied || outcome.PaymentStatus != ordermodels.PaymentStatusPending {
		t.Fatalf("Lần 1: outcome = %+v, muốn applied với pending", outcome)
	}

	// Provider chuyển approved, notification thứ hai áp paid + promote confirmed
	mu.Lock()
	providerStatus = "approved"
	mu.Unlock()
	outcome = svc.ReconcilePayment(ctx, "555")
	if !outcome.Applied || outcome.PaymentStatus != ordermodels.PaymentStatusPaid {
		t.Fatalf("Lần 2: outcome = %+v, muốn applied với paid", outcome)
	}

	stored := orders.get(t, order.ID)
	if stored.PaymentStatus != ordermodels.PaymentStatusPaid {
		t.Errorf("PaymentStatus = %q, muốn paid", stored.PaymentStatus)
	}
	if stored.Status != ordermodels.OrderStatusConfirmed {
		t.Errorf("Status = %q, muốn confirmed", stored.Status)
	}

	// date_of_expiration mới hơn từ provider phải được ghi lại
	wantExpiry, err := time.Parse(mpTimeLayout, expiration)
	if err != nil {
		t.Fatalf("Parse expiration mẫu thất bại: %v", err)
	}
	if stored.PixExpiresAt != wantExpiry.UnixMilli() {
		t.Errorf("PixExpiresAt = %d, muốn %d", stored.PixExpiresAt, wantExpiry.UnixMilli())
	}

	// Notification trễ (stale) đến sau cùng: không hạ cấp, trạng thái hội tụ về paid
	outcome = svc.ReconcilePayment(ctx, "555")
	if outcome.Applied || outcome.Reason != ReasonAlreadyPaid {
		t.Errorf("Lần 3: outcome = %+v, muốn already_paid no-op", outcome)
	}
	if stored := orders.get(t, order.ID); stored.PaymentStatus != ordermodels.PaymentStatusPaid {
		t.Errorf("PaymentStatus sau notification trễ = %q, muốn vẫn paid", stored.PaymentStatus)
	}
}

func TestReconcilePayment_UnmatchedPaymentIsNoop(t *testing.T) {
	orders := newMemOrderStore()

	// Không đơn nào khớp thì không được gọi sang provider
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("Provider bị gọi ngoài ý muốn: %s %s", r.Method, r.URL.Path)
	}))
	defer server.Close()

	svc := newReconcileService(orders, newMemProducerStore(), server.URL)
	outcome := svc.ReconcilePayment(context.Background(), "999")

	if outcome.Applied {
		t.Error("Outcome Applied = true, muốn false khi không có đơn khớp")
	}
	if outcome.Reason != ReasonOrderNotFound {
		t.Errorf("Outcome Reason = %q, muốn %q", outcome.Reason, ReasonOrderNotFound)
	}
	if orders.updateCalls != 0 {
		t.Errorf("UpdateById được gọi %d lần, muốn 0", orders.updateCalls)
	}
}

func TestHandleNotification_DuplicateDeliveryIdempotent(t *testing.T) {
	producer := connectedProducer()
	order := ordermodels.Order{
		ID:            primitive.NewObjectID(),
		ProducerID:    producer.ID,
		Total:         176.70,
		PaymentID:     "555",
		PaymentStatus: ordermodels.PaymentStatusPending,
		Status:        ordermodels.OrderStatusAwaitingConfirmation,
	}
	orders := newMemOrderStore(order)

	var mu sync.Mutex
	fetches := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		fetches++
		mu.Unlock()
		if r.URL.Path != "/v1/payments/555" {
			t.Errorf("Path = %q, muốn /v1/payments/555", r.URL.Path)
		}
		fmt.Fprint(w, paymentJSON("555", "approved", "accredited", ""))
	}))
	defer server.Close()

	svc := newReconcileService(orders, newMemProducerStore(producer), server.URL)
	ctx := context.Background()
	body := []byte(`{"type":"payment","data":{"id":555}}`)

	outcome := svc.HandleNotification(ctx, body, nil)
	if !outcome.Applied || outcome.PaymentStatus != ordermodels.PaymentStatusPaid {
		t.Fatalf("Lần giao đầu: outcome = %+v, muốn applied với paid", outcome)
	}

	// Provider giao lại cùng notification — phải là no-op, không ghi thêm lần nào
	outcome = svc.HandleNotification(ctx, body, nil)
	if outcome.Applied {
		t.Error("Lần giao trùng: Applied = true, muốn false")
	}
	if outcome.Reason != ReasonAlreadyPaid {
		t.Errorf("Lần giao trùng: Reason = %q, muốn %q", outcome.Reason, ReasonAlreadyPaid)
	}

	// Mỗi lần giao đều fetch lại từ provider (không tin body webhook)
	mu.Lock()
	if fetches != 2 {
		t.Errorf("Provider fetch %d lần, muốn 2", fetches)
	}
	mu.Unlock()

	stored := orders.get(t, order.ID)
	if stored.PaymentStatus != ordermodels.PaymentStatusPaid || stored.Status != ordermodels.OrderStatusConfirmed {
		t.Errorf("Order cuối = (%q, %q), muốn (paid, confirmed)", stored.PaymentStatus, stored.Status)
	}
	if orders.updateCalls != 1 {
		t.Errorf("UpdateById được gọi %d lần, muốn 1", orders.updateCalls)
	}
}

func TestCreateCharge_RetryReusesIdempotencyKey(t *testing.T) {
	producer := connectedProducer()
	order := ordermodels.Order{
		ID:            primitive.NewObjectID(),
		ProducerID:    producer.ID,
		OrderNumber:   "20260831-001",
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
		Total:         176.70,
		PaymentStatus: ordermodels.PaymentStatusPending,
		Status:        ordermodels.OrderStatusNew,
	}
	orders := newMemOrderStore(order)
	producers := newMemProducerStore(producer)

	var mu sync.Mutex
	var idempotencyKeys []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payments" {
			t.Errorf("Request sai: %s %s", r.Method, r.URL.Path)
		}
		mu.Lock()
		idempotencyKeys = append(idempotencyKeys, r.Header.Get("X-Idempotency-Key"))
		mu.Unlock()
		fmt.Fprint(w, paymentJSON("555", "pending", "pending_waiting_transfer", "2026-09-01T12:00:00.000-03:00"))
	}))
	defer server.Close()

	svc := &ChargeService{
		Orders:    orders,
		Producers: producers,
		Resolver:  NewCredentialResolver(producers, ""),
		Client: mpprovider.NewClient(mpprovider.Options{
			APIBaseURL:  server.URL,
			AuthBaseURL: server.URL,
		}),
		WebhookURL: "https://api.example.com/api/v1/webhooks/mercadopago",
	}
	ctx := context.Background()

	first, err := svc.CreateCharge(ctx, order.ID, producer.ID, "")
	if err != nil {
		t.Fatalf("CreateCharge lần 1 thất bại: %v", err)
	}
	// Retry từ checkout (ví dụ client timeout) tạo lại charge cho cùng đơn
	second, err := svc.CreateCharge(ctx, order.ID, producer.ID, "")
	if err != nil {
		t.Fatalf("CreateCharge lần 2 thất bại: %v", err)
	}

	if first.PaymentID != "555" || second.PaymentID != "555" {
		t.Errorf("PaymentID = (%q, %q), muốn cùng 555", first.PaymentID, second.PaymentID)
	}

	// Cùng đơn phải sinh cùng idempotency key để provider dedupe
	wantKey := "pix_" + order.ID.Hex()
	mu.Lock()
	if len(idempotencyKeys) != 2 {
		t.Fatalf("Provider nhận %d request, muốn 2", len(idempotencyKeys))
	}
	for i, key := range idempotencyKeys {
		if key != wantKey {
			t.Errorf("Idempotency key lần %d = %q, muốn %q", i+1, key, wantKey)
		}
	}
	mu.Unlock()

	stored := orders.get(t, order.ID)
	if stored.PaymentID != "555" {
		t.Errorf("PaymentID trong store = %q, muốn 555", stored.PaymentID)
	}
	if stored.PaymentStatus != ordermodels.PaymentStatusPending {
		t.Errorf("PaymentStatus = %q, muốn pending", stored.PaymentStatus)
	}
	if stored.Status != ordermodels.OrderStatusAwaitingConfirmation {
		t.Errorf("Status = %q, muốn awaiting_confirmation", stored.Status)
	}
	if stored.PixQrCode != "pix-qr-payload" || stored.PixTicketURL != "https://mp.example.com/ticket/555" {
		t.Errorf("PIX artifacts không được gắn lên đơn: %+v", stored)
	}
}
