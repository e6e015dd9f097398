// Package mpprovider - Test client Mercado Pago với httptest server giả làm provider.
package mpprovider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"mercado_local/internal/common"
)

func newTestClient(serverURL string) *Client {
	return NewClient(Options{
		APIBaseURL:   serverURL,
		AuthBaseURL:  serverURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:3000/mp/callback",
	})
}

func TestAuthorizationURL(t *testing.T) {
	client := newTestClient("https://auth.example.com")

	raw := client.AuthorizationURL("state-token-xyz")
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("AuthorizationURL trả về URL không parse được: %v", err)
	}
	if parsed.Path != "/authorization" {
		t.Errorf("Path = %q, muốn /authorization", parsed.Path)
	}

	q := parsed.Query()
	expects := map[string]string{
		"client_id":     "client-id",
		"response_type": "code",
		"platform_id":   "mp",
		"redirect_uri":  "http://localhost:3000/mp/callback",
		"state":         "state-token-xyz",
	}
	for key, want := range expects {
		if got := q.Get(key); got != want {
			t.Errorf("Query param %s = %q, muốn %q", key, got, want)
		}
	}
}

func TestExchangeCode_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/oauth/token" {
			t.Errorf("Request sai: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q, muốn form-encoded", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm lỗi: %v", err)
		}
		if r.PostForm.Get("grant_type") != "authorization_code" {
			t.Errorf("grant_type = %q", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("code") != "auth-code-123" {
			t.Errorf("code = %q", r.PostForm.Get("code"))
		}
		if r.PostForm.Get("client_secret") != "client-secret" {
			t.Errorf("client_secret = %q", r.PostForm.Get("client_secret"))
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "APP_USR-access",
			"refresh_token": "TG-refresh",
			"user_id":       987654321,
			"expires_in":    21600,
		})
	}))
	defer server.Close()

	token, err := newTestClient(server.URL).ExchangeCode(context.Background(), "auth-code-123")
	if err != nil {
		t.Fatalf("ExchangeCode trả về lỗi: %v", err)
	}
	if token.AccessToken != "APP_USR-access" {
		t.Errorf("AccessToken = %q", token.AccessToken)
	}
	if token.RefreshToken != "TG-refresh" {
		t.Errorf("RefreshToken = %q", token.RefreshToken)
	}
	if token.UserID.String() != "987654321" {
		t.Errorf("UserID = %q, muốn 987654321", token.UserID.String())
	}
	if token.ExpiresIn != 21600 {
		t.Errorf("ExpiresIn = %d, muốn 21600", token.ExpiresIn)
	}
}

func TestExchangeCode_ExpiresInFloor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Provider trả expires_in quá nhỏ (hoặc thiếu)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "a",
			"refresh_token": "r",
			"expires_in":    5,
		})
	}))
	defer server.Close()

	token, err := newTestClient(server.URL).ExchangeCode(context.Background(), "code")
	if err != nil {
		t.Fatalf("ExchangeCode trả về lỗi: %v", err)
	}
	if token.ExpiresIn != 60 {
		t.Errorf("ExpiresIn phải được sàn ở 60, nhận được %d", token.ExpiresIn)
	}
}

func TestExchangeCode_ProviderRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid_grant"})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ExchangeCode(context.Background(), "bad-code")
	if !errors.Is(err, common.ErrExchangeFailed) {
		t.Errorf("Non-2xx phải trả ErrExchangeFailed, nhận được: %v", err)
	}
	// Detail của provider được giữ lại trong Details để debug (không leak nguyên body)
	var commonErr *common.Error
	if !errors.As(err, &commonErr) {
		t.Fatalf("Lỗi phải là *common.Error, nhận được: %T", err)
	}
	detail, _ := commonErr.Details.(string)
	if !strings.Contains(detail, "invalid_grant") {
		t.Errorf("Details phải chứa message của provider, nhận được: %v", commonErr.Details)
	}
}

func TestExchangeCode_MissingTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "only-access"})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ExchangeCode(context.Background(), "code")
	if !errors.Is(err, common.ErrExchangeFailed) {
		t.Errorf("Thiếu refresh_token phải trả ErrExchangeFailed, nhận được: %v", err)
	}
}

func TestCreatePixCharge_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payments" {
			t.Errorf("Request sai: %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer APP_USR-token" {
			t.Errorf("Authorization = %q", auth)
		}
		if key := r.Header.Get("X-Idempotency-Key"); key != "pix_abc123" {
			t.Errorf("X-Idempotency-Key = %q, muốn pix_abc123", key)
		}

		var body ChargeRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Body không decode được: %v", err)
		}
		if body.PaymentMethodID != "pix" {
			t.Errorf("payment_method_id = %q, muốn pix", body.PaymentMethodID)
		}
		if body.TransactionAmount != 176.70 {
			t.Errorf("transaction_amount = %v, muốn 176.70", body.TransactionAmount)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     555,
			"status": "pending",
			"point_of_interaction": map[string]interface{}{
				"transaction_data": map[string]string{
					"qr_code":        "00020126...",
					"qr_code_base64": "iVBORw0KGgo=",
					"ticket_url":     "https://mp.test/ticket/555",
				},
			},
		})
	}))
	defer server.Close()

	payment, err := newTestClient(server.URL).CreatePixCharge(context.Background(), "APP_USR-token", "pix_abc123", &ChargeRequest{
		TransactionAmount: 176.70,
		Description:       "Pedido FP-001 - Quinta da Serra",
		PaymentMethodID:   "pix",
		Payer:             Payer{Email: "cliente@exemplo.com"},
		ExternalReference: "abc123",
	})
	if err != nil {
		t.Fatalf("CreatePixCharge trả về lỗi: %v", err)
	}
	if payment.ID.String() != "555" {
		t.Errorf("Payment ID = %q, muốn 555", payment.ID.String())
	}
	qr := payment.PointOfInteraction.TransactionData
	if qr.QrCode == "" || qr.QrCodeBase64 == "" {
		t.Error("Response phải có đủ qr_code và qr_code_base64")
	}
	if qr.TicketURL != "https://mp.test/ticket/555" {
		t.Errorf("TicketURL = %q", qr.TicketURL)
	}
}

func TestCreatePixCharge_ProviderRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "collector not enabled for pix"})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CreatePixCharge(context.Background(), "token", "pix_x", &ChargeRequest{PaymentMethodID: "pix"})
	if !errors.Is(err, common.ErrChargeRejected) {
		t.Errorf("Non-2xx phải trả ErrChargeRejected, nhận được: %v", err)
	}
}

func TestGetPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/payments/555" {
			t.Errorf("Request sai: %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer fetch-token" {
			t.Errorf("Authorization = %q", auth)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            555,
			"status":        "approved",
			"status_detail": "accredited",
		})
	}))
	defer server.Close()

	payment, err := newTestClient(server.URL).GetPayment(context.Background(), "fetch-token", "555")
	if err != nil {
		t.Fatalf("GetPayment trả về lỗi: %v", err)
	}
	if payment.Status != "approved" || payment.StatusDetail != "accredited" {
		t.Errorf("Status = %q/%q, muốn approved/accredited", payment.Status, payment.StatusDetail)
	}
}

func TestGetPayment_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).GetPayment(context.Background(), "token", "999"); err == nil {
		t.Error("Provider trả 404 thì GetPayment phải trả lỗi")
	}
}
