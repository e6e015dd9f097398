// Package mpprovider - HTTP client gọi Mercado Pago: OAuth token endpoint và Payments API.
// Base URL cấu hình được để test trỏ vào httptest server.
package mpprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mercado_local/internal/common"
)

// maxResponseBytes giới hạn đọc body từ provider (tránh response bất thường).
const maxResponseBytes = 1 << 20

// minExpiresInSeconds sàn cho expires_in — provider trả giá trị quá nhỏ/thiếu thì vẫn giữ token tối thiểu 60 giây.
const minExpiresInSeconds = 60

// Options cấu hình Client.
type Options struct {
	APIBaseURL   string // Base URL API (https://api.mercadopago.com)
	AuthBaseURL  string // Base URL trang authorization (https://auth.mercadopago.com.br)
	ClientID     string
	ClientSecret string
	RedirectURI  string
	HTTPClient   *http.Client // nil = client mặc định timeout 10s
}

// Client gọi HTTP đến Mercado Pago.
type Client struct {
	httpClient   *http.Client
	apiBase      string
	authBase     string
	clientID     string
	clientSecret string
	redirectURI  string
}

// NewClient tạo Client mới. Mọi call đều có timeout 10 giây.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		httpClient:   httpClient,
		apiBase:      strings.TrimRight(opts.APIBaseURL, "/"),
		authBase:     strings.TrimRight(opts.AuthBaseURL, "/"),
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		redirectURI:  opts.RedirectURI,
	}
}

// AuthorizationURL dựng URL authorization để browser của producer follow.
func (c *Client) AuthorizationURL(state string) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("response_type", "code")
	params.Set("platform_id", "mp")
	params.Set("redirect_uri", c.redirectURI)
	params.Set("state", state)
	return c.authBase + "/authorization?" + params.Encode()
}

// TokenResponse kết quả exchange authorization code.
type TokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	UserID       json.Number `json:"user_id"`
	ExpiresIn    int64       `json:"expires_in"`
}

// ExchangeCode đổi authorization code lấy credential producer (POST /oauth/token, form-encoded).
// Non-2xx hoặc thiếu access_token → common.ErrExchangeFailed (detail của provider nằm trong Details,
// không bao giờ chứa secret). expires_in được sàn ở 60 giây.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", c.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, common.NewError(common.ErrCodePaymentConnect, "Không thể connect Mercado Pago", common.StatusBadRequest, err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, common.NewError(common.ErrCodePaymentConnect, "Không thể connect Mercado Pago", common.StatusBadRequest, "không gọi được token endpoint: "+err.Error())
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, common.NewError(common.ErrCodePaymentConnect, "Không thể connect Mercado Pago", common.StatusBadRequest, providerErrorDetail(body, resp.StatusCode))
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, common.NewError(common.ErrCodePaymentConnect, "Không thể connect Mercado Pago", common.StatusBadRequest, "response token không đúng định dạng JSON")
	}
	if token.AccessToken == "" || token.RefreshToken == "" {
		return nil, common.NewError(common.ErrCodePaymentConnect, "Không thể connect Mercado Pago", common.StatusBadRequest, "provider không trả về đủ access_token/refresh_token")
	}
	if token.ExpiresIn < minExpiresInSeconds {
		token.ExpiresIn = minExpiresInSeconds
	}
	return &token, nil
}

// Payer thông tin người trả trong charge request.
type Payer struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
}

// ChargeRequest body tạo charge PIX (POST /v1/payments).
type ChargeRequest struct {
	TransactionAmount float64           `json:"transaction_amount"`
	Description       string            `json:"description"`
	PaymentMethodID   string            `json:"payment_method_id"`
	Payer             Payer             `json:"payer"`
	ExternalReference string            `json:"external_reference"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	DateOfExpiration  string            `json:"date_of_expiration"`
	NotificationURL   string            `json:"notification_url,omitempty"`
}

// TransactionData payload PIX trong response của provider.
type TransactionData struct {
	QrCode       string `json:"qr_code"`
	QrCodeBase64 string `json:"qr_code_base64"`
	TicketURL    string `json:"ticket_url"`
}

// PointOfInteraction bọc transaction_data.
type PointOfInteraction struct {
	TransactionData TransactionData `json:"transaction_data"`
}

// Payment response charge từ provider (tạo mới và fetch lại đều dùng chung).
type Payment struct {
	ID                 json.Number        `json:"id"`
	Status             string             `json:"status"`
	StatusDetail       string             `json:"status_detail"`
	DateOfExpiration   string             `json:"date_of_expiration"`
	PointOfInteraction PointOfInteraction `json:"point_of_interaction"`
}

// CreatePixCharge tạo charge PIX. Idempotency key để provider dedupe retry —
// gọi lại với cùng key không tạo charge trùng. Non-2xx → common.ErrChargeRejected
// (detail provider trong Details).
func (c *Client) CreatePixCharge(ctx context.Context, accessToken, idempotencyKey string, charge *ChargeRequest) (*Payment, error) {
	payload, err := json.Marshal(charge)
	if err != nil {
		return nil, common.NewError(common.ErrCodePaymentCharge, "Không thể tạo mã PIX, vui lòng thử lại", common.StatusBadRequest, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/v1/payments", bytes.NewReader(payload))
	if err != nil {
		return nil, common.NewError(common.ErrCodePaymentCharge, "Không thể tạo mã PIX, vui lòng thử lại", common.StatusBadRequest, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("X-Idempotency-Key", idempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, common.NewError(common.ErrCodePaymentCharge, "Không thể tạo mã PIX, vui lòng thử lại", common.StatusBadRequest, "không gọi được payments endpoint: "+err.Error())
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, common.NewError(common.ErrCodePaymentCharge, "Không thể tạo mã PIX, vui lòng thử lại", common.StatusBadRequest, providerErrorDetail(body, resp.StatusCode))
	}

	var payment Payment
	if err := json.Unmarshal(body, &payment); err != nil {
		return nil, common.NewError(common.ErrCodePaymentCharge, "Không thể tạo mã PIX, vui lòng thử lại", common.StatusBadGateway, "response payment không đúng định dạng JSON")
	}
	return &payment, nil
}

// GetPayment fetch trạng thái charge mới nhất từ provider (GET /v1/payments/{id}).
// Đây là nguồn sự thật duy nhất khi đối soát — body webhook không bao giờ được tin.
func (c *Client) GetPayment(ctx context.Context, accessToken, paymentID string) (*Payment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/v1/payments/"+url.PathEscape(paymentID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("không gọi được payments endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider trả về status %d khi fetch payment %s", resp.StatusCode, paymentID)
	}

	var payment Payment
	if err := json.Unmarshal(body, &payment); err != nil {
		return nil, fmt.Errorf("response payment không đúng định dạng JSON: %w", err)
	}
	return &payment, nil
}

// providerErrorDetail rút message lỗi từ body provider để đưa vào Details.
// Chỉ lấy message/error, không bao giờ forward nguyên body (có thể chứa token).
func providerErrorDetail(body []byte, statusCode int) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return fmt.Sprintf("provider trả về %d: %s", statusCode, parsed.Message)
		}
		if parsed.Error != "" {
			return fmt.Sprintf("provider trả về %d: %s", statusCode, parsed.Error)
		}
	}
	return fmt.Sprintf("provider trả về status %d", statusCode)
}
