// Package paymentsvc - Subsystem thanh toán: state token OAuth, credential resolver,
// connect flow, tạo charge PIX, đối soát webhook và sweep định kỳ.
package paymentsvc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"mercado_local/internal/common"
	"mercado_local/internal/utility"
)

// stateTokenTTL cửa sổ hợp lệ của state token trong OAuth handshake.
const stateTokenTTL = 10 * time.Minute

// StatePayload nội dung state token — không lưu server-side, toàn bộ tính xác thực nằm ở chữ ký.
type StatePayload struct {
	ProducerID string `json:"producerId"`
	UserID     string `json:"userId"`
	IssuedAt   int64  `json:"issuedAt"` // Unix ms
	Nonce      string `json:"nonce"`
}

// StateTokenService phát hành và xác minh state token cho OAuth handshake.
// Cặp hàm thuần, không side effect, không cần session store.
type StateTokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewStateTokenService tạo StateTokenService với secret ký HMAC.
func NewStateTokenService(secret string) *StateTokenService {
	return &StateTokenService{
		secret: []byte(secret),
		ttl:    stateTokenTTL,
	}
}

// Issue ký payload thành token dạng base64url(payload) + "." + base64url(hmac-sha256).
func (s *StateTokenService) Issue(payload StatePayload) (string, error) {
	if payload.IssuedAt == 0 {
		payload.IssuedAt = utility.CurrentTimeInMilli()
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", common.NewError(common.ErrCodePaymentState, "Không thể tạo state token", common.StatusInternalServerError, err.Error())
	}
	sig := s.sign(raw)
	return base64.RawURLEncoding.EncodeToString(raw) + "." + base64.RawURLEncoding.EncodeToString(sig), nil
}

// Verify kiểm tra token và trả về payload.
// Lỗi: ErrStateMalformed (không tách được 2 phần hoặc decode thất bại),
// ErrStateInvalidSignature (HMAC không khớp, so sánh constant-time),
// ErrStateExpired (quá 10 phút kể từ IssuedAt).
func (s *StateTokenService) Verify(token string) (StatePayload, error) {
	var zero StatePayload

	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return zero, common.ErrStateMalformed
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return zero, common.ErrStateMalformed
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return zero, common.ErrStateMalformed
	}

	if !hmac.Equal(sig, s.sign(raw)) {
		return zero, common.ErrStateInvalidSignature
	}

	var payload StatePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return zero, common.ErrStateMalformed
	}

	if utility.CurrentTimeInMilli()-payload.IssuedAt > s.ttl.Milliseconds() {
		return zero, common.ErrStateExpired
	}
	return payload, nil
}

func (s *StateTokenService) sign(raw []byte) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(raw)
	return mac.Sum(nil)
}
