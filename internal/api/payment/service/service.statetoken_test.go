// Package paymentsvc - Test phát hành và xác minh state token OAuth.
package paymentsvc

import (
	"errors"
	"strings"
	"testing"
	"time"

	"mercado_local/internal/common"
	"mercado_local/internal/utility"
)

func TestStateToken_RoundTrip(t *testing.T) {
	svc := NewStateTokenService("test-secret")

	issued := StatePayload{
		ProducerID: "64f1a2b3c4d5e6f708091011",
		UserID:     "user-123",
		Nonce:      "nonce-abc",
	}
	token, err := svc.Issue(issued)
	if err != nil {
		t.Fatalf("Issue trả về lỗi: %v", err)
	}
	if !strings.Contains(token, ".") {
		t.Fatalf("Token phải có dạng payload.sig, nhận được: %q", token)
	}

	got, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify trả về lỗi với token hợp lệ: %v", err)
	}
	if got.ProducerID != issued.ProducerID {
		t.Errorf("ProducerID = %q, muốn %q", got.ProducerID, issued.ProducerID)
	}
	if got.UserID != issued.UserID {
		t.Errorf("UserID = %q, muốn %q", got.UserID, issued.UserID)
	}
	if got.Nonce != issued.Nonce {
		t.Errorf("Nonce = %q, muốn %q", got.Nonce, issued.Nonce)
	}
	if got.IssuedAt == 0 {
		t.Error("IssuedAt phải được tự gán khi Issue")
	}
}

func TestStateToken_TamperedPayload(t *testing.T) {
	svc := NewStateTokenService("test-secret")
	token, err := svc.Issue(StatePayload{ProducerID: "p", UserID: "u", Nonce: "n"})
	if err != nil {
		t.Fatalf("Issue trả về lỗi: %v", err)
	}

	// Sửa 1 ký tự trong phần payload — chữ ký không còn khớp
	tampered := []byte(token)
	if tampered[0] == 'A' {
		tampered[0] = 'B'
	} else {
		tampered[0] = 'A'
	}

	_, err = svc.Verify(string(tampered))
	if err == nil {
		t.Fatal("Verify phải từ chối token bị sửa")
	}
	if !errors.Is(err, common.ErrStateInvalidSignature) && !errors.Is(err, common.ErrStateMalformed) {
		t.Errorf("Lỗi phải là chữ ký sai hoặc malformed, nhận được: %v", err)
	}
}

func TestStateToken_WrongSecret(t *testing.T) {
	issuer := NewStateTokenService("secret-a")
	verifier := NewStateTokenService("secret-b")

	token, err := issuer.Issue(StatePayload{ProducerID: "p", UserID: "u", Nonce: "n"})
	if err != nil {
		t.Fatalf("Issue trả về lỗi: %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, common.ErrStateInvalidSignature) {
		t.Errorf("Verify với secret khác phải trả ErrStateInvalidSignature, nhận được: %v", err)
	}
}

func TestStateToken_Expired(t *testing.T) {
	svc := NewStateTokenService("test-secret")

	// Trong cửa sổ 10 phút: vẫn hợp lệ
	fresh, err := svc.Issue(StatePayload{
		ProducerID: "p",
		UserID:     "u",
		IssuedAt:   utility.CurrentTimeInMilli() - (9 * time.Minute).Milliseconds(),
		Nonce:      "n",
	})
	if err != nil {
		t.Fatalf("Issue trả về lỗi: %v", err)
	}
	if _, err := svc.Verify(fresh); err != nil {
		t.Errorf("Token 9 phút tuổi phải còn hợp lệ, nhận được: %v", err)
	}

	// Quá cửa sổ: hết hạn
	stale, err := svc.Issue(StatePayload{
		ProducerID: "p",
		UserID:     "u",
		IssuedAt:   utility.CurrentTimeInMilli() - (11 * time.Minute).Milliseconds(),
		Nonce:      "n",
	})
	if err != nil {
		t.Fatalf("Issue trả về lỗi: %v", err)
	}
	if _, err := svc.Verify(stale); !errors.Is(err, common.ErrStateExpired) {
		t.Errorf("Token 11 phút tuổi phải trả ErrStateExpired, nhận được: %v", err)
	}
}

func TestStateToken_Malformed(t *testing.T) {
	svc := NewStateTokenService("test-secret")

	cases := []string{
		"",
		"khongcodau-cham",
		".",
		"abc.",
		".abc",
		"a.b.c",
		"%%%.%%%", // không phải base64url
	}
	for _, token := range cases {
		if _, err := svc.Verify(token); !errors.Is(err, common.ErrStateMalformed) {
			t.Errorf("Verify(%q) phải trả ErrStateMalformed, nhận được: %v", token, err)
		}
	}
}
