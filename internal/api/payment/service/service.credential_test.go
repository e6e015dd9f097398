// Package paymentsvc - Test thứ tự ưu tiên chọn credential.
package paymentsvc

import (
	"errors"
	"testing"

	tenantmodels "mercado_local/internal/api/tenant/models"
	"mercado_local/internal/common"
)

func TestCredentialResolver_ProducerTokenFirst(t *testing.T) {
	resolver := NewCredentialResolver(nil, "platform-token")

	producer := &tenantmodels.Producer{
		MpConnected:   true,
		MpAccessToken: "producer-token",
	}
	cred, err := resolver.ResolveFor(producer)
	if err != nil {
		t.Fatalf("ResolveFor trả về lỗi: %v", err)
	}
	if cred.AccessToken != "producer-token" {
		t.Errorf("AccessToken = %q, muốn token riêng của producer", cred.AccessToken)
	}
	if cred.Source != CredentialSourceProducer {
		t.Errorf("Source = %q, muốn %q", cred.Source, CredentialSourceProducer)
	}
}

func TestCredentialResolver_PlatformFallback(t *testing.T) {
	resolver := NewCredentialResolver(nil, "platform-token")

	// Chưa connect → fallback nền tảng
	cred, err := resolver.ResolveFor(&tenantmodels.Producer{MpConnected: false})
	if err != nil {
		t.Fatalf("ResolveFor trả về lỗi: %v", err)
	}
	if cred.AccessToken != "platform-token" || cred.Source != CredentialSourcePlatform {
		t.Errorf("Phải dùng token nền tảng, nhận được %+v", cred)
	}

	// Flag connect bật nhưng token rỗng (dữ liệu hỏng) → vẫn fallback, không dùng token rỗng
	cred, err = resolver.ResolveFor(&tenantmodels.Producer{MpConnected: true, MpAccessToken: ""})
	if err != nil {
		t.Fatalf("ResolveFor trả về lỗi: %v", err)
	}
	if cred.Source != CredentialSourcePlatform {
		t.Errorf("Token rỗng phải rơi xuống fallback, nhận được source %q", cred.Source)
	}
}

func TestCredentialResolver_NoCredential(t *testing.T) {
	resolver := NewCredentialResolver(nil, "")

	_, err := resolver.ResolveFor(&tenantmodels.Producer{MpConnected: false})
	if !errors.Is(err, common.ErrNoCredentialAvailable) {
		t.Errorf("Không có nguồn nào phải trả ErrNoCredentialAvailable, nhận được: %v", err)
	}
}
