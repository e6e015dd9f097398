// Package paymentsvc - Credential resolver: chọn access token dùng cho call đến provider.
package paymentsvc

import (
	"context"

	tenantmodels "mercado_local/internal/api/tenant/models"
	"mercado_local/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Nguồn credential — caller không được giả định nguồn nào được dùng.
const (
	CredentialSourceProducer = "producer" // Token riêng của producer đã connect
	CredentialSourcePlatform = "platform" // Token nền tảng (fallback khi chưa connect)
)

// Credential access token đã chọn kèm nguồn (phục vụ log, không trả ra ngoài API).
type Credential struct {
	AccessToken string
	Source      string
}

// CredentialResolver chọn credential cho một producer: token riêng nếu đã connect,
// fallback nền tảng nếu được cấu hình, còn lại ErrNoCredentialAvailable.
// Fallback token truyền vào lúc khởi tạo, không đọc global trong lúc resolve.
type CredentialResolver struct {
	Producers     ProducerStore
	FallbackToken string
}

// NewCredentialResolver tạo CredentialResolver mới.
func NewCredentialResolver(producers ProducerStore, fallbackToken string) *CredentialResolver {
	return &CredentialResolver{
		Producers:     producers,
		FallbackToken: fallbackToken,
	}
}

// Resolve tra producer theo id rồi chọn credential.
// Lỗi: ErrTenantNotFound (producer không tồn tại), ErrNoCredentialAvailable.
func (r *CredentialResolver) Resolve(ctx context.Context, producerID primitive.ObjectID) (Credential, error) {
	producer, err := r.Producers.FindOneById(ctx, producerID)
	if err != nil {
		return Credential{}, common.ErrTenantNotFound
	}
	return r.ResolveFor(&producer)
}

// ResolveFor chọn credential cho producer đã load sẵn.
func (r *CredentialResolver) ResolveFor(producer *tenantmodels.Producer) (Credential, error) {
	if producer.MpConnected && producer.MpAccessToken != "" {
		return Credential{AccessToken: producer.MpAccessToken, Source: CredentialSourceProducer}, nil
	}
	if r.FallbackToken != "" {
		return Credential{AccessToken: r.FallbackToken, Source: CredentialSourcePlatform}, nil
	}
	return Credential{}, common.ErrNoCredentialAvailable
}
