// Package paymentsvc - OAuth connect flow: phát URL authorization và hoàn tất exchange.
package paymentsvc

import (
	"context"
	"fmt"

	paymentdto "mercado_local/internal/api/payment/dto"
	mpprovider "mercado_local/internal/api/payment/provider"
	tenantmodels "mercado_local/internal/api/tenant/models"
	tenantsvc "mercado_local/internal/api/tenant/service"
	"mercado_local/internal/common"
	"mercado_local/internal/global"
	"mercado_local/internal/logger"
	"mercado_local/internal/utility"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConnectService điều phối 3-legged OAuth với Mercado Pago.
type ConnectService struct {
	Producers *tenantsvc.ProducerService
	State     *StateTokenService
	Client    *mpprovider.Client
}

// NewConnectService tạo ConnectService từ cấu hình global.
func NewConnectService() (*ConnectService, error) {
	producers, err := tenantsvc.NewProducerService()
	if err != nil {
		return nil, fmt.Errorf("tạo ProducerService: %w", err)
	}
	cfg := global.MongoDB_ServerConfig
	return &ConnectService{
		Producers: producers,
		State:     NewStateTokenService(cfg.MpStateSecret),
		Client: mpprovider.NewClient(mpprovider.Options{
			APIBaseURL:   cfg.MpAPIBaseURL,
			AuthBaseURL:  cfg.MpAuthBaseURL,
			ClientID:     cfg.MpClientID,
			ClientSecret: cfg.MpClientSecret,
			RedirectURI:  cfg.MpRedirectURI,
		}),
	}, nil
}

// StartConnect dựng URL authorization cho producer của user đang đăng nhập.
// Không persist gì — toàn bộ trạng thái handshake nằm trong state token.
// Lỗi: ErrTenantNotFound (user chưa có producer), ErrConnectForbidden (plan admin).
func (s *ConnectService) StartConnect(ctx context.Context, userID string) (string, error) {
	producer, err := s.Producers.FindByUserID(ctx, userID)
	if err != nil {
		return "", common.ErrTenantNotFound
	}
	if producer.Plan == "admin" {
		return "", common.ErrConnectForbidden
	}

	state, err := s.State.Issue(StatePayload{
		ProducerID: producer.ID.Hex(),
		UserID:     userID,
		IssuedAt:   utility.CurrentTimeInMilli(),
		Nonce:      uuid.NewString(),
	})
	if err != nil {
		return "", err
	}

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"producerId": producer.ID.Hex(),
	}).Info("🔗 [MP CONNECT] Authorization URL issued")
	return s.Client.AuthorizationURL(state), nil
}

// CompleteConnect xác minh state, exchange code và persist nguyên khối credential.
// Lỗi: lỗi state (Malformed/InvalidSignature/Expired) propagate nguyên dạng,
// ErrStateUserMismatch (state của user khác — chặn browser này hoàn tất handshake của browser kia),
// ErrExchangeFailed, ErrPersistFailed.
func (s *ConnectService) CompleteConnect(ctx context.Context, userID, code, state string) (*paymentdto.ConnectCompleteResponse, error) {
	payload, err := s.State.Verify(state)
	if err != nil {
		return nil, err
	}
	if payload.UserID != userID {
		return nil, common.ErrStateUserMismatch
	}

	producerID, err := primitive.ObjectIDFromHex(payload.ProducerID)
	if err != nil {
		return nil, common.ErrStateMalformed
	}

	token, err := s.Client.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	bundle := tenantmodels.MpCredentialBundle{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		MpUserID:     token.UserID.String(),
		ExpiresAt:    utility.CurrentTimeInMilli() + token.ExpiresIn*1000,
	}
	if err := s.Producers.SetCredential(ctx, producerID, userID, bundle); err != nil {
		return nil, err
	}

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"producerId": payload.ProducerID,
		"mpUserId":   bundle.MpUserID,
	}).Info("✅ [MP CONNECT] Credential bundle persisted")
	return &paymentdto.ConnectCompleteResponse{
		ProducerID:  payload.ProducerID,
		MpUserID:    bundle.MpUserID,
		MpConnected: true,
	}, nil
}
