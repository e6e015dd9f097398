// Package tenantsvc - Service producer (tenants).
// CRUD qua BaseServiceMongo + các thao tác credential Mercado Pago (ghi nguyên khối).
package tenantsvc

import (
	"context"
	"fmt"

	basesvc "mercado_local/internal/api/base/service"
	tenantmodels "mercado_local/internal/api/tenant/models"
	"mercado_local/internal/common"
	"mercado_local/internal/global"
	"mercado_local/internal/logger"
	"mercado_local/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProducerService xử lý logic producer.
type ProducerService struct {
	*basesvc.BaseServiceMongoImpl[tenantmodels.Producer]
}

// NewProducerService tạo ProducerService mới.
func NewProducerService() (*ProducerService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Tenants)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Tenants, common.ErrNotFound)
	}
	return &ProducerService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[tenantmodels.Producer](coll),
	}, nil
}

// FindByUserID tìm producer theo user id sở hữu.
// Trả về common.ErrNotFound nếu user chưa có producer.
func (s *ProducerService) FindByUserID(ctx context.Context, userID string) (tenantmodels.Producer, error) {
	return s.FindOne(ctx, bson.M{"userId": userID}, nil)
}

// SetCredential ghi nguyên khối credential Mercado Pago lên producer.
// Filter theo cả _id và userId (defense-in-depth: state token đã xác thực nhưng vẫn
// ràng buộc đúng chủ sở hữu). Matched != 1 nghĩa là producer/user không khớp → ErrPersistFailed.
func (s *ProducerService) SetCredential(ctx context.Context, producerID primitive.ObjectID, userID string, bundle tenantmodels.MpCredentialBundle) error {
	update := bson.M{
		"$set": bson.M{
			"mpConnected":      true,
			"mpUserId":         bundle.MpUserID,
			"mpAccessToken":    bundle.AccessToken,
			"mpRefreshToken":   bundle.RefreshToken,
			"mpTokenExpiresAt": bundle.ExpiresAt,
			"updatedAt":        utility.CurrentTimeInMilli(),
		},
	}
	result, err := s.Collection().UpdateOne(ctx, bson.M{"_id": producerID, "userId": userID}, update)
	if err != nil {
		logger.GetErrorLogger().WithFields(map[string]interface{}{
			"producerId": producerID.Hex(),
			"error":      err.Error(),
		}).Error("❌ [MP CONNECT] Failed to persist credential bundle")
		return common.ConvertMongoError(err)
	}
	if result.MatchedCount != 1 {
		return common.ErrPersistFailed
	}
	return nil
}

// ClearCredential gỡ credential Mercado Pago (disconnect).
// Chỉ thao tác local — không gọi provider revoke (grant phía Mercado Pago vẫn còn
// cho đến khi producer tự thu hồi trong tài khoản của họ).
func (s *ProducerService) ClearCredential(ctx context.Context, producerID primitive.ObjectID, userID string) error {
	update := bson.M{
		"$set": bson.M{
			"mpConnected": false,
			"updatedAt":   utility.CurrentTimeInMilli(),
		},
		"$unset": bson.M{
			"mpUserId":         "",
			"mpAccessToken":    "",
			"mpRefreshToken":   "",
			"mpTokenExpiresAt": "",
		},
	}
	result, err := s.Collection().UpdateOne(ctx, bson.M{"_id": producerID, "userId": userID}, update)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.MatchedCount != 1 {
		return common.ErrTenantNotFound
	}
	logger.GetAppLogger().WithFields(map[string]interface{}{
		"producerId": producerID.Hex(),
	}).Info("🔌 [MP DISCONNECT] Credential bundle cleared (local only)")
	return nil
}
