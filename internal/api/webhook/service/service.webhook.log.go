// Package webhooksvc chứa service cho domain webhook (log notification từ Mercado Pago).
package webhooksvc

import (
	"context"
	"fmt"
	"time"

	basesvc "mercado_local/internal/api/base/service"
	webhookmodels "mercado_local/internal/api/webhook/models"
	"mercado_local/internal/common"
	"mercado_local/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// webhookLogRetention thời gian giữ log trước khi TTL index xóa.
const webhookLogRetention = 30 * 24 * time.Hour

// WebhookLogService là cấu trúc chứa các phương thức liên quan đến webhook logs.
type WebhookLogService struct {
	*basesvc.BaseServiceMongoImpl[webhookmodels.WebhookLog]
}

// NewWebhookLogService tạo mới WebhookLogService.
func NewWebhookLogService() (*WebhookLogService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.WebhookLogs)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.WebhookLogs, common.ErrNotFound)
	}
	return &WebhookLogService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[webhookmodels.WebhookLog](coll),
	}, nil
}

// Record ghi một notification vừa nhận (trước khi xử lý).
func (s *WebhookLogService) Record(ctx context.Context, log webhookmodels.WebhookLog) (*webhookmodels.WebhookLog, error) {
	now := time.Now()
	if log.ReceivedAt == 0 {
		log.ReceivedAt = now.UnixMilli()
	}
	log.ExpireAt = now.Add(webhookLogRetention)

	result, err := s.InsertOne(ctx, log)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkProcessed cập nhật kết quả xử lý của một log.
func (s *WebhookLogService) MarkProcessed(ctx context.Context, logID primitive.ObjectID, processed bool, note string) error {
	update := bson.M{
		"$set": bson.M{
			"processed":   processed,
			"processNote": note,
			"processedAt": time.Now().UnixMilli(),
			"updatedAt":   time.Now().UnixMilli(),
		},
	}
	_, err := s.Collection().UpdateOne(ctx, bson.M{"_id": logID}, update)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}
