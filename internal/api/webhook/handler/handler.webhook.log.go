// Package webhookhdl - Handler CRUD đọc webhook logs (debug/audit cho admin).
package webhookhdl

import (
	"fmt"

	basehdl "mercado_local/internal/api/base/handler"
	webhookdto "mercado_local/internal/api/webhook/dto"
	webhookmodels "mercado_local/internal/api/webhook/models"
	webhooksvc "mercado_local/internal/api/webhook/service"
)

// WebhookLogHandler xử lý API webhook logs.
type WebhookLogHandler struct {
	*basehdl.BaseHandler[webhookmodels.WebhookLog, webhookdto.WebhookLogCreateInput, webhookdto.WebhookLogUpdateInput]
}

// NewWebhookLogHandler tạo WebhookLogHandler mới.
func NewWebhookLogHandler() (*WebhookLogHandler, error) {
	svc, err := webhooksvc.NewWebhookLogService()
	if err != nil {
		return nil, fmt.Errorf("tạo WebhookLogService: %w", err)
	}
	return &WebhookLogHandler{
		BaseHandler: basehdl.NewBaseHandler[webhookmodels.WebhookLog, webhookdto.WebhookLogCreateInput, webhookdto.WebhookLogUpdateInput](svc),
	}, nil
}
