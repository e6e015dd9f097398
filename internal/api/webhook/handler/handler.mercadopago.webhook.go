// Package webhookhdl - Handler nhận notification từ Mercado Pago.
// Bất biến quan trọng nhất: LUÔN trả HTTP 200, kể cả input rác hay panic —
// provider retry theo non-2xx, và design đối soát (re-fetch + sweep) đã lo correctness.
package webhookhdl

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"

	paymentsvc "mercado_local/internal/api/payment/service"
	webhookmodels "mercado_local/internal/api/webhook/models"
	webhooksvc "mercado_local/internal/api/webhook/service"
	"mercado_local/internal/common"
	"mercado_local/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// MercadoPagoWebhookHandler nhận và xử lý notification thanh toán.
type MercadoPagoWebhookHandler struct {
	Logs       *webhooksvc.WebhookLogService
	Reconciler *paymentsvc.ReconcileService
}

// NewMercadoPagoWebhookHandler tạo MercadoPagoWebhookHandler mới.
func NewMercadoPagoWebhookHandler() (*MercadoPagoWebhookHandler, error) {
	logs, err := webhooksvc.NewWebhookLogService()
	if err != nil {
		return nil, fmt.Errorf("tạo WebhookLogService: %w", err)
	}
	reconciler, err := paymentsvc.NewReconcileService()
	if err != nil {
		return nil, fmt.Errorf("tạo ReconcileService: %w", err)
	}
	return &MercadoPagoWebhookHandler{
		Logs:       logs,
		Reconciler: reconciler,
	}, nil
}

// HandleNotification xử lý POST /webhooks/mercadopago.
// Ghi log trước, đối soát sau, trả 200 trong mọi trường hợp.
func (h *MercadoPagoWebhookHandler) HandleNotification(c fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.GetErrorLogger().WithFields(map[string]interface{}{
				"panic": fmt.Sprintf("%v", r),
				"stack": string(debug.Stack()),
			}).Error("❌ [MP WEBHOOK] Panic while handling notification")
			err = okResponse(c, &paymentsvc.ReconcileOutcome{Reason: "internal_error"})
		}
	}()

	body := make([]byte, len(c.Body()))
	copy(body, c.Body())
	query := c.Queries()

	logEntry := h.recordLog(c.Context(), c, body, query)

	outcome := h.Reconciler.HandleNotification(c.Context(), body, query)

	if logEntry != nil {
		if merr := h.Logs.MarkProcessed(c.Context(), logEntry.ID, outcome.Applied, outcome.Reason); merr != nil {
			logger.GetErrorLogger().WithFields(map[string]interface{}{
				"logId": logEntry.ID.Hex(),
				"error": merr.Error(),
			}).Error("❌ [MP WEBHOOK] Failed to mark webhook log processed")
		}
	}

	logger.LogPayment("webhook_received", c, map[string]interface{}{
		"paymentId": outcome.PaymentID,
		"reason":    outcome.Reason,
	})
	return okResponse(c, outcome)
}

// HandleProbe xử lý GET /webhooks/mercadopago — Mercado Pago ping kiểm tra URL khi đăng ký.
func (h *MercadoPagoWebhookHandler) HandleProbe(c fiber.Ctx) error {
	return okResponse(c, nil)
}

// recordLog ghi notification vào webhook_logs trước khi xử lý. Lỗi ghi log không chặn đối soát.
func (h *MercadoPagoWebhookHandler) recordLog(ctx context.Context, c fiber.Ctx, body []byte, query map[string]string) *webhookmodels.WebhookLog {
	entry := webhookmodels.WebhookLog{
		Source:    "mercadopago",
		EventType: extractEventType(body, query),
		PaymentID: paymentsvc.ExtractPaymentID(body, query),
		RequestHeaders: map[string]string{
			"Content-Type": c.Get("Content-Type"),
			"X-Signature":  c.Get("X-Signature"),
			"X-Request-Id": c.Get("X-Request-Id"),
		},
		QueryParams: query,
		RawBody:     string(body),
		IPAddress:   c.IP(),
		UserAgent:   c.Get("User-Agent"),
	}

	saved, err := h.Logs.Record(ctx, entry)
	if err != nil {
		logger.GetErrorLogger().WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Error("❌ [MP WEBHOOK] Failed to record webhook log")
		return nil
	}
	return saved
}

// extractEventType lấy type/topic của notification nếu có (chỉ phục vụ log, không quyết định xử lý).
func extractEventType(body []byte, query map[string]string) string {
	var parsed struct {
		Type   string `json:"type"`
		Action string `json:"action"`
		Topic  string `json:"topic"`
	}
	_ = json.Unmarshal(body, &parsed)
	for _, candidate := range []string{parsed.Type, parsed.Action, parsed.Topic, query["type"], query["topic"]} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// okResponse body 200 chuẩn của webhook (envelope giống các API khác để đồng nhất).
func okResponse(c fiber.Ctx, data interface{}) error {
	return c.Status(common.StatusOK).JSON(fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    data,
		"status":  "success",
	})
}
