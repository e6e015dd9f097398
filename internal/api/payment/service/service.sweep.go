// Package paymentsvc - Sweep định kỳ: đối soát lại các đơn PIX còn pending.
// Defense-in-depth — webhook vẫn là đường chính, sweep chỉ vét các notification bị rơi.
package paymentsvc

import (
	"context"
	"fmt"
	"time"

	ordermodels "mercado_local/internal/api/order/models"
	"mercado_local/internal/global"
	"mercado_local/internal/logger"
	"mercado_local/internal/utility"

	"golang.org/x/sync/errgroup"
	"go.mongodb.org/mongo-driver/bson"
)

// SweepService quét các đơn pending cũ và re-run đối soát cho từng đơn.
type SweepService struct {
	Reconciler *ReconcileService
	Interval   time.Duration
	MinAge     time.Duration
	Workers    int
}

// NewSweepService tạo SweepService từ cấu hình global.
func NewSweepService(reconciler *ReconcileService) *SweepService {
	cfg := global.MongoDB_ServerConfig
	workers := cfg.PaymentSweepWorkers
	if workers < 1 {
		workers = 1
	}
	return &SweepService{
		Reconciler: reconciler,
		Interval:   time.Duration(cfg.PaymentSweepInterval) * time.Second,
		MinAge:     time.Duration(cfg.PaymentSweepMinAge) * time.Second,
		Workers:    workers,
	}
}

// RunOnce đối soát một lượt: tìm đơn PIX pending có paymentId, cũ hơn MinAge,
// fetch lại provider song song (bounded). Lỗi từng đơn chỉ log, không fatal.
func (s *SweepService) RunOnce(ctx context.Context) (int, error) {
	cutoff := utility.CurrentTimeInMilli() - s.MinAge.Milliseconds()
	filter := bson.M{
		"paymentMethod": "pix",
		"paymentStatus": ordermodels.PaymentStatusPending,
		"paymentId":     bson.M{"$exists": true, "$ne": ""},
		"createdAt":     bson.M{"$lt": cutoff},
	}

	orders, err := s.Reconciler.Orders.Find(ctx, filter, nil)
	if err != nil {
		return 0, fmt.Errorf("tìm đơn pending để sweep: %w", err)
	}
	if len(orders) == 0 {
		return 0, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)
	for _, order := range orders {
		paymentID := order.PaymentID
		g.Go(func() error {
			s.Reconciler.ReconcilePayment(gctx, paymentID)
			return nil
		})
	}
	_ = g.Wait()

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"orderCount": len(orders),
	}).Info("🧹 [PIX SWEEP] Reconciliation sweep completed")
	return len(orders), nil
}

// Run chạy sweep theo chu kỳ cho đến khi ctx bị cancel. Gọi từ cmd/server trong goroutine riêng.
func (s *SweepService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"interval": s.Interval.String(),
		"minAge":   s.MinAge.String(),
		"workers":  s.Workers,
	}).Info("🧹 [PIX SWEEP] Worker started")

	for {
		select {
		case <-ctx.Done():
			logger.GetAppLogger().Info("🧹 [PIX SWEEP] Worker stopped")
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				logger.GetErrorLogger().WithFields(map[string]interface{}{
					"error": err.Error(),
				}).Error("❌ [PIX SWEEP] Sweep run failed")
			}
		}
	}
}
