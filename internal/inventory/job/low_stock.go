// Package job runs scheduled inventory scans.
package job

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type LowStockJob struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
	cron   *cron.Cron
}

func NewLowStockJob(uc inventory.UseCase, log logger.ZapLogger) *LowStockJob {
	return &LowStockJob{
		uc:     uc,
		logger: log,
		cron:   cron.New(cron.WithSeconds()),
	}
}

// Start schedules Run on spec, a six-field cron expression with seconds.
func (j *LowStockJob) Start(spec string) error {
	if _, err := j.cron.AddFunc(spec, func() {
		if _, err := j.Run(context.Background()); err != nil {
			j.logger.Error("low stock scan failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule low stock scan %q: %w", spec, err)
	}
	j.cron.Start()
	j.logger.Info("low stock scan scheduled", zap.String("spec", spec))
	return nil
}

// Stop halts scheduling; the returned context is done once a running scan
// finishes.
func (j *LowStockJob) Stop() context.Context {
	return j.cron.Stop()
}

// Run logs every low-stock variation and returns how many were found.
func (j *LowStockJob) Run(ctx context.Context) (int, error) {
	items, err := j.uc.ListLowStock(ctx)
	if err != nil {
		return 0, err
	}

	for _, item := range items {
		size := ""
		if item.SizeName != nil {
			size = *item.SizeName
		}
		j.logger.Warn("variation low on stock",
			zap.String("variation_id", item.VariationID),
			zap.String("product", item.ProductName),
			zap.String("sku", item.SKU),
			zap.String("size", size),
			zap.Int("stock", item.StockQuantity),
			zap.Int("threshold", item.LowStockThreshold),
		)
	}
	if len(items) > 0 {
		j.logger.Info("low stock scan finished", zap.Int("count", len(items)))
	}
	return len(items), nil
}
