package processor

import (
	"context"

	"github.com/AniqMurad/Giftunwrapbackend/pkg/logger"

	"github.com/robfig/cron/v3"
)

// StatusMetricsRefresher обновляет gauge-метрики распределения заказов по статусам
type StatusMetricsRefresher interface {
	RefreshStatusMetrics(ctx context.Context) error
}

// CronScheduler периодически пересчитывает метрики заказов из MongoDB
type CronScheduler struct {
	cron      *cron.Cron
	refresher StatusMetricsRefresher
}

func NewCronScheduler(refresher StatusMetricsRefresher) *CronScheduler {
	return &CronScheduler{
		cron:      cron.New(),
		refresher: refresher,
	}
}

// Start регистрирует задачу по расписанию и выполняет первый пересчет сразу,
// чтобы метрики были заполнены до первого тика
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		if err := s.refresher.RefreshStatusMetrics(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to refresh order status metrics")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	if err := s.refresher.RefreshStatusMetrics(ctx); err != nil {
		logger.Warn().Err(err).Msg("Initial order status metrics refresh failed")
	}

	return nil
}

// Stop останавливает планировщик и дожидается завершения запущенных задач
func (s *CronScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
