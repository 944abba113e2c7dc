package processor

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/AniqMurad/Giftunwrapbackend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.InitWithWriter("giftunwrap-backend-test", "error", io.Discard)
	os.Exit(m.Run())
}

// MockRefresher мок для StatusMetricsRefresher
type MockRefresher struct {
	mock.Mock
}

func (m *MockRefresher) RefreshStatusMetrics(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestCronScheduler_StartRunsInitialRefresh(t *testing.T) {
	refresher := new(MockRefresher)
	refresher.On("RefreshStatusMetrics", mock.Anything).Return(nil)

	scheduler := NewCronScheduler(refresher)
	defer scheduler.Stop()

	err := scheduler.Start(context.Background(), "@every 1h")

	assert.NoError(t, err)
	refresher.AssertCalled(t, "RefreshStatusMetrics", mock.Anything)
	assert.Len(t, scheduler.GetEntries(), 1)
}

// Ошибка первого пересчета не должна ронять запуск планировщика
func TestCronScheduler_StartSurvivesInitialError(t *testing.T) {
	refresher := new(MockRefresher)
	refresher.On("RefreshStatusMetrics", mock.Anything).Return(errors.New("db down"))

	scheduler := NewCronScheduler(refresher)
	defer scheduler.Stop()

	err := scheduler.Start(context.Background(), "@every 1h")

	assert.NoError(t, err)
}

func TestCronScheduler_InvalidSchedule(t *testing.T) {
	refresher := new(MockRefresher)

	scheduler := NewCronScheduler(refresher)

	err := scheduler.Start(context.Background(), "not a schedule")

	assert.Error(t, err)
	refresher.AssertNotCalled(t, "RefreshStatusMetrics", mock.Anything)
}
