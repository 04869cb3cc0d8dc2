package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/ntuananhdevs/banking-onl/internal/infrastructure/observability"
	"github.com/ntuananhdevs/banking-onl/internal/models"
	repositorymocks "github.com/ntuananhdevs/banking-onl/internal/repository/mocks"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPendingReporter_Report(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transactionRepo := repositorymocks.NewMockTransactionRepository(ctrl)
	reporter := NewPendingReporter(transactionRepo)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reporter.now = func() time.Time { return now }

	t.Run("pending deposits", func(t *testing.T) {
		transactionRepo.EXPECT().PendingStats(gomock.Any()).Return(models.PendingStats{
			Count:         3,
			OldestCreated: now.Add(-90 * time.Second),
		}, nil)

		reporter.Report(context.Background())

		assert.Equal(t, 3.0, testutil.ToFloat64(observability.PendingDeposits))
		assert.Equal(t, 90.0, testutil.ToFloat64(observability.OldestPendingDepositAge))
	})

	t.Run("nothing pending", func(t *testing.T) {
		transactionRepo.EXPECT().PendingStats(gomock.Any()).Return(models.PendingStats{}, nil)

		reporter.Report(context.Background())

		assert.Equal(t, 0.0, testutil.ToFloat64(observability.PendingDeposits))
		assert.Equal(t, 0.0, testutil.ToFloat64(observability.OldestPendingDepositAge))
	})

	t.Run("repository error keeps last values", func(t *testing.T) {
		observability.PendingDeposits.Set(5)
		transactionRepo.EXPECT().PendingStats(gomock.Any()).Return(models.PendingStats{}, errors.New("timeout"))

		reporter.Report(context.Background())

		assert.Equal(t, 5.0, testutil.ToFloat64(observability.PendingDeposits))
	})
}

func TestPendingReporter_StartRejectsBadSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reporter := NewPendingReporter(repositorymocks.NewMockTransactionRepository(ctrl))

	assert.Error(t, reporter.Start("every minute please"))
}
