package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencyhq/go-agency-ledger/internal/models"
)

func TestActivityLogRepository_Append(t *testing.T) {
	at := time.Now().UTC()

	tests := []struct {
		name    string
		entry   models.ActivityLog
		doMock  func(mock sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name:  "project scoped",
			entry: models.ActivityLog{ID: "log-1", ProjectID: strPtr("prj-1"), Message: "Split processed", CreatedAt: at},
			doMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(queryInsertActivityLog)).
					WithArgs("log-1", "prj-1", "Split processed", at).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:  "payout without project",
			entry: models.ActivityLog{ID: "log-2", Message: "Payout recorded", CreatedAt: at},
			doMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(queryInsertActivityLog)).
					WithArgs("log-2", nil, "Payout recorded", at).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:  "db error",
			entry: models.ActivityLog{ID: "log-3"},
			doMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(queryInsertActivityLog)).WillReturnError(assert.AnError)
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, _ := newMockRepository(t)
			tt.doMock(mock)

			err := repo.GetActivityLogRepository().Append(context.Background(), tt.entry)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestActivityLogRepository_ListByProject(t *testing.T) {
	repo, mock, _ := newMockRepository(t)
	at := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(queryListActivityLogsByProject)).
		WithArgs("prj-1", 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "message", "created_at"}).
			AddRow("log-2", "prj-1", "Split reversed for payment pay-1", at).
			AddRow("log-1", "prj-1", "Split processed for payment pay-1", at))

	got, err := repo.GetActivityLogRepository().ListByProject(context.Background(), "prj-1", 20)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "prj-1", *got[0].ProjectID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
