package repositories

import (
	"context"

	"github.com/agencyhq/go-agency-ledger/internal/models"
	"github.com/agencyhq/go-agency-ledger/internal/monitoring"
)

type ActivityLogRepository interface {
	Append(ctx context.Context, entry models.ActivityLog) error
	ListByProject(ctx context.Context, projectID string, limit int) ([]models.ActivityLog, error)
}

type activityLogRepository sqlRepo

var _ ActivityLogRepository = (*activityLogRepository)(nil)

func (ar *activityLogRepository) Append(ctx context.Context, entry models.ActivityLog) (err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := ar.r.extractTxWrite(ctx)
	_, err = db.ExecContext(ctx, queryInsertActivityLog, entry.ID, entry.ProjectID, entry.Message, entry.CreatedAt)
	return err
}

func (ar *activityLogRepository) ListByProject(ctx context.Context, projectID string, limit int) (logs []models.ActivityLog, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := ar.r.extractTxRead(ctx)
	rows, err := db.QueryContext(ctx, queryListActivityLogsByProject, projectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs = []models.ActivityLog{}
	for rows.Next() {
		var l models.ActivityLog
		if err = rows.Scan(&l.ID, &l.ProjectID, &l.Message, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
