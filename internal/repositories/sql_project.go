package repositories

import (
	"context"
	"fmt"

	"github.com/agencyhq/go-agency-ledger/internal/common"
	"github.com/agencyhq/go-agency-ledger/internal/models"
	"github.com/agencyhq/go-agency-ledger/internal/monitoring"
)

type ProjectRepository interface {
	// Create inserts the project and its members. Call it inside Atomic.
	Create(ctx context.Context, p models.Project) error
	// GetByID returns the project with members ordered by user id.
	GetByID(ctx context.Context, id string) (models.Project, error)
	// ReplaceMembers swaps the whole member list. Call it inside Atomic.
	ReplaceMembers(ctx context.Context, projectID string, members []models.ProjectMember) error
}

type projectRepository sqlRepo

var _ ProjectRepository = (*projectRepository)(nil)

func (pr *projectRepository) Create(ctx context.Context, p models.Project) (err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := pr.r.extractTxWrite(ctx)
	if _, err = db.ExecContext(ctx, queryInsertProject, p.ID, p.Name, p.FinderID, p.CreatedAt); err != nil {
		return err
	}
	return pr.insertMembers(ctx, p.Members)
}

func (pr *projectRepository) GetByID(ctx context.Context, id string) (p models.Project, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := pr.r.extractTxRead(ctx)
	err = db.QueryRowContext(ctx, queryGetProjectByID, id).Scan(&p.ID, &p.Name, &p.FinderID, &p.CreatedAt)
	if err != nil {
		return p, notFound(err, common.ErrProjectNotFound)
	}

	rows, err := db.QueryContext(ctx, queryListProjectMembers, id)
	if err != nil {
		return p, err
	}
	defer rows.Close()

	p.Members = []models.ProjectMember{}
	for rows.Next() {
		var m models.ProjectMember
		if err = rows.Scan(&m.ProjectID, &m.UserID, &m.Share); err != nil {
			return p, err
		}
		p.Members = append(p.Members, m)
	}
	return p, rows.Err()
}

func (pr *projectRepository) ReplaceMembers(ctx context.Context, projectID string, members []models.ProjectMember) (err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := pr.r.extractTxWrite(ctx)
	if _, err = db.ExecContext(ctx, queryDeleteProjectMembers, projectID); err != nil {
		return err
	}
	return pr.insertMembers(ctx, members)
}

func (pr *projectRepository) insertMembers(ctx context.Context, members []models.ProjectMember) error {
	if len(members) == 0 {
		return nil
	}
	query, args, err := buildInsertMembersQuery(members)
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	_, err = pr.r.extractTxWrite(ctx).ExecContext(ctx, query, args...)
	return err
}
