package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/agencyhq/go-agency-ledger/internal/common"
	"github.com/agencyhq/go-agency-ledger/internal/models"
	"github.com/agencyhq/go-agency-ledger/internal/monitoring"
	"github.com/agencyhq/go-agency-ledger/internal/repositories"
)

type ProjectService interface {
	Create(ctx context.Context, req models.CreateProjectRequest) (models.Project, error)
	Get(ctx context.Context, id string) (models.Project, error)
	// ReplaceMembers swaps the project team. Existing ledger entries are not touched; use
	// PaymentService.Resplit to apply the new shares to a payment.
	ReplaceMembers(ctx context.Context, id string, req models.ReplaceMembersRequest) (models.Project, error)
	ListActivities(ctx context.Context, id string, limit int) ([]models.ActivityLog, error)
}

type project service

var _ ProjectService = (*project)(nil)

func (ps *project) Create(ctx context.Context, req models.CreateProjectRequest) (res models.Project, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	if err = checkUniqueMembers(req.Members); err != nil {
		return res, err
	}

	id := uuid.NewString()
	res = models.Project{
		ID:        id,
		Name:      req.Name,
		FinderID:  req.FinderID,
		Members:   models.ToProjectMembers(id, req.Members),
		CreatedAt: ps.srv.now(),
	}

	err = ps.srv.sqlRepo.Atomic(ctx, func(ctx context.Context, r repositories.SQLRepository) error {
		return r.GetProjectRepository().Create(ctx, res)
	})
	if err != nil {
		return models.Project{}, common.TransactionFailure(err)
	}

	ps.base().appendActivity(ctx, &id, fmt.Sprintf("Project %s created with %d team members", res.Name, len(res.Members)))

	return res, nil
}

func (ps *project) Get(ctx context.Context, id string) (res models.Project, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	return ps.srv.sqlRepo.GetProjectRepository().GetByID(ctx, id)
}

func (ps *project) ReplaceMembers(ctx context.Context, id string, req models.ReplaceMembersRequest) (res models.Project, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	if err = checkUniqueMembers(req.Members); err != nil {
		return res, err
	}

	members := models.ToProjectMembers(id, req.Members)
	err = ps.srv.sqlRepo.Atomic(ctx, func(ctx context.Context, r repositories.SQLRepository) error {
		projectRepo := r.GetProjectRepository()

		var errTx error
		if res, errTx = projectRepo.GetByID(ctx, id); errTx != nil {
			return errTx
		}
		if errTx = projectRepo.ReplaceMembers(ctx, id, members); errTx != nil {
			return errTx
		}
		res.Members = members
		return nil
	})
	if err != nil {
		return models.Project{}, common.TransactionFailure(err)
	}

	ps.base().appendActivity(ctx, &id, fmt.Sprintf("Team of project %s updated: %d members, total share %d",
		res.Name, len(res.Members), res.TotalShare()))

	return res, nil
}

func (ps *project) ListActivities(ctx context.Context, id string, limit int) (logs []models.ActivityLog, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	return ps.srv.sqlRepo.GetActivityLogRepository().ListByProject(ctx, id, limit)
}

func checkUniqueMembers(members []models.ProjectMemberRequest) error {
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if _, ok := seen[m.UserID]; ok {
			return fmt.Errorf("%w: %s", common.ErrDuplicateMember, m.UserID)
		}
		seen[m.UserID] = struct{}{}
	}
	return nil
}

func (ps *project) base() *service {
	return (*service)(ps)
}
