package repositories

import (
	"github.com/agencyhq/go-agency-ledger/internal/models"
)

const (
	queryInsertProject = `INSERT INTO projects (id, name, finder_id, created_at) VALUES ($1, $2, $3, $4)`

	queryGetProjectByID = `SELECT id, name, finder_id, created_at FROM projects WHERE id = $1`

	queryListProjectMembers = `SELECT project_id, user_id, share FROM project_members
		WHERE project_id = $1 ORDER BY user_id`

	queryDeleteProjectMembers = `DELETE FROM project_members WHERE project_id = $1`
)

func buildInsertMembersQuery(members []models.ProjectMember) (string, []any, error) {
	q := psql.Insert("project_members").Columns("project_id", "user_id", "share")
	for _, m := range members {
		q = q.Values(m.ProjectID, m.UserID, m.Share)
	}
	return q.ToSql()
}
