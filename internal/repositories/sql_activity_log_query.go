package repositories

const (
	queryInsertActivityLog = `INSERT INTO activity_logs (id, project_id, message, created_at) VALUES ($1, $2, $3, $4)`

	queryListActivityLogsByProject = `SELECT id, project_id, message, created_at FROM activity_logs
		WHERE project_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
)
