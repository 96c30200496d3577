package repository

import (
	"context"
	"errors"
	"time"

	"arcade-server/shared/interfaces"
	"arcade-server/shared/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.ReviewRepository = (*pgReviewRepository)(nil)

type pgReviewRepository struct {
	logger *zap.Logger
}

// NewPgReviewRepository creates a new repository instance.
func NewPgReviewRepository(logger *zap.Logger) interfaces.ReviewRepository {
	return &pgReviewRepository{
		logger: logger.Named("PgReviewRepo"),
	}
}

const upsertRuleQuery = `
INSERT INTO review_rules (module_key, required_approvals, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (module_key) DO UPDATE SET
    required_approvals = EXCLUDED.required_approvals,
    updated_at = EXCLUDED.updated_at`

const getRuleQuery = `
SELECT module_key, required_approvals, updated_at
FROM review_rules
WHERE module_key = $1`

const listRulesQuery = `
SELECT module_key, required_approvals, updated_at
FROM review_rules
ORDER BY module_key`

const createTaskIfAbsentQuery = `
INSERT INTO review_tasks (id, module_key, target_type, target_id, creator_user_id, status, payload, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
ON CONFLICT (module_key, target_type, target_id) DO NOTHING`

const getTaskByTargetQuery = `
SELECT id, module_key, target_type, target_id, creator_user_id, status, payload, created_at, updated_at
FROM review_tasks
WHERE module_key = $1 AND target_type = $2 AND target_id = $3`

// FOR UPDATE: точка сериализации конкурирующих голосов по одной задаче.
const getTaskForUpdateQuery = getTaskByTargetQuery + `
FOR UPDATE`

const updateTaskStatusQuery = `
UPDATE review_tasks SET status = $2, updated_at = $3 WHERE id = $1`

const upsertVoteQuery = `
INSERT INTO review_votes (id, task_id, admin_id, admin_name, decision, comment, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (task_id, admin_id) DO UPDATE SET
    admin_name = EXCLUDED.admin_name,
    decision = EXCLUDED.decision,
    comment = EXCLUDED.comment,
    created_at = EXCLUDED.created_at`

const countVotesQuery = `
SELECT
    COUNT(*) FILTER (WHERE decision = 'approve'),
    COUNT(*) FILTER (WHERE decision = 'reject')
FROM review_votes
WHERE task_id = $1`

const listPendingTasksQuery = `
SELECT id, module_key, target_type, target_id, creator_user_id, status, payload, created_at, updated_at
FROM review_tasks
WHERE status = 'pending' AND ($1 = '' OR module_key = $1)
ORDER BY created_at DESC`

func (r *pgReviewRepository) UpsertRule(ctx context.Context, querier interfaces.DBTX, rule *models.ReviewRule) error {
	rule.UpdatedAt = time.Now()
	_, err := querier.Exec(ctx, upsertRuleQuery, rule.ModuleKey, rule.RequiredApprovals, rule.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to upsert review rule", zap.String("moduleKey", string(rule.ModuleKey)), zap.Error(err))
		return err
	}
	r.logger.Debug("Upserted review rule", zap.String("moduleKey", string(rule.ModuleKey)), zap.Int("required", rule.RequiredApprovals))
	return nil
}

func (r *pgReviewRepository) GetRule(ctx context.Context, querier interfaces.DBTX, moduleKey models.ReviewModuleKey) (*models.ReviewRule, error) {
	rule := &models.ReviewRule{}
	err := querier.QueryRow(ctx, getRuleQuery, moduleKey).Scan(&rule.ModuleKey, &rule.RequiredApprovals, &rule.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get review rule", zap.String("moduleKey", string(moduleKey)), zap.Error(err))
		return nil, err
	}
	return rule, nil
}

func (r *pgReviewRepository) ListRules(ctx context.Context, querier interfaces.DBTX) ([]*models.ReviewRule, error) {
	rows, err := querier.Query(ctx, listRulesQuery)
	if err != nil {
		r.logger.Error("Failed to list review rules", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var rules []*models.ReviewRule
	for rows.Next() {
		rule := &models.ReviewRule{}
		if err := rows.Scan(&rule.ModuleKey, &rule.RequiredApprovals, &rule.UpdatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *pgReviewRepository) CreateTaskIfAbsent(ctx context.Context, querier interfaces.DBTX, task *models.ReviewTask) error {
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	_, err := querier.Exec(ctx, createTaskIfAbsentQuery,
		task.ID, task.ModuleKey, task.TargetType, task.TargetID, task.CreatorUserID, task.Status, task.Payload, now)
	if err != nil {
		r.logger.Error("Failed to create review task",
			zap.String("moduleKey", string(task.ModuleKey)), zap.String("targetID", task.TargetID), zap.Error(err))
		return err
	}
	return nil
}

func (r *pgReviewRepository) GetTaskForUpdate(ctx context.Context, querier interfaces.DBTX, moduleKey models.ReviewModuleKey, targetType, targetID string) (*models.ReviewTask, error) {
	return r.scanTask(ctx, querier, getTaskForUpdateQuery, moduleKey, targetType, targetID)
}

func (r *pgReviewRepository) GetTaskByTarget(ctx context.Context, querier interfaces.DBTX, moduleKey models.ReviewModuleKey, targetType, targetID string) (*models.ReviewTask, error) {
	return r.scanTask(ctx, querier, getTaskByTargetQuery, moduleKey, targetType, targetID)
}

func (r *pgReviewRepository) scanTask(ctx context.Context, querier interfaces.DBTX, query string, moduleKey models.ReviewModuleKey, targetType, targetID string) (*models.ReviewTask, error) {
	task := &models.ReviewTask{}
	err := querier.QueryRow(ctx, query, moduleKey, targetType, targetID).Scan(
		&task.ID,
		&task.ModuleKey,
		&task.TargetType,
		&task.TargetID,
		&task.CreatorUserID,
		&task.Status,
		&task.Payload,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTaskNotFound
		}
		r.logger.Error("Failed to get review task",
			zap.String("moduleKey", string(moduleKey)), zap.String("targetID", targetID), zap.Error(err))
		return nil, err
	}
	return task, nil
}

func (r *pgReviewRepository) UpdateTaskStatus(ctx context.Context, querier interfaces.DBTX, taskID uuid.UUID, status models.ReviewStatus) error {
	cmdTag, err := querier.Exec(ctx, updateTaskStatusQuery, taskID, status, time.Now())
	if err != nil {
		r.logger.Error("Failed to update review task status", zap.Stringer("taskID", taskID), zap.Error(err))
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrTaskNotFound
	}
	return nil
}

func (r *pgReviewRepository) UpsertVote(ctx context.Context, querier interfaces.DBTX, vote *models.ReviewVote) error {
	vote.CreatedAt = time.Now()
	_, err := querier.Exec(ctx, upsertVoteQuery,
		vote.ID, vote.TaskID, vote.AdminID, vote.AdminName, vote.Decision, vote.Comment, vote.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to upsert review vote",
			zap.Stringer("taskID", vote.TaskID), zap.Stringer("adminID", vote.AdminID), zap.Error(err))
		return err
	}
	return nil
}

func (r *pgReviewRepository) CountVotes(ctx context.Context, querier interfaces.DBTX, taskID uuid.UUID) (int, int, error) {
	var approve, reject int
	err := querier.QueryRow(ctx, countVotesQuery, taskID).Scan(&approve, &reject)
	if err != nil {
		r.logger.Error("Failed to count review votes", zap.Stringer("taskID", taskID), zap.Error(err))
		return 0, 0, err
	}
	return approve, reject, nil
}

func (r *pgReviewRepository) ListPendingTasks(ctx context.Context, querier interfaces.DBTX, moduleKey models.ReviewModuleKey) ([]*models.ReviewTask, error) {
	rows, err := querier.Query(ctx, listPendingTasksQuery, string(moduleKey))
	if err != nil {
		r.logger.Error("Failed to list pending review tasks", zap.String("moduleKey", string(moduleKey)), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.ReviewTask
	for rows.Next() {
		task := &models.ReviewTask{}
		if err := rows.Scan(
			&task.ID,
			&task.ModuleKey,
			&task.TargetType,
			&task.TargetID,
			&task.CreatorUserID,
			&task.Status,
			&task.Payload,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
