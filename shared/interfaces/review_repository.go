package interfaces

import (
	"context"

	"arcade-server/shared/models"

	"github.com/google/uuid"
)

// ReviewRepository defines the interface for review rules, tasks and votes.
//
//go:generate mockery --name ReviewRepository --output ./mocks --outpkg mocks --case=underscore
type ReviewRepository interface {
	// UpsertRule создает или обновляет порог одобрений для модуля.
	UpsertRule(ctx context.Context, querier DBTX, rule *models.ReviewRule) error

	// GetRule возвращает правило модуля или models.ErrNotFound.
	GetRule(ctx context.Context, querier DBTX, moduleKey models.ReviewModuleKey) (*models.ReviewRule, error)

	// ListRules возвращает все правила.
	ListRules(ctx context.Context, querier DBTX) ([]*models.ReviewRule, error)

	// CreateTaskIfAbsent идемпотентно создает задачу ревью
	// (ON CONFLICT (module_key, target_type, target_id) DO NOTHING).
	CreateTaskIfAbsent(ctx context.Context, querier DBTX, task *models.ReviewTask) error

	// GetTaskForUpdate читает задачу по ключу с блокировкой строки (FOR UPDATE).
	// Это точка сериализации конкурирующих голосов администраторов.
	GetTaskForUpdate(ctx context.Context, querier DBTX, moduleKey models.ReviewModuleKey, targetType, targetID string) (*models.ReviewTask, error)

	// GetTaskByTarget читает задачу без блокировки.
	GetTaskByTarget(ctx context.Context, querier DBTX, moduleKey models.ReviewModuleKey, targetType, targetID string) (*models.ReviewTask, error)

	// UpdateTaskStatus переводит задачу в терминальный статус.
	UpdateTaskStatus(ctx context.Context, querier DBTX, taskID uuid.UUID, status models.ReviewStatus) error

	// UpsertVote записывает голос администратора; повторный голос того же
	// администратора заменяет решение и комментарий.
	UpsertVote(ctx context.Context, querier DBTX, vote *models.ReviewVote) error

	// CountVotes пересчитывает счетчики approve/reject по всем голосам задачи.
	CountVotes(ctx context.Context, querier DBTX, taskID uuid.UUID) (approve int, reject int, err error)

	// ListPendingTasks возвращает незавершенные задачи модуля (или всех модулей,
	// если moduleKey пустой), новые первыми.
	ListPendingTasks(ctx context.Context, querier DBTX, moduleKey models.ReviewModuleKey) ([]*models.ReviewTask, error)
}
