package service

import (
	"context"
	"encoding/json"
	"errors"

	"arcade-server/shared/interfaces"
	"arcade-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewService - движок кворума: превращает поток решений администраторов
// в единственный терминальный исход approve/reject на задачу.
type ReviewService struct {
	txManager  interfaces.TxManager
	db         interfaces.DBTX
	reviewRepo interfaces.ReviewRepository
	logger     *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	txManager interfaces.TxManager,
	db interfaces.DBTX,
	reviewRepo interfaces.ReviewRepository,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		txManager:  txManager,
		db:         db,
		reviewRepo: reviewRepo,
		logger:     logger.Named("ReviewService"),
	}
}

// SetRule задает порог одобрений для модуля ревью. Только для администраторов.
// Порог меньше 1 поднимается до 1.
func (s *ReviewService) SetRule(ctx context.Context, actor models.Actor, moduleKey models.ReviewModuleKey, requiredApprovals int) (*models.ReviewRule, error) {
	if !actor.IsAdmin {
		return nil, models.ErrForbidden
	}
	if !models.ValidReviewModule(moduleKey) {
		return nil, models.ErrInvalidInput
	}
	if requiredApprovals < 1 {
		requiredApprovals = 1
	}

	rule := &models.ReviewRule{
		ModuleKey:         moduleKey,
		RequiredApprovals: requiredApprovals,
	}
	err := s.txManager.WithTx(ctx, func(ctx context.Context, querier interfaces.DBTX) error {
		return s.reviewRepo.UpsertRule(ctx, querier, rule)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Review rule updated",
		zap.String("moduleKey", string(moduleKey)), zap.Int("required", requiredApprovals))
	return rule, nil
}

// ListRules возвращает все настроенные правила ревью. Только для администраторов.
func (s *ReviewService) ListRules(ctx context.Context, actor models.Actor) ([]*models.ReviewRule, error) {
	if !actor.IsAdmin {
		return nil, models.ErrForbidden
	}
	return s.reviewRepo.ListRules(ctx, s.db)
}

// ListPendingTasks возвращает нерешенные задачи ревью для экрана администратора.
// Пустой moduleKey - без фильтра.
func (s *ReviewService) ListPendingTasks(ctx context.Context, actor models.Actor, moduleKey models.ReviewModuleKey) ([]*models.ReviewTask, error) {
	if !actor.IsAdmin {
		return nil, models.ErrForbidden
	}
	if moduleKey != "" && !models.ValidReviewModule(moduleKey) {
		return nil, models.ErrInvalidInput
	}
	return s.reviewRepo.ListPendingTasks(ctx, s.db, moduleKey)
}

// EnsureTaskTx идемпотентно открывает задачу ревью внутри транзакции вызывающего.
// Повторная подача по тому же (moduleKey, targetType, targetId) ничего не меняет.
func (s *ReviewService) EnsureTaskTx(ctx context.Context, querier interfaces.DBTX, moduleKey models.ReviewModuleKey, targetType, targetID string, creatorUserID *uuid.UUID, payload json.RawMessage) error {
	task := &models.ReviewTask{
		ID:            uuid.New(),
		ModuleKey:     moduleKey,
		TargetType:    targetType,
		TargetID:      targetID,
		CreatorUserID: creatorUserID,
		Status:        models.ReviewStatusPending,
		Payload:       payload,
	}
	return s.reviewRepo.CreateTaskIfAbsent(ctx, querier, task)
}

// VoteTx регистрирует решение администратора внутри транзакции вызывающего.
// Строка задачи берется под блокировку, поэтому конкурирующие голоса
// сериализуются и второй голосующий видит обновленный счетчик.
//
// Семантика:
//   - задача в терминальном статусе - no-op, возвращается сохраненный исход;
//   - голос создателя по своей задаче - ErrSelfReview;
//   - повторный голос того же администратора заменяет предыдущий;
//   - approveCount >= required - approved; иначе rejectCount >= required -
//     rejected; иначе задача остается pending и возвращаются текущие счетчики.
func (s *ReviewService) VoteTx(ctx context.Context, querier interfaces.DBTX, actor models.Actor, moduleKey models.ReviewModuleKey, targetType, targetID string, decision models.ReviewDecision, comment string) (*models.VoteResult, error) {
	if !actor.IsAdmin {
		return nil, models.ErrForbidden
	}
	if decision != models.ReviewDecisionApprove && decision != models.ReviewDecisionReject {
		return nil, models.ErrInvalidInput
	}

	task, err := s.reviewRepo.GetTaskForUpdate(ctx, querier, moduleKey, targetType, targetID)
	if err != nil {
		return nil, err
	}

	required, err := s.requiredApprovals(ctx, querier, moduleKey)
	if err != nil {
		return nil, err
	}

	// Терминальный статус никогда не перезаписывается: поздний голос
	// получает сохраненный результат без каких-либо мутаций.
	if task.Status != models.ReviewStatusPending {
		approve, reject, err := s.reviewRepo.CountVotes(ctx, querier, task.ID)
		if err != nil {
			return nil, err
		}
		return &models.VoteResult{
			TaskID:       task.ID,
			Done:         true,
			Status:       task.Status,
			ApproveCount: approve,
			RejectCount:  reject,
			Required:     required,
		}, nil
	}

	if task.CreatorUserID != nil && *task.CreatorUserID == actor.ID {
		return nil, models.ErrSelfReview
	}

	vote := &models.ReviewVote{
		ID:        uuid.New(),
		TaskID:    task.ID,
		AdminID:   actor.ID,
		AdminName: actor.Name,
		Decision:  decision,
		Comment:   comment,
	}
	if err := s.reviewRepo.UpsertVote(ctx, querier, vote); err != nil {
		return nil, err
	}

	approve, reject, err := s.reviewRepo.CountVotes(ctx, querier, task.ID)
	if err != nil {
		return nil, err
	}

	result := &models.VoteResult{
		TaskID:       task.ID,
		Status:       models.ReviewStatusPending,
		ApproveCount: approve,
		RejectCount:  reject,
		Required:     required,
	}

	switch {
	case approve >= required:
		result.Done = true
		result.Status = models.ReviewStatusApproved
	case reject >= required:
		result.Done = true
		result.Status = models.ReviewStatusRejected
	default:
		return result, nil
	}

	if err := s.reviewRepo.UpdateTaskStatus(ctx, querier, task.ID, result.Status); err != nil {
		return nil, err
	}
	s.logger.Info("Review task resolved",
		zap.Stringer("taskID", task.ID),
		zap.String("moduleKey", string(moduleKey)),
		zap.String("status", string(result.Status)),
		zap.Int("approve", approve),
		zap.Int("reject", reject))
	return result, nil
}

func (s *ReviewService) requiredApprovals(ctx context.Context, querier interfaces.DBTX, moduleKey models.ReviewModuleKey) (int, error) {
	rule, err := s.reviewRepo.GetRule(ctx, querier, moduleKey)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.DefaultRequiredApprovals, nil
		}
		return 0, err
	}
	if rule.RequiredApprovals < 1 {
		return 1, nil
	}
	return rule.RequiredApprovals, nil
}
