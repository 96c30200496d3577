package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"arcade-server/shared/interfaces"
	"arcade-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Стартовые характеристики участника забега.
const (
	defaultPlayerHP     = 100
	defaultPlayerEnergy = 100
)

// Сколько последних событий отдается в снимке состояния.
const stateEventLimit = 100

type actionEffect struct {
	ScoreDelta  int
	EnergyDelta int
	HPDelta     int
}

// Серверная таблица действий. Клиентские payload'ы никогда не влияют
// на дельты - только на текст события.
var actionEffects = map[string]actionEffect{
	"attack":   {ScoreDelta: 10, EnergyDelta: -10},
	"defend":   {ScoreDelta: 2, EnergyDelta: -5},
	"heal":     {EnergyDelta: -15, HPDelta: 20},
	"explore":  {ScoreDelta: 5, EnergyDelta: -8},
	"rest":     {EnergyDelta: 20, HPDelta: 5},
	"sabotage": {ScoreDelta: 8, EnergyDelta: -12, HPDelta: -5},
}

// Неизвестное действие стоит немного энергии и ничего не дает.
var defaultActionEffect = actionEffect{EnergyDelta: -3}

// RunState - полный снимок активного забега.
type RunState struct {
	Run     *models.CustomGameRun `json:"run"`
	Players []*models.RunPlayer   `json:"players"`
	Events  []*models.RunEvent    `json:"events"`
}

// RunService - движок забега: участники, действия, стадии и расчет.
type RunService struct {
	txManager interfaces.TxManager
	db        interfaces.DBTX
	gameRepo  interfaces.GameRepository
	runRepo   interfaces.RunRepository
	statsRepo interfaces.StatsRepository
	logger    *zap.Logger
}

// NewRunService creates a new RunService.
func NewRunService(
	txManager interfaces.TxManager,
	db interfaces.DBTX,
	gameRepo interfaces.GameRepository,
	runRepo interfaces.RunRepository,
	statsRepo interfaces.StatsRepository,
	logger *zap.Logger,
) *RunService {
	return &RunService{
		txManager: txManager,
		db:        db,
		gameRepo:  gameRepo,
		runRepo:   runRepo,
		statsRepo: statsRepo,
		logger:    logger.Named("RunService"),
	}
}

// ActiveRun возвращает активный забег игры или models.ErrRunNotFound.
func (s *RunService) ActiveRun(ctx context.Context, gameID uuid.UUID) (*models.CustomGameRun, error) {
	return s.runRepo.GetActiveByGameID(ctx, s.db, gameID)
}

// Join идемпотентно добавляет участника в активный забег.
// Повторный вызов возвращает существующую строку без мутаций.
func (s *RunService) Join(ctx context.Context, actor models.Actor, gameID uuid.UUID) (*models.RunPlayer, error) {
	var player *models.RunPlayer
	err := s.txManager.WithTx(ctx, func(ctx context.Context, querier interfaces.DBTX) error {
		run, err := s.runRepo.GetActiveByGameIDForUpdate(ctx, querier, gameID)
		if err != nil {
			return err
		}

		player, err = s.runRepo.GetPlayer(ctx, querier, run.ID, actor.ID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return err
		}

		player = &models.RunPlayer{
			ID:       uuid.New(),
			RunID:    run.ID,
			UserID:   actor.ID,
			Name:     actor.Name,
			HP:       defaultPlayerHP,
			Energy:   defaultPlayerEnergy,
			Alive:    true,
			JoinedAt: time.Now(),
		}
		if err := s.runRepo.CreatePlayer(ctx, querier, player); err != nil {
			return err
		}
		return s.appendEvent(ctx, querier, run.ID, &actor.ID, models.RunEventJoin,
			fmt.Sprintf("%s присоединился к забегу", actor.Name), nil)
	})
	if err != nil {
		return nil, err
	}
	return player, nil
}

// GetState возвращает забег вместе с участниками и последними событиями.
func (s *RunService) GetState(ctx context.Context, gameID uuid.UUID) (*RunState, error) {
	run, err := s.runRepo.GetActiveByGameID(ctx, s.db, gameID)
	if err != nil {
		return nil, err
	}
	players, err := s.runRepo.ListPlayers(ctx, s.db, run.ID)
	if err != nil {
		return nil, err
	}
	events, err := s.runRepo.ListEvents(ctx, s.db, run.ID, stateEventLimit)
	if err != nil {
		return nil, err
	}
	return &RunState{Run: run, Players: players, Events: events}, nil
}

// SubmitAction применяет серверные дельты действия к характеристикам игрока.
// hp и energy никогда не уходят ниже нуля; alive пересчитывается как hp > 0.
// Действовать может только присоединившийся игрок и только за себя.
func (s *RunService) SubmitAction(ctx context.Context, actor models.Actor, gameID uuid.UUID, actionType string, payload json.RawMessage) (*models.RunPlayer, error) {
	effect, known := actionEffects[actionType]
	if !known {
		effect = defaultActionEffect
	}

	var player *models.RunPlayer
	err := s.txManager.WithTx(ctx, func(ctx context.Context, querier interfaces.DBTX) error {
		run, err := s.runRepo.GetActiveByGameIDForUpdate(ctx, querier, gameID)
		if err != nil {
			return err
		}

		player, err = s.runRepo.GetPlayerForUpdate(ctx, querier, run.ID, actor.ID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return models.ErrNotJoined
			}
			return err
		}

		player.Score += effect.ScoreDelta
		player.Energy = clampMin(player.Energy+effect.EnergyDelta, 0)
		player.HP = clampMin(player.HP+effect.HPDelta, 0)
		player.Alive = player.HP > 0
		if err := s.runRepo.UpdatePlayerState(ctx, querier, player); err != nil {
			return err
		}

		eventPayload, _ := json.Marshal(map[string]any{
			"actionType": actionType,
			"known":      known,
			"score":      player.Score,
			"hp":         player.HP,
			"energy":     player.Energy,
		})
		return s.appendEvent(ctx, querier, run.ID, &actor.ID, models.RunEventAction,
			fmt.Sprintf("%s: %s", actor.Name, actionType), eventPayload)
	})
	if err != nil {
		return nil, err
	}
	return player, nil
}

// ConfigureStages заменяет конфигурацию стадий нормализованным списком
// ровно из totalStages записей. Только администратор или создатель забега.
func (s *RunService) ConfigureStages(ctx context.Context, actor models.Actor, gameID uuid.UUID, totalStages int, stages []models.StageConfig) (*models.CustomGameRun, error) {
	var run *models.CustomGameRun
	err := s.txManager.WithTx(ctx, func(ctx context.Context, querier interfaces.DBTX) error {
		var err error
		run, err = s.runRepo.GetActiveByGameIDForUpdate(ctx, querier, gameID)
		if err != nil {
			return err
		}
		if !actor.CanControlRun(run) {
			return models.ErrForbidden
		}

		run.TotalStages = clampStages(totalStages)
		run.StageConfigs = normalizeStages(stages, run.TotalStages)
		if run.CurrentStage > run.TotalStages {
			run.CurrentStage = run.TotalStages
		}
		return s.runRepo.UpdateStages(ctx, querier, run.ID, run.CurrentStage, run.TotalStages, run.StageConfigs)
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// NextStage продвигает забег на следующую стадию.
// На последней стадии возвращает models.ErrAlreadyFinal.
func (s *RunService) NextStage(ctx context.Context, actor models.Actor, gameID uuid.UUID) (int, error) {
	var newStage int
	err := s.txManager.WithTx(ctx, func(ctx context.Context, querier interfaces.DBTX) error {
		run, err := s.runRepo.GetActiveByGameIDForUpdate(ctx, querier, gameID)
		if err != nil {
			return err
		}
		if !actor.CanControlRun(run) {
			return models.ErrForbidden
		}
		if run.CurrentStage >= run.TotalStages {
			return models.ErrAlreadyFinal
		}

		newStage = run.CurrentStage + 1
		return s.runRepo.UpdateStages(ctx, querier, run.ID, newStage, run.TotalStages, run.StageConfigs)
	})
	if err != nil {
		return 0, err
	}
	return newStage, nil
}

// PatchMap вливает частичный объект в снимок карты забега: новые ключи
// перекрывают старые, остальные не трогаются. Реестр карт не изменяется.
func (s *RunService) PatchMap(ctx context.Context, actor models.Actor, gameID uuid.UUID, patch json.RawMessage) (json.RawMessage, error) {
	var merged json.RawMessage
	err := s.txManager.WithTx(ctx, func(ctx context.Context, querier interfaces.DBTX) error {
		run, err := s.runRepo.GetActiveByGameIDForUpdate(ctx, querier, gameID)
		if err != nil {
			return err
		}
		if !actor.CanControlRun(run) {
			return models.ErrForbidden
		}

		merged, err = shallowMerge(run.MapSnapshot, patch)
		if err != nil {
			return err
		}
		return s.runRepo.UpdateSnapshot(ctx, querier, run.ID, merged)
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// GrantScore начисляет игроку произвольное знаковое количество очков.
func (s *RunService) GrantScore(ctx context.Context, actor models.Actor, gameID, userID uuid.UUID, points int, reason string, stage int) (int, error) {
	var newScore int
	err := s.txManager.WithTx(ctx, func(ctx context.Context, querier interfaces.DBTX) error {
		run, err := s.runRepo.GetActiveByGameIDForUpdate(ctx, querier, gameID)
		if err != nil {
			return err
		}
		if !actor.CanControlRun(run) {
			return models.ErrForbidden
		}

		player, err := s.runRepo.GetPlayerForUpdate(ctx, querier, run.ID, userID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return models.ErrNotJoined
			}
			return err
		}

		player.Score += points
		if err := s.runRepo.UpdatePlayerState(ctx, querier, player); err != nil {
			return err
		}
		newScore = player.Score

		eventPayload, _ := json.Marshal(map[string]any{
			"userId": userID,
			"points": points,
			"reason": reason,
			"stage":  stage,
		})
		return s.appendEvent(ctx, querier, run.ID, &actor.ID, models.RunEventScoreGrant,
			fmt.Sprintf("начислено %d очков: %s", points, reason), eventPayload)
	})
	if err != nil {
		return 0, err
	}
	return newScore, nil
}

// End завершает забег и проводит расчет: рейтинг по очкам (ничьи - по порядку
// присоединения), обновление пожизненной статистики каждого участника,
// событие run_end с полным рейтингом, родительская игра - в ended.
// Повторный вызов отбивается ErrAlreadyEnded до любых мутаций, поэтому
// расчет идемпотентен по построению.
func (s *RunService) End(ctx context.Context, actor models.Actor, gameID uuid.UUID) ([]models.RankEntry, error) {
	var ranking []models.RankEntry
	err := s.txManager.WithTx(ctx, func(ctx context.Context, querier interfaces.DBTX) error {
		run, err := s.runRepo.GetActiveByGameIDForUpdate(ctx, querier, gameID)
		if err != nil {
			if errors.Is(err, models.ErrRunNotFound) {
				// Активного забега нет; если последний уже завершен - двойной расчет.
				latest, lerr := s.runRepo.GetLatestByGameID(ctx, querier, gameID)
				if lerr == nil && latest.Status == models.RunStatusEnded {
					return models.ErrAlreadyEnded
				}
			}
			return err
		}
		if !actor.CanControlRun(run) {
			return models.ErrForbidden
		}

		endedAt := time.Now()
		if err := s.runRepo.End(ctx, querier, run.ID, endedAt); err != nil {
			return err
		}

		players, err := s.runRepo.ListPlayers(ctx, querier, run.ID)
		if err != nil {
			return err
		}
		ranking = rankPlayers(players)

		for _, entry := range ranking {
			if err := s.statsRepo.ApplyRunResult(ctx, querier, entry.UserID, entry.Score, entry.Rank == 1); err != nil {
				return err
			}
		}

		eventPayload, _ := json.Marshal(map[string]any{"ranking": ranking})
		if err := s.appendEvent(ctx, querier, run.ID, &actor.ID, models.RunEventRunEnd,
			"Забег завершен", eventPayload); err != nil {
			return err
		}
		return s.gameRepo.UpdateStatus(ctx, querier, gameID, models.GameStatusEnded)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Run settled", zap.Stringer("gameID", gameID), zap.Int("players", len(ranking)))
	return ranking, nil
}

// Settlement возвращает финальный рейтинг уже завершенного забега.
func (s *RunService) Settlement(ctx context.Context, gameID uuid.UUID) ([]models.RankEntry, error) {
	run, err := s.runRepo.GetLatestByGameID(ctx, s.db, gameID)
	if err != nil {
		return nil, err
	}
	if run.Status != models.RunStatusEnded {
		return nil, fmt.Errorf("%w: run is not ended yet", models.ErrInvalidState)
	}
	players, err := s.runRepo.ListPlayers(ctx, s.db, run.ID)
	if err != nil {
		return nil, err
	}
	return rankPlayers(players), nil
}

// PlayerStats возвращает пожизненную статистику игрока.
func (s *RunService) PlayerStats(ctx context.Context, userID uuid.UUID) (*models.PlayerStats, error) {
	return s.statsRepo.Get(ctx, s.db, userID)
}

func (s *RunService) appendEvent(ctx context.Context, querier interfaces.DBTX, runID uuid.UUID, actorID *uuid.UUID, eventType, message string, payload json.RawMessage) error {
	return s.runRepo.AppendEvent(ctx, querier, &models.RunEvent{
		ID:          uuid.New(),
		RunID:       runID,
		ActorUserID: actorID,
		EventType:   eventType,
		Message:     message,
		Payload:     payload,
		CreatedAt:   time.Now(),
	})
}

// rankPlayers строит рейтинг: очки по убыванию, ничьи - по порядку
// присоединения (вход уже отсортирован по joined_at).
func rankPlayers(players []*models.RunPlayer) []models.RankEntry {
	sorted := make([]*models.RunPlayer, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	ranking := make([]models.RankEntry, 0, len(sorted))
	for i, p := range sorted {
		ranking = append(ranking, models.RankEntry{
			Rank:   i + 1,
			UserID: p.UserID,
			Name:   p.Name,
			Score:  p.Score,
		})
	}
	return ranking
}

// clampStages удерживает количество стадий в допустимых пределах.
func clampStages(total int) int {
	if total < models.MinTotalStages {
		return models.MinTotalStages
	}
	if total > models.MaxTotalStages {
		return models.MaxTotalStages
	}
	return total
}

// normalizeStages приводит список к ровно total записям;
// пропущенные имена заполняются как "Stage N".
func normalizeStages(stages []models.StageConfig, total int) []models.StageConfig {
	normalized := make([]models.StageConfig, total)
	for i := 0; i < total; i++ {
		normalized[i].Index = i + 1
		normalized[i].Name = fmt.Sprintf("Stage %d", i+1)
		if i < len(stages) {
			if stages[i].Name != "" {
				normalized[i].Name = stages[i].Name
			}
			normalized[i].Desc = stages[i].Desc
		}
	}
	return normalized
}

// shallowMerge вливает patch в snapshot на верхнем уровне.
// Нечитаемый JSON деградирует до пустого объекта вместо ошибки.
func shallowMerge(snapshot, patch json.RawMessage) (json.RawMessage, error) {
	base := map[string]any{}
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &base); err != nil {
			base = map[string]any{}
		}
	}
	delta := map[string]any{}
	if len(patch) > 0 {
		if err := json.Unmarshal(patch, &delta); err != nil {
			delta = map[string]any{}
		}
	}
	for k, v := range delta {
		base[k] = v
	}
	return json.Marshal(base)
}

func clampMin(v, min int) int {
	if v < min {
		return min
	}
	return v
}
