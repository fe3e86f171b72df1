package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"weekly-plan/backend/internal/dto"
	"weekly-plan/backend/internal/model"
	"weekly-plan/backend/internal/repository"
)

// StatsService 计划聚合统计业务接口
type StatsService interface {
	PlanItemStats(ctx context.Context, planID string) (*dto.PlanStatsResponse, error)
	GetPlanItemStats(ctx context.Context, planIDs []string) (map[string]dto.PlanItemStat, error)
	TeamOverview(ctx context.Context, req *dto.TeamOverviewRequest) (*dto.TeamOverviewResponse, error)
}

type statsService struct {
	repo    *repository.Repository
	periods PeriodService
	logger  *zap.Logger
}

// NewStatsService 创建 StatsService 实例
func NewStatsService(repo *repository.Repository, periods PeriodService, logger *zap.Logger) StatsService {
	return &statsService{repo: repo, periods: periods, logger: logger}
}

// ────────────────────── 工时口径 ──────────────────────
//
// 报表工时统一保留 1 位小数，四舍五入（3.05 → 3.1）。
// 浮点直接累加会在 .x5 边界产生尾差，这里用 decimal 逐项累加后再取整。

// itemHours 条目工时：有明细时取明细之和，否则回退条目预估工时
func itemHours(item *model.PlanItem) decimal.Decimal {
	if len(item.Details) > 0 {
		sum := decimal.Zero
		for i := range item.Details {
			if h := item.Details[i].Hours; h != nil {
				sum = sum.Add(decimal.NewFromFloat(*h))
			}
		}
		return sum
	}
	if item.EstimatedHours != nil {
		return decimal.NewFromFloat(*item.EstimatedHours)
	}
	return decimal.Zero
}

// itemEstimated 条目预估工时（不含明细回退，纯计划口径）
func itemEstimated(item *model.PlanItem) decimal.Decimal {
	if item.EstimatedHours != nil {
		return decimal.NewFromFloat(*item.EstimatedHours)
	}
	return decimal.Zero
}

// ItemActualHours 条目实际工时（1 位小数）
func ItemActualHours(item *model.PlanItem) float64 {
	return round1(itemHours(item))
}

// PlanTotalHours 计划总工时：条目工时逐项累加后再取整
func PlanTotalHours(items []model.PlanItem) float64 {
	sum := decimal.Zero
	for i := range items {
		sum = sum.Add(itemHours(&items[i]))
	}
	return round1(sum)
}

func round1(d decimal.Decimal) float64 {
	f, _ := d.Round(1).Float64()
	return f
}

// ────────────────────── GetPlanItemStats ──────────────────────

// GetPlanItemStats 批量汇总多份计划的预估/实际工时与条目数
// 每个请求的 plan_id 都预置零值行：无条目的计划返回全零而不是缺键。
// decimal 逐项累加，最后统一保留 1 位小数
func (s *statsService) GetPlanItemStats(ctx context.Context, planIDs []string) (map[string]dto.PlanItemStat, error) {
	type accum struct {
		est, act decimal.Decimal
		items    int
	}
	sums := make(map[string]*accum, len(planIDs))
	for _, id := range planIDs {
		if _, ok := sums[id]; !ok {
			sums[id] = &accum{}
		}
	}

	items, err := s.repo.Plan.ListItemsByPlanIDs(ctx, planIDs)
	if err != nil {
		s.logger.Error("查询计划条目失败", zap.Error(err))
		return nil, err
	}
	for i := range items {
		acc, ok := sums[items[i].PlanID]
		if !ok {
			continue
		}
		acc.items++
		acc.est = acc.est.Add(itemEstimated(&items[i]))
		acc.act = acc.act.Add(itemHours(&items[i]))
	}

	result := make(map[string]dto.PlanItemStat, len(sums))
	for id, acc := range sums {
		result[id] = dto.PlanItemStat{
			EstimatedHours: round1(acc.est),
			ActualHours:    round1(acc.act),
			ItemCount:      acc.items,
		}
	}
	return result, nil
}

// ────────────────────── PlanItemStats ──────────────────────

// PlanItemStats 按工作大类聚合单份计划：全部启用大类预置零值行，
// 再把条目工时与条数落到对应大类
func (s *statsService) PlanItemStats(ctx context.Context, planID string) (*dto.PlanStatsResponse, error) {
	plan, err := s.repo.Plan.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	cats, err := s.repo.Category.ListEnabled(ctx)
	if err != nil {
		s.logger.Error("查询大类失败", zap.Error(err))
		return nil, err
	}

	stats := make([]dto.CategoryStats, len(cats))
	index := make(map[string]int, len(cats))
	for i := range cats {
		stats[i] = dto.CategoryStats{
			CategoryID:   cats[i].CategoryID,
			CategoryName: cats[i].Name,
		}
		index[cats[i].CategoryID] = i
	}

	sums := make([]decimal.Decimal, len(cats))
	estSums := make([]decimal.Decimal, len(cats))
	total := decimal.Zero
	totalEst := decimal.Zero
	for i := range plan.Items {
		item := &plan.Items[i]
		hours := itemHours(item)
		est := itemEstimated(item)
		total = total.Add(hours)
		totalEst = totalEst.Add(est)
		if item.CategoryID == nil {
			continue // 未分类条目计入总工时，不落大类行
		}
		pos, ok := index[*item.CategoryID]
		if !ok {
			continue // 已停用大类下的历史条目同样只计总工时
		}
		stats[pos].ItemCount++
		sums[pos] = sums[pos].Add(hours)
		estSums[pos] = estSums[pos].Add(est)
	}
	for i := range stats {
		stats[i].Hours = round1(sums[i])
		stats[i].EstimatedHours = round1(estSums[i])
	}

	return &dto.PlanStatsResponse{
		PlanID:              plan.PlanID,
		Categories:          stats,
		TotalHours:          round1(total),
		TotalEstimatedHours: round1(totalEst),
	}, nil
}

// ────────────────────── TeamOverview ──────────────────────

// TeamOverview 某周期各团队的填报概览
//
// 两个计数口径刻意不同：registered 只认"有条目"的计划，
// missing 按"建过计划的人"去重后与团队人数取差。空计划既不算已填报，
// 也不算缺报——历史报表依赖这一不对称口径。
func (s *statsService) TeamOverview(ctx context.Context, req *dto.TeamOverviewRequest) (*dto.TeamOverviewResponse, error) {
	period, err := s.periods.Resolve(ctx, req.Year, req.WeekNo, req.Date)
	if err != nil {
		return nil, err
	}

	teams, err := s.repo.Team.List(ctx, false)
	if err != nil {
		s.logger.Error("查询团队失败", zap.Error(err))
		return nil, err
	}
	if len(req.TeamIDs) > 0 {
		want := make(map[string]struct{}, len(req.TeamIDs))
		for _, id := range req.TeamIDs {
			want[id] = struct{}{}
		}
		filtered := teams[:0]
		for _, t := range teams {
			if _, ok := want[t.TeamID]; ok {
				filtered = append(filtered, t)
			}
		}
		teams = filtered
	}

	teamIDs := make([]string, len(teams))
	for i := range teams {
		teamIDs[i] = teams[i].TeamID
	}

	users, err := s.repo.User.ListByTeamIDs(ctx, teamIDs)
	if err != nil {
		s.logger.Error("查询团队成员失败", zap.Error(err))
		return nil, err
	}
	plans, err := s.repo.Plan.ListByPeriod(ctx, period.PeriodID, teamIDs)
	if err != nil {
		s.logger.Error("查询周期计划失败", zap.Error(err))
		return nil, err
	}

	planIDs := make([]string, len(plans))
	for i := range plans {
		planIDs[i] = plans[i].PlanID
	}
	planStats, err := s.GetPlanItemStats(ctx, planIDs)
	if err != nil {
		return nil, err
	}
	planByOwner := make(map[string]*model.WeeklyPlan, len(plans))
	for i := range plans {
		planByOwner[plans[i].OwnerUserID] = &plans[i]
	}
	usersByTeam := make(map[string][]model.User)
	for _, u := range users {
		if u.TeamID != nil {
			usersByTeam[*u.TeamID] = append(usersByTeam[*u.TeamID], u)
		}
	}

	cards := make([]dto.TeamCard, 0, len(teams))
	for _, team := range teams {
		members := usersByTeam[team.TeamID]
		card := dto.TeamCard{
			TeamID:    team.TeamID,
			TeamName:  team.Name,
			UserCount: len(members),
			Members:   make([]dto.MemberCell, 0, len(members)),
		}

		owners := make(map[string]struct{})
		teamHours := decimal.Zero
		teamEst := decimal.Zero
		var lastUpdated *time.Time
		for _, u := range members {
			cell := dto.MemberCell{UserID: u.UserID, Name: u.Name}
			if plan, ok := planByOwner[u.UserID]; ok {
				owners[u.UserID] = struct{}{}
				stat := planStats[plan.PlanID]
				cell.PlanID = &plan.PlanID
				cell.Status = plan.Status
				cell.ItemCount = stat.ItemCount
				cell.TotalHours = stat.ActualHours
				if stat.ItemCount > 0 {
					card.RegisteredCount++
				}
				teamHours = teamHours.Add(decimal.NewFromFloat(stat.ActualHours))
				teamEst = teamEst.Add(decimal.NewFromFloat(stat.EstimatedHours))
				if lastUpdated == nil || plan.UpdatedAt.After(*lastUpdated) {
					t := plan.UpdatedAt
					lastUpdated = &t
				}
			}
			card.Members = append(card.Members, cell)
		}

		card.MissingCount = card.UserCount - len(owners)
		if card.MissingCount < 0 {
			card.MissingCount = 0
		}
		card.TotalHours = round1(teamHours)
		card.EstimatedHours = round1(teamEst)
		card.LastUpdatedAt = lastUpdated
		cards = append(cards, card)
	}

	return &dto.TeamOverviewResponse{
		Period: ToPeriodResponse(period),
		Teams:  cards,
	}, nil
}
