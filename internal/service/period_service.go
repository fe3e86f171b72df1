package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"weekly-plan/backend/internal/calendar"
	"weekly-plan/backend/internal/dto"
	"weekly-plan/backend/internal/model"
	"weekly-plan/backend/internal/repository"
)

// ── 周期模块业务错误 ──

var (
	ErrPeriodNotFound    = errors.New("周期不存在")
	ErrPeriodWeekInvalid = errors.New("ISO 周序号无效")
	ErrPeriodDateInvalid = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrMonthInvalid      = errors.New("月份无效")
)

// PeriodService 周期业务接口
//
// Ensure 系列是幂等的：同一 (year, week_no) 并发调用总是收敛到同一行，
// 唯一约束冲突视为"别人先建好了"，转为复用。
type PeriodService interface {
	Ensure(ctx context.Context, year, weekNo int) (*model.WeekPeriod, error)
	EnsureByDate(ctx context.Context, d time.Time) (*model.WeekPeriod, error)
	EnsureMonth(ctx context.Context, year, month int) ([]model.WeekPeriod, error)
	HealAllMonths(ctx context.Context) (int, error)
	Resolve(ctx context.Context, year, weekNo *int, date *string) (*model.WeekPeriod, error)
	GetByID(ctx context.Context, id string) (*model.WeekPeriod, error)
	PeriodWorkdays(ctx context.Context, id string) (*dto.WorkdaySummary, error)
	MonthWorkdays(ctx context.Context, year, month int) (*dto.MonthWorkdayResponse, error)
}

type periodService struct {
	repo     *repository.Repository
	holidays HolidayService
	logger   *zap.Logger
}

// NewPeriodService 创建 PeriodService 实例
func NewPeriodService(repo *repository.Repository, holidays HolidayService, logger *zap.Logger) PeriodService {
	return &periodService{repo: repo, holidays: holidays, logger: logger}
}

// ────────────────────── Ensure ──────────────────────

func (s *periodService) Ensure(ctx context.Context, year, weekNo int) (*model.WeekPeriod, error) {
	monday := calendar.ISOWeekStart(year, weekNo)
	// 反推周一后重新取 ISO 周期，序号越界（如只有 52 周的年份传 53）在此暴露
	cy, cw, _, _ := calendar.IsoWeek(monday)
	if cy != year || cw != weekNo {
		return nil, ErrPeriodWeekInvalid
	}
	return s.ensure(ctx, year, weekNo, monday)
}

func (s *periodService) EnsureByDate(ctx context.Context, d time.Time) (*model.WeekPeriod, error) {
	year, weekNo, monday, _ := calendar.IsoWeek(d)
	return s.ensure(ctx, year, weekNo, monday)
}

func (s *periodService) ensure(ctx context.Context, year, weekNo int, monday time.Time) (*model.WeekPeriod, error) {
	period, err := s.repo.Period.GetByYearWeek(ctx, year, weekNo)
	if err == nil {
		return s.healMonth(ctx, period)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询周期失败", zap.Error(err))
		return nil, err
	}

	period = &model.WeekPeriod{
		Year:      year,
		Month:     calendar.MonthAnchor(monday),
		WeekNo:    weekNo,
		StartDate: monday,
		EndDate:   monday.AddDate(0, 0, 6),
	}
	if err := s.repo.Period.Create(ctx, period); err != nil {
		// 并发 ensure 撞唯一约束：别人先建好了，回读复用
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, qerr := s.repo.Period.GetByYearWeek(ctx, year, weekNo)
			if qerr != nil {
				return nil, qerr
			}
			return s.healMonth(ctx, existing)
		}
		s.logger.Error("创建周期失败", zap.Error(err),
			zap.Int("year", year), zap.Int("week_no", weekNo))
		return nil, err
	}
	return period, nil
}

// healMonth 读取时自愈历史数据的错误月份（锚点规则变更前写入的行）
func (s *periodService) healMonth(ctx context.Context, period *model.WeekPeriod) (*model.WeekPeriod, error) {
	want := calendar.MonthAnchor(calendar.DayOf(period.StartDate))
	if period.Month == want {
		return period, nil
	}
	if err := s.repo.Period.UpdateMonth(ctx, period.PeriodID, want); err != nil {
		s.logger.Error("修正周期月份失败", zap.Error(err), zap.String("period_id", period.PeriodID))
		return nil, err
	}
	period.Month = want
	return period, nil
}

// HealAllMonths 全量扫描已登记周期并修正月份归属（周四锚点规则变更前的历史行）
// 启动时执行一次，幂等；返回修正条数
func (s *periodService) HealAllMonths(ctx context.Context) (int, error) {
	periods, err := s.repo.Period.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for i := range periods {
		want := calendar.MonthAnchor(calendar.DayOf(periods[i].StartDate))
		if periods[i].Month == want {
			continue
		}
		if err := s.repo.Period.UpdateMonth(ctx, periods[i].PeriodID, want); err != nil {
			return fixed, err
		}
		fixed++
	}
	if fixed > 0 {
		s.logger.Info("历史周期月份已回填", zap.Int("fixed", fixed))
	}
	return fixed, nil
}

// EnsureMonth 确保覆盖指定月份每一天的周期都存在（含跨月边界周）
func (s *periodService) EnsureMonth(ctx context.Context, year, month int) ([]model.WeekPeriod, error) {
	if month < 1 || month > 12 {
		return nil, ErrMonthInvalid
	}
	first, last := calendar.MonthRange(year, month)
	_, _, monday, _ := calendar.IsoWeek(first)

	var periods []model.WeekPeriod
	for !monday.After(last) {
		period, err := s.EnsureByDate(ctx, monday)
		if err != nil {
			return nil, err
		}
		periods = append(periods, *period)
		monday = monday.AddDate(0, 0, 7)
	}
	return periods, nil
}

// Resolve 按请求参数定位周期：year+week_no 优先，其次 date，都缺省取当天
func (s *periodService) Resolve(ctx context.Context, year, weekNo *int, date *string) (*model.WeekPeriod, error) {
	if year != nil && weekNo != nil {
		return s.Ensure(ctx, *year, *weekNo)
	}
	d := time.Now()
	if date != nil && *date != "" {
		parsed, err := time.Parse("2006-01-02", *date)
		if err != nil {
			return nil, ErrPeriodDateInvalid
		}
		d = parsed
	}
	return s.EnsureByDate(ctx, d)
}

func (s *periodService) GetByID(ctx context.Context, id string) (*model.WeekPeriod, error) {
	period, err := s.repo.Period.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		return nil, err
	}
	return s.healMonth(ctx, period)
}

// ────────────────────── 工作日 ──────────────────────

func (s *periodService) PeriodWorkdays(ctx context.Context, id string) (*dto.WorkdaySummary, error) {
	period, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	start := calendar.DayOf(period.StartDate)
	end := calendar.DayOf(period.EndDate)
	ov := s.holidays.OverridesFor(ctx, start, end)
	first, last, count := calendar.WorkdayRange(start, end, ov)
	summary := dto.NewWorkdaySummary(first, last, count)
	return &summary, nil
}

func (s *periodService) MonthWorkdays(ctx context.Context, year, month int) (*dto.MonthWorkdayResponse, error) {
	if month < 1 || month > 12 {
		return nil, ErrMonthInvalid
	}
	first, last := calendar.MonthRange(year, month)
	ov := s.holidays.OverridesFor(ctx, first, last)
	firstWd, lastWd, count := calendar.WorkdayRange(first, last, ov)
	return &dto.MonthWorkdayResponse{
		Year:           year,
		Month:          month,
		WorkdaySummary: dto.NewWorkdaySummary(firstWd, lastWd, count),
	}, nil
}

// ToPeriodResponse 周期模型转响应（补充月内周序）
func ToPeriodResponse(p *model.WeekPeriod) dto.PeriodResponse {
	return dto.ToPeriodResponse(p, calendar.WeekOfMonthForPeriod(calendar.DayOf(p.StartDate)))
}
