package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"weekly-plan/backend/config"
	"weekly-plan/backend/internal/calendar"
)

// HolidayService 节假日/补班数据来源
//
// 两级来源合并：本地日历文件（holidays + workdays 两张表）与
// 外部 ICS 订阅（仅节假日）。订阅拉取失败只降级为空集，
// 不影响工作日计算本身。
type HolidayService interface {
	OverridesFor(ctx context.Context, start, end time.Time) calendar.Overrides
}

// localCalendarFile 本地日历文件结构
type localCalendarFile struct {
	Holidays []string `json:"holidays"` // YYYY-MM-DD
	Workdays []string `json:"workdays"` // 调休补班日
}

type holidayService struct {
	cfg    *config.CalendarConfig
	client *http.Client
	logger *zap.Logger

	mu        sync.Mutex
	local     *calendar.Overrides     // 本地文件，进程内只加载一次
	feedCache map[int]calendar.DateSet // 按年缓存订阅结果（含失败的空集）
}

// NewHolidayService 创建 HolidayService 实例
func NewHolidayService(cfg *config.CalendarConfig, logger *zap.Logger) HolidayService {
	timeout := cfg.FeedTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &holidayService{
		cfg:       cfg,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
		feedCache: make(map[int]calendar.DateSet),
	}
}

func (s *holidayService) OverridesFor(ctx context.Context, start, end time.Time) calendar.Overrides {
	ov := calendar.Overrides{
		Holidays: calendar.DateSet{},
		Workdays: calendar.DateSet{},
	}

	local := s.loadLocal()
	ov.Holidays.Merge(local.Holidays)
	ov.Workdays.Merge(local.Workdays)

	if s.cfg.FeedURL != "" {
		for year := start.Year(); year <= end.Year(); year++ {
			ov.Holidays.Merge(s.feedHolidays(ctx, year))
		}
	}
	return ov
}

// loadLocal 加载本地日历文件；文件缺失或损坏按空日历处理
func (s *holidayService) loadLocal() calendar.Overrides {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.local != nil {
		return *s.local
	}

	ov := calendar.Overrides{
		Holidays: calendar.DateSet{},
		Workdays: calendar.DateSet{},
	}
	s.local = &ov
	if s.cfg.File == "" {
		return ov
	}

	raw, err := os.ReadFile(s.cfg.File)
	if err != nil {
		s.logger.Warn("读取本地日历文件失败，按空日历处理",
			zap.String("file", s.cfg.File), zap.Error(err))
		return ov
	}
	var file localCalendarFile
	if err := json.Unmarshal(raw, &file); err != nil {
		s.logger.Warn("解析本地日历文件失败，按空日历处理",
			zap.String("file", s.cfg.File), zap.Error(err))
		return ov
	}

	addAll(ov.Holidays, file.Holidays)
	addAll(ov.Workdays, file.Workdays)
	s.logger.Info("本地日历加载完成",
		zap.Int("holidays", ov.Holidays.Len()), zap.Int("workdays", ov.Workdays.Len()))
	return ov
}

func addAll(set calendar.DateSet, dates []string) {
	for _, raw := range dates {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		set.Add(d)
	}
}

// feedHolidays 拉取指定年份的 ICS 订阅节假日；失败缓存空集避免反复打点
func (s *holidayService) feedHolidays(ctx context.Context, year int) calendar.DateSet {
	s.mu.Lock()
	if cached, ok := s.feedCache[year]; ok {
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	set := s.fetchFeed(ctx, year)

	s.mu.Lock()
	s.feedCache[year] = set
	s.mu.Unlock()
	return set
}

func (s *holidayService) fetchFeed(ctx context.Context, year int) calendar.DateSet {
	set := calendar.DateSet{}
	url := strings.ReplaceAll(s.cfg.FeedURL, "{year}", time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		s.logger.Warn("构造节假日订阅请求失败", zap.Error(err))
		return set
	}
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("拉取节假日订阅失败，使用空日历", zap.Int("year", year), zap.Error(err))
		return set
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("节假日订阅返回异常状态码",
			zap.Int("year", year), zap.Int("status", resp.StatusCode))
		return set
	}

	// 订阅体积上限 4MB
	cal, err := ics.ParseCalendar(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		s.logger.Warn("解析节假日订阅失败，使用空日历", zap.Int("year", year), zap.Error(err))
		return set
	}

	for _, event := range cal.Events() {
		start, err := event.GetStartAt()
		if err != nil {
			continue
		}
		end, err := event.GetEndAt()
		if err != nil {
			// 无 DTEND 的全天事件按单日处理
			end = start.AddDate(0, 0, 1)
		}
		for d := calendar.DayOf(start); d.Before(calendar.DayOf(end)); d = d.AddDate(0, 0, 1) {
			if d.Year() == year {
				set.Add(d)
			}
		}
	}

	s.logger.Info("节假日订阅拉取完成", zap.Int("year", year), zap.Int("days", set.Len()))
	return set
}
