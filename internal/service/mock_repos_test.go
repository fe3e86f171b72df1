package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"weekly-plan/backend/internal/calendar"
	"weekly-plan/backend/internal/dto"
	"weekly-plan/backend/internal/model"
)

// ── Mock PeriodRepository ──

type mockPeriodRepo struct {
	periods map[string]*model.WeekPeriod // key: "year-week"
	seq     int

	// createHook 在 Create 前调用，用于模拟并发抢建
	createHook func()
}

func newMockPeriodRepo() *mockPeriodRepo {
	return &mockPeriodRepo{periods: make(map[string]*model.WeekPeriod)}
}

func periodKey(year, weekNo int) string {
	return fmt.Sprintf("%d-%d", year, weekNo)
}

func (m *mockPeriodRepo) Create(_ context.Context, period *model.WeekPeriod) error {
	if m.createHook != nil {
		m.createHook()
	}
	key := periodKey(period.Year, period.WeekNo)
	if _, ok := m.periods[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	if period.PeriodID == "" {
		m.seq++
		period.PeriodID = fmt.Sprintf("period-%d", m.seq)
	}
	m.periods[key] = period
	return nil
}

func (m *mockPeriodRepo) GetByID(_ context.Context, id string) (*model.WeekPeriod, error) {
	for _, p := range m.periods {
		if p.PeriodID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPeriodRepo) GetByYearWeek(_ context.Context, year, weekNo int) (*model.WeekPeriod, error) {
	if p, ok := m.periods[periodKey(year, weekNo)]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPeriodRepo) UpdateMonth(_ context.Context, id string, month int) error {
	for _, p := range m.periods {
		if p.PeriodID == id {
			p.Month = month
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockPeriodRepo) ListAll(_ context.Context) ([]model.WeekPeriod, error) {
	var result []model.WeekPeriod
	for _, p := range m.periods {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

// ── Mock PlanRepository ──

type mockPlanRepo struct {
	plans map[string]*model.WeeklyPlan
	items map[string]*model.PlanItem
	seq   int
}

func newMockPlanRepo() *mockPlanRepo {
	return &mockPlanRepo{
		plans: make(map[string]*model.WeeklyPlan),
		items: make(map[string]*model.PlanItem),
	}
}

func (m *mockPlanRepo) Create(_ context.Context, plan *model.WeeklyPlan) error {
	for _, p := range m.plans {
		if p.PeriodID == plan.PeriodID && p.OwnerUserID == plan.OwnerUserID {
			return gorm.ErrDuplicatedKey
		}
	}
	if plan.PlanID == "" {
		m.seq++
		plan.PlanID = fmt.Sprintf("plan-%d", m.seq)
	}
	m.plans[plan.PlanID] = plan
	return nil
}

func (m *mockPlanRepo) planItems(planID string) []model.PlanItem {
	var result []model.PlanItem
	for _, item := range m.items {
		if item.PlanID == planID {
			result = append(result, *item)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortNo < result[j].SortNo })
	return result
}

func (m *mockPlanRepo) GetByID(_ context.Context, id string) (*model.WeeklyPlan, error) {
	p, ok := m.plans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	clone.Items = m.planItems(id)
	return &clone, nil
}

func (m *mockPlanRepo) GetBare(_ context.Context, id string) (*model.WeeklyPlan, error) {
	if p, ok := m.plans[id]; ok {
		clone := *p
		clone.Items = nil
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlanRepo) GetByPeriodOwner(_ context.Context, periodID, ownerUserID string) (*model.WeeklyPlan, error) {
	for _, p := range m.plans {
		if p.PeriodID == periodID && p.OwnerUserID == ownerUserID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlanRepo) GetSubmitted(_ context.Context, periodID, ownerUserID string) (*model.WeeklyPlan, error) {
	for _, p := range m.plans {
		if p.PeriodID == periodID && p.OwnerUserID == ownerUserID && p.Status == model.PlanStatusSubmitted {
			clone := *p
			clone.Items = m.planItems(p.PlanID)
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlanRepo) ListByOwner(_ context.Context, ownerUserID string, limit int) ([]model.WeeklyPlan, error) {
	var result []model.WeeklyPlan
	for _, p := range m.plans {
		if p.OwnerUserID == ownerUserID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt.After(result[j].UpdatedAt) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockPlanRepo) ListByOwnerPeriods(_ context.Context, ownerUserID string, periodIDs []string) ([]model.WeeklyPlan, error) {
	want := make(map[string]struct{})
	for _, id := range periodIDs {
		want[id] = struct{}{}
	}
	var result []model.WeeklyPlan
	for _, p := range m.plans {
		if p.OwnerUserID != ownerUserID {
			continue
		}
		if _, ok := want[p.PeriodID]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPlanRepo) ListByPeriod(_ context.Context, periodID string, _ []string) ([]model.WeeklyPlan, error) {
	var result []model.WeeklyPlan
	for _, p := range m.plans {
		if p.PeriodID == periodID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PlanID < result[j].PlanID })
	return result, nil
}

func (m *mockPlanRepo) UpdateStatus(_ context.Context, id, status string) error {
	p, ok := m.plans[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Status = status
	return nil
}

func (m *mockPlanRepo) Touch(_ context.Context, id string) error {
	if p, ok := m.plans[id]; ok {
		p.UpdatedAt = time.Now()
	}
	return nil
}

func (m *mockPlanRepo) CreateItem(_ context.Context, item *model.PlanItem) error {
	if item.ItemID == "" {
		m.seq++
		item.ItemID = fmt.Sprintf("item-%d", m.seq)
	}
	for i := range item.Details {
		if item.Details[i].DetailID == "" {
			m.seq++
			item.Details[i].DetailID = fmt.Sprintf("detail-%d", m.seq)
		}
		item.Details[i].ItemID = item.ItemID
	}
	m.items[item.ItemID] = item
	return nil
}

func (m *mockPlanRepo) GetItem(_ context.Context, itemID string) (*model.PlanItem, error) {
	if item, ok := m.items[itemID]; ok {
		clone := *item
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlanRepo) UpdateItem(_ context.Context, item *model.PlanItem) error {
	existing, ok := m.items[item.ItemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	details := existing.Details
	clone := *item
	clone.Details = details
	m.items[item.ItemID] = &clone
	return nil
}

func (m *mockPlanRepo) DeleteItem(_ context.Context, itemID string) error {
	delete(m.items, itemID)
	return nil
}

func (m *mockPlanRepo) MaxItemSortNo(_ context.Context, planID string) (int, error) {
	maxSort := 0
	for _, item := range m.items {
		if item.PlanID == planID && item.SortNo > maxSort {
			maxSort = item.SortNo
		}
	}
	return maxSort, nil
}

func (m *mockPlanRepo) DeleteItemsByPlan(_ context.Context, planID string) error {
	for id, item := range m.items {
		if item.PlanID == planID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *mockPlanRepo) ListItemsByPlanIDs(_ context.Context, planIDs []string) ([]model.PlanItem, error) {
	want := make(map[string]struct{})
	for _, id := range planIDs {
		want[id] = struct{}{}
	}
	var result []model.PlanItem
	for _, item := range m.items {
		if _, ok := want[item.PlanID]; ok {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (m *mockPlanRepo) ReplaceItemDetails(_ context.Context, itemID string, details []model.PlanItemDetail) error {
	item, ok := m.items[itemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Details = nil
	for i := range details {
		m.seq++
		details[i].DetailID = fmt.Sprintf("detail-%d", m.seq)
		details[i].ItemID = itemID
		details[i].SortNo = i + 1
		item.Details = append(item.Details, details[i])
	}
	return nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (m *mockUserRepo) ListByTeamIDs(_ context.Context, teamIDs []string) ([]model.User, error) {
	want := make(map[string]struct{})
	for _, id := range teamIDs {
		want[id] = struct{}{}
	}
	var result []model.User
	for _, u := range m.users {
		if u.TeamID == nil {
			continue
		}
		if _, ok := want[*u.TeamID]; ok {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

// ── Mock TeamRepository ──

type mockTeamRepo struct {
	teams map[string]*model.Team
	seq   int
}

func newMockTeamRepo() *mockTeamRepo {
	return &mockTeamRepo{teams: make(map[string]*model.Team)}
}

func (m *mockTeamRepo) Create(_ context.Context, team *model.Team) error {
	for _, t := range m.teams {
		if t.Name == team.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if team.TeamID == "" {
		m.seq++
		team.TeamID = fmt.Sprintf("team-%d", m.seq)
	}
	m.teams[team.TeamID] = team
	return nil
}

func (m *mockTeamRepo) GetByID(_ context.Context, id string) (*model.Team, error) {
	if t, ok := m.teams[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeamRepo) GetByName(_ context.Context, name string) (*model.Team, error) {
	for _, t := range m.teams {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeamRepo) List(_ context.Context, includeDisabled bool) ([]model.Team, error) {
	var result []model.Team
	for _, t := range m.teams {
		if !includeDisabled && !t.Enabled {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockTeamRepo) Update(_ context.Context, team *model.Team) error {
	m.teams[team.TeamID] = team
	return nil
}

// ── Mock CategoryRepository ──

type mockCategoryRepo struct {
	cats map[string]*model.Category
	seq  int
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{cats: make(map[string]*model.Category)}
}

func (m *mockCategoryRepo) Create(_ context.Context, cat *model.Category) error {
	for _, c := range m.cats {
		if c.Name == cat.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if cat.CategoryID == "" {
		m.seq++
		cat.CategoryID = fmt.Sprintf("cat-%d", m.seq)
	}
	m.cats[cat.CategoryID] = cat
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id string) (*model.Category, error) {
	if c, ok := m.cats[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) GetEnabledByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range m.cats {
		if c.Name == name && c.Enabled {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) ListEnabled(_ context.Context) ([]model.Category, error) {
	var result []model.Category
	for _, c := range m.cats {
		if c.Enabled {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortNo < result[j].SortNo })
	return result, nil
}

func (m *mockCategoryRepo) MaxSortNo(_ context.Context) (int, error) {
	maxSort := 0
	for _, c := range m.cats {
		if c.SortNo > maxSort {
			maxSort = c.SortNo
		}
	}
	return maxSort, nil
}

func (m *mockCategoryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.cats)), nil
}

func (m *mockCategoryRepo) Update(_ context.Context, cat *model.Category) error {
	m.cats[cat.CategoryID] = cat
	return nil
}

// ── Mock SubProjectRepository ──

type mockSubProjectRepo struct {
	subs map[string]*model.SubProject
	seq  int
}

func newMockSubProjectRepo() *mockSubProjectRepo {
	return &mockSubProjectRepo{subs: make(map[string]*model.SubProject)}
}

func (m *mockSubProjectRepo) Create(_ context.Context, sub *model.SubProject) error {
	for _, s := range m.subs {
		if s.CategoryID == sub.CategoryID && s.Name == sub.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if sub.SubProjectID == "" {
		m.seq++
		sub.SubProjectID = fmt.Sprintf("sub-%d", m.seq)
	}
	m.subs[sub.SubProjectID] = sub
	return nil
}

func (m *mockSubProjectRepo) GetByID(_ context.Context, id string) (*model.SubProject, error) {
	if s, ok := m.subs[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubProjectRepo) GetEnabledByName(_ context.Context, categoryID, name string) (*model.SubProject, error) {
	for _, s := range m.subs {
		if s.CategoryID == categoryID && s.Name == name && s.Enabled {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubProjectRepo) ListEnabled(_ context.Context, categoryID string) ([]model.SubProject, error) {
	var result []model.SubProject
	for _, s := range m.subs {
		if !s.Enabled {
			continue
		}
		if categoryID != "" && s.CategoryID != categoryID {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortNo < result[j].SortNo })
	return result, nil
}

func (m *mockSubProjectRepo) MaxSortNo(_ context.Context, categoryID string) (int, error) {
	maxSort := 0
	for _, s := range m.subs {
		if s.CategoryID == categoryID && s.SortNo > maxSort {
			maxSort = s.SortNo
		}
	}
	return maxSort, nil
}

func (m *mockSubProjectRepo) Update(_ context.Context, sub *model.SubProject) error {
	m.subs[sub.SubProjectID] = sub
	return nil
}

// ── Mock TemplateRepository ──

type mockTemplateRepo struct {
	tpls map[string]*model.PlanTemplate
	seq  int
}

func newMockTemplateRepo() *mockTemplateRepo {
	return &mockTemplateRepo{tpls: make(map[string]*model.PlanTemplate)}
}

func (m *mockTemplateRepo) Create(_ context.Context, tpl *model.PlanTemplate) error {
	for _, t := range m.tpls {
		if t.Name == tpl.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if tpl.TemplateID == "" {
		m.seq++
		tpl.TemplateID = fmt.Sprintf("tpl-%d", m.seq)
	}
	m.tpls[tpl.TemplateID] = tpl
	return nil
}

func (m *mockTemplateRepo) GetByID(_ context.Context, id string) (*model.PlanTemplate, error) {
	if t, ok := m.tpls[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTemplateRepo) GetByName(_ context.Context, name string) (*model.PlanTemplate, error) {
	for _, t := range m.tpls {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTemplateRepo) List(_ context.Context) ([]model.PlanTemplate, error) {
	var result []model.PlanTemplate
	for _, t := range m.tpls {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TemplateID < result[j].TemplateID })
	return result, nil
}

func (m *mockTemplateRepo) Delete(_ context.Context, id string) error {
	delete(m.tpls, id)
	return nil
}

// ── Mock EmailConfigRepository ──

type mockEmailConfigRepo struct {
	cfgs map[string]*model.EmailConfig // key: user_id
	seq  int
}

func newMockEmailConfigRepo() *mockEmailConfigRepo {
	return &mockEmailConfigRepo{cfgs: make(map[string]*model.EmailConfig)}
}

func (m *mockEmailConfigRepo) GetByUserID(_ context.Context, userID string) (*model.EmailConfig, error) {
	if c, ok := m.cfgs[userID]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmailConfigRepo) Save(_ context.Context, cfg *model.EmailConfig) error {
	if existing, ok := m.cfgs[cfg.UserID]; ok {
		cfg.ConfigID = existing.ConfigID
		cfg.Version = existing.Version + 1
		cfg.LastAutoSentKey = existing.LastAutoSentKey
		cfg.LastAutoSentAt = existing.LastAutoSentAt
	} else {
		m.seq++
		cfg.ConfigID = fmt.Sprintf("cfg-%d", m.seq)
		cfg.Version = 1
	}
	clone := *cfg
	m.cfgs[cfg.UserID] = &clone
	return nil
}

func (m *mockEmailConfigRepo) ListScheduleEnabled(_ context.Context) ([]model.EmailConfig, error) {
	var result []model.EmailConfig
	for _, c := range m.cfgs {
		if c.ScheduleEnabled {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (m *mockEmailConfigRepo) UpdateLastAutoSent(_ context.Context, configID, key string) error {
	for _, c := range m.cfgs {
		if c.ConfigID == configID {
			k := key
			now := time.Now()
			c.LastAutoSentKey = &k
			c.LastAutoSentAt = &now
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock OperationLogRepository ──

type mockOperationLogRepo struct {
	logs []model.OperationLog
}

func newMockOperationLogRepo() *mockOperationLogRepo {
	return &mockOperationLogRepo{}
}

func (m *mockOperationLogRepo) Create(_ context.Context, log *model.OperationLog) error {
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockOperationLogRepo) List(_ context.Context, userID, action string, limit, offset int) ([]model.OperationLog, error) {
	var result []model.OperationLog
	for _, l := range m.logs {
		if userID != "" && (l.UserID == nil || *l.UserID != userID) {
			continue
		}
		if action != "" && l.Action != action {
			continue
		}
		result = append(result, l)
	}
	return result, nil
}

// ── Mock MailService ──

type mockMailService struct {
	sent    []string // user_id 的发送记录
	failErr error
}

func (m *mockMailService) SendWeeklyReport(_ context.Context, userID string, _ *dto.SendMailRequest) error {
	m.sent = append(m.sent, userID)
	return m.failErr
}

// ── Stub HolidayService ──

type stubHolidayService struct {
	ov calendar.Overrides
}

func (s *stubHolidayService) OverridesFor(_ context.Context, _, _ time.Time) calendar.Overrides {
	if s.ov.Holidays == nil {
		return calendar.Overrides{Holidays: calendar.DateSet{}, Workdays: calendar.DateSet{}}
	}
	return s.ov
}
