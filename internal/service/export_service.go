package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"weekly-plan/backend/internal/model"
	"weekly-plan/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 单人周计划导出一张 Sheet，逐条目/明细铺行，末行合计工时
//   - 团队周报导出按团队分 Sheet
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response；
//     邮件模块复用同一 buffer 作附件
type ExportService interface {
	// ExportPlan 导出单人周计划为 Excel
	ExportPlan(ctx context.Context, planID string) (*bytes.Buffer, string, error)
	// ExportPeriod 导出整个周期的团队周报为 Excel（teamIDs 为空导出全部团队）
	ExportPeriod(ctx context.Context, periodID string, teamIDs []string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var planExportHeader = []string{"序号", "工作大类", "子项目", "本周目标", "进展", "工作明细", "工时(h)"}

// ═══════════════════════════════════════════════════════════
// ExportPlan — 导出单人周计划
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportPlan(ctx context.Context, planID string) (*bytes.Buffer, string, error) {
	plan, err := s.repo.Plan.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrPlanNotFound
		}
		s.logger.Error("查询周计划失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "周计划"
	f.SetSheetName("Sheet1", sheet)
	if err := s.writePlanSheet(f, sheet, plan); err != nil {
		s.logger.Error("写入周计划 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("序列化 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := "周计划.xlsx"
	if plan.Period != nil {
		owner := ""
		if plan.Owner != nil {
			owner = plan.Owner.Name + "-"
		}
		filename = fmt.Sprintf("%s%d年第%d周周计划.xlsx", owner, plan.Period.Year, plan.Period.WeekNo)
	}
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportPeriod — 导出团队周报
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportPeriod(ctx context.Context, periodID string, teamIDs []string) (*bytes.Buffer, string, error) {
	period, err := s.repo.Period.GetByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrPeriodNotFound
		}
		return nil, "", err
	}

	plans, err := s.repo.Plan.ListByPeriod(ctx, periodID, teamIDs)
	if err != nil {
		s.logger.Error("查询周期计划失败", zap.Error(err))
		return nil, "", err
	}

	// 按团队分 Sheet；无团队归属的计划归入"未分组"
	plansByTeam := make(map[string][]model.WeeklyPlan)
	var teamOrder []string
	for i := range plans {
		teamName := "未分组"
		if plans[i].Owner != nil && plans[i].Owner.Team != nil {
			teamName = plans[i].Owner.Team.Name
		}
		if _, ok := plansByTeam[teamName]; !ok {
			teamOrder = append(teamOrder, teamName)
		}
		plansByTeam[teamName] = append(plansByTeam[teamName], plans[i])
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, teamName := range teamOrder {
		sheet := teamName
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, "", ErrExportGenerateFail
			}
		}
		if err := s.writeTeamSheet(ctx, f, sheet, plansByTeam[teamName]); err != nil {
			s.logger.Error("写入团队 Sheet 失败", zap.Error(err), zap.String("team", teamName))
			return nil, "", ErrExportGenerateFail
		}
	}
	if len(teamOrder) == 0 {
		// 空周期导出带表头的空 Sheet
		f.SetSheetName("Sheet1", "周报")
		for col, title := range planExportHeader {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			_ = f.SetCellValue("周报", cell, title)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("序列化 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("%d年第%d周团队周报.xlsx", period.Year, period.WeekNo)
	return buf, filename, nil
}

// ────────────────────── Sheet 写入 ──────────────────────

func (s *exportService) writePlanSheet(f *excelize.File, sheet string, plan *model.WeeklyPlan) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	for col, title := range planExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(planExportHeader), 1)
	if err := f.SetCellStyle(sheet, "A1", lastCol, headerStyle); err != nil {
		return err
	}

	row := 2
	for i := range plan.Items {
		item := &plan.Items[i]
		if err := s.writeItemRows(f, sheet, &row, i+1, item); err != nil {
			return err
		}
	}

	// 合计行
	totalCell, _ := excelize.CoordinatesToCellName(1, row)
	hoursCell, _ := excelize.CoordinatesToCellName(len(planExportHeader), row)
	if err := f.SetCellValue(sheet, totalCell, "合计"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, hoursCell, PlanTotalHours(plan.Items)); err != nil {
		return err
	}

	_ = f.SetColWidth(sheet, "B", "C", 16)
	_ = f.SetColWidth(sheet, "D", "F", 40)
	return nil
}

// writeItemRows 条目占一行，明细各占一行（明细行仅填"工作明细/工时"两列）
func (s *exportService) writeItemRows(f *excelize.File, sheet string, row *int, seq int, item *model.PlanItem) error {
	catName, subName := "", ""
	if item.Category != nil {
		catName = item.Category.Name
	}
	if item.SubProject != nil {
		subName = item.SubProject.Name
	}
	progress := ""
	if item.ProgressText != nil {
		progress = *item.ProgressText
	} else if item.ProgressPercent != nil {
		progress = fmt.Sprintf("%d%%", *item.ProgressPercent)
	}
	detail := ""
	if item.DetailText != nil {
		detail = *item.DetailText
	}

	values := []interface{}{seq, catName, subName, item.WeeklyGoal, progress, detail, ItemActualHours(item)}
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, *row)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	*row++

	for j := range item.Details {
		d := &item.Details[j]
		contentCell, _ := excelize.CoordinatesToCellName(6, *row)
		if err := f.SetCellValue(sheet, contentCell, "· "+d.Content); err != nil {
			return err
		}
		if d.Hours != nil {
			hoursCell, _ := excelize.CoordinatesToCellName(7, *row)
			if err := f.SetCellValue(sheet, hoursCell, *d.Hours); err != nil {
				return err
			}
		}
		*row++
	}
	return nil
}

// writeTeamSheet 团队 Sheet：每个成员一段，段首为姓名与状态
func (s *exportService) writeTeamSheet(ctx context.Context, f *excelize.File, sheet string, plans []model.WeeklyPlan) error {
	planIDs := make([]string, len(plans))
	for i := range plans {
		planIDs[i] = plans[i].PlanID
	}
	items, err := s.repo.Plan.ListItemsByPlanIDs(ctx, planIDs)
	if err != nil {
		return err
	}
	itemsByPlan := make(map[string][]model.PlanItem)
	for _, item := range items {
		itemsByPlan[item.PlanID] = append(itemsByPlan[item.PlanID], item)
	}

	nameStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	row := 1
	for i := range plans {
		plan := &plans[i]
		plan.Items = itemsByPlan[plan.PlanID]

		name := plan.OwnerUserID
		if plan.Owner != nil {
			name = plan.Owner.Name
		}
		nameCell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(sheet, nameCell,
			fmt.Sprintf("%s（%s，合计 %.1fh）", name, statusLabel(plan.Status), PlanTotalHours(plan.Items))); err != nil {
			return err
		}
		_ = f.SetCellStyle(sheet, nameCell, nameCell, nameStyle)
		row++

		for col, title := range planExportHeader {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, title); err != nil {
				return err
			}
		}
		row++

		for j := range plan.Items {
			if err := s.writeItemRows(f, sheet, &row, j+1, &plan.Items[j]); err != nil {
				return err
			}
		}
		row++ // 成员之间空一行
	}

	_ = f.SetColWidth(sheet, "B", "C", 16)
	_ = f.SetColWidth(sheet, "D", "F", 40)
	return nil
}

func statusLabel(status string) string {
	switch status {
	case model.PlanStatusDraft:
		return "草稿"
	case model.PlanStatusSubmitted:
		return "已提交"
	case model.PlanStatusApproved:
		return "已通过"
	case model.PlanStatusRejected:
		return "已驳回"
	}
	return status
}
