package handler

import "weekly-plan/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Team     *TeamHandler
	Period   *PeriodHandler
	Plan     *PlanHandler
	Dict     *DictHandler
	Template *TemplateHandler
	Export   *ExportHandler
	Email    *EmailHandler
	Audit    *AuditHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		User:     NewUserHandler(svc.User),
		Team:     NewTeamHandler(svc.Team, svc.Stats),
		Period:   NewPeriodHandler(svc.Period),
		Plan:     NewPlanHandler(svc.Plan, svc.Stats),
		Dict:     NewDictHandler(svc.Dict),
		Template: NewTemplateHandler(svc.Template),
		Export:   NewExportHandler(svc.Export, svc.Plan),
		Email:    NewEmailHandler(svc.EmailConfig, svc.Mail),
		Audit:    NewAuditHandler(svc.Audit),
	}
}
