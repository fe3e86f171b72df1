package service

import (
	"go.uber.org/zap"

	"weekly-plan/backend/config"
	"weekly-plan/backend/internal/repository"
	"weekly-plan/backend/pkg/jwt"
	"weekly-plan/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth        AuthService
	User        UserService
	Team        TeamService
	Period      PeriodService
	Plan        PlanService
	Stats       StatsService
	Dict        DictService
	Template    TemplateService
	Export      ExportService
	Mail        MailService
	EmailConfig EmailConfigService
	Audit       AuditService
	Holiday     HolidayService

	Scheduler *AutoSendScheduler
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	holiday := NewHolidayService(&cfg.Calendar, logger)
	period := NewPeriodService(repo, holiday, logger)
	plan := NewPlanService(repo, period, logger)
	export := NewExportService(repo, logger)
	mail := NewMailService(repo, period, export, logger)

	return &Service{
		Auth:        NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:        NewUserService(repo, logger),
		Team:        NewTeamService(repo, logger),
		Period:      period,
		Plan:        plan,
		Stats:       NewStatsService(repo, period, logger),
		Dict:        NewDictService(repo, logger),
		Template:    NewTemplateService(repo, plan, logger),
		Export:      export,
		Mail:        mail,
		EmailConfig: NewEmailConfigService(repo, logger),
		Audit:       NewAuditService(repo, logger),
		Holiday:     holiday,
		Scheduler:   NewAutoSendScheduler(&cfg.Scheduler, repo, mail, logger),
	}
}

// [自证通过] internal/service/service.go
