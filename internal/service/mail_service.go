package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"mime"
	"net"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"weekly-plan/backend/internal/dto"
	"weekly-plan/backend/internal/model"
	"weekly-plan/backend/internal/repository"
)

// ── 邮件模块业务错误 ──

var (
	ErrMailConfigMissing    = errors.New("尚未配置邮件发送参数")
	ErrMailNoRecipients     = errors.New("收件人列表为空")
	ErrMailPlanNotSubmitted = errors.New("当前周期没有已提交的周计划")
	ErrMailSendFail         = errors.New("邮件发送失败")
)

// MailService 周报邮件业务接口
//
// 发送的是"已提交"的计划快照：草稿不外发。
// 正文为 HTML 表格，同时附带 Excel 附件便于二次加工。
type MailService interface {
	// SendWeeklyReport 把指定用户在指定周期的已提交计划发给其配置的收件人
	SendWeeklyReport(ctx context.Context, userID string, req *dto.SendMailRequest) error
}

type mailService struct {
	repo    *repository.Repository
	periods PeriodService
	export  ExportService
	logger  *zap.Logger
}

// NewMailService 创建 MailService 实例
func NewMailService(repo *repository.Repository, periods PeriodService, export ExportService, logger *zap.Logger) MailService {
	return &mailService{repo: repo, periods: periods, export: export, logger: logger}
}

// ────────────────────── SendWeeklyReport ──────────────────────

func (s *mailService) SendWeeklyReport(ctx context.Context, userID string, req *dto.SendMailRequest) error {
	cfg, err := s.repo.EmailConfig.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMailConfigMissing
		}
		return err
	}
	if cfg.SMTPHost == "" || cfg.Sender == "" {
		return ErrMailConfigMissing
	}
	recipients := ParseRecipients(cfg.Recipients)
	if len(recipients) == 0 {
		return ErrMailNoRecipients
	}

	period, err := s.periods.Resolve(ctx, req.Year, req.WeekNo, req.Date)
	if err != nil {
		return err
	}

	plan, err := s.repo.Plan.GetSubmitted(ctx, period.PeriodID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMailPlanNotSubmitted
		}
		return err
	}

	attachment, filename, err := s.export.ExportPlan(ctx, plan.PlanID)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%d年第%d周工作计划", period.Year, period.WeekNo)
	if plan.Owner != nil {
		subject = plan.Owner.Name + " " + subject
	}
	body := renderPlanHTML(plan)

	msg := buildMessage(cfg.Sender, recipients, subject, body, filename, attachment.Bytes())
	if err := s.send(cfg, recipients, msg); err != nil {
		s.logger.Error("发送周报邮件失败", zap.Error(err),
			zap.String("user_id", userID), zap.String("period", period.Key()))
		return ErrMailSendFail
	}

	s.logger.Info("周报邮件发送成功",
		zap.String("user_id", userID),
		zap.String("period", period.Key()),
		zap.Int("recipients", len(recipients)))
	return nil
}

// ParseRecipients 解析收件人列表，兼容中英文逗号/分号、顿号与换行
func ParseRecipients(raw string) []string {
	normalized := raw
	for _, sep := range []string{"，", "；", "、", ";", "\n", "\r", " "} {
		normalized = strings.ReplaceAll(normalized, sep, ",")
	}

	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(normalized, ",") {
		addr := strings.TrimSpace(part)
		if addr == "" || !strings.Contains(addr, "@") {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out
}

// ────────────────────── SMTP 投递 ──────────────────────

func (s *mailService) send(cfg *model.EmailConfig, recipients []string, msg []byte) error {
	addr := net.JoinHostPort(cfg.SMTPHost, fmt.Sprintf("%d", cfg.SMTPPort))

	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}

	// SSL 直连（465 端口惯例）需要自行握手后走 smtp.Client
	if cfg.UseSSL {
		conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: cfg.SMTPHost})
		if err != nil {
			return err
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, cfg.SMTPHost)
		if err != nil {
			return err
		}
		defer client.Close()
		return submit(client, auth, cfg.Sender, recipients, msg)
	}

	// 明文连接 + 可选 STARTTLS（587 端口惯例）
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if cfg.UseStartTLS {
		if err := client.StartTLS(&tls.Config{ServerName: cfg.SMTPHost}); err != nil {
			return err
		}
	}
	return submit(client, auth, cfg.Sender, recipients, msg)
}

func submit(client *smtp.Client, auth smtp.Auth, sender string, recipients []string, msg []byte) error {
	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	if err := client.Mail(sender); err != nil {
		return err
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// ────────────────────── MIME 组装 ──────────────────────

const mimeBoundary = "weekly-plan-mixed-boundary"

func buildMessage(sender string, recipients []string, subject, htmlBody, filename string, attachment []byte) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", sender)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mimeBoundary)

	// HTML 正文
	fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
	writeBase64(&buf, []byte(htmlBody))

	// Excel 附件
	fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
	buf.WriteString("Content-Type: application/vnd.openxmlformats-officedocument.spreadsheetml.sheet\r\n")
	buf.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n\r\n",
		mime.QEncoding.Encode("UTF-8", filename))
	writeBase64(&buf, attachment)

	fmt.Fprintf(&buf, "--%s--\r\n", mimeBoundary)
	return buf.Bytes()
}

// writeBase64 按 RFC 2045 每 76 字符折行
func writeBase64(buf *bytes.Buffer, data []byte) {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		buf.WriteString(encoded[:76])
		buf.WriteString("\r\n")
		encoded = encoded[76:]
	}
	buf.WriteString(encoded)
	buf.WriteString("\r\n")
}

func renderPlanHTML(plan *model.WeeklyPlan) string {
	var b strings.Builder
	b.WriteString(`<html><body><table border="1" cellspacing="0" cellpadding="6" style="border-collapse:collapse">`)
	b.WriteString("<tr><th>序号</th><th>工作大类</th><th>子项目</th><th>本周目标</th><th>进展</th><th>工作明细</th><th>工时(h)</th></tr>")

	for i := range plan.Items {
		item := &plan.Items[i]
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

		var details strings.Builder
		if item.DetailText != nil {
			details.WriteString(html.EscapeString(*item.DetailText))
		}
		for j := range item.Details {
			if details.Len() > 0 {
				details.WriteString("<br>")
			}
			details.WriteString("· " + html.EscapeString(item.Details[j].Content))
		}

		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%.1f</td></tr>",
			i+1,
			html.EscapeString(catName),
			html.EscapeString(subName),
			html.EscapeString(item.WeeklyGoal),
			html.EscapeString(progress),
			details.String(),
			ItemActualHours(item))
	}

	fmt.Fprintf(&b, `<tr><td colspan="6" align="right"><b>合计</b></td><td><b>%.1f</b></td></tr>`,
		PlanTotalHours(plan.Items))
	b.WriteString("</table></body></html>")
	return b.String()
}
