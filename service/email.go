package service

import (
	"fmt"

	"financetracker/config"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 邮件服务是否启用
func (s *EmailService) Enabled() bool {
	return s.cfg != nil && s.cfg.Enabled
}

// NotifyAdminPendingUser 通知管理员有新用户等待审核
func (s *EmailService) NotifyAdminPendingUser(adminEmail, username string) error {
	if !s.Enabled() {
		return fmt.Errorf("邮件服务未启用")
	}
	if adminEmail == "" {
		return fmt.Errorf("未配置管理员邮箱")
	}
	subject := "【FinanceTracker】新用户等待审核"
	body := s.notifyBody(
		"新用户注册",
		fmt.Sprintf("用户 <strong>%s</strong> 已注册，正在等待审核。请登录后台完成审批并分配档案权限。", username),
	)
	return s.sendEmail(adminEmail, subject, body)
}

// NotifyUserApproved 通知用户账号已通过审核
func (s *EmailService) NotifyUserApproved(toEmail, username string) error {
	if !s.Enabled() {
		return fmt.Errorf("邮件服务未启用")
	}
	if toEmail == "" {
		return fmt.Errorf("用户未填写邮箱")
	}
	subject := "【FinanceTracker】账号审核通过"
	body := s.notifyBody(
		"审核通过",
		fmt.Sprintf("<strong>%s</strong>，您好！您的账号已通过审核，现在可以登录并开始记录资产数据了。", username),
	)
	return s.sendEmail(toEmail, subject, body)
}

// notifyBody 生成通知邮件正文
func (s *EmailService) notifyBody(title, content string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, 'Microsoft YaHei', sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #0f766e, #115e59); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>📈 FinanceTracker · %s</h1>
        </div>
        <div class="content">
            <p>%s</p>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
        </div>
    </div>
</body>
</html>
`, title, content)
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}
