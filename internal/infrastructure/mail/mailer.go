package mail

import (
	"fmt"
	"log"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// Sender 邮件发送接口
// 应用层依赖此接口，便于测试时使用Noop实现
type Sender interface {
	// SendOtpEmail 发送密码重置验证码邮件
	SendOtpEmail(email, code string) error
}

// SMTPMailer SMTP邮件发送器
// 设计说明：
// 1. 使用gomail发送，每次发送独立拨号（验证码邮件量小，不维护长连接）
// 2. 外部SMTP服务用熔断器保护：服务不可用时快速失败，
//    不让每个密码重置请求都阻塞到SMTP超时
type SMTPMailer struct {
	dialer  *gomail.Dialer
	from    string
	breaker *circuitbreaker.CircuitBreaker
}

// NewSMTPMailer 创建SMTP邮件发送器
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	breaker := circuitbreaker.NewCircuitBreaker("mail", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("[mail] 熔断器状态变化: %s -> %s", from, to)
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
	})

	return &SMTPMailer{
		dialer:  gomail.NewDialer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password),
		from:    cfg.Mail.From,
		breaker: breaker,
	}
}

// SendOtpEmail 发送密码重置验证码邮件
func (m *SMTPMailer) SendOtpEmail(email, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "密码重置验证码")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>您的密码重置验证码为：<b>%s</b></p><p>验证码5分钟内有效，请勿泄露给他人。</p>", code))

	err := m.breaker.Execute(func() error {
		return m.dialer.DialAndSend(msg)
	})

	if err != nil {
		metrics.IncCounterVec(metrics.MailsSentTotal, map[string]string{"result": "failure"})
		if err == circuitbreaker.ErrOpenState {
			return apperrors.New(apperrors.ErrCodeMailError, "邮件服务暂时不可用")
		}
		return apperrors.Wrap(err, "发送邮件失败")
	}

	metrics.IncCounterVec(metrics.MailsSentTotal, map[string]string{"result": "success"})
	return nil
}

// NoopMailer 空实现（测试、本地开发时使用）
type NoopMailer struct{}

// SendOtpEmail 仅打印日志，不实际发送
func (NoopMailer) SendOtpEmail(email, code string) error {
	log.Printf("[mail] (noop) OTP邮件: to=%s code=%s", email, code)
	return nil
}
