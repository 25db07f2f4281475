package pkg

import (
	"crypto/tls"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // 发件人邮箱
	Password string // 授权码/密码
	From     string // 显示的发件人，可与 Username 相同
	FromName string
}

// NotificationMail 组装一封通知邮件，正文做 HTML 转义
func NotificationMail(cfg SMTPConfig, to, title, body string) *gomail.Message {
	m := gomail.NewMessage()
	if cfg.FromName != "" {
		m.SetAddressHeader("From", cfg.From, cfg.FromName)
	} else {
		m.SetHeader("From", cfg.From)
	}
	m.SetHeader("To", to)
	m.SetHeader("Subject", title)
	m.SetBody("text/html", fmt.Sprintf(`<p><b>%s</b></p><p>%s</p>`, html.EscapeString(title), html.EscapeString(body)))
	return m
}

// SendEmail 每次发送单独建连，通知量不大
func SendEmail(cfg SMTPConfig, m *gomail.Message) error {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return d.DialAndSend(m)
}
