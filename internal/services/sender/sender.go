// Package services содержит отправку писем-напоминаний об истечении членства.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/saeifmanya/membership-portal/internal/lib/sl"
	"github.com/saeifmanya/membership-portal/internal/lib/smtp"
	"github.com/saeifmanya/membership-portal/internal/models"
)

// SenderService отправляет письма-напоминания через SMTP.
type SenderService struct {
	log       *slog.Logger
	transport smtp.TransportInterface
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{log: log, transport: transport}
}

// SendMembershipExpiryReminder разбирает сообщение из очереди и отправляет
// письмо-напоминание. Возвращённая ошибка вернёт сообщение в очередь.
func (s *SenderService) SendMembershipExpiryReminder(body []byte) error {
	const op = "services.sender.SendMembershipExpiryReminder"

	var info models.ReminderInfo
	if err := json.Unmarshal(body, &info); err != nil {
		s.log.Error("failed to unmarshal reminder", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	subject := "Your membership expires tomorrow"
	text := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"Your %s membership expires on %s.\r\n"+
			"Renew now to keep access to members-only content.\r\n",
		info.Username, info.Tier, info.ExpiresAt.Format("02 Jan 2006"))

	if err := s.sendEmail(info.Identifier, subject, text); err != nil {
		s.log.Error("failed to send reminder",
			slog.String("identifier", info.Identifier), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("reminder sent", slog.String("identifier", info.Identifier))
	return nil
}

func (s *SenderService) sendEmail(to, subject, text string) error {
	const op = "services.sender.sendEmail"

	client, err := s.transport.Connect()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			s.log.Warn("failed to close smtp client", sl.Err(closeErr))
		}
	}()

	from := s.transport.GetSMTPUser()
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", from, to, subject, text)
	if _, err := wc.Write([]byte(msg)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
