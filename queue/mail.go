package queue

import (
	"context"
	"encoding/json"
	"fmt"

	mail "github.com/Adedunmol/jakpat-univ/api/email"
	"github.com/Adedunmol/jakpat-univ/logger"
	"github.com/hibiken/asynq"
)

const TypeEmailDelivery = "mail:deliver"

type EmailDeliveryPayload struct {
	Name     string
	Template string
	Subject  string
	Email    string
	Data     any
}

func (e *EmailDeliveryPayload) Process() (*asynq.Task, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal email delivery payload: %w", err)
	}

	return asynq.NewTask(TypeEmailDelivery, payload, asynq.MaxRetry(3)), nil
}

func (e *EmailDeliveryPayload) ProcessorName() string {
	return e.Name
}

type MailHandler struct {
	Sender mail.Sender
}

func (h *MailHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload EmailDeliveryPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("error decoding email delivery payload: %v: %w", err, asynq.SkipRetry)
	}
	logger.Infof("sending %s mail to: %s", payload.Template, payload.Email)

	emailData := mail.Email{
		Subject:  payload.Subject,
		ToAddr:   payload.Email,
		Template: payload.Template,
		Vars:     payload.Data,
	}

	if err := emailData.Send(h.Sender); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}

	logger.Infof("email has been sent successfully: %s", payload.Email)
	return nil
}
