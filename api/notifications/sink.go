package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mail "github.com/Adedunmol/jakpat-univ/api/email"
	"github.com/Adedunmol/jakpat-univ/logger"
	"github.com/hibiken/asynq"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type SheetAppender interface {
	AppendRow(ctx context.Context, row []interface{}) error
}

type SheetsAppender struct {
	service       *sheets.Service
	spreadsheetID string
	writeRange    string
}

func NewSheetsAppender(ctx context.Context, credentialsFile, spreadsheetID, writeRange string) (*SheetsAppender, error) {
	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating sheets service: %w", err)
	}

	return &SheetsAppender{service: service, spreadsheetID: spreadsheetID, writeRange: writeRange}, nil
}

func (s *SheetsAppender) AppendRow(ctx context.Context, row []interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, s.writeRange, &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("error appending sheet row: %w", err)
	}
	return nil
}

// TaskHandler delivers a submission notification to the sheet and the admin inbox.
// Either destination may be left unconfigured.
type TaskHandler struct {
	Sheets     SheetAppender
	Sender     mail.Sender
	AdminEmail string
}

func (h *TaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload Payload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("error decoding notification payload: %v: %w", err, asynq.SkipRetry)
	}

	entry := logger.WithField("submission_id", payload.SubmissionID)

	var errs []error
	if h.Sheets != nil {
		if err := h.Sheets.AppendRow(ctx, payload.Row()); err != nil {
			errs = append(errs, err)
		} else {
			entry.Info("submission appended to sheet")
		}
	}

	if h.AdminEmail != "" && h.Sender != nil {
		email := mail.Email{
			ToAddr:   h.AdminEmail,
			Subject:  "Pengajuan survei baru: " + payload.Title,
			Template: mail.TemplateAdminNotification,
			Vars:     payload,
		}
		if err := email.Send(h.Sender); err != nil {
			errs = append(errs, err)
		} else {
			entry.Info("admin notified by email")
		}
	}

	return errors.Join(errs...)
}
