package feed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/soapboxhq/holler/internal/soapbox"
)

// TicketAPI is the slice of the backend client the support form needs.
type TicketAPI interface {
	Upload(ctx context.Context, filename string, data []byte) (soapbox.Upload, error)
	CreateTicket(ctx context.Context, ticket soapbox.NewTicket) (soapbox.Ticket, error)
}

// Tickets drives the support form: optional attachment upload first, then
// the ticket itself. One submission runs at a time.
type Tickets struct {
	api         TicketAPI
	fingerprint string
	log         *zap.Logger

	mu         sync.Mutex
	lastTicket soapbox.Ticket

	submit submitState
}

// NewTickets builds the support form controller.
func NewTickets(api TicketAPI, fingerprint string, log *zap.Logger) *Tickets {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tickets{api: api, fingerprint: fingerprint, log: log}
}

// Submitting reports whether a ticket submission is in flight.
func (t *Tickets) Submitting() bool {
	return t.submit.inFlight()
}

// TakeError returns the most recent submission error and clears it.
func (t *Tickets) TakeError() string {
	return t.submit.takeError()
}

// LastTicket returns the most recently confirmed ticket.
func (t *Tickets) LastTicket() (soapbox.Ticket, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastTicket, t.lastTicket.ID != ""
}

// Submit files a support ticket. When attachmentPath is set the file is
// uploaded first and referenced from the ticket; the attachment is checked
// against the upload limit before it is read. Blocks until the backend
// answers. Returns whether the ticket was confirmed.
func (t *Tickets) Submit(ctx context.Context, email, subject, message, attachmentPath string) bool {
	if !t.submit.begin() {
		t.log.Debug("ticket submission ignored, one already in flight")
		return false
	}

	ticket := soapbox.NewTicket{
		Email:       strings.TrimSpace(email),
		Subject:     strings.TrimSpace(subject),
		Message:     strings.TrimSpace(message),
		Fingerprint: t.fingerprint,
	}

	if attachmentPath != "" {
		uploadID, err := t.uploadAttachment(ctx, attachmentPath)
		if err != "" {
			t.submit.fail(err)
			return false
		}
		ticket.AttachmentIDs = []string{uploadID}
	}

	created, err := t.api.CreateTicket(ctx, ticket)
	if err != nil {
		t.submit.fail(displayError(err))
		t.log.Warn("ticket submission failed", zap.Error(err))
		return false
	}

	t.mu.Lock()
	t.lastTicket = created
	t.mu.Unlock()
	t.submit.succeed()
	t.log.Info("ticket submitted", zap.String("ticket_id", created.ID))
	return true
}

// uploadAttachment stats, reads and uploads one file, returning the stored
// attachment id or a display error.
func (t *Tickets) uploadAttachment(ctx context.Context, path string) (string, string) {
	info, err := os.Stat(path)
	if err != nil {
		return "", "Attachment not found: " + path
	}
	if info.IsDir() {
		return "", "Attachment is a directory: " + path
	}
	if info.Size() == 0 {
		return "", "Attachment is empty: " + path
	}
	if info.Size() > soapbox.MaxUploadBytes {
		return "", fmt.Sprintf("Attachment exceeds the %d MB upload limit", soapbox.MaxUploadBytes>>20)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "Cannot read attachment: " + path
	}

	upload, uerr := t.api.Upload(ctx, filepath.Base(path), data)
	if uerr != nil {
		t.log.Warn("attachment upload failed", zap.String("path", path), zap.Error(uerr))
		return "", displayError(uerr)
	}
	return upload.ID, ""
}
