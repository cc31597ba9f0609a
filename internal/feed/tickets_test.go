package feed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/soapboxhq/holler/internal/soapbox"
)

type stubTicketAPI struct {
	mu           sync.Mutex
	uploadCalls  int
	ticketCalls  int
	lastFilename string
	lastData     []byte
	lastTicket   soapbox.NewTicket

	upload    soapbox.Upload
	uploadErr error
	ticket    soapbox.Ticket
	ticketErr error
}

func (s *stubTicketAPI) Upload(ctx context.Context, filename string, data []byte) (soapbox.Upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadCalls++
	s.lastFilename = filename
	s.lastData = append([]byte(nil), data...)
	if s.uploadErr != nil {
		return soapbox.Upload{}, s.uploadErr
	}
	return s.upload, nil
}

func (s *stubTicketAPI) CreateTicket(ctx context.Context, ticket soapbox.NewTicket) (soapbox.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticketCalls++
	s.lastTicket = ticket
	if s.ticketErr != nil {
		return soapbox.Ticket{}, s.ticketErr
	}
	return s.ticket, nil
}

func TestTickets_SubmitWithoutAttachment(t *testing.T) {
	t.Parallel()
	api := &stubTicketAPI{ticket: soapbox.Ticket{ID: "t1", Status: "open"}}
	tk := NewTickets(api, "fp-1", nil)
	ctx := testContext(t)

	ok := tk.Submit(ctx, " user@example.com ", " Crash on start ", " It crashes. ", "")
	if !ok {
		t.Fatalf("Submit = false, want true (err %q)", tk.TakeError())
	}

	if api.uploadCalls != 0 {
		t.Fatalf("uploadCalls = %d, want 0", api.uploadCalls)
	}
	sent := api.lastTicket
	if sent.Email != "user@example.com" || sent.Subject != "Crash on start" || sent.Message != "It crashes." {
		t.Fatalf("payload = %+v, want trimmed fields", sent)
	}
	if sent.Fingerprint != "fp-1" {
		t.Fatalf("fingerprint = %q, want fp-1", sent.Fingerprint)
	}
	if len(sent.AttachmentIDs) != 0 {
		t.Fatalf("AttachmentIDs = %v, want none", sent.AttachmentIDs)
	}
	if ticket, ok := tk.LastTicket(); !ok || ticket.ID != "t1" {
		t.Fatalf("LastTicket() = %+v %v, want t1", ticket, ok)
	}
}

func TestTickets_SubmitUploadsAttachmentFirst(t *testing.T) {
	t.Parallel()
	api := &stubTicketAPI{
		upload: soapbox.Upload{ID: "u1", Filename: "shot.png"},
		ticket: soapbox.Ticket{ID: "t2", Status: "open"},
	}
	tk := NewTickets(api, "fp-1", nil)
	ctx := testContext(t)

	path := filepath.Join(t.TempDir(), "shot.png")
	if err := os.WriteFile(path, []byte("png-bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if !tk.Submit(ctx, "user@example.com", "Crash", "See attachment", path) {
		t.Fatalf("Submit = false, want true (err %q)", tk.TakeError())
	}

	if api.uploadCalls != 1 || api.lastFilename != "shot.png" {
		t.Fatalf("upload = %d calls filename %q, want 1 call shot.png", api.uploadCalls, api.lastFilename)
	}
	if string(api.lastData) != "png-bytes" {
		t.Fatalf("uploaded data = %q, want file contents", api.lastData)
	}
	if got := api.lastTicket.AttachmentIDs; len(got) != 1 || got[0] != "u1" {
		t.Fatalf("AttachmentIDs = %v, want [u1]", got)
	}
}

func TestTickets_AttachmentCheckedBeforeUpload(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.log")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	huge := filepath.Join(dir, "huge.bin")
	f, err := os.Create(huge)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Sparse file: the stat size is what matters, not the bytes on disk.
	if err := f.Truncate(soapbox.MaxUploadBytes + 1); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	f.Close()

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing file", filepath.Join(dir, "nope.png"), "Attachment not found"},
		{"directory", dir, "Attachment is a directory"},
		{"empty file", empty, "Attachment is empty"},
		{"oversized file", huge, "upload limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &stubTicketAPI{}
			tk := NewTickets(api, "fp-1", nil)

			if tk.Submit(testContext(t), "user@example.com", "s", "m", tt.path) {
				t.Fatal("Submit = true, want false")
			}
			if api.uploadCalls != 0 || api.ticketCalls != 0 {
				t.Fatalf("api calls = %d uploads %d tickets, want none", api.uploadCalls, api.ticketCalls)
			}
			if msg := tk.TakeError(); !strings.Contains(msg, tt.want) {
				t.Fatalf("TakeError() = %q, want it to mention %q", msg, tt.want)
			}
		})
	}
}

func TestTickets_UploadFailureAbortsTicket(t *testing.T) {
	t.Parallel()
	api := &stubTicketAPI{uploadErr: &soapbox.APIError{Code: soapbox.CodeNetwork, Message: "dial tcp: refused"}}
	tk := NewTickets(api, "fp-1", nil)
	ctx := testContext(t)

	path := filepath.Join(t.TempDir(), "shot.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if tk.Submit(ctx, "user@example.com", "s", "m", path) {
		t.Fatal("Submit = true, want false")
	}
	if api.ticketCalls != 0 {
		t.Fatalf("ticketCalls = %d, want 0 after failed upload", api.ticketCalls)
	}
	if msg := tk.TakeError(); msg != "Cannot reach the server" {
		t.Fatalf("TakeError() = %q, want %q", msg, "Cannot reach the server")
	}
}

func TestTickets_ServerRejectionSurfaces(t *testing.T) {
	t.Parallel()
	api := &stubTicketAPI{ticketErr: &soapbox.APIError{Code: soapbox.CodeValidation, Message: "a valid email address is required"}}
	tk := NewTickets(api, "fp-1", nil)

	if tk.Submit(testContext(t), "not-an-email", "s", "m", "") {
		t.Fatal("Submit = true, want false")
	}
	if msg := tk.TakeError(); msg != "a valid email address is required" {
		t.Fatalf("TakeError() = %q, want validation message", msg)
	}
	if _, ok := tk.LastTicket(); ok {
		t.Fatal("LastTicket() reports a ticket after rejection")
	}
}
