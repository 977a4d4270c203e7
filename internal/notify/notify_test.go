package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/manongfatu/dreamteamfinance/internal/config"
	"github.com/manongfatu/dreamteamfinance/internal/core"
	applog "github.com/manongfatu/dreamteamfinance/internal/log"
	"github.com/manongfatu/dreamteamfinance/internal/store"
)

func testLogger() *applog.Logger {
	return applog.New(applog.DefaultConfig())
}

func TestRenderReminderHTMLEscapes(t *testing.T) {
	out := RenderReminderHTML(`<script>alert("x")</script>`, []string{"Sofa & Chair on 4/15/2024"})

	if strings.Contains(out, "<script>") {
		t.Fatal("title was not escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatal("expected escaped title in output")
	}
	if !strings.Contains(out, "Sofa &amp; Chair") {
		t.Fatal("expected escaped line item in output")
	}
	if !strings.Contains(out, "Dream Team Finance") {
		t.Fatal("expected brand header in output")
	}
}

func TestBrevoSenderAPI(t *testing.T) {
	var gotKey string
	var gotBody brevoRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(brevoResponse{MessageID: "msg-42"})
	}))
	defer srv.Close()

	cfg := &config.Config{EmailFrom: "noreply@example.com", BrevoAPIKey: "key-123"}
	s := NewBrevoSender(cfg, testLogger())
	s.endpoint = srv.URL

	id, err := s.SendEmail(context.Background(), "user@example.com", "Hello", "plain", "<p>html</p>")
	if err != nil {
		t.Fatalf("SendEmail() error = %v", err)
	}
	if id != "msg-42" {
		t.Fatalf("SendEmail() id = %q, want %q", id, "msg-42")
	}
	if gotKey != "key-123" {
		t.Fatalf("api-key header = %q, want %q", gotKey, "key-123")
	}
	if gotBody.Sender.Email != "noreply@example.com" || len(gotBody.To) != 1 || gotBody.To[0].Email != "user@example.com" {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
	if gotBody.HTMLContent != "<p>html</p>" || gotBody.TextContent != "plain" {
		t.Fatalf("unexpected content fields: %+v", gotBody)
	}
}

func TestBrevoSenderAPIErrorWithoutFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	cfg := &config.Config{EmailFrom: "noreply@example.com", BrevoAPIKey: "bad-key"}
	s := NewBrevoSender(cfg, testLogger())
	s.endpoint = srv.URL

	if _, err := s.SendEmail(context.Background(), "user@example.com", "Hello", "plain", ""); err == nil {
		t.Fatal("SendEmail() accepted a rejected API call")
	}
}

func TestBrevoSenderNotConfigured(t *testing.T) {
	s := NewBrevoSender(&config.Config{}, testLogger())
	if _, err := s.SendEmail(context.Background(), "user@example.com", "Hello", "plain", ""); err != ErrEmailNotConfigured {
		t.Fatalf("SendEmail() error = %v, want ErrEmailNotConfigured", err)
	}
}

func TestTwilioSender(t *testing.T) {
	var gotForm map[string]string
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		r.ParseForm()
		gotForm = map[string]string{
			"From": r.PostFormValue("From"),
			"To":   r.PostFormValue("To"),
			"Body": r.PostFormValue("Body"),
		}
		json.NewEncoder(w).Encode(twilioResponse{SID: "SM123"})
	}))
	defer srv.Close()

	cfg := &config.Config{
		TwilioAccountSID: "AC1",
		TwilioAuthToken:  "tok",
		TwilioFromNumber: "+10000000000",
	}
	s := NewTwilioSender(cfg, testLogger())
	s.baseURL = srv.URL

	sid, err := s.SendSMS(context.Background(), "+19999999999", "test message")
	if err != nil {
		t.Fatalf("SendSMS() error = %v", err)
	}
	if sid != "SM123" {
		t.Fatalf("SendSMS() sid = %q, want %q", sid, "SM123")
	}
	if !strings.HasPrefix(gotAuth, "Basic ") {
		t.Fatalf("Authorization = %q, want Basic auth", gotAuth)
	}
	if gotForm["From"] != "+10000000000" || gotForm["To"] != "+19999999999" || gotForm["Body"] != "test message" {
		t.Fatalf("unexpected form: %+v", gotForm)
	}
}

func TestTwilioSenderNotConfigured(t *testing.T) {
	s := NewTwilioSender(&config.Config{}, testLogger())
	if _, err := s.SendSMS(context.Background(), "+19999999999", "hi"); err != ErrSMSNotConfigured {
		t.Fatalf("SendSMS() error = %v, want ErrSMSNotConfigured", err)
	}
}

type fakeCheckpoint struct {
	last time.Time
}

func (f *fakeCheckpoint) LastReminderCheck(_ context.Context, _ string) (time.Time, error) {
	return f.last, nil
}

func (f *fakeCheckpoint) SetLastReminderCheck(_ context.Context, _ string, ts time.Time) error {
	f.last = ts
	return nil
}

type fakeEmail struct {
	sent []string
}

func (f *fakeEmail) SendEmail(_ context.Context, to, subject, text, html string) (string, error) {
	f.sent = append(f.sent, subject+"|"+text)
	return "fake-id", nil
}

type fakeSMS struct {
	sent []string
}

func (f *fakeSMS) SendSMS(_ context.Context, to, message string) (string, error) {
	f.sent = append(f.sent, to+"|"+message)
	return "fake-sid", nil
}

func reminderStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(core.EmptyYear(2024), testLogger())
	s.AddInstallment(core.InstallmentPlan{
		ItemName:       "Sofa",
		TotalAmount:    12000,
		MonthlyAmount:  1000,
		NumberOfMonths: 12,
		StartDate:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	return s
}

func TestReminderSendsWhenDue(t *testing.T) {
	cfg := &config.Config{
		RemindersEnabled: true,
		ReminderEmail:    "user@example.com",
		ReminderLeadDays: 3,
	}
	cp := &fakeCheckpoint{}
	mail := &fakeEmail{}

	r := NewReminder(cfg, reminderStore(t), cp, mail, nil, testLogger())
	// Three days before the April 15 payment.
	r.now = func() time.Time { return time.Date(2024, 4, 12, 9, 0, 0, 0, time.UTC) }

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mail.sent))
	}
	if !strings.Contains(mail.sent[0], "due in 3 days") {
		t.Fatalf("unexpected subject/body: %q", mail.sent[0])
	}
	if !strings.Contains(mail.sent[0], "Sofa") {
		t.Fatalf("expected item name in body: %q", mail.sent[0])
	}
	if cp.last.IsZero() {
		t.Fatal("checkpoint was not recorded")
	}
}

func TestReminderOncePerDay(t *testing.T) {
	cfg := &config.Config{
		RemindersEnabled: true,
		ReminderEmail:    "user@example.com",
		ReminderLeadDays: 3,
	}
	cp := &fakeCheckpoint{}
	mail := &fakeEmail{}

	r := NewReminder(cfg, reminderStore(t), cp, mail, nil, testLogger())
	r.now = func() time.Time { return time.Date(2024, 4, 12, 9, 0, 0, 0, time.UTC) }

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	// Later the same day.
	r.now = func() time.Time { return time.Date(2024, 4, 12, 18, 0, 0, 0, time.UTC) }
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected 1 email after same-day rerun, got %d", len(mail.sent))
	}
}

func TestReminderQuietWhenNothingDue(t *testing.T) {
	cfg := &config.Config{
		RemindersEnabled: true,
		ReminderEmail:    "user@example.com",
		ReminderLeadDays: 3,
	}
	cp := &fakeCheckpoint{}
	mail := &fakeEmail{}

	r := NewReminder(cfg, reminderStore(t), cp, mail, nil, testLogger())
	// Nothing falls due on April 13.
	r.now = func() time.Time { return time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC) }

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(mail.sent) != 0 {
		t.Fatalf("expected no email, got %d", len(mail.sent))
	}
	if cp.last.IsZero() {
		t.Fatal("checkpoint should advance even with nothing due")
	}
}

func TestReminderSMSChannel(t *testing.T) {
	cfg := &config.Config{
		RemindersEnabled: true,
		ReminderPhone:    "+19999999999",
		ReminderLeadDays: 3,
	}
	cp := &fakeCheckpoint{}
	sms := &fakeSMS{}

	r := NewReminder(cfg, reminderStore(t), cp, nil, sms, testLogger())
	r.now = func() time.Time { return time.Date(2024, 4, 12, 9, 0, 0, 0, time.UTC) }

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(sms.sent) != 1 {
		t.Fatalf("expected 1 sms, got %d", len(sms.sent))
	}
	if !strings.Contains(sms.sent[0], "+19999999999") {
		t.Fatalf("sms sent to wrong number: %q", sms.sent[0])
	}
}
