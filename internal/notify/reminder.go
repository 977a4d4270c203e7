package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/manongfatu/dreamteamfinance/internal/config"
	applog "github.com/manongfatu/dreamteamfinance/internal/log"
	"github.com/manongfatu/dreamteamfinance/internal/store"
)

// lastCheckKey is the local storage key recording the last reminder run.
const lastCheckKey = "pfm:lastReminderCheck"

// maxListedPayments caps the number of bullet lines in a reminder message.
const maxListedPayments = 10

// Checkpoint records when reminders were last evaluated so a restart
// does not re-send the same day's batch.
type Checkpoint interface {
	LastReminderCheck(ctx context.Context, key string) (time.Time, error)
	SetLastReminderCheck(ctx context.Context, key string, ts time.Time) error
}

// Reminder scans the ledger for installment payments coming due and
// notifies the configured channels at most once per calendar day.
type Reminder struct {
	cfg        *config.Config
	store      *store.Store
	checkpoint Checkpoint
	email      EmailSender
	sms        SMSSender
	log        *applog.Logger

	now func() time.Time
}

func NewReminder(cfg *config.Config, st *store.Store, cp Checkpoint, email EmailSender, sms SMSSender, log *applog.Logger) *Reminder {
	return &Reminder{
		cfg:        cfg,
		store:      st,
		checkpoint: cp,
		email:      email,
		sms:        sms,
		log:        log.WithComponent(applog.ComponentReminder),
		now:        time.Now,
	}
}

// Run evaluates upcoming payments and dispatches notifications. It is
// safe to call more than once per day; only the first call does work.
func (r *Reminder) Run(ctx context.Context) error {
	now := r.now()

	last, err := r.checkpoint.LastReminderCheck(ctx, lastCheckKey)
	if err != nil {
		return fmt.Errorf("load reminder checkpoint: %w", err)
	}
	if sameDay(last, now) {
		r.log.Debug("reminders already evaluated today")
		return nil
	}

	// Record the run up front so partial delivery failures do not
	// cause duplicate sends on the next tick.
	if err := r.checkpoint.SetLastReminderCheck(ctx, lastCheckKey, now); err != nil {
		return fmt.Errorf("store reminder checkpoint: %w", err)
	}

	upcoming := r.store.DueInDays(now, r.cfg.ReminderLeadDays)
	if len(upcoming) == 0 {
		r.log.Debug("no payments due", "lead_days", r.cfg.ReminderLeadDays)
		return nil
	}

	subject := fmt.Sprintf("Dream Team Finance: Upcoming installment due in %d days", r.cfg.ReminderLeadDays)
	message := r.composeMessage(upcoming)
	lines := messageLines(upcoming)

	var errs []string
	if r.cfg.ReminderEmail != "" && r.email != nil {
		html := RenderReminderHTML(subject, lines)
		if _, err := r.email.SendEmail(ctx, r.cfg.ReminderEmail, subject, message, html); err != nil {
			r.log.Error("reminder email failed", applog.FieldError, err, applog.FieldRecipient, r.cfg.ReminderEmail)
			errs = append(errs, fmt.Sprintf("email: %v", err))
		} else {
			r.log.Info("reminder email sent", applog.FieldRecipient, r.cfg.ReminderEmail, "payments", len(upcoming))
		}
	}
	if r.cfg.ReminderPhone != "" && r.sms != nil {
		if _, err := r.sms.SendSMS(ctx, r.cfg.ReminderPhone, subject+"\n"+message); err != nil {
			r.log.Error("reminder sms failed", applog.FieldError, err, applog.FieldRecipient, r.cfg.ReminderPhone)
			errs = append(errs, fmt.Sprintf("sms: %v", err))
		} else {
			r.log.Info("reminder sms sent", applog.FieldRecipient, r.cfg.ReminderPhone, "payments", len(upcoming))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("reminder delivery: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (r *Reminder) composeMessage(upcoming []store.UpcomingPayment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d installment payment(s) due in %d days.\n\n",
		len(upcoming), r.cfg.ReminderLeadDays)
	b.WriteString(strings.Join(messageLines(upcoming), "\n"))
	if len(upcoming) > maxListedPayments {
		fmt.Fprintf(&b, "\n…and %d more.", len(upcoming)-maxListedPayments)
	}
	return b.String()
}

func messageLines(upcoming []store.UpcomingPayment) []string {
	n := len(upcoming)
	if n > maxListedPayments {
		n = maxListedPayments
	}
	lines := make([]string, 0, n)
	for _, p := range upcoming[:n] {
		lines = append(lines, fmt.Sprintf("• %s on %s ($%.2f)",
			p.ItemName, p.DueDate.Format("1/2/2006"), p.MonthlyAmount))
	}
	return lines
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
