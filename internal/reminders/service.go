// Package reminders texts customers the day before their appointments.
package reminders

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"github.com/storedesk/storedesk-backend/config"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
	"github.com/storedesk/storedesk-backend/internal/crm/repository"
	"github.com/storedesk/storedesk-backend/internal/logging"
	"github.com/storedesk/storedesk-backend/internal/records"
)

// Result counts the outcome of one run.
type Result struct {
	Due     int
	Sent    int
	Skipped int
	Failed  int
}

type Service struct {
	store   records.Store
	sender  Sender
	limiter *rate.Limiter
	now     func() time.Time
	cron    *cron.Cron
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store records.Store, sender Sender, perSecond float64, opts ...Option) *Service {
	s := &Service{
		store:   store,
		sender:  sender,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromConfig builds the Twilio-backed service, or returns nil when Twilio
// is not configured.
func FromConfig(store records.Store, cfg config.ReminderConfig) *Service {
	if !cfg.Enabled() {
		log.Println("Twilio not configured, appointment reminders disabled")
		return nil
	}
	return NewService(store, NewTwilioSender(cfg), cfg.RatePerSecond)
}

// Start schedules Run on spec, a six-field cron expression with seconds.
func (s *Service) Start(ctx context.Context, spec string) error {
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(spec, func() { s.Run(ctx) }); err != nil {
		return fmt.Errorf("schedule reminders %q: %w", spec, err)
	}
	s.cron = c
	c.Start()
	log.Printf("Reminder scheduler started (%s)", spec)
	return nil
}

// Stop halts the scheduler and waits for a running job.
func (s *Service) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// Run texts the customer of every pending appointment scheduled on the next
// calendar day. Individual failures are logged and do not stop the run.
func (s *Service) Run(ctx context.Context) Result {
	logger := logging.New(ctx)
	from, to := nextDay(s.now())

	due, err := repository.Due(ctx, s.store, from, to)
	if err != nil {
		logger.Error("reminders_fetch", err)
		return Result{}
	}

	res := Result{Due: len(due)}
	for _, appt := range due {
		if appt.CustomerID == "" {
			res.Skipped++
			continue
		}
		customer, err := repository.CustomerContact(ctx, s.store, appt.CustomerID)
		if err != nil {
			logger.Errorf("reminders_customer", "appointment=%s error=%v", appt.ID, err)
			res.Failed++
			continue
		}
		if customer == nil || !domain.ValidPhone(customer.Phone) {
			logger.Infof("reminders_skip", "appointment=%s reason=no usable phone", appt.ID)
			res.Skipped++
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			logger.Error("reminders_wait", err)
			res.Failed += len(due) - res.Sent - res.Skipped - res.Failed
			break
		}
		sid, err := s.sender.Send(ctx, customer.Phone, Message(*customer, appt))
		if err != nil {
			logger.Errorf("reminders_send", "appointment=%s error=%v", appt.ID, err)
			res.Failed++
			continue
		}
		logger.Infof("reminders_send", "appointment=%s sid=%s", appt.ID, sid)
		res.Sent++
	}

	logger.Infof("reminders_run", "due=%d sent=%d skipped=%d failed=%d", res.Due, res.Sent, res.Skipped, res.Failed)
	return res
}

// Message is the reminder text for appt.
func Message(c domain.Customer, appt domain.Appointment) string {
	var b strings.Builder
	if c.FirstName != "" {
		fmt.Fprintf(&b, "Hi %s, ", c.FirstName)
	}
	fmt.Fprintf(&b, "this is a reminder of your appointment %q", appt.Title)
	if appt.ScheduledDate != nil {
		fmt.Fprintf(&b, " on %s", appt.ScheduledDate.In(time.Local).Format("Mon Jan 2 at 15:04"))
	}
	if appt.Location != "" {
		fmt.Fprintf(&b, " at %s", appt.Location)
	}
	b.WriteString(".")
	return b.String()
}

func nextDay(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	end := time.Date(y, m, d+2, 0, 0, 0, 0, now.Location()).Add(-time.Nanosecond)
	return start, end
}
