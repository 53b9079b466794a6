package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
)

const (
	// EmailSubscriberName is the name of the EmailSubscriber.
	EmailSubscriberName = "email"

	// LogMsgEmailSent is logged by the LogMailer for every simulated e-mail.
	LogMsgEmailSent = "simulated e-mail sent"

	logAttrRecipient = "to"
	logAttrSubject   = "subject"
	logAttrBody      = "body"

	dateLayout = "2006-01-02"
)

// Email is a rendered notification message.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends rendered e-mails.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// LogMailer is a Mailer that only writes the e-mail to the log.
type LogMailer struct {
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
}

// NewLogMailer creates a LogMailer. A nil logger makes it silent.
func NewLogMailer(logger shell.Logger) *LogMailer {
	m := &LogMailer{logger: logger}
	if contextualLogger, ok := logger.(shell.ContextualLogger); ok {
		m.contextualLogger = contextualLogger
	}

	return m
}

// Send implements Mailer.
func (m *LogMailer) Send(ctx context.Context, email Email) error {
	shell.LogInfo(ctx, m.logger, m.contextualLogger, LogMsgEmailSent,
		logAttrRecipient, email.To,
		logAttrSubject, email.Subject,
	)
	shell.LogDebug(ctx, m.logger, m.contextualLogger, LogMsgEmailSent,
		logAttrRecipient, email.To,
		logAttrBody, email.Body,
	)

	return nil
}

// EmailSubscriber renders a borrower-facing e-mail per lifecycle event and hands it to a Mailer.
// Borrowers without an e-mail address are skipped.
type EmailSubscriber struct {
	borrowers shell.BorrowerDirectory
	mailer    Mailer
}

// NewEmailSubscriber creates an EmailSubscriber.
func NewEmailSubscriber(borrowers shell.BorrowerDirectory, mailer Mailer) (*EmailSubscriber, error) {
	if borrowers == nil || mailer == nil {
		return nil, shell.ErrNilDependency
	}

	return &EmailSubscriber{borrowers: borrowers, mailer: mailer}, nil
}

// Name implements shell.Subscriber.
func (s *EmailSubscriber) Name() string {
	return EmailSubscriberName
}

// Handle implements shell.Subscriber. Unknown borrowers fail permanently.
func (s *EmailSubscriber) Handle(ctx context.Context, event core.DomainEvent) error {
	borrower, err := s.borrowers.GetBorrower(ctx, event.HasBorrowerID())
	if err != nil {
		if errors.Is(err, shell.ErrRecordNotFound) {
			return shell.Permanent(err)
		}

		return err
	}

	if borrower.Email == "" {
		return nil
	}

	subject, body, ok := RenderEmail(borrower, event)
	if !ok {
		return nil
	}

	return s.mailer.Send(ctx, Email{To: borrower.Email, Subject: subject, Body: body})
}

// RenderEmail builds subject and body for an event. It reports false for events that produce no e-mail.
func RenderEmail(borrower core.Borrower, event core.DomainEvent) (string, string, bool) {
	var subject string
	var body strings.Builder

	fmt.Fprintf(&body, "Hello %s,\n\n", displayName(borrower))

	switch e := event.(type) {
	case core.LoanIssued:
		subject = "Loan confirmation"
		fmt.Fprintf(&body, "your loan of item %s was registered.\nPlease return it by %s.",
			e.ItemID, e.DueDate.Format(dateLayout))

	case core.LoanReturned:
		subject = "Return confirmed"
		fmt.Fprintf(&body, "the return of item %s on %s was registered.", e.ItemID, e.ReturnDate.Format(dateLayout))
		if e.FineAmount.IsPositive() {
			fmt.Fprintf(&body, "\n\nLate fee for %d days: %s", e.DaysLate, e.FineAmount.StringFixed(2))
		}

	case core.LoanRenewed:
		subject = "Loan renewed"
		fmt.Fprintf(&body, "your loan of item %s was renewed.\nThe new due date is %s.",
			e.ItemID, e.NewDueDate.Format(dateLayout))

	case core.LoanCancelled:
		subject = "Loan cancelled"
		fmt.Fprintf(&body, "your loan of item %s was cancelled.", e.ItemID)

	case core.LoanDueSoon:
		subject = "Reminder: return due soon"
		fmt.Fprintf(&body, "item %s is due on %s, in %d days.\nReturn it on time to avoid fees.",
			e.ItemID, e.DueDate.Format(dateLayout), e.DaysLeft)

	case core.LoanOverdue:
		subject = "Urgent: loan overdue"
		fmt.Fprintf(&body, "item %s is %d days overdue.\nPlease return it as soon as possible to avoid further fees.",
			e.ItemID, e.DaysLate)

	default:
		return "", "", false
	}

	return subject, body.String(), true
}

func displayName(borrower core.Borrower) string {
	if borrower.Name != "" {
		return borrower.Name
	}

	return borrower.BorrowerID
}
