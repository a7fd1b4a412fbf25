package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Mailer delivers a single email. Implementations must not be relied on for
// atomicity: a failed send is logged and dropped, never retried.
type Mailer interface {
	Send(ctx context.Context, subject, body string, to []string) error
}

// Broadcaster publishes a message to every live subscriber of the
// availability topic.
type Broadcaster interface {
	Broadcast(message string)
}

// Dispatcher fans out the three notification kinds. Every method is
// fire-and-forget with respect to the triggering operation: emails are sent
// on their own goroutine and failures only reach the log.
type Dispatcher struct {
	mailer      Mailer
	broadcaster Broadcaster
}

func NewDispatcher(m Mailer, b Broadcaster) *Dispatcher {
	return &Dispatcher{mailer: m, broadcaster: b}
}

func (d *Dispatcher) BorrowConfirmation(recipient string, titles []string, due time.Time) {
	body := fmt.Sprintf(
		"You have borrowed the following book(s):\n%s\n\nPlease return them by %s.",
		bulleted(titles), due.Format("2006-01-02"))
	d.sendAsync("Borrowing Confirmation", body, recipient)
}

func (d *Dispatcher) DueSoonReminder(recipient string, titles []string, due time.Time) {
	body := fmt.Sprintf(
		"The following book(s) are due on %s:\n%s\n\nPlease return them on time to avoid penalties.",
		due.Format("2006-01-02"), bulleted(titles))
	d.sendAsync("Return Reminder", body, recipient)
}

// BookAvailable announces a 0->1 availability crossing; this is the only
// event the broadcast topic carries.
func (d *Dispatcher) BookAvailable(title string) {
	if d.broadcaster == nil {
		return
	}
	d.broadcaster.Broadcast(fmt.Sprintf("'%s' is now available!", title))
}

func (d *Dispatcher) sendAsync(subject, body, recipient string) {
	if d.mailer == nil || recipient == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := d.mailer.Send(ctx, subject, body, []string{recipient}); err != nil {
			log.Printf("notify: send %q to %s failed: %v", subject, recipient, err)
		}
	}()
}

func bulleted(titles []string) string {
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		out = append(out, "- "+t)
	}
	return strings.Join(out, "\n")
}
