package notifymock

import (
	"sync"
	"time"
)

type Email struct {
	Recipient string
	Titles    []string
	Due       time.Time
}

// Recorder captures notification calls so tests can assert on dispatch
// without a mail server or websocket hub. Safe for concurrent use because
// email dispatch may happen off the request goroutine.
type Recorder struct {
	mu            sync.Mutex
	Confirmations []Email
	Reminders     []Email
	Available     []string
}

func (r *Recorder) BorrowConfirmation(recipient string, titles []string, due time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Confirmations = append(r.Confirmations, Email{Recipient: recipient, Titles: titles, Due: due})
}

func (r *Recorder) DueSoonReminder(recipient string, titles []string, due time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reminders = append(r.Reminders, Email{Recipient: recipient, Titles: titles, Due: due})
}

func (r *Recorder) BookAvailable(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Available = append(r.Available, title)
}
