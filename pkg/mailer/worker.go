package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mailtpl "github.com/oksasatya/lingo-account/pkg/mailer/templates"
)

// Outcome tells the queue consumer what to do with a delivery.
type Outcome int

const (
	Ack     Outcome = iota // delivered
	Drop                   // unprocessable; nack without requeue
	Requeue                // transient send failure; nack with requeue
)

var errNoRecipient = errors.New("email job has no recipient")

// Process decodes one queued EmailJob, renders its template if any, and
// sends it. The returned error explains a Drop or Requeue.
func Process(ctx context.Context, s Sender, body []byte) (Outcome, error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return Drop, fmt.Errorf("decode job: %w", err)
	}
	if strings.TrimSpace(job.To) == "" {
		return Drop, errNoRecipient
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return Drop, fmt.Errorf("render %s: %w", job.Template, err)
		}
	}

	if err := s.Send(ctx, job.To, subject, text, html); err != nil {
		return Requeue, fmt.Errorf("send: %w", err)
	}
	return Ack, nil
}
