package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mailtpl "github.com/oksasatya/lingo-account/pkg/mailer/templates"
)

type sent struct {
	to, subject, text, html string
}

type fakeSender struct {
	err  error
	sent []sent
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{to, subject, text, html})
	return nil
}

func jobBody(t *testing.T, job EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

var brand = mailtpl.Brand{CompanyName: "Lingo Ltd", AppName: "Lingo", SupportURL: "https://lingo.example/help"}

func TestProcess_RendersWelcome(t *testing.T) {
	s := &fakeSender{}
	body := jobBody(t, EmailJob{
		To:       "ana@x.com",
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData(brand, "Ana", "ana@x.com"),
	})

	out, err := Process(context.Background(), s, body)
	require.NoError(t, err)
	assert.Equal(t, Ack, out)
	require.Len(t, s.sent, 1)
	assert.Equal(t, "ana@x.com", s.sent[0].to)
	assert.Equal(t, "Welcome to Lingo, Ana", s.sent[0].subject)
	assert.Contains(t, s.sent[0].text, "ana@x.com")
	assert.Contains(t, s.sent[0].html, "https://lingo.example/help")
}

func TestProcess_RendersProfileChanges(t *testing.T) {
	s := &fakeSender{}
	body := jobBody(t, EmailJob{
		To:       "ana@x.com",
		Template: mailtpl.ProfileUpdated,
		Data:     mailtpl.NewProfileUpdatedData(brand, "Ana", "ana@x.com", map[string]string{"bio": "updated"}),
	})

	out, err := Process(context.Background(), s, body)
	require.NoError(t, err)
	assert.Equal(t, Ack, out)
	require.Len(t, s.sent, 1)
	assert.Contains(t, s.sent[0].text, "bio: updated")
	assert.Contains(t, s.sent[0].html, "<strong>bio</strong>")
}

func TestProcess_LiteralJob(t *testing.T) {
	s := &fakeSender{}
	out, err := Process(context.Background(), s, jobBody(t, EmailJob{To: "a@x.com", Subject: "hi", Text: "plain"}))
	require.NoError(t, err)
	assert.Equal(t, Ack, out)
	assert.Equal(t, sent{"a@x.com", "hi", "plain", ""}, s.sent[0])
}

func TestProcess_DropsBadMessages(t *testing.T) {
	s := &fakeSender{}

	out, err := Process(context.Background(), s, []byte("{not json"))
	assert.Error(t, err)
	assert.Equal(t, Drop, out)

	out, err = Process(context.Background(), s, jobBody(t, EmailJob{Template: mailtpl.Welcome}))
	assert.Error(t, err)
	assert.Equal(t, Drop, out)

	out, err = Process(context.Background(), s, jobBody(t, EmailJob{To: "a@x.com", Template: "forgot_password"}))
	assert.Error(t, err)
	assert.Equal(t, Drop, out)

	assert.Empty(t, s.sent)
}

func TestProcess_RequeuesOnSendFailure(t *testing.T) {
	s := &fakeSender{err: errors.New("mailgun down")}
	out, err := Process(context.Background(), s, jobBody(t, EmailJob{To: "a@x.com", Subject: "hi", Text: "x"}))
	assert.Error(t, err)
	assert.Equal(t, Requeue, out)
}
