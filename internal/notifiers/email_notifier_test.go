package notifiers

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/astexai/waitlist-backend/internal/config"
	"github.com/astexai/waitlist-backend/internal/domain/model"
	"github.com/astexai/waitlist-backend/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
	// panics makes DialAndSend panic, simulating a misbehaving transport.
	panics bool
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.panics {
		panic("connection reset by peer")
	}
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func testEmailConfig() config.EmailConfig {
	return config.EmailConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "team@astexai.com",
		Subject:  "Bem-vindo à Astex AI - Acesso Antecipado",
	}
}

func testWelcome() model.Welcome {
	return model.Welcome{
		Name:    "Ana <b>",
		Email:   "ana@example.com",
		Phone:   "(11) 99999-0000",
		Company: "Acme",
		Niches:  []string{"Saúde", "Varejo"},
	}
}

func TestEmailNotifier_Send(t *testing.T) {
	d := &fakeDialer{}
	n := newEmailNotifier(d, testEmailConfig(), logger.Nop())

	res := n.Send(context.Background(), testWelcome())

	require.True(t, res.Success, res.Message)
	assert.Equal(t, "Email enviado com sucesso", res.Message)
	require.Len(t, d.sent, 1)

	msg := d.sent[0]
	assert.Equal(t, []string{"team@astexai.com"}, msg.GetHeader("From"), "from falls back to the smtp user")
	assert.Equal(t, []string{"ana@example.com"}, msg.GetHeader("To"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "text/html")
}

func TestEmailNotifier_RenderEscapesAndJoinsNiches(t *testing.T) {
	body, err := renderEmail(testWelcome())
	require.NoError(t, err)

	assert.Contains(t, body, "Olá Ana &lt;b&gt;,")
	assert.Contains(t, body, "<strong>Empresa:</strong> Acme")
	assert.Contains(t, body, "<strong>Nicho:</strong> Saúde, Varejo")
}

func TestEmailNotifier_TransportFailure(t *testing.T) {
	d := &fakeDialer{err: errors.New("535 5.7.8 Username and Password not accepted")}
	n := newEmailNotifier(d, testEmailConfig(), logger.Nop())

	res := n.Send(context.Background(), testWelcome())

	assert.False(t, res.Success)
	assert.Equal(t, "535 5.7.8 Username and Password not accepted", res.Message)
}

func TestEmailNotifier_PanicBecomesFailure(t *testing.T) {
	d := &fakeDialer{panics: true}
	n := newEmailNotifier(d, testEmailConfig(), logger.Nop())

	var res Result
	require.NotPanics(t, func() {
		res = n.Send(context.Background(), testWelcome())
	})
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "connection reset by peer")
}
