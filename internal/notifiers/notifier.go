package notifiers

import (
	"context"
	"embed"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/astexai/waitlist-backend/internal/domain/model"
)

// Notifier defines the interface for any welcome sending channel.
// Implementations never return errors or panic: failures are reported in the Result.
type Notifier interface {
	// Send delivers the welcome to one channel.
	Send(ctx context.Context, w model.Welcome) Result
}

// Result is the outcome of a send.
type Result struct {
	Success bool
	// Message is a human readable status on success, or the error text on failure.
	Message string
	// Payload holds channel specific data, such as the decoded API response.
	Payload map[string]any
}

func failure(err error) Result {
	return Result{Success: false, Message: err.Error()}
}

//go:embed templates/*
var templateFS embed.FS

var funcs = map[string]any{"join": strings.Join}

var (
	emailTemplate = htmltemplate.Must(
		htmltemplate.New("welcome_email.html").Funcs(funcs).ParseFS(templateFS, "templates/welcome_email.html"),
	)
	textTemplates = texttemplate.Must(
		texttemplate.New("text").Funcs(funcs).ParseFS(templateFS, "templates/*.txt"),
	)
)

func renderEmail(w model.Welcome) (string, error) {
	var sb strings.Builder
	if err := emailTemplate.Execute(&sb, w); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderText(name string, w model.Welcome) (string, error) {
	var sb strings.Builder
	if err := textTemplates.ExecuteTemplate(&sb, name, w); err != nil {
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}
