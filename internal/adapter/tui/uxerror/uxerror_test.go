package uxerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"

	"todochat/internal/domain"
)

type serverError struct{ msg string }

func (e *serverError) Error() string       { return "api: status 400: " + e.msg }
func (e *serverError) UserMessage() string { return e.msg }

func TestHumanizeAuthError(t *testing.T) {
	fe := Humanize(fmt.Errorf("send: %w", domain.ErrAuthInvalid))
	assert.Equal(t, "Not Signed In", fe.Title)
	assert.NotEmpty(t, fe.Hints)
}

func TestHumanizeRateLimit(t *testing.T) {
	fe := Humanize(domain.ErrRateLimit)
	assert.Equal(t, "Slow Down", fe.Title)
}

func TestHumanizeOpenCircuit(t *testing.T) {
	fe := Humanize(fmt.Errorf("send chat message: %w", gobreaker.ErrOpenState))
	assert.Equal(t, "Service Unreachable", fe.Title)
}

func TestHumanizeUnavailable(t *testing.T) {
	fe := Humanize(domain.ErrUnavailable)
	assert.Equal(t, "Service Unavailable", fe.Title)
}

func TestHumanizeConnectionRefused(t *testing.T) {
	fe := Humanize(errors.New(`dial tcp 127.0.0.1:8000: connect: connection refused`))
	assert.Equal(t, "Connection Failed", fe.Title)
}

func TestHumanizeUsesServerMessageVerbatim(t *testing.T) {
	fe := Humanize(&serverError{msg: "Message cannot be empty"})
	assert.Equal(t, "Message cannot be empty", fe.Title)
}

func TestHumanizeGenericFallback(t *testing.T) {
	fe := Humanize(errors.New("boom"))
	assert.Equal(t, "Something Went Wrong", fe.Title)
	assert.Equal(t, "boom", fe.Raw)
}

func TestRenderIncludesHints(t *testing.T) {
	fe := FriendlyError{
		Title:   "Not Signed In",
		Message: "The server rejected your credentials.",
		Hints:   []string{"Log in again"},
	}
	out := fe.Render()
	assert.Contains(t, out, "Not Signed In: The server rejected your credentials.")
	assert.Contains(t, out, "Log in again")
}

func TestRenderTitleOnly(t *testing.T) {
	fe := FriendlyError{Title: "Slow Down"}
	assert.Equal(t, "Slow Down", fe.Render())
}
