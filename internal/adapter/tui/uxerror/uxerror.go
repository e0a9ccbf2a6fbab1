// Package uxerror translates raw errors into user-friendly messages with
// recovery hints for the TUI banner.
package uxerror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sony/gobreaker/v2"

	"todochat/internal/adapter/tui/theme"
	"todochat/internal/domain"
)

// FriendlyError is a user-facing error with suggestions for recovery.
type FriendlyError struct {
	Title   string   // short heading, e.g. "Connection Refused"
	Message string   // one-liner explanation
	Hints   []string // actionable recovery suggestions
	Raw     string   // original error text (for debug)
}

// Render formats the FriendlyError for display in the banner.
func (fe FriendlyError) Render() string {
	var sb strings.Builder
	sb.WriteString(fe.Title)
	if fe.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(fe.Message)
	}
	if len(fe.Hints) > 0 {
		for _, h := range fe.Hints {
			sb.WriteString(fmt.Sprintf("\n  %s %s", theme.SymbolBullet, h))
		}
	}
	return sb.String()
}

type errorPattern struct {
	match   func(err error) bool
	produce func(err error) FriendlyError
}

var patterns = []errorPattern{
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrAuthInvalid) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Not Signed In",
				Message: "The server rejected your credentials.",
				Hints:   []string{"Log in again and update TODOCHAT_TOKEN", "Check auth.token in your config"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrRateLimit) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Slow Down",
				Message: "The service is rate limiting your requests.",
				Hints:   []string{"Wait a moment before resending"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match: func(err error) bool { return errors.Is(err, gobreaker.ErrOpenState) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Service Unreachable",
				Message: "Recent requests kept failing, so sending is paused briefly.",
				Hints:   []string{"Wait ~30s and try again", "Check the server status"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrUnavailable) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Service Unavailable",
				Message: "The todo assistant is temporarily down.",
				Hints:   []string{"Try again shortly"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match: func(err error) bool {
			s := err.Error()
			return strings.Contains(s, "connection refused") || strings.Contains(s, "no such host")
		},
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Connection Failed",
				Message: "Could not reach the server.",
				Hints:   []string{"Check server.base_url in your config", "Verify your network connection"},
				Raw:     err.Error(),
			}
		},
	},
}

// Humanize converts an arbitrary error into a FriendlyError. Errors carrying
// a server-provided message use it verbatim; everything else falls back to a
// generic send failure.
func Humanize(err error) FriendlyError {
	for _, p := range patterns {
		if p.match(err) {
			return p.produce(err)
		}
	}
	if msg := domain.UserMessage(err, ""); msg != "" {
		return FriendlyError{Title: msg, Raw: err.Error()}
	}
	return FriendlyError{
		Title: "Something Went Wrong",
		Hints: []string{"Try again"},
		Raw:   err.Error(),
	}
}
