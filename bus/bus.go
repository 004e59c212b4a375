package bus

import (
	"errors"
	"strings"
)

// Common errors.
var (
	ErrClosed         = errors.New("bus closed")
	ErrInvalidSubject = errors.New("invalid subject")
)

// Message is a message received from the bus.
type Message struct {
	Subject string
	Data    []byte
}

// MessageBus publishes and subscribes to subjects.
type MessageBus interface {
	// Publish sends data to every subscriber whose pattern matches subject.
	// Wildcards are not allowed in published subjects.
	Publish(subject string, data []byte) error

	// Subscribe registers interest in a subject pattern.
	Subscribe(pattern string) (Subscription, error)

	// Close shuts down the bus. Open subscriptions are closed.
	Close() error
}

// Subscription is an active subscription.
type Subscription interface {
	// Messages is closed when the subscription ends.
	Messages() <-chan *Message

	Unsubscribe() error
}

// Config holds common bus configuration.
type Config struct {
	// BufferSize for subscription channels. Messages beyond it are dropped.
	// Default: 64
	BufferSize int
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BufferSize: 64,
	}
}

// ValidateSubject checks a subject used for publishing.
func ValidateSubject(subject string) error {
	return validate(subject, false)
}

// ValidatePattern checks a subject pattern used for subscribing.
func ValidatePattern(pattern string) error {
	return validate(pattern, true)
}

func validate(subject string, wildcards bool) error {
	if subject == "" || strings.ContainsAny(subject, " \t\r\n") {
		return ErrInvalidSubject
	}
	tokens := strings.Split(subject, ".")
	for i, tok := range tokens {
		switch {
		case tok == "":
			return ErrInvalidSubject
		case tok == "*" || tok == ">":
			if !wildcards {
				return ErrInvalidSubject
			}
			if tok == ">" && i != len(tokens)-1 {
				return ErrInvalidSubject
			}
		case strings.ContainsAny(tok, "*>"):
			return ErrInvalidSubject
		}
	}
	return nil
}

// Token turns an arbitrary string into one subject token.
// Dots, whitespace and wildcard characters become underscores.
func Token(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\r', '\n':
			return '_'
		}
		return r
	}, s)
}

// Subject joins a prefix with parts, each converted by Token.
// The prefix is used as-is and may itself contain dots.
func Subject(prefix string, parts ...string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range parts {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(Token(p))
	}
	return b.String()
}

// Match reports whether subject matches pattern.
func Match(pattern, subject string) bool {
	pt := strings.Split(pattern, ".")
	st := strings.Split(subject, ".")
	for i, p := range pt {
		if p == ">" {
			return len(st) > i
		}
		if i >= len(st) {
			return false
		}
		if p != "*" && p != st[i] {
			return false
		}
	}
	return len(pt) == len(st)
}
