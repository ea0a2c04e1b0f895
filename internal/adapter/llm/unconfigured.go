package llm

import (
	"context"

	"koordinator/internal/domain"
)

// Unconfigured stands in for a classifier whose credentials are missing.
// Every call fails with the construction error, so the conversation shows
// the connection apology instead of the process refusing to start.
type Unconfigured struct {
	name string
	err  error
}

var _ domain.Classifier = (*Unconfigured)(nil)

// NewUnconfigured returns a classifier that always fails with err, or with
// domain.ErrConfigMissing when err is nil.
func NewUnconfigured(name string, err error) *Unconfigured {
	if err == nil {
		err = domain.ErrConfigMissing
	}
	return &Unconfigured{name: name, err: err}
}

func (u *Unconfigured) Classify(context.Context, string) (*domain.ClassifierReply, error) {
	return nil, u.err
}

func (u *Unconfigured) Name() string { return u.name }

// Err returns the configuration error.
func (u *Unconfigured) Err() error { return u.err }
