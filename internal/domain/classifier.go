package domain

import "context"

// FunctionCall is one invocation proposed by the classifier.
type FunctionCall struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Args Args   `json:"args"`
}

// ClassifierReply is the raw answer of the intent classifier: zero or more
// proposed function calls and optional free text. Either part may be empty.
type ClassifierReply struct {
	FunctionCalls []FunctionCall `json:"function_calls,omitempty"`
	Text          string         `json:"text,omitempty"`
}

// Classifier maps one user utterance to a ClassifierReply. Each call is
// independent; no conversation history is sent.
type Classifier interface {
	Classify(ctx context.Context, utterance string) (*ClassifierReply, error)
	// Name returns the classifier's identifier (e.g. "gemini", "keyword").
	Name() string
}
