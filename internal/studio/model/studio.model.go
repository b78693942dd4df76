package model

import (
	"bytes"
	"encoding/json"
	"strconv"

	"poststudio/internal/studio/operation"
	"poststudio/internal/studio/projection"
	"poststudio/store"
)

type OutcomeKind string

const (
	OutcomeOK              OutcomeKind = "ok"
	OutcomeInfo            OutcomeKind = "info"
	OutcomeNotFound        OutcomeKind = "not_found"
	OutcomeNothingSelected OutcomeKind = "nothing_selected"
	OutcomeEmptyQueue      OutcomeKind = "empty_queue"
)

// Outcome reports what a command did.
type Outcome struct {
	Kind     OutcomeKind                  `json:"kind"`
	Message  string                       `json:"message,omitempty"`
	Created  []store.Post                 `json:"created,omitempty"`
	Affected int                          `json:"affected,omitempty"`
	Intent   *operation.PublicationIntent `json:"intent,omitempty"`
	Receipt  string                       `json:"receipt,omitempty"`
}

// Result is returned by every command: the outcome plus the recomputed view.
// Persisted is false when the command did not write the snapshot.
type Result struct {
	Outcome   Outcome         `json:"outcome"`
	View      projection.View `json:"view"`
	Persisted bool            `json:"persisted"`
}

// CountInput accepts the batch size as a JSON number or string, the way a
// form field would send it.
type CountInput string

func (c *CountInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = CountInput(s)
		return nil
	}
	*c = CountInput(data)
	return nil
}

func CountOf(n int) CountInput {
	return CountInput(strconv.Itoa(n))
}

type GeneratePostsRequest struct {
	Topic string     `json:"topic"`
	Count CountInput `json:"count"`
}

type FilterRequest struct {
	FavoritesOnly bool `json:"favorites_only"`
}

type PostRequest struct {
	PostID string `json:"post_id"`
}

type EditBodyRequest struct {
	PostID string `json:"post_id"`
	Body   string `json:"body"`
}

type NameRequest struct {
	Name string `json:"name"`
}

// IndexRequest leaves Index nil when the payload has no index.
type IndexRequest struct {
	Index *int `json:"index"`
}

type QueueRequest struct {
	Bot     string `json:"bot"`
	Channel string `json:"channel"`
}
