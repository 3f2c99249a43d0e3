package outbox

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	appoutbox "vibestays/internal/app/outbox"
)

const defaultSource = "app://vibestays"

// Envelope turns event records into CloudEvents JSON messages and picks their topic.
type Envelope struct {
	TopicPrefix string
	Source      string
}

// TopicFor maps "inquiry.submitted" to "<prefix>inquiry.events.v1".
func (e Envelope) TopicFor(name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	return e.TopicPrefix + base + ".events.v1"
}

func (e Envelope) Format(rec appoutbox.EventRecord) ([]byte, map[string]string, error) {
	data := map[string]any{}
	if err := json.Unmarshal(rec.Payload, &data); err != nil {
		return nil, nil, err
	}
	source := e.Source
	if source == "" {
		source = defaultSource
	}
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	evt := map[string]any{
		"specversion":     "1.0",
		"id":              id,
		"type":            rec.Name + ".v1",
		"source":          source,
		"subject":         rec.Aggregate,
		"time":            rec.OccurredAt,
		"datacontenttype": "application/json",
		"data":            data,
	}
	if trace, ok := rec.Headers["traceparent"]; ok {
		evt["traceparent"] = trace
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, err
	}
	headers := map[string]string{
		"content-type": "application/cloudevents+json",
		"ce_type":      rec.Name + ".v1",
		"ce_id":        id,
	}
	for k, v := range rec.Headers {
		headers[k] = v
	}
	return payload, headers, nil
}
