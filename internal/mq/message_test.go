package mq

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMessage_WireFormat(t *testing.T) {
	// Формат — контракт между scheduler/api и worker: имена полей
	// зафиксированы
	msg := Message{
		ID:        "m-1",
		Type:      MessageTypeDigestTrigger,
		JobID:     "daily-news-2025-06-01",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"id", "type", "job_id", "timestamp"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("wire format missing %q", key)
		}
	}
	if raw["type"] != "digest.trigger" {
		t.Errorf("type = %v", raw["type"])
	}
}
