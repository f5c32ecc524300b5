package mq

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParsePayload_FromDecodedEnvelope(t *testing.T) {
	body := `{"id":"m1","type":"lab.add","payload":{"name":"pick","repeat":false}}`

	var msg Message
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}

	payload, err := ParsePayload[LabAddPayload](&msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Name != "pick" {
		t.Errorf("expected name pick, got %q", payload.Name)
	}
	if payload.RepeatOrDefault() {
		t.Error("explicit repeat=false should be kept")
	}
}

func TestLabAddPayload_RepeatDefaultsToTrue(t *testing.T) {
	msg := NewMessage(MessageTypeLabAdd, map[string]any{"name": "place"})

	payload, err := ParsePayload[LabAddPayload](msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !payload.RepeatOrDefault() {
		t.Error("missing repeat should default to true")
	}
}

func TestParsePayload_TypeMismatch(t *testing.T) {
	msg := NewMessage(MessageTypeLabAdd, map[string]any{"name": 42})

	if _, err := ParsePayload[LabAddPayload](msg); err == nil {
		t.Error("expected error for numeric name")
	}
}

func TestNewMessage_UniqueIDs(t *testing.T) {
	a := NewMessage(EventTaskAdmitted, nil)
	b := NewMessage(EventTaskAdmitted, nil)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("message ids should be unique and non-empty: %q, %q", a.ID, b.ID)
	}
	if a.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestTopologyInfo_ListsNames(t *testing.T) {
	info := TopologyInfo()
	for _, name := range []string{
		string(ExchangeEvents),
		string(ExchangeCommands),
		string(ExchangeDLQ),
		string(QueueCommandsLab),
		string(QueueDLQCommands),
	} {
		if !strings.Contains(info, name) {
			t.Errorf("topology info should mention %s", name)
		}
	}
}
