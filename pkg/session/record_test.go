package session

import (
	"strings"
	"testing"
)

func TestHistoryRecordRoundTrip(t *testing.T) {
	original := &History{}
	original.Append("user", "What is photosynthesis?")
	original.Append("assistant", "Photosynthesis converts light into chemical energy.")

	data, err := encodeHistory(original)
	if err != nil {
		t.Fatalf("encodeHistory failed: %v", err)
	}
	if !strings.Contains(string(data), `"schema_version":1`) {
		t.Errorf("encoded record missing schema version: %s", data)
	}

	decoded, err := decodeHistory(data)
	if err != nil {
		t.Fatalf("decodeHistory failed: %v", err)
	}
	if len(decoded.Turns) != 2 {
		t.Fatalf("Turns = %d, want 2", len(decoded.Turns))
	}
	for i, turn := range decoded.Turns {
		if turn != original.Turns[i] {
			t.Errorf("Turns[%d] = %+v, want %+v", i, turn, original.Turns[i])
		}
	}
}

func TestHistoryRecordEmptyEncodesTurnsArray(t *testing.T) {
	data, err := encodeHistory(&History{})
	if err != nil {
		t.Fatalf("encodeHistory failed: %v", err)
	}
	if !strings.Contains(string(data), `"turns":[]`) {
		t.Errorf("empty history should encode an empty array, got %s", data)
	}
}

func TestDecodeHistoryRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "unknown schema version",
			data: `{"schema_version":2,"turns":[]}`,
		},
		{
			name: "missing schema version",
			data: `{"turns":[{"role":"user","content":"hi","seq":0}]}`,
		},
		{
			name: "corrupt payload",
			data: `{"schema_version":1,"turns":`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeHistory([]byte(tt.data)); err == nil {
				t.Errorf("decodeHistory(%s) should error", tt.data)
			}
		})
	}
}

func TestHistoryAppendAssignsSequence(t *testing.T) {
	h := &History{Turns: []Turn{{Role: "user", Content: "earlier", Seq: 4}}}
	h.Append("assistant", "later")

	if got := h.Turns[1].Seq; got != 5 {
		t.Errorf("Seq = %d, want 5", got)
	}
}
