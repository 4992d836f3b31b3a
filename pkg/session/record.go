package session

import (
	"encoding/json"
	"fmt"
)

// historySchemaVersion is the record format written by this build. Readers
// reject any other version so a partially rolled-out format change can never
// be misread as conversation data.
const historySchemaVersion = 1

type historyRecord struct {
	SchemaVersion int    `json:"schema_version"`
	Turns         []Turn `json:"turns"`
}

func encodeHistory(history *History) ([]byte, error) {
	turns := history.Turns
	if turns == nil {
		turns = []Turn{}
	}
	return json.Marshal(historyRecord{
		SchemaVersion: historySchemaVersion,
		Turns:         turns,
	})
}

func decodeHistory(data []byte) (*History, error) {
	var record historyRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode history record: %w", err)
	}
	if record.SchemaVersion != historySchemaVersion {
		return nil, fmt.Errorf("unsupported history schema version: %d", record.SchemaVersion)
	}
	return &History{Turns: record.Turns}, nil
}
