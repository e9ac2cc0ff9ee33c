package amqp

import (
	"testing"
	"time"
)

func TestNewWeeklyReportSyncMessage(t *testing.T) {
	msg := NewWeeklyReportSyncMessage(7, "2024-01-06")

	if msg.CarID != 7 {
		t.Errorf("NewWeeklyReportSyncMessage() CarID = %v, want %v", msg.CarID, 7)
	}
	if msg.WeekStart != "2024-01-06" {
		t.Errorf("NewWeeklyReportSyncMessage() WeekStart = %v, want %v", msg.WeekStart, "2024-01-06")
	}
	if msg.Timestamp.IsZero() {
		t.Error("NewWeeklyReportSyncMessage() Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("NewWeeklyReportSyncMessage() Timestamp should be recent")
	}
}

func TestWeeklyReportSyncMessage_JSON(t *testing.T) {
	timestamp := time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC)
	msg := &WeeklyReportSyncMessage{
		CarID:     12,
		WeekStart: "2024-01-06",
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsedMsg, err := WeeklyReportSyncMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("WeeklyReportSyncMessageFromJSON() error = %v", err)
	}

	if parsedMsg.CarID != msg.CarID {
		t.Errorf("Parsed CarID = %v, want %v", parsedMsg.CarID, msg.CarID)
	}
	if parsedMsg.WeekStart != msg.WeekStart {
		t.Errorf("Parsed WeekStart = %v, want %v", parsedMsg.WeekStart, msg.WeekStart)
	}
	if !parsedMsg.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsedMsg.Timestamp, msg.Timestamp)
	}
}

func TestWeeklyReportSyncMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"car_id": "not_a_number", "week_start": "2024-01-06"}`)

	_, err := WeeklyReportSyncMessageFromJSON(invalidJSON)
	if err == nil {
		t.Error("WeeklyReportSyncMessageFromJSON() should fail with invalid JSON")
	}
}
