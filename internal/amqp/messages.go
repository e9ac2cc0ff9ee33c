package amqp

import (
	"encoding/json"
	"time"
)

// WeeklyReportSyncMessage asks the worker to re-export one vehicle-week.
// It carries only the key; the worker fetches and recomputes the report from
// the database so a stale message can never export stale figures.
type WeeklyReportSyncMessage struct {
	CarID     int64     `json:"car_id"`
	WeekStart string    `json:"week_start"`
	Timestamp time.Time `json:"timestamp"`
}

// NewWeeklyReportSyncMessage creates a sync message for a (car, week) pair.
func NewWeeklyReportSyncMessage(carID int64, weekStart string) *WeeklyReportSyncMessage {
	return &WeeklyReportSyncMessage{
		CarID:     carID,
		WeekStart: weekStart,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *WeeklyReportSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func WeeklyReportSyncMessageFromJSON(data []byte) (*WeeklyReportSyncMessage, error) {
	var msg WeeklyReportSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
