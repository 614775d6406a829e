package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskAssigned   TaskStatus = "ASSIGNED"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskRejected   TaskStatus = "REJECTED"
	TaskTimeout    TaskStatus = "TIMEOUT"
)

// Terminal reports whether the task can no longer change state. A bin with a
// non-terminal task is considered already scheduled for collection.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskCompleted, TaskRejected, TaskTimeout:
		return true
	default:
		return false
	}
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

type WasteTask struct {
	ID                uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	WasteBinID        uuid.UUID    `json:"waste_bin_id" gorm:"type:uuid;index"`
	AssignedTruckID   *uuid.UUID   `json:"assigned_truck_id,omitempty" gorm:"type:uuid"`
	Status            TaskStatus   `json:"status" gorm:"index"`
	Priority          TaskPriority `json:"priority"`
	CreatedAt         time.Time    `json:"created_at"`
	AssignedAt        *time.Time   `json:"assigned_at,omitempty"`
	StartedAt         *time.Time   `json:"started_at,omitempty"`
	CompletedAt       *time.Time   `json:"completed_at,omitempty"`
	Notes             *string      `json:"notes,omitempty"`
	EstimatedDuration int          `json:"estimated_duration_minutes"`
}

// RouteOptimization is immutable once created; a newer plan for the same
// truck supersedes it and flips IsActive off.
type RouteOptimization struct {
	ID                   uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	TruckID              uuid.UUID  `json:"truck_id" gorm:"type:uuid;index"`
	Waypoints            []string   `json:"waypoints" gorm:"serializer:json"`
	TotalDistanceKm      float64    `json:"total_distance_km"`
	EstimatedTimeMinutes int        `json:"estimated_time_minutes"`
	FuelEstimateLiters   float64    `json:"fuel_estimate_liters"`
	IsActive             bool       `json:"is_active"`
	CreatedAt            time.Time  `json:"created_at"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

type WastePrediction struct {
	ID                        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	WasteBinID                uuid.UUID  `json:"waste_bin_id" gorm:"type:uuid;index"`
	PredictionDate            time.Time  `json:"prediction_date"`
	PredictedFillLevel        int        `json:"predicted_fill_level"`
	Confidence                float64    `json:"confidence"`
	WillBeFull                bool       `json:"will_be_full"`
	RecommendedCollectionDate *time.Time `json:"recommended_collection_date,omitempty"`
	BasedOnDataPoints         int        `json:"based_on_data_points"`
	CreatedAt                 time.Time  `json:"created_at"`
}

type AlertType string

const (
	AlertWasteBinFull        AlertType = "WASTE_BIN_FULL"
	AlertTemperatureCritical AlertType = "TEMPERATURE_CRITICAL"
	AlertHumidityCritical    AlertType = "HUMIDITY_CRITICAL"
	AlertDeviceOffline       AlertType = "DEVICE_OFFLINE"
)

type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "INFO"
	SeverityWarning  AlertSeverity = "WARNING"
	SeverityCritical AlertSeverity = "CRITICAL"
)

type AlertNotification struct {
	ID                uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	AlertType         AlertType     `json:"alert_type"`
	Title             string        `json:"title"`
	Message           string        `json:"message"`
	Severity          AlertSeverity `json:"severity"`
	RelatedWasteBinID *uuid.UUID    `json:"related_waste_bin_id,omitempty" gorm:"type:uuid"`
	CreatedAt         time.Time     `json:"created_at"`
}
