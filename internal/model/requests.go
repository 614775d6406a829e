package model

import "github.com/google/uuid"

// SensorReadingInput is the payload ESP firmware posts for one reading.
// Temperature and humidity are optional: single-purpose sensors send only
// one of them.
type SensorReadingInput struct {
	DeviceID    string   `json:"device_id" binding:"required"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Timestamp   *int64   `json:"timestamp"`
}

type IngestResult struct {
	DeviceID        string   `json:"device_id"`
	Temperature     *float64 `json:"temperature,omitempty"`
	Humidity        *float64 `json:"humidity,omitempty"`
	UpdatedEntities []string `json:"updated_entities"`
	Warnings        []string `json:"warnings,omitempty"`
}

type BindTargetKind string

const (
	BindRoom   BindTargetKind = "ROOM"
	BindBoiler BindTargetKind = "BOILER"
)

type BindDeviceInput struct {
	DeviceID   string         `json:"device_id" binding:"required"`
	TargetKind BindTargetKind `json:"-"`
	TargetID   string         `json:"target_id" binding:"required"`
}

type BindResult struct {
	DeviceID   string         `json:"device_id"`
	TargetKind BindTargetKind `json:"target_kind"`
	TargetID   string         `json:"target_id"`
	Propagated bool           `json:"propagated"`
}

type AutoAssignInput struct {
	BinID uuid.UUID `json:"bin_id" binding:"required"`
}

type AssignmentResult struct {
	Task       WasteTask `json:"task"`
	DistanceKm float64   `json:"distance_km"`
	// Existing is true when the bin already had an active task and no new
	// assignment was made.
	Existing bool `json:"existing"`
}

type OptimizeRouteInput struct {
	TruckID uuid.UUID   `json:"truck_id" binding:"required"`
	BinIDs  []uuid.UUID `json:"bin_ids" binding:"required"`
}

type PredictionInput struct {
	BinID     uuid.UUID `json:"bin_id" binding:"required"`
	DaysAhead int       `json:"days_ahead"`
}
