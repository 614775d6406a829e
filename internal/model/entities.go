package model

import (
	"time"

	"github.com/google/uuid"
)

// Coordinate is owned by exactly one parent entity (bin, truck, device) and
// is removed together with it.
type Coordinate struct {
	ID  uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type TruckStatus string

const (
	TruckIdle    TruckStatus = "IDLE"
	TruckBusy    TruckStatus = "BUSY"
	TruckOffline TruckStatus = "OFFLINE"
)

type WasteBin struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID  `json:"organization_id" gorm:"type:uuid;index"`
	Address        string     `json:"address"`
	LocationID     uint       `json:"-"`
	Location       Coordinate `json:"location" gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE"`
	ServiceZone    string     `json:"service_zone" gorm:"index"`
	FillLevel      int        `json:"fill_level"`
	FillRate       float64    `json:"fill_rate"`
	IsFull         bool       `json:"is_full"`
	CameraURL      *string    `json:"camera_url,omitempty"`
	ImageURL       *string    `json:"image_url,omitempty"`
	ImageSource    string     `json:"image_source"`
	LastAnalysis   string     `json:"last_analysis"`
	CreatedAt      time.Time  `json:"created_at"`
}

type Truck struct {
	ID             uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID   `json:"organization_id" gorm:"type:uuid;index"`
	DriverName     string      `json:"driver_name"`
	PlateNumber    string      `json:"plate_number"`
	Phone          string      `json:"phone"`
	ServiceZone    string      `json:"service_zone" gorm:"index"`
	LocationID     uint        `json:"-"`
	Location       Coordinate  `json:"location" gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE"`
	Status         TruckStatus `json:"status" gorm:"index"`
	FuelLevel      int         `json:"fuel_level"`
}

type ClimateStatus string

const (
	ClimateOptimal  ClimateStatus = "OPTIMAL"
	ClimateWarning  ClimateStatus = "WARNING"
	ClimateCritical ClimateStatus = "CRITICAL"
)

// Room IDs are operator-assigned strings such as "0420101"; leading zeros
// are significant.
type Room struct {
	ID             string        `json:"id" gorm:"primaryKey"`
	Name           string        `json:"name"`
	FacilityID     *uuid.UUID    `json:"facility_id,omitempty" gorm:"type:uuid"`
	Floor          *int          `json:"floor,omitempty"`
	TargetHumidity float64       `json:"target_humidity"`
	Humidity       float64       `json:"humidity"`
	Temperature    float64       `json:"temperature"`
	Status         ClimateStatus `json:"status"`
	LastUpdated    time.Time     `json:"last_updated"`
}

type Boiler struct {
	ID             uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string        `json:"name"`
	TargetHumidity float64       `json:"target_humidity"`
	Humidity       float64       `json:"humidity"`
	Temperature    float64       `json:"temperature"`
	Status         ClimateStatus `json:"status"`
	LastUpdated    time.Time     `json:"last_updated"`
}

type FacilityType string

const (
	FacilitySchool       FacilityType = "SCHOOL"
	FacilityKindergarten FacilityType = "KINDERGARTEN"
	FacilityHospital     FacilityType = "HOSPITAL"
)

type Facility struct {
	ID              uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	Name            string        `json:"name"`
	Type            FacilityType  `json:"type"`
	OverallStatus   ClimateStatus `json:"overall_status"`
	EnergyUsage     float64       `json:"energy_usage"`
	EfficiencyScore float64       `json:"efficiency_score"`
}

type DeviceType string

const (
	DeviceTemperature DeviceType = "TEMPERATURE_SENSOR"
	DeviceHumidity    DeviceType = "HUMIDITY_SENSOR"
	DeviceBoth        DeviceType = "BOTH"
)

// IoTDevice is bound to at most one climate target: RoomID and BoilerID are
// mutually exclusive, enforced at bind time.
type IoTDevice struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	DeviceID           string     `json:"device_id" gorm:"uniqueIndex"`
	DeviceType         DeviceType `json:"device_type"`
	RoomID             *string    `json:"room_id,omitempty"`
	BoilerID           *uuid.UUID `json:"boiler_id,omitempty" gorm:"type:uuid"`
	CurrentTemperature *float64   `json:"current_temperature,omitempty"`
	CurrentHumidity    *float64   `json:"current_humidity,omitempty"`
	LastSeen           time.Time  `json:"last_seen"`
	LastSensorUpdate   *time.Time `json:"last_sensor_update,omitempty"`
	IsActive           bool       `json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
}
