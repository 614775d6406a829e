package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"smartcity-service/internal/metrics"
	"smartcity-service/internal/model"
	"smartcity-service/internal/repository"
)

// DeviceStore is the persistence surface the sensor pipeline needs.
type DeviceStore interface {
	DeviceByDeviceID(ctx context.Context, deviceID string) (*model.IoTDevice, error)
	RoomByID(ctx context.Context, id string) (*model.Room, error)
	BoilerByID(ctx context.Context, id uuid.UUID) (*model.Boiler, error)
	ApplyReading(ctx context.Context, device *model.IoTDevice, room *model.Room, boiler *model.Boiler) error
	Rebind(ctx context.Context, device *model.IoTDevice, room *model.Room, boiler *model.Boiler) error
}

const (
	minTemperature = -50.0
	maxTemperature = 100.0
	minHumidity    = 0.0
	maxHumidity    = 100.0
)

// SensorService routes device telemetry onto the bound climate target.
type SensorService struct {
	devices DeviceStore
	log     zerolog.Logger
}

func NewSensorService(devices DeviceStore, log zerolog.Logger) *SensorService {
	return &SensorService{devices: devices, log: log}
}

// IngestReading validates one reading and applies it to the device and its
// bound room or boiler as a single unit of work. Out-of-range values are
// accepted with a warning: rejecting them would drop real data from sensors
// with calibration drift.
func (s *SensorService) IngestReading(ctx context.Context, in model.SensorReadingInput) (*model.IngestResult, error) {
	if in.DeviceID == "" {
		return nil, fmt.Errorf("device_id is required: %w", ErrValidation)
	}

	device, err := s.devices.DeviceByDeviceID(ctx, in.DeviceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.SensorReadings.WithLabelValues("unknown_device").Inc()
			return nil, fmt.Errorf("device %q: %w", in.DeviceID, ErrNotFound)
		}
		return nil, err
	}

	result := &model.IngestResult{
		DeviceID:    device.DeviceID,
		Temperature: in.Temperature,
		Humidity:    in.Humidity,
	}

	if in.Temperature != nil && (*in.Temperature < minTemperature || *in.Temperature > maxTemperature) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("temperature %.1f°C outside normal range [%.0f, %.0f]", *in.Temperature, minTemperature, maxTemperature))
	}
	if in.Humidity != nil && (*in.Humidity < minHumidity || *in.Humidity > maxHumidity) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("humidity %.1f%% outside normal range [%.0f, %.0f]", *in.Humidity, minHumidity, maxHumidity))
	}

	now := time.Now()
	device.LastSeen = now
	device.LastSensorUpdate = &now
	if in.Temperature != nil {
		device.CurrentTemperature = in.Temperature
	}
	if in.Humidity != nil {
		device.CurrentHumidity = in.Humidity
	}

	var room *model.Room
	var boiler *model.Boiler
	switch {
	case device.RoomID != nil:
		room, err = s.devices.RoomByID(ctx, *device.RoomID)
		if err != nil {
			return nil, err
		}
		applyToClimate(in, &room.Temperature, &room.Humidity)
		room.LastUpdated = now
		result.UpdatedEntities = append(result.UpdatedEntities, "room:"+room.ID)
	case device.BoilerID != nil:
		boiler, err = s.devices.BoilerByID(ctx, *device.BoilerID)
		if err != nil {
			return nil, err
		}
		applyToClimate(in, &boiler.Temperature, &boiler.Humidity)
		boiler.LastUpdated = now
		result.UpdatedEntities = append(result.UpdatedEntities, "boiler:"+boiler.ID.String())
	default:
		result.Warnings = append(result.Warnings, "device is not bound to any room or boiler")
	}

	if err := s.devices.ApplyReading(ctx, device, room, boiler); err != nil {
		return nil, err
	}
	result.UpdatedEntities = append([]string{"device:" + device.DeviceID}, result.UpdatedEntities...)

	metrics.SensorReadings.WithLabelValues("ok").Inc()
	s.log.Debug().
		Str("device_id", device.DeviceID).
		Strs("updated", result.UpdatedEntities).
		Msg("sensor reading ingested")
	return result, nil
}

// BindDevice points a device at one climate target, clearing the opposite
// binding, and immediately propagates the device's last-known reading so the
// target does not sit stale until the next report.
func (s *SensorService) BindDevice(ctx context.Context, in model.BindDeviceInput) (*model.BindResult, error) {
	device, err := s.devices.DeviceByDeviceID(ctx, in.DeviceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("device %q: %w", in.DeviceID, ErrNotFound)
		}
		return nil, err
	}

	now := time.Now()
	var room *model.Room
	var boiler *model.Boiler

	switch in.TargetKind {
	case model.BindRoom:
		room, err = s.devices.RoomByID(ctx, in.TargetID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("room %q: %w", in.TargetID, ErrNotFound)
			}
			return nil, err
		}
		device.RoomID = &room.ID
		device.BoilerID = nil
	case model.BindBoiler:
		boilerID, parseErr := uuid.Parse(in.TargetID)
		if parseErr != nil {
			return nil, fmt.Errorf("boiler id %q: %w", in.TargetID, ErrValidation)
		}
		boiler, err = s.devices.BoilerByID(ctx, boilerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("boiler %q: %w", in.TargetID, ErrNotFound)
			}
			return nil, err
		}
		device.BoilerID = &boiler.ID
		device.RoomID = nil
	default:
		return nil, fmt.Errorf("target kind %q: %w", in.TargetKind, ErrValidation)
	}

	propagated := false
	if device.CurrentTemperature != nil || device.CurrentHumidity != nil {
		propagated = true
		if room != nil {
			copyReading(device, &room.Temperature, &room.Humidity)
			room.LastUpdated = now
		}
		if boiler != nil {
			copyReading(device, &boiler.Temperature, &boiler.Humidity)
			boiler.LastUpdated = now
		}
	}

	if err := s.devices.Rebind(ctx, device, room, boiler); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("device_id", device.DeviceID).
		Str("target_kind", string(in.TargetKind)).
		Str("target_id", in.TargetID).
		Msg("device rebound")
	return &model.BindResult{
		DeviceID:   device.DeviceID,
		TargetKind: in.TargetKind,
		TargetID:   in.TargetID,
		Propagated: propagated,
	}, nil
}

func applyToClimate(in model.SensorReadingInput, temperature, humidity *float64) {
	if in.Temperature != nil {
		*temperature = *in.Temperature
	}
	if in.Humidity != nil {
		*humidity = *in.Humidity
	}
}

func copyReading(device *model.IoTDevice, temperature, humidity *float64) {
	if device.CurrentTemperature != nil {
		*temperature = *device.CurrentTemperature
	}
	if device.CurrentHumidity != nil {
		*humidity = *device.CurrentHumidity
	}
}
