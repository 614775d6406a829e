package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smartcity-service/internal/model"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrTruckConflict signals that a truck was claimed by a concurrent
	// dispatch between candidate selection and the conditional update.
	ErrTruckConflict = errors.New("truck no longer idle")
)

type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// DeviceByDeviceID resolves a device by its human-readable identifier.
// Exact match is tried first, then a case-insensitive fallback so firmware
// with inconsistent casing still reports.
func (r *DeviceRepository) DeviceByDeviceID(ctx context.Context, deviceID string) (*model.IoTDevice, error) {
	var device model.IoTDevice
	err := r.db.WithContext(ctx).Where("device_id = ?", deviceID).First(&device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = r.db.WithContext(ctx).Where("LOWER(device_id) = LOWER(?)", deviceID).First(&device).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *DeviceRepository) RoomByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *DeviceRepository) BoilerByID(ctx context.Context, id uuid.UUID) (*model.Boiler, error) {
	var boiler model.Boiler
	if err := r.db.WithContext(ctx).First(&boiler, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &boiler, nil
}

// ApplyReading persists the device's new reading together with its bound
// target in one transaction, so a reader never observes the device updated
// but its room or boiler stale.
func (r *DeviceRepository) ApplyReading(ctx context.Context, device *model.IoTDevice, room *model.Room, boiler *model.Boiler) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(device).Error; err != nil {
			return err
		}
		if room != nil {
			if err := tx.Save(room).Error; err != nil {
				return err
			}
		}
		if boiler != nil {
			if err := tx.Save(boiler).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Rebind persists the device's new exclusive binding and the propagated
// reading on the freshly bound target.
func (r *DeviceRepository) Rebind(ctx context.Context, device *model.IoTDevice, room *model.Room, boiler *model.Boiler) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Save skips nil columns, so clear the stale FK explicitly.
		updates := map[string]interface{}{
			"room_id":   device.RoomID,
			"boiler_id": device.BoilerID,
		}
		if err := tx.Model(device).Updates(updates).Error; err != nil {
			return err
		}
		if room != nil {
			if err := tx.Save(room).Error; err != nil {
				return err
			}
		}
		if boiler != nil {
			if err := tx.Save(boiler).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
