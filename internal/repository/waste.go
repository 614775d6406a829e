package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smartcity-service/internal/model"
)

type WasteRepository struct {
	db *gorm.DB
}

func NewWasteRepository(db *gorm.DB) *WasteRepository {
	return &WasteRepository{db: db}
}

func applyOrgScope(q *gorm.DB, scope model.Scope) *gorm.DB {
	if scope.OrganizationID != nil {
		q = q.Where("organization_id = ?", *scope.OrganizationID)
	}
	return q
}

func (r *WasteRepository) BinByID(ctx context.Context, scope model.Scope, id uuid.UUID) (*model.WasteBin, error) {
	var bin model.WasteBin
	q := applyOrgScope(r.db.WithContext(ctx).Preload("Location"), scope)
	if err := q.First(&bin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bin, nil
}

func (r *WasteRepository) TruckByID(ctx context.Context, scope model.Scope, id uuid.UUID) (*model.Truck, error) {
	var truck model.Truck
	q := applyOrgScope(r.db.WithContext(ctx).Preload("Location"), scope)
	if err := q.First(&truck, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &truck, nil
}

func (r *WasteRepository) IdleTrucksInZone(ctx context.Context, scope model.Scope, zone string) ([]model.Truck, error) {
	var trucks []model.Truck
	q := applyOrgScope(r.db.WithContext(ctx).Preload("Location"), scope).
		Where("status = ? AND service_zone = ?", model.TruckIdle, zone)
	if err := q.Find(&trucks).Error; err != nil {
		return nil, err
	}
	return trucks, nil
}

// ActiveTaskForBin returns the bin's newest non-terminal task, or nil when
// the bin has no collection in flight.
func (r *WasteRepository) ActiveTaskForBin(ctx context.Context, binID uuid.UUID) (*model.WasteTask, error) {
	var task model.WasteTask
	err := r.db.WithContext(ctx).
		Where("waste_bin_id = ? AND status NOT IN ?", binID,
			[]model.TaskStatus{model.TaskCompleted, model.TaskRejected, model.TaskTimeout}).
		Order("created_at DESC").
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateAssignedTask claims the truck and inserts the task as one unit.
// The claim is a conditional update: if the truck stopped being IDLE since
// candidate selection, nothing is written and ErrTruckConflict is returned.
func (r *WasteRepository) CreateAssignedTask(ctx context.Context, task *model.WasteTask) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Truck{}).
			Where("id = ? AND status = ?", task.AssignedTruckID, model.TruckIdle).
			Update("status", model.TruckBusy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTruckConflict
		}
		return tx.Create(task).Error
	})
}

func (r *WasteRepository) BinsByIDsInZone(ctx context.Context, ids []uuid.UUID, zone string) ([]model.WasteBin, error) {
	var bins []model.WasteBin
	err := r.db.WithContext(ctx).Preload("Location").
		Where("id IN ? AND service_zone = ?", ids, zone).
		Find(&bins).Error
	if err != nil {
		return nil, err
	}
	return bins, nil
}

// SaveRoute persists a new plan and deactivates the truck's earlier active
// plans in the same transaction, so at most one route per truck is live.
func (r *WasteRepository) SaveRoute(ctx context.Context, route *model.RouteOptimization) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.RouteOptimization{}).
			Where("truck_id = ? AND is_active", route.TruckID).
			Update("is_active", false).Error
		if err != nil {
			return err
		}
		return tx.Create(route).Error
	})
}

func (r *WasteRepository) CreatePredictions(ctx context.Context, predictions []model.WastePrediction) error {
	if len(predictions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&predictions).Error
}

func (r *WasteRepository) BinsWithCameras(ctx context.Context, scope model.Scope) ([]model.WasteBin, error) {
	var bins []model.WasteBin
	q := applyOrgScope(r.db.WithContext(ctx).Preload("Location"), scope).
		Where("camera_url IS NOT NULL AND camera_url <> ''")
	if err := q.Find(&bins).Error; err != nil {
		return nil, err
	}
	return bins, nil
}

func (r *WasteRepository) UpdateBinAnalysis(ctx context.Context, bin *model.WasteBin) error {
	return r.db.WithContext(ctx).Model(bin).Updates(map[string]interface{}{
		"fill_level":    bin.FillLevel,
		"is_full":       bin.IsFull,
		"last_analysis": bin.LastAnalysis,
		"image_url":     bin.ImageURL,
		"image_source":  bin.ImageSource,
	}).Error
}

func (r *WasteRepository) CreateAlert(ctx context.Context, alert *model.AlertNotification) error {
	return r.db.WithContext(ctx).Create(alert).Error
}
