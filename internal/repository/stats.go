package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"smartcity-service/internal/model"
)

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// WasteStatistics reduces bins, trucks and the tasks created inside the
// window into one summary, including a per-zone breakdown.
func (r *StatsRepository) WasteStatistics(ctx context.Context, scope model.Scope, window time.Duration) (*model.WasteStatistics, error) {
	stats := &model.WasteStatistics{ByZone: map[string]model.ZoneStats{}}
	since := time.Now().Add(-window)

	bins := applyOrgScope(r.db.WithContext(ctx).Model(&model.WasteBin{}), scope)
	if err := bins.Count(&stats.TotalBins).Error; err != nil {
		return nil, err
	}
	fullBins := applyOrgScope(r.db.WithContext(ctx).Model(&model.WasteBin{}), scope)
	if err := fullBins.Where("is_full").Count(&stats.FullBins).Error; err != nil {
		return nil, err
	}
	avgFill := applyOrgScope(r.db.WithContext(ctx).Model(&model.WasteBin{}), scope)
	if err := avgFill.Select("COALESCE(AVG(fill_level), 0)").Scan(&stats.AverageFillLevel).Error; err != nil {
		return nil, err
	}

	trucks := applyOrgScope(r.db.WithContext(ctx).Model(&model.Truck{}), scope)
	if err := trucks.Count(&stats.TotalTrucks).Error; err != nil {
		return nil, err
	}
	busy := applyOrgScope(r.db.WithContext(ctx).Model(&model.Truck{}), scope)
	if err := busy.Where("status = ?", model.TruckBusy).Count(&stats.ActiveTrucks).Error; err != nil {
		return nil, err
	}

	type taskRow struct {
		Status model.TaskStatus
		Count  int64
	}
	var taskRows []taskRow
	tasks := r.db.WithContext(ctx).Model(&model.WasteTask{}).
		Select("waste_tasks.status AS status, COUNT(*) AS count").
		Joins("JOIN waste_bins ON waste_bins.id = waste_tasks.waste_bin_id").
		Where("waste_tasks.created_at >= ?", since).
		Group("waste_tasks.status")
	if scope.OrganizationID != nil {
		tasks = tasks.Where("waste_bins.organization_id = ?", *scope.OrganizationID)
	}
	if err := tasks.Scan(&taskRows).Error; err != nil {
		return nil, err
	}

	var totalTasks int64
	for _, row := range taskRows {
		totalTasks += row.Count
		switch row.Status {
		case model.TaskCompleted:
			stats.TasksCompleted = row.Count
		case model.TaskPending:
			stats.TasksPending = row.Count
		case model.TaskInProgress:
			stats.TasksInProgress = row.Count
		}
	}
	if totalTasks > 0 {
		stats.CollectionEfficiency = float64(stats.TasksCompleted) / float64(totalTasks) * 100
	}

	type zoneRow struct {
		ServiceZone  string
		Total        int64
		Full         int64
		AvgFillLevel float64
	}
	var zoneRows []zoneRow
	zones := applyOrgScope(r.db.WithContext(ctx).Model(&model.WasteBin{}), scope).
		Select(`service_zone,
			COUNT(*) AS total,
			SUM(CASE WHEN is_full THEN 1 ELSE 0 END) AS full,
			COALESCE(AVG(fill_level), 0) AS avg_fill_level`).
		Group("service_zone")
	if err := zones.Scan(&zoneRows).Error; err != nil {
		return nil, err
	}
	for _, row := range zoneRows {
		stats.ByZone[row.ServiceZone] = model.ZoneStats{
			Total:        row.Total,
			Full:         row.Full,
			AvgFillLevel: row.AvgFillLevel,
		}
	}

	return stats, nil
}

func (r *StatsRepository) ClimateStatistics(ctx context.Context) (*model.ClimateStatistics, error) {
	stats := &model.ClimateStatistics{ByFacilityType: map[string]model.FacilityTypeStats{}}

	if err := r.db.WithContext(ctx).Model(&model.Facility{}).Count(&stats.TotalFacilities).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Boiler{}).Count(&stats.TotalBoilers).Error; err != nil {
		return nil, err
	}

	type roomRow struct {
		Total    int64
		AvgTemp  float64
		AvgHum   float64
		Critical int64
		Warning  int64
		Optimal  int64
	}
	var rooms roomRow
	err := r.db.WithContext(ctx).Model(&model.Room{}).
		Select(`COUNT(*) AS total,
			COALESCE(AVG(temperature), 0) AS avg_temp,
			COALESCE(AVG(humidity), 0) AS avg_hum,
			SUM(CASE WHEN status = 'CRITICAL' THEN 1 ELSE 0 END) AS critical,
			SUM(CASE WHEN status = 'WARNING' THEN 1 ELSE 0 END) AS warning,
			SUM(CASE WHEN status = 'OPTIMAL' THEN 1 ELSE 0 END) AS optimal`).
		Scan(&rooms).Error
	if err != nil {
		return nil, err
	}
	stats.TotalRooms = rooms.Total
	stats.AverageTemperature = rooms.AvgTemp
	stats.AverageHumidity = rooms.AvgHum
	stats.CriticalRooms = rooms.Critical
	stats.WarningRooms = rooms.Warning
	stats.OptimalRooms = rooms.Optimal

	type facilityRow struct {
		Type          model.FacilityType
		Count         int64
		AvgEfficiency float64
	}
	var facilityRows []facilityRow
	err = r.db.WithContext(ctx).Model(&model.Facility{}).
		Select("type, COUNT(*) AS count, COALESCE(AVG(efficiency_score), 0) AS avg_efficiency").
		Group("type").
		Scan(&facilityRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range facilityRows {
		stats.ByFacilityType[string(row.Type)] = model.FacilityTypeStats{
			Count:         row.Count,
			AvgEfficiency: row.AvgEfficiency,
		}
	}

	return stats, nil
}

func (r *StatsRepository) DashboardStats(ctx context.Context, scope model.Scope) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}

	bins := applyOrgScope(r.db.WithContext(ctx).Model(&model.WasteBin{}), scope)
	if err := bins.Count(&stats.TotalBins).Error; err != nil {
		return nil, err
	}
	active := applyOrgScope(r.db.WithContext(ctx).Model(&model.WasteBin{}), scope)
	if err := active.Where("NOT is_full").Count(&stats.ActiveBins).Error; err != nil {
		return nil, err
	}
	trucks := applyOrgScope(r.db.WithContext(ctx).Model(&model.Truck{}), scope)
	if err := trucks.Count(&stats.TotalTrucks).Error; err != nil {
		return nil, err
	}
	busy := applyOrgScope(r.db.WithContext(ctx).Model(&model.Truck{}), scope)
	if err := busy.Where("status = ?", model.TruckBusy).Count(&stats.BusyTrucks).Error; err != nil {
		return nil, err
	}

	if stats.TotalBins > 0 {
		stats.FillRate = float64(stats.TotalBins-stats.ActiveBins) / float64(stats.TotalBins) * 100
	}
	return stats, nil
}
