package db

import (
	"fmt"

	"gorm.io/gorm"

	"smartcity-service/internal/model"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE INDEX IF NOT EXISTS idx_waste_tasks_bin_active
		ON waste_tasks (waste_bin_id)
		WHERE status NOT IN ('COMPLETED', 'REJECTED', 'TIMEOUT');`,
	`CREATE INDEX IF NOT EXISTS idx_trucks_zone_status ON trucks (service_zone, status);`,
	`CREATE INDEX IF NOT EXISTS idx_route_optimizations_truck_active
		ON route_optimizations (truck_id) WHERE is_active;`,
	`CREATE INDEX IF NOT EXISTS idx_waste_predictions_bin_date
		ON waste_predictions (waste_bin_id, prediction_date);`,
}

func runMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Coordinate{},
		&model.WasteBin{},
		&model.Truck{},
		&model.Facility{},
		&model.Room{},
		&model.Boiler{},
		&model.IoTDevice{},
		&model.WasteTask{},
		&model.RouteOptimization{},
		&model.WastePrediction{},
		&model.AlertNotification{},
	); err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
