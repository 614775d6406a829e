package model

type ZoneStats struct {
	Total        int64   `json:"total"`
	Full         int64   `json:"full"`
	AvgFillLevel float64 `json:"avg_fill_level"`
}

// WasteStatistics is a read-side reduction over bins, trucks and the
// trailing 30 days of tasks.
type WasteStatistics struct {
	TotalBins            int64                `json:"total_bins"`
	FullBins             int64                `json:"full_bins"`
	AverageFillLevel     float64              `json:"average_fill_level"`
	TotalTrucks          int64                `json:"total_trucks"`
	ActiveTrucks         int64                `json:"active_trucks"`
	TasksCompleted       int64                `json:"tasks_completed"`
	TasksPending         int64                `json:"tasks_pending"`
	TasksInProgress      int64                `json:"tasks_in_progress"`
	CollectionEfficiency float64              `json:"collection_efficiency"`
	ByZone               map[string]ZoneStats `json:"by_zone"`
}

type FacilityTypeStats struct {
	Count         int64   `json:"count"`
	AvgEfficiency float64 `json:"avg_efficiency"`
}

type ClimateStatistics struct {
	TotalFacilities    int64                        `json:"total_facilities"`
	TotalRooms         int64                        `json:"total_rooms"`
	TotalBoilers       int64                        `json:"total_boilers"`
	AverageTemperature float64                      `json:"average_temperature"`
	AverageHumidity    float64                      `json:"average_humidity"`
	CriticalRooms      int64                        `json:"critical_rooms"`
	WarningRooms       int64                        `json:"warning_rooms"`
	OptimalRooms       int64                        `json:"optimal_rooms"`
	ByFacilityType     map[string]FacilityTypeStats `json:"by_facility_type"`
}

type DashboardStats struct {
	TotalBins   int64   `json:"total_bins"`
	ActiveBins  int64   `json:"active_bins"`
	TotalTrucks int64   `json:"total_trucks"`
	BusyTrucks  int64   `json:"busy_trucks"`
	FillRate    float64 `json:"fill_rate"`
}
