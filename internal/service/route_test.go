package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"smartcity-service/internal/config"
	"smartcity-service/internal/geo"
	"smartcity-service/internal/model"
	"smartcity-service/internal/repository"
)

type fakeRouteStore struct {
	truck *model.Truck
	bins  map[uuid.UUID]*model.WasteBin
	saved *model.RouteOptimization
}

func (f *fakeRouteStore) TruckByID(_ context.Context, _ model.Scope, id uuid.UUID) (*model.Truck, error) {
	if f.truck == nil || f.truck.ID != id {
		return nil, repository.ErrNotFound
	}
	copied := *f.truck
	return &copied, nil
}

func (f *fakeRouteStore) BinsByIDsInZone(_ context.Context, ids []uuid.UUID, zone string) ([]model.WasteBin, error) {
	var out []model.WasteBin
	for _, id := range ids {
		if bin, ok := f.bins[id]; ok && bin.ServiceZone == zone {
			out = append(out, *bin)
		}
	}
	return out, nil
}

func (f *fakeRouteStore) SaveRoute(_ context.Context, route *model.RouteOptimization) error {
	copied := *route
	f.saved = &copied
	return nil
}

func routeBin(zone string, lat, lng float64) *model.WasteBin {
	return &model.WasteBin{
		ID:          uuid.New(),
		ServiceZone: zone,
		Location:    model.Coordinate{Lat: lat, Lng: lng},
	}
}

func newRouteService(store *fakeRouteStore) *RouteService {
	return NewRouteService(store, config.RouteConfig{AvgSpeedKmh: 30, FuelPerKm: 0.15}, zerolog.Nop())
}

func TestOptimizeVisitsNearestFirst(t *testing.T) {
	truck := &model.Truck{
		ID:          uuid.New(),
		ServiceZone: "north",
		Location:    model.Coordinate{Lat: 43.20, Lng: 76.85},
	}
	// Laid out on a line north of the truck so greedy order is unambiguous.
	near := routeBin("north", 43.21, 76.85)
	mid := routeBin("north", 43.23, 76.85)
	far := routeBin("north", 43.26, 76.85)

	store := &fakeRouteStore{
		truck: truck,
		bins: map[uuid.UUID]*model.WasteBin{
			near.ID: near, mid.ID: mid, far.ID: far,
		},
	}

	svc := newRouteService(store)
	route, err := svc.Optimize(context.Background(), model.Scope{}, model.OptimizeRouteInput{
		TruckID: truck.ID,
		BinIDs:  []uuid.UUID{far.ID, near.ID, mid.ID},
	})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	want := []string{near.ID.String(), mid.ID.String(), far.ID.String()}
	if len(route.Waypoints) != len(want) {
		t.Fatalf("waypoints = %v, want %v", route.Waypoints, want)
	}
	for i := range want {
		if route.Waypoints[i] != want[i] {
			t.Fatalf("waypoints = %v, want %v", route.Waypoints, want)
		}
	}
	if !route.IsActive {
		t.Fatal("new route should be active")
	}
	if store.saved == nil || store.saved.ID != route.ID {
		t.Fatal("route was not persisted")
	}
}

func TestOptimizeEstimates(t *testing.T) {
	truck := &model.Truck{
		ID:          uuid.New(),
		ServiceZone: "north",
		Location:    model.Coordinate{Lat: 43.20, Lng: 76.85},
	}
	bin := routeBin("north", 43.30, 76.85)
	store := &fakeRouteStore{truck: truck, bins: map[uuid.UUID]*model.WasteBin{bin.ID: bin}}

	svc := newRouteService(store)
	route, err := svc.Optimize(context.Background(), model.Scope{}, model.OptimizeRouteInput{
		TruckID: truck.ID,
		BinIDs:  []uuid.UUID{bin.ID},
	})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	distance := geo.DistanceKm(truck.Location, bin.Location)
	if math.Abs(route.TotalDistanceKm-distance) > 0.01 {
		t.Fatalf("total distance = %v, want ~%v", route.TotalDistanceKm, distance)
	}
	wantMinutes := int(math.Round(distance / 30 * 60))
	if route.EstimatedTimeMinutes != wantMinutes {
		t.Fatalf("estimated minutes = %d, want %d", route.EstimatedTimeMinutes, wantMinutes)
	}
	wantFuel := math.Round(distance*0.15*100) / 100
	if math.Abs(route.FuelEstimateLiters-wantFuel) > 0.01 {
		t.Fatalf("fuel estimate = %v, want %v", route.FuelEstimateLiters, wantFuel)
	}
}

func TestOptimizeDropsBinsOutsideZone(t *testing.T) {
	truck := &model.Truck{
		ID:          uuid.New(),
		ServiceZone: "north",
		Location:    model.Coordinate{Lat: 43.20, Lng: 76.85},
	}
	inZone := routeBin("north", 43.21, 76.85)
	outZone := routeBin("south", 43.22, 76.85)
	store := &fakeRouteStore{
		truck: truck,
		bins:  map[uuid.UUID]*model.WasteBin{inZone.ID: inZone, outZone.ID: outZone},
	}

	svc := newRouteService(store)
	route, err := svc.Optimize(context.Background(), model.Scope{}, model.OptimizeRouteInput{
		TruckID: truck.ID,
		BinIDs:  []uuid.UUID{inZone.ID, outZone.ID},
	})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if len(route.Waypoints) != 1 || route.Waypoints[0] != inZone.ID.String() {
		t.Fatalf("waypoints = %v, want only the in-zone bin", route.Waypoints)
	}
}

func TestOptimizeNoBinsInZone(t *testing.T) {
	truck := &model.Truck{
		ID:          uuid.New(),
		ServiceZone: "north",
		Location:    model.Coordinate{Lat: 43.20, Lng: 76.85},
	}
	outZone := routeBin("south", 43.22, 76.85)
	store := &fakeRouteStore{truck: truck, bins: map[uuid.UUID]*model.WasteBin{outZone.ID: outZone}}

	svc := newRouteService(store)
	_, err := svc.Optimize(context.Background(), model.Scope{}, model.OptimizeRouteInput{
		TruckID: truck.ID,
		BinIDs:  []uuid.UUID{outZone.ID},
	})
	if !errors.Is(err, ErrNoBins) {
		t.Fatalf("err = %v, want ErrNoBins", err)
	}
}

func TestOptimizeValidation(t *testing.T) {
	svc := newRouteService(&fakeRouteStore{})

	_, err := svc.Optimize(context.Background(), model.Scope{}, model.OptimizeRouteInput{TruckID: uuid.New()})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	_, err = svc.Optimize(context.Background(), model.Scope{}, model.OptimizeRouteInput{
		TruckID: uuid.New(),
		BinIDs:  []uuid.UUID{uuid.New()},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
