package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"delivery-dispatch-service/internal/domain"
	"delivery-dispatch-service/internal/ports"
)

func writeSeedFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

func TestSeedFromJSONPopulatesEmptyDatabase(t *testing.T) {
	store := openTestStore(t)
	path := writeSeedFile(t, `{
		"couriers": [{"name": "Ana", "phone": "555-0001"}],
		"pricingBands": [{"maxDistanceKm": 4, "price": 6}],
		"pricingZones": [{"name": "Centro", "matchText": "centro", "price": 12}]
	}`)

	if err := SeedFromJSON(store, path); err != nil {
		t.Fatalf("SeedFromJSON: %v", err)
	}

	loaded, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(loaded.Couriers) != 1 || loaded.Couriers[0].Name != "Ana" {
		t.Fatalf("couriers = %+v", loaded.Couriers)
	}
	// Seed bands win over the built-in defaults on an empty database.
	if len(loaded.PricingBands) != 1 || loaded.PricingBands[0].MaxDistanceKm != 4 {
		t.Fatalf("bands = %+v", loaded.PricingBands)
	}
	if len(loaded.PricingZones) != 1 || loaded.PricingZones[0].Name != "Centro" {
		t.Fatalf("zones = %+v", loaded.PricingZones)
	}
	// Defaults still fill what the seed file cannot provide.
	if loaded.Restaurant.MinBatch != 2 {
		t.Fatalf("restaurant = %+v", loaded.Restaurant)
	}
}

func TestSeedFromJSONLeavesExistingDataAlone(t *testing.T) {
	store := openTestStore(t)

	existing := &ports.Snapshot{
		Couriers:     []*domain.Courier{{ID: "c-1", Name: "Bia", Phone: "555-0002", Status: domain.CourierOffline}},
		PricingBands: []domain.PricingBand{{ID: "b-1", MaxDistanceKm: 8, Price: 9}},
		PricingZones: []domain.PricingZone{{ID: "z-1", Name: "Ponta Negra", MatchText: "ponta negra", Price: 20}},
		Restaurant:   DefaultProfile(),
	}
	if err := store.SaveAll(existing); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	path := writeSeedFile(t, `{
		"couriers": [{"name": "Ana", "phone": "555-0001"}],
		"pricingBands": [{"maxDistanceKm": 4, "price": 6}],
		"pricingZones": [{"name": "Centro", "matchText": "centro", "price": 12}]
	}`)
	if err := SeedFromJSON(store, path); err != nil {
		t.Fatalf("SeedFromJSON: %v", err)
	}

	loaded, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(loaded.Couriers) != 1 || loaded.Couriers[0].ID != "c-1" {
		t.Fatalf("couriers = %+v, want only c-1", loaded.Couriers)
	}
	if len(loaded.PricingBands) != 1 || loaded.PricingBands[0].MaxDistanceKm != 8 {
		t.Fatalf("bands = %+v, want existing band kept", loaded.PricingBands)
	}
	if len(loaded.PricingZones) != 1 || loaded.PricingZones[0].ID != "z-1" {
		t.Fatalf("zones = %+v, want existing zone kept", loaded.PricingZones)
	}
}
