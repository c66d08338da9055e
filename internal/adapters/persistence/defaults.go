package persistence

import (
	"fmt"

	"github.com/google/uuid"

	"delivery-dispatch-service/internal/domain"
	"delivery-dispatch-service/internal/ports"
)

// Seed values for a fresh database.
var defaultBands = []struct {
	maxDistanceKm float64
	price         float64
}{
	{3, 5},
	{10, 10},
	{30, 15},
}

// DefaultProfile is the restaurant profile a fresh install starts with. The
// coordinates and batching thresholds are placeholders the operator is
// expected to replace through the settings endpoint.
func DefaultProfile() domain.RestaurantProfile {
	return domain.RestaurantProfile{
		ID:             uuid.NewString(),
		Name:           "Spetto House",
		Address:        "R. Profa. Clotilde Pinheiro, 550 - São Jorge, Manaus - AM, 69033-660",
		Lat:            -3.1120367,
		Lng:            -60.0348224,
		MaxRadiusKm:    15,
		MinBatch:       2,
		MaxBatch:       5,
		MaxWaitMinutes: 25,
		HoldMinutes:    5,
	}
}

// EnsureDefaults fills the gaps a fresh database leaves in a loaded snapshot:
// the restaurant profile and the distance pricing bands. Existing data is
// never touched. Returns true when anything was seeded.
func EnsureDefaults(snap *ports.Snapshot) bool {
	seeded := false

	if snap.Restaurant.ID == "" {
		snap.Restaurant = DefaultProfile()
		seeded = true
	}

	if len(snap.PricingBands) == 0 {
		for _, band := range defaultBands {
			snap.PricingBands = append(snap.PricingBands, domain.PricingBand{
				ID:            uuid.NewString(),
				MaxDistanceKm: band.maxDistanceKm,
				Price:         band.price,
			})
		}
		seeded = true
	}

	return seeded
}

// Bootstrap initializes the schema, loads the snapshot, and seeds defaults,
// persisting them so the next start finds a complete database.
func Bootstrap(store *Store) (*ports.Snapshot, error) {
	if err := InitSchema(store.db); err != nil {
		return nil, err
	}

	snap, err := store.LoadAll()
	if err != nil {
		return nil, err
	}

	if EnsureDefaults(snap) {
		if err := store.SaveAll(snap); err != nil {
			return nil, fmt.Errorf("bootstrap: persist defaults: %w", err)
		}
	}

	return snap, nil
}
