package persistence

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"delivery-dispatch-service/internal/domain"
)

type seedFile struct {
	Couriers []struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"couriers"`
	PricingBands []struct {
		MaxDistanceKm float64 `json:"maxDistanceKm"`
		Price         float64 `json:"price"`
	} `json:"pricingBands"`
	PricingZones []struct {
		Name      string  `json:"name"`
		MatchText string  `json:"matchText"`
		Price     float64 `json:"price"`
	} `json:"pricingZones"`
}

// SeedFromJSON loads couriers and pricing rules from a seed file into an
// otherwise empty database. Sections that already hold data are left alone,
// so re-running the tool is safe.
func SeedFromJSON(store *Store, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", path, err)
	}

	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("seed: parse %q: %w", path, err)
	}

	snap, err := store.LoadAll()
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	changed := false

	if len(snap.Couriers) == 0 && len(seed.Couriers) > 0 {
		for _, c := range seed.Couriers {
			snap.Couriers = append(snap.Couriers, &domain.Courier{
				ID:     uuid.NewString(),
				Name:   c.Name,
				Phone:  c.Phone,
				Status: domain.CourierOffline,
			})
		}
		changed = true
	}

	if len(snap.PricingBands) == 0 && len(seed.PricingBands) > 0 {
		for _, b := range seed.PricingBands {
			snap.PricingBands = append(snap.PricingBands, domain.PricingBand{
				ID:            uuid.NewString(),
				MaxDistanceKm: b.MaxDistanceKm,
				Price:         b.Price,
			})
		}
		changed = true
	}

	if len(snap.PricingZones) == 0 && len(seed.PricingZones) > 0 {
		for _, z := range seed.PricingZones {
			snap.PricingZones = append(snap.PricingZones, domain.PricingZone{
				ID:        uuid.NewString(),
				Name:      z.Name,
				MatchText: z.MatchText,
				Price:     z.Price,
			})
		}
		changed = true
	}

	// Built-in defaults fill whatever the seed file left out.
	if EnsureDefaults(snap) {
		changed = true
	}

	if !changed {
		return nil
	}
	if err := store.SaveAll(snap); err != nil {
		return fmt.Errorf("seed: persist: %w", err)
	}
	return nil
}
