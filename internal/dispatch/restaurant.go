package dispatch

import (
	"fmt"
	"log"

	"delivery-dispatch-service/internal/domain"
)

// UpdateRestaurant replaces the operation profile after validation. The new
// routing configuration applies from the next batching run; nothing already
// batched is revisited.
func (d *Dispatcher) UpdateRestaurant(profile domain.RestaurantProfile) (domain.RestaurantProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := profile.Validate(); err != nil {
		return domain.RestaurantProfile{}, fmt.Errorf("update restaurant: %w", err)
	}

	d.profileMu.Lock()
	profile.ID = d.restaurant.ID
	d.restaurant = profile
	d.profileMu.Unlock()

	log.Printf("restaurant profile updated minBatch=%d maxBatch=%d maxWait=%d hold=%d",
		profile.MinBatch, profile.MaxBatch, profile.MaxWaitMinutes, profile.HoldMinutes)

	d.persistLocked()
	return profile, nil
}
