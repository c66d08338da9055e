package dispatch

import (
	"math"
	"sort"
	"time"

	"delivery-dispatch-service/internal/domain"
	"delivery-dispatch-service/internal/geo"
)

// Orders within this distance of any cluster member are considered part of
// the same geographic cluster.
const ClusterRadiusKm = 3.0

// Outcome of one batch formation run.
type BatchOutcome string

const (
	// At least one route was formed.
	OutcomeBatched BatchOutcome = "batched"
	// A hold window is active and the oldest order has no nearby companion;
	// the engine bet on a nearby order arriving before the hold expires.
	OutcomeDeferredForCluster BatchOutcome = "deferred_for_cluster"
	// Not enough pending volume and no SLA pressure.
	OutcomeInsufficientVolume BatchOutcome = "insufficient_volume"
)

// Result of planning one batch formation run.
type BatchPlan struct {
	Batches [][]*domain.Order
	Outcome BatchOutcome
}

// PlanBatches partitions the pending set into zero or more batches, run to
// fixed point: after each batch is carved out the remainder is reconsidered
// from scratch, so a single invocation may plan several routes.
//
// pending must contain only PENDING orders sorted ascending by sequence.
// PlanBatches never mutates its input; materializing routes and flipping
// order statuses is the caller's job.
//
// Selection preference per iteration:
//  1. a geographic cluster of at least MinBatch orders within ClusterRadiusKm
//  2. defer, when a hold window is open and the oldest order is isolated
//  3. greedy nearest-neighbor growth from the oldest order, when the volume
//     or SLA gate passes
//
// The SLA gate (oldest order waiting past MaxWaitMinutes, or past an expired
// hold window) always overrides a hold: holding delays batching, never
// prevents it. A lone over-SLA order ships alone even when MinBatch > 1.
func PlanBatches(pending []*domain.Order, cfg domain.RoutingConfig, now time.Time) BatchPlan {
	remaining := make([]*domain.Order, len(pending))
	copy(remaining, pending)

	plan := BatchPlan{Outcome: OutcomeInsufficientVolume}

	// A batch cap below one can never form a valid batch; without this guard
	// the loop would carve empty batches forever.
	if cfg.MaxBatch < 1 {
		return plan
	}

	for len(remaining) > 0 {
		oldest := remaining[0]
		waitMinutes := now.Sub(oldest.CreatedAt).Minutes()

		hasMinBatch := len(remaining) >= cfg.MinBatch
		holdExpired := cfg.HoldMinutes > 0 && waitMinutes >= float64(cfg.HoldMinutes)
		hasOldOrder := waitMinutes >= float64(cfg.MaxWaitMinutes) || holdExpired

		batch := findCluster(remaining, cfg)

		if batch == nil && shouldHoldForCluster(remaining, cfg, waitMinutes) {
			if !hasOldOrder {
				if len(plan.Batches) == 0 {
					plan.Outcome = OutcomeDeferredForCluster
				}
				return plan
			}
			// Hold window is open but the SLA gate wins: ship anyway.
		}

		if batch == nil && !hasMinBatch && !hasOldOrder {
			return plan
		}

		if batch == nil {
			batch = growNearestNeighbor(remaining, cfg.MaxBatch)
		}

		plan.Batches = append(plan.Batches, batch)
		plan.Outcome = OutcomeBatched
		remaining = without(remaining, batch)
	}

	return plan
}

// findCluster tries each pending order in turn as a seed and grows a cluster
// by repeatedly absorbing any order within ClusterRadiusKm of any member,
// capped at MaxBatch. The first seed whose cluster reaches MinBatch wins; the
// cluster is returned sorted by sequence and truncated to MaxBatch.
func findCluster(pending []*domain.Order, cfg domain.RoutingConfig) []*domain.Order {
	for _, seed := range pending {
		cluster := []*domain.Order{seed}
		inCluster := map[string]bool{seed.ID: true}

		for len(cluster) < cfg.MaxBatch {
			grew := false
			for _, candidate := range pending {
				if inCluster[candidate.ID] {
					continue
				}
				if withinClusterRadius(candidate, cluster) {
					cluster = append(cluster, candidate)
					inCluster[candidate.ID] = true
					grew = true
					if len(cluster) == cfg.MaxBatch {
						break
					}
				}
			}
			if !grew {
				break
			}
		}

		if len(cluster) >= cfg.MinBatch {
			sort.Slice(cluster, func(i, j int) bool {
				return cluster[i].Sequence < cluster[j].Sequence
			})
			if len(cluster) > cfg.MaxBatch {
				cluster = cluster[:cfg.MaxBatch]
			}
			return cluster
		}
	}
	return nil
}

func withinClusterRadius(candidate *domain.Order, cluster []*domain.Order) bool {
	for _, member := range cluster {
		if geo.DistanceKm(candidate.Coordinates(), member.Coordinates()) <= ClusterRadiusKm {
			return true
		}
	}
	return false
}

// shouldHoldForCluster reports whether this run should defer instead of
// batching: a hold window is configured and still open, at least one other
// order is pending, and no pending order sits within ClusterRadiusKm of the
// oldest one.
func shouldHoldForCluster(pending []*domain.Order, cfg domain.RoutingConfig, waitMinutes float64) bool {
	if cfg.HoldMinutes <= 0 || len(pending) < 2 {
		return false
	}
	if waitMinutes >= float64(cfg.HoldMinutes) {
		return false
	}

	oldest := pending[0]
	minDist := math.Inf(1)
	for _, other := range pending[1:] {
		if d := geo.DistanceKm(oldest.Coordinates(), other.Coordinates()); d < minDist {
			minDist = d
		}
	}
	return minDist >= ClusterRadiusKm
}

// growNearestNeighbor builds a batch starting from the oldest pending order,
// repeatedly extending with the pending order nearest to the last-added point
// until maxBatch is reached or the pending set is exhausted.
func growNearestNeighbor(pending []*domain.Order, maxBatch int) []*domain.Order {
	batch := []*domain.Order{pending[0]}
	current := pending[0].Coordinates()

	remaining := make([]*domain.Order, len(pending)-1)
	copy(remaining, pending[1:])

	for len(batch) < maxBatch && len(remaining) > 0 {
		points := make([]domain.LatLng, len(remaining))
		for i, o := range remaining {
			points[i] = o.Coordinates()
		}
		idx := geo.Nearest(current, points)

		next := remaining[idx]
		batch = append(batch, next)
		current = next.Coordinates()
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	return batch
}

func without(orders, exclude []*domain.Order) []*domain.Order {
	excluded := make(map[string]bool, len(exclude))
	for _, o := range exclude {
		excluded[o.ID] = true
	}
	kept := orders[:0]
	for _, o := range orders {
		if !excluded[o.ID] {
			kept = append(kept, o)
		}
	}
	return kept
}
