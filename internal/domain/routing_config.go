package domain

// Routing configuration consumed by the batch formation engine.
//
// HoldMinutes is the optional smart-batch hold window: a bounded delay the
// engine tolerates while betting that a nearby order will arrive in time to
// batch with the oldest pending one. Zero disables holding.
//
// The configuration may change between batching runs; the engine re-reads it
// on every invocation and never caches it.
type RoutingConfig struct {
	MinBatch       int    `json:"minBatch"`
	MaxBatch       int    `json:"maxBatch"`
	MaxWaitMinutes int    `json:"maxWaitMinutes"`
	HoldMinutes    int    `json:"smartBatchHoldMinutes"`
	Origin         LatLng `json:"origin"`
}
