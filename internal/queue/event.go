// Package queue defines message payloads exchanged over the message broker
// and the publisher that emits them.
package queue

// RunCompletedEvent is published when a generation run finishes.  It
// carries enough aggregate information for downstream consumers (test
// dashboards, notification bots) to report on the run without querying the
// seeded database.
type RunCompletedEvent struct {
	RunID         string `json:"run_id"`
	Records       int    `json:"records"`
	Reservations  int    `json:"reservations"`
	Orders        int    `json:"orders"`
	OriginTotal   int64  `json:"origin_total"`
	DiscountTotal int64  `json:"discount_total"`
	AmountTotal   int64  `json:"amount_total"`
	Seed          int64  `json:"seed"`
	StartedAt     string `json:"started_at"`
	FinishedAt    string `json:"finished_at"`
}
