package app

import (
	"context"
	"fmt"
	"time"
)

// SimulatedCharger stands in for a real payment provider. It approves
// every charge and issues provider-style transaction references.
type SimulatedCharger struct{}

var _ Charger = (*SimulatedCharger)(nil)

func (SimulatedCharger) Charge(_ context.Context, _ string, _ float64) (string, error) {
	return fmt.Sprintf("txn_%d", time.Now().UnixMilli()), nil
}

func (SimulatedCharger) Refund(_ context.Context, _ string, _ float64) error {
	return nil
}
