package gateway

import (
	"context"
	"fmt"
)

// MigrateResult describes what Migrate did.
type MigrateResult struct {
	Copied bool
	// Skipped is set when the destination already had a snapshot or the source had none.
	Skipped bool
}

// Migrate moves profile's snapshot from one store to another. A destination that
// already holds a snapshot wins; the source is left untouched in that case.
// After a successful copy the source is cleared.
func Migrate(ctx context.Context, from, to Gateway, profile string) (MigrateResult, error) {
	existing, err := to.Load(ctx, profile)
	if err != nil {
		return MigrateResult{}, fmt.Errorf("migrate load destination: %w", err)
	}
	if existing != nil {
		return MigrateResult{Skipped: true}, nil
	}
	s, err := from.Load(ctx, profile)
	if err != nil {
		return MigrateResult{}, fmt.Errorf("migrate load source: %w", err)
	}
	if s == nil {
		return MigrateResult{Skipped: true}, nil
	}
	if err := to.Save(ctx, profile, s); err != nil {
		return MigrateResult{}, fmt.Errorf("migrate save destination: %w", err)
	}
	if err := from.Clear(ctx, profile); err != nil {
		return MigrateResult{Copied: true}, fmt.Errorf("migrate clear source: %w", err)
	}
	return MigrateResult{Copied: true}, nil
}
