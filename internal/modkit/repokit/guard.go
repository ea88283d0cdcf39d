package repokit

import (
	"context"
	"fmt"
	"time"
)

// Guarder checks that every configured backend answers
type Guarder interface {
	Guard(context.Context) error
}

// GuardTimeout bounds a guard call when ctx carries no deadline
const GuardTimeout = 5 * time.Second

// Check runs g.Guard under GuardTimeout unless ctx already has a deadline
func Check(ctx context.Context, g Guarder) error {
	if g == nil {
		return fmt.Errorf("repokit: nil guard")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, GuardTimeout)
		defer cancel()
	}
	return g.Guard(ctx)
}

// MustGuard panics when Check fails, for process startup
func MustGuard(ctx context.Context, name string, g Guarder) {
	if err := Check(ctx, g); err != nil {
		panic(fmt.Sprintf("%s: dependency guard failed: %v", name, err))
	}
}
