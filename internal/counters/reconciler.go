// Package counters reconciles the view/lead analytics counters. The primary
// path is an atomic server-side increment; when it fails the reconciler falls
// back to a read-modify-write over the elevated connection. The fallback is
// at-least-once and possibly lossy under concurrency — a documented trade,
// not a bug to fix here.
package counters

import (
	"context"
	"log"
	"time"

	"roomstay/internal/models"
)

// Method names which increment path produced the outcome.
const (
	MethodPrimary  = "primary"
	MethodFallback = "fallback"
	MethodNone     = "none"
)

// Result is the structured outcome handed back to callers. Counter failures
// never propagate as errors: the caller's primary action (viewing or sharing
// a listing) must succeed regardless.
type Result struct {
	Success bool   `json:"success"`
	Method  string `json:"method"`
}

// PrimaryIncrementer is the atomic stored-function path.
type PrimaryIncrementer interface {
	IncrementCounter(ctx context.Context, propertyID, counter string) error
}

// FallbackStore is the elevated read-modify-write path.
type FallbackStore interface {
	ReadCounter(ctx context.Context, propertyID, counter string) (int64, error)
	WriteCounter(ctx context.Context, propertyID, counter string, value int64) error
}

// Reconciler orchestrates the two increment paths.
type Reconciler struct {
	primary  PrimaryIncrementer
	fallback FallbackStore
	timeout  time.Duration
}

// NewReconciler creates a reconciler. timeout bounds each outbound call so a
// hung store fails closed instead of hanging the request.
func NewReconciler(primary PrimaryIncrementer, fallback FallbackStore, timeout time.Duration) *Reconciler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Reconciler{primary: primary, fallback: fallback, timeout: timeout}
}

// Increment bumps counter on propertyID by one, primary path first.
func (r *Reconciler) Increment(ctx context.Context, propertyID string, counter models.CounterName) Result {
	name := string(counter)

	primaryCtx, cancel := context.WithTimeout(ctx, r.timeout)
	err := r.primary.IncrementCounter(primaryCtx, propertyID, name)
	cancel()
	if err == nil {
		return Result{Success: true, Method: MethodPrimary}
	}
	log.Printf("[counters] primary increment failed property_id=%s counter=%s err=%v", propertyID, name, err)

	if r.fallback == nil {
		return Result{Success: false, Method: MethodNone}
	}

	fbCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	current, err := r.fallback.ReadCounter(fbCtx, propertyID, name)
	if err != nil {
		log.Printf("[counters] fallback read failed property_id=%s counter=%s err=%v", propertyID, name, err)
		return Result{Success: false, Method: MethodNone}
	}

	// Not atomic: a concurrent increment between the read and this write
	// loses one count.
	if err := r.fallback.WriteCounter(fbCtx, propertyID, name, current+1); err != nil {
		log.Printf("[counters] fallback write failed property_id=%s counter=%s err=%v", propertyID, name, err)
		return Result{Success: false, Method: MethodNone}
	}

	return Result{Success: true, Method: MethodFallback}
}
