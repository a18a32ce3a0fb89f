package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerBasic(t *testing.T) {
	s := newSpinner(context.Background(), "Testing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
}

func TestSpinnerWithCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, "Testing with context...")
	s.Start()
	cancel()

	// Give the goroutine time to notice cancellation, then Stop must
	// still return promptly.
	time.Sleep(100 * time.Millisecond)
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
}

func TestSpinnerSetMessage(t *testing.T) {
	s := newSpinner(context.Background(), "Fetching 0/10 packages")
	s.Start()
	s.SetMessage("Fetching 5/10 packages")
	s.SetMessage("Done")
	s.Stop()
}

func TestSpinnerStopWithOutcome(t *testing.T) {
	s := newSpinner(context.Background(), "Fetching 0/2 packages")
	s.Start()
	s.StopWithSuccess("Fetched 2 packages")

	// The spinner goroutine must have exited; a second Stop is a no-op.
	select {
	case <-s.stopped:
	default:
		t.Error("spinner still running after StopWithSuccess")
	}
	s.Stop()

	s = newSpinner(context.Background(), "Fetching 0/2 packages")
	s.Start()
	s.StopWithError("Fetched 1 of 2 packages")
	select {
	case <-s.stopped:
	default:
		t.Error("spinner still running after StopWithError")
	}
}
