package convert

import "testing"

func TestDefaultOptionsQuantSpeed(t *testing.T) {
	opts := DefaultOptions()
	if got := opts.quantSpeed(); got != 1 {
		t.Fatalf("quantSpeed() = %d, want 1 for QualityV1=9", got)
	}
	opts.QualityV1 = 0
	if got := opts.quantSpeed(); got != 10 {
		t.Fatalf("quantSpeed() = %d, want 10 for QualityV1=0", got)
	}
}

func TestLogfSilentSuppressesOutput(t *testing.T) {
	opts := DefaultOptions()
	opts.Silent = true
	// Must not panic even with a nil-safe Logger; silence is checked first.
	opts.logf("should not print: %d", 42)
}

func TestLogfNilLoggerIsSafe(t *testing.T) {
	opts := DefaultOptions()
	opts.Logger = nil
	opts.logf("should not panic: %d", 1)
}
