package detector

import (
	"fmt"

	"gocv.io/x/gocv"
)

// UnavailableProvider stands in for a provider that could not be set up.
// Every Detect fails with ErrProviderUnavailable.
type UnavailableProvider struct {
	cause error
}

// NewUnavailableProvider returns a provider that reports cause on every call.
func NewUnavailableProvider(cause error) *UnavailableProvider {
	return &UnavailableProvider{cause: cause}
}

// Detect always fails with ErrProviderUnavailable.
func (p *UnavailableProvider) Detect(_ *gocv.Mat) (FrameLandmarks, error) {
	return FrameLandmarks{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, p.cause)
}

// Close is a no-op.
func (p *UnavailableProvider) Close() error {
	return nil
}
