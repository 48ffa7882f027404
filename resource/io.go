package resource

import (
	"context"
	"io"
)

// RateLimitedReader throttles reads through a Controller's IO limit. The
// vector store's bulk load wraps its file reader in one when background
// loads must not starve foreground searches of disk bandwidth.
type RateLimitedReader struct {
	r   io.Reader
	rc  *Controller
	ctx context.Context
}

// NewRateLimitedReader wraps r with the controller's throughput limit.
func NewRateLimitedReader(ctx context.Context, r io.Reader, rc *Controller) *RateLimitedReader {
	return &RateLimitedReader{
		r:   r,
		rc:  rc,
		ctx: ctx,
	}
}

func (r *RateLimitedReader) Read(p []byte) (int, error) {
	// Reserve for the maximum potential read; small over-reservation on
	// short reads is acceptable for a throttle.
	if err := r.rc.AcquireIO(r.ctx, len(p)); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
