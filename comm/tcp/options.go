package tcp

import (
	"time"

	"github.com/hupe1980/spargo/codec"
)

// Options configures a Transport endpoint.
type Options struct {
	// Codec encodes messages on the wire. Defaults to codec.Default (gob).
	Codec codec.Codec

	// Compression selects whole-frame compression: "", "zstd" or "lz4".
	// Must match on every endpoint of the star.
	Compression string

	// RateLimitBytesPerSec caps outbound bytes per second. Zero means
	// unlimited. Mainly useful at the coordinator, whose serialized
	// outbound bandwidth is the accepted bottleneck of the scatter.
	RateLimitBytesPerSec int

	// DialRetryInterval is how long a worker waits between connection
	// attempts while the coordinator's listener is not up yet.
	DialRetryInterval time.Duration
}

// DefaultOptions are the options used when none are overridden.
var DefaultOptions = Options{
	Codec:             codec.Default,
	DialRetryInterval: 100 * time.Millisecond,
}

// WithCodec sets the wire codec.
func WithCodec(c codec.Codec) func(o *Options) {
	return func(o *Options) {
		if c != nil {
			o.Codec = c
		}
	}
}

// WithCompression selects frame compression ("zstd" or "lz4").
func WithCompression(name string) func(o *Options) {
	return func(o *Options) {
		o.Compression = name
	}
}

// WithRateLimit caps outbound bytes per second.
func WithRateLimit(bytesPerSec int) func(o *Options) {
	return func(o *Options) {
		o.RateLimitBytesPerSec = bytesPerSec
	}
}
