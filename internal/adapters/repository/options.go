package repository

import "github.com/okian/apexstats/pkg/logger"

// Option applies a configuration option to a file-backed store.
type Option func(*options)

type options struct {
	logger logger.Logger
}

// WithLogger sets the logger used to report recoveries such as a discarded
// partial row.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
