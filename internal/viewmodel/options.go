package viewmodel

import (
	"github.com/hammamikhairi/recipebook/internal/logger"
)

// Document names on the static site. Detail pages read {id}.json from the
// site root while the cook page reads recipes/{id}.json; both layouts are
// produced by the site builder.
const (
	DetailPrefix = ""
	CookPrefix   = "recipes/"
	ListDocument = "recipe_list.json"
)

// Option configures a view model.
type Option func(*options)

type options struct {
	prefix string
	log    *logger.Logger
}

// WithPathPrefix overrides the directory a recipe document is read from.
func WithPathPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithLogger attaches a logger. View models are silent without one.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func buildOptions(prefix string, opts []Option) options {
	o := options{prefix: prefix}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.New(logger.LevelOff, nil)
	}
	return o
}

func documentName(prefix, id string) string {
	return prefix + id + ".json"
}
