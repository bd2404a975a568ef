package router

import (
	"log/slog"

	"github.com/leapstack-labs/sitewriter/pkg/core"
)

// RuleKind distinguishes page rules from data rules.
type RuleKind string

// Rule kinds.
const (
	RulePage RuleKind = "page"
	RuleData RuleKind = "data"
)

// Option configures Compile.
type Option func(*Router)

// WithStrict makes Route report configured fields missing from an entry.
func WithStrict() Option {
	return func(r *Router) {
		r.strict = true
	}
}

// WithLogger sets the logger used for compile-time debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

type rule struct {
	kind  RuleKind
	model core.ModelRef
	page  core.PageSpec
	data  core.DataSpec
}

// Compile builds a Router from answers. It performs no I/O and never fails;
// a nil answers value yields a router that matches nothing.
// The specs are copied, so later changes to answers do not affect the router.
func Compile(answers *core.SetupAnswers, opts ...Option) *Router {
	r := &Router{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}

	if answers == nil {
		return r
	}

	r.rules = make([]rule, 0, answers.Len())
	for _, page := range answers.Pages {
		r.rules = append(r.rules, rule{kind: RulePage, model: page.Model, page: page})
	}
	for _, data := range answers.Data {
		r.rules = append(r.rules, rule{kind: RuleData, model: data.Model, data: data})
	}

	for i, info := range r.Rules() {
		r.logger.Debug("compiled route rule",
			slog.Int("priority", i),
			slog.String("kind", string(info.Kind)),
			slog.String("model", info.Model.String()),
			slog.String("format", info.Format),
			slog.String("path", info.PathTemplate),
			slog.Bool("shadowed", info.Shadowed),
		)
	}

	return r
}
