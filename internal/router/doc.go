// Package router compiles setup answers into a routing function.
//
// Compile turns an ordered SetupAnswers value into a Router: an ordered list
// of guarded rules, pages first and data objects second, each group in
// collection order. Route evaluates the rules top to bottom for one entry and
// the first rule whose ModelRef equals the entry's metadata wins:
//
//	router := router.Compile(answers)
//	result, err := router.Route(entry, core.Utils{Slugify: slugify.Make})
//
// A nil result with a nil error means the entry is not written, either
// because it has no metadata or because no rule matches it.
//
// Routing is fail-soft: a configured field missing from an entry renders as
// an empty value. WithStrict reports such fields as *MissingFieldError
// instead. The only failure in the default mode is ErrSlugifyMissing, raised
// when a collection rule runs without a slugify capability.
package router
