// Package core defines the shared language of the sitewriter system.
//
// This package contains:
//   - Content entities (Model, ModelRef, Metadata, Entry, Dataset)
//   - Setup answers (LocationSpec, PageSpec, DataSpec, SetupAnswers)
//   - Routing descriptors (RouteResult, PageContent, Utils, WriteFunc)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
