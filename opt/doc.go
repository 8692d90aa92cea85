// Package opt implements optimization passes over SPIR-V modules.
//
// A Pass transforms a module through its ir.Context and reports
// whether anything changed. PassManager runs an ordered pipeline and
// aggregates the result. Passes are registered by name so pipelines
// can be assembled from configuration.
//
// The module is assumed exclusively owned by the calling goroutine for
// the duration of a run; nothing here synchronizes.
package opt
