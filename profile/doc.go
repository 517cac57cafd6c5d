// Package profile provides optional runtime profiling for raindoc.
//
// Profiling integrates [github.com/pkg/profile] and is only compiled in when
// building with the "pprof" tag:
//
//	go build -tags pprof -o raindoc .
//
// Without the tag every operation is a no-op and [Modes] is empty. Resolving
// documents with deep nested imports is the main reason to profile: the
// "goroutine" and "block" modes show the import fan-out, "cpu" and "allocs"
// show namespace merging cost.
package profile
