// Package cli contains the command line interface for raindoc.
//
// # Usage
//
// Every command reads one dotrain document (a file, or stdin by default) and
// resolves its imports against the metas of the fixture files given with
// --meta:
//
//	raindoc --meta metas.yaml check order.rain
//	raindoc --meta metas.yaml tree --format json order.rain
//	raindoc --meta metas.yaml bindings --filter 'kind == "constant"' order.rain
//	raindoc --meta metas.yaml lookup lib.add order.rain
//	raindoc meta hash metas.yaml
//
// check exits with a non-zero status if the document has any problem.
//
// # Fixture files
//
// A fixture file lists metas to build and store:
//
//	metas:
//	  - words:
//	      - word: add
//	        description: addition
//	  - dotrain: |
//	      #fee 0x10
//	  - hash: 0x6b...    # store under a fixed hash
//	    contract:
//	      name: orderbook
//	      methods: [...]
//
// # Configuration
//
// Flag defaults are read from a YAML file in the user configuration
// directory, under the "config" key, and from a JSON file beside it. The init
// command writes the YAML file from the current flag values:
//
//	config:
//	  log-level: debug
//	  max-import-depth: 16
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// Document resolution logs at trace level.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o raindoc .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/raindoc/pprof)
package cli
