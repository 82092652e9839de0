// Package transform defines the per-record plugin contract (configure-time
// validation, initialize, then synchronous per-record execution), the plugin
// registry, and the shared field-mapping config grammar.
package transform
