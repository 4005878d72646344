// Package pipeline implements the two batch jobs: venue enrichment
// (discover places, infer details, upsert rows) and event aggregation
// (query every applicable source per venue, deduplicate globally, write
// one upcoming event per venue).
//
// Per-item adapter failures are logged and skipped so a batch always
// attempts every remaining item. Only two failures abort a run: geocoding,
// without which no venue can be located, and the store itself.
package pipeline
