// Package patterns holds the shared detection-pattern registry used by all
// gateway validators.
//
// Patterns are grouped by category and compiled once at startup. The
// registry is immutable after construction, so validators share it without
// locking. Input-side categories are only ever evaluated against inbound
// user text and output-side categories only against model responses; the
// sensitive-data bank is intentionally instantiated on both sides because
// the same literals gate input and drive output redaction.
//
// Consolidating the tables here, rather than re-declaring equivalent regex
// lists in each validator, removes drift between components that check the
// same thing.
package patterns
