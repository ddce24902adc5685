// Package vector secures the embedding and retrieval side of a RAG
// pipeline. It screens text before embedding generation, validates raw
// vectors statistically and by checksum, bounds and sanitizes retrieved
// context, detects clustering attacks across vector batches, and pins
// embedding generation to an approved model list.
package vector
