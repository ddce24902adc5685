// Package sensitive blocks credentials and PII on the way into a model
// and redacts the same literals on the way out. Input denials name the
// detected kind so users can fix their message; output redaction swaps
// matches for labeled placeholders.
package sensitive
