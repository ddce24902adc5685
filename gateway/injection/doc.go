// Package injection screens user messages for prompt-injection and
// system-prompt extraction attempts before they reach a model. Denials
// are generic; the matched pattern is only logged and recorded as a
// security event.
package injection
