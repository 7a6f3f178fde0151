// Package lint defines the normalized finding model shared by every adapter:
// findings, the ordered severity scale and its classifier, the typed option
// schema adapters expose to configuration loaders, and the error taxonomy
// (configuration, missing binary, invocation, parse, outdated version).
package lint
