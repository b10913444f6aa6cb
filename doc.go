// Package serialize turns a value graph into the source text of a single
// JavaScript expression. The output is a strict superset of JSON: anything
// JSON can express comes out as plain JSON, and everything JSON cannot is
// reconstructed as literal syntax that evaluates back to an equivalent value.
//
// Beyond JSON, serialization preserves:
//   - dates (time.Time)            → new Date("...")
//   - regular expressions          → /source/flags or new RegExp(...)
//   - ordered maps and sets        → new Map([...]) / new Set([...])
//   - sparse arrays                → Array.from / Array.prototype.slice.call
//   - big integers (*big.Int)      → 10n or BigInt("10")
//   - URLs (*url.URL)              → new URL("...")
//   - symbols                      → Symbol.for("key")
//   - functions (source text)      → function/arrow expressions
//   - accessor properties          → get name() { ... }
//   - undefined, Infinity, NaN     → the literals themselves
//
// # Pipeline
//
// Serialization runs a single tagging traversal over the value graph. Values
// a JSON encoder cannot represent are parked in per-category sink lists and
// replaced with opaque placeholder tokens; the tagged tree then goes through
// a generic JSON encoder, the HTML/line-terminator escaper, and finally a
// reconstruction pass that swaps each token for literal source text. Tokens
// carry a per-call random run ID, so real string content can never collide
// with them.
//
// # Example
//
//	s, _ := serialize.Serialize(map[string]any{
//		"when": time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
//		"big":  big.NewInt(10),
//	})
//	// {"big":BigInt("10"),"when":new Date("2026-01-02T03:04:05.000Z")}
//
// # Trust Model
//
// Deserialize evaluates its input. Only feed it text produced by Serialize
// or text you trust exactly as much as code, because that is what it is.
package serialize
