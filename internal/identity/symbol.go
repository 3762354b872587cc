package identity

import "github.com/oldnordic/magellan/internal/lang"

// SymbolID is the first 16 hex chars of
// SHA-256(language || ":" || canonical_fqn || ":" || span_id).
// Symbol identity changes when either the canonical FQN or the defining
// span changes; anonymous/macro-generated symbols get identity entirely
// from spanID since their canonical FQN never carries a synthesized name.
func SymbolID(language lang.Language, canonicalFQN, spanID string) string {
	return hash16(string(language) + ":" + canonicalFQN + ":" + spanID)
}

// Symbol is the fully-identified definition site the graph store persists.
type Symbol struct {
	SymbolID       string
	CanonicalFQN   string
	DisplayFQN     string
	Name           string
	Kind           lang.SymbolKind
	KindNormalized string
	Anonymous      bool
	Span           Span
}

// NewSymbol computes CanonicalFQN, DisplayFQN, and SymbolID for one
// definition site and returns the fully-populated Symbol.
func NewSymbol(site Site, span Span, anonymous bool) Symbol {
	canonical := CanonicalFQN(site)
	return Symbol{
		SymbolID:       SymbolID(site.Language, canonical, span.SpanID),
		CanonicalFQN:   canonical,
		DisplayFQN:     DisplayFQN(site),
		Name:           site.Name,
		Kind:           site.Kind,
		KindNormalized: site.Kind.Normalize(),
		Anonymous:      anonymous,
		Span:           span,
	}
}
