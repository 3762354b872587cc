package identity

import (
	"strings"

	"github.com/oldnordic/magellan/internal/lang"
)

// ScopeEntry is one link in the scope stack at a definition site: the kind
// and name of an enclosing module, namespace, or type. impl blocks, generic
// parameters, closures, and lexical blocks never appear here (spec.md §4.3).
type ScopeEntry struct {
	Kind lang.SymbolKind
	Name string
}

// Site is everything CanonicalFQN/DisplayFQN need about one definition.
type Site struct {
	ModuleRoot string // project/crate root name
	RelPath    string // file path relative to the index root
	Scope      []ScopeEntry
	Kind       lang.SymbolKind
	Name       string
	Language   lang.Language
}

// CanonicalFQN builds the internal-only identity string:
// crate_or_module_root :: relative_path :: enclosing_scope_chain :: kind :: name
// Always "::"-joined regardless of source language, so two languages never
// collide on the same canonical string by accident.
func CanonicalFQN(s Site) string {
	parts := []string{s.ModuleRoot, s.RelPath}
	for _, entry := range s.Scope {
		parts = append(parts, string(entry.Kind)+"#"+entry.Name)
	}
	parts = append(parts, string(s.Kind), s.Name)
	return strings.Join(parts, "::")
}

// DisplayFQN builds the language-native short form for humans and exports:
// enclosing scope names joined by the language's separator, then the symbol
// name. Kind tags and the module root are omitted; this is the form a
// developer would actually type or read.
func DisplayFQN(s Site) string {
	sep := "."
	if spec := lang.ForLanguage(s.Language); spec != nil && spec.ScopeSeparator != "" {
		sep = spec.ScopeSeparator
	}
	names := make([]string, 0, len(s.Scope)+1)
	for _, entry := range s.Scope {
		names = append(names, entry.Name)
	}
	names = append(names, s.Name)
	return strings.Join(names, sep)
}
