// Package lang registers one LanguageSpec per supported source language:
// the tree-sitter node-kind tables the extractor needs to turn an AST into
// symbols, references, and calls. Each language lives in its own file and
// registers itself via init(), so adding a language never touches this file.
package lang

// Language is the dispatcher tag for a supported language (spec.md §4.2:
// rust, c, cpp, java, js, ts, python, plus the long tail the grammar pack
// carries).
type Language string

const (
	Go         Language = "go"
	Rust       Language = "rust"
	C          Language = "c"
	CPP        Language = "cpp"
	Java       Language = "java"
	JavaScript Language = "js"
	TypeScript Language = "ts"
	TSX        Language = "tsx"
	Python     Language = "python"
	CSharp     Language = "c-sharp"
	PHP        Language = "php"
	Ruby       Language = "ruby"
	Lua        Language = "lua"
	Scala      Language = "scala"
	Kotlin     Language = "kotlin"
	Bash       Language = "bash"
	CSS        Language = "css"
	Dart       Language = "dart"
	Dockerfile Language = "dockerfile"
	Elixir     Language = "elixir"
	Erlang     Language = "erlang"
	Groovy     Language = "groovy"
	Haskell    Language = "haskell"
	HCL        Language = "hcl"
	HTML       Language = "html"
	ObjectiveC Language = "objc"
	OCaml      Language = "ocaml"
	Perl       Language = "perl"
	R          Language = "r"
	SCSS       Language = "scss"
	SQL        Language = "sql"
	Swift      Language = "swift"
	TOML       Language = "toml"
	YAML       Language = "yaml"
	Zig        Language = "zig"
)

// SymbolKind classifies a definition site per the data model in spec.md §3.
type SymbolKind string

const (
	KindFunction  SymbolKind = "Function"
	KindMethod    SymbolKind = "Method"
	KindClass     SymbolKind = "Class"
	KindInterface SymbolKind = "Interface"
	KindEnum      SymbolKind = "Enum"
	KindModule    SymbolKind = "Module"
	KindNamespace SymbolKind = "Namespace"
	KindUnion     SymbolKind = "Union"
	KindTypeAlias SymbolKind = "TypeAlias"
	KindConst     SymbolKind = "Const"
	KindUnknown   SymbolKind = "Unknown"
)

// Normalize returns the short kind tag used in display output and exports
// (spec.md §3: Symbol.kind_normalized).
func (k SymbolKind) Normalize() string {
	switch k {
	case KindFunction:
		return "fn"
	case KindMethod:
		return "method"
	case KindClass:
		return "struct"
	case KindInterface:
		return "iface"
	case KindEnum:
		return "enum"
	case KindModule:
		return "mod"
	case KindNamespace:
		return "ns"
	case KindUnion:
		return "union"
	case KindTypeAlias:
		return "alias"
	case KindConst:
		return "const"
	default:
		return "unknown"
	}
}

// LanguageSpec is the tree-sitter node-kind table for one language: which
// node kinds introduce a symbol (and of which SymbolKind), which kinds are
// module/namespace scopes, which kinds are call sites, and which kinds are
// imports. ScopeSeparator is the language-native FQN joiner (spec.md §4.3).
type LanguageSpec struct {
	Language       Language
	FileExtensions []string
	ScopeSeparator string

	// Kinds maps a definition-site tree-sitter node kind to the SymbolKind
	// it introduces. A node kind absent from this map never starts a symbol.
	Kinds map[string]SymbolKind

	// MethodParentKinds: a node kind in Kinds that would normally classify
	// as KindFunction reclassifies to KindMethod when its nearest enclosing
	// scope node has one of these kinds (it is a member of a type).
	MethodParentKinds map[string]bool

	ScopeNodeTypes    []string // not read by internal/extract: FQN scopes come from Kinds entries of a scope kind
	FieldNodeTypes    []string
	CallNodeTypes     []string
	ImportNodeTypes   []string
	ImportFromTypes   []string
	PackageIndicators []string
}

var registry = map[string]*LanguageSpec{}
var byLanguage = map[Language]*LanguageSpec{}

// Register adds a LanguageSpec to the global registry, keyed by every
// extension it claims.
func Register(spec *LanguageSpec) {
	for _, ext := range spec.FileExtensions {
		registry[ext] = spec
	}
	byLanguage[spec.Language] = spec
}

// ForExtension returns the LanguageSpec for a file extension (e.g. ".go").
func ForExtension(ext string) *LanguageSpec {
	return registry[ext]
}

// ForLanguage returns the LanguageSpec for a Language tag.
func ForLanguage(l Language) *LanguageSpec {
	return byLanguage[l]
}

// LanguageForExtension is the pure dispatcher function spec.md §4.2
// requires: path extension → Language, or ok=false for unknown types (the
// Path Filter rejects those before they ever reach here).
func LanguageForExtension(ext string) (Language, bool) {
	spec := registry[ext]
	if spec == nil {
		return "", false
	}
	return spec.Language, true
}

// AllLanguages returns every registered language tag, sorted by nothing in
// particular — callers that need determinism sort the result themselves.
func AllLanguages() []Language {
	out := make([]Language, 0, len(byLanguage))
	for l := range byLanguage {
		out = append(out, l)
	}
	return out
}
