// Package extract implements the Parser Adapter contract (spec.md §4.3):
// parse(source, path, language) -> {symbols, references, calls, chunks,
// diagnostics}. It walks the tree-sitter AST tracking a scope stack of
// enclosing module/namespace/type symbols, built around lang.LanguageSpec's
// unified Kinds/MethodParentKinds tables and internal/identity's
// content-addressed ids.
package extract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/oldnordic/magellan/internal/identity"
	"github.com/oldnordic/magellan/internal/lang"
	"github.com/oldnordic/magellan/internal/parser"
)

// Diag is one structured parse diagnostic (spec.md §4.3 Diag).
type Diag struct {
	Code    string
	Message string
}

// SymbolFact is a definition site discovered in one file (spec.md §4.3).
type SymbolFact struct {
	identity.Symbol
}

// ReferenceFact is a named reference to a symbol, resolved or not.
type ReferenceFact struct {
	TargetName       string
	ResolvedSymbolID string // empty if unresolved
	Kind             string // "type", "import", "field", ...
	Span             identity.Span
}

// CallFact is one call site.
type CallFact struct {
	CallerSymbolID    string
	CallerSpan        identity.Span
	CalleeName        string
	ResolvedCalleeID  string // empty if unresolved
	CallSpan          identity.Span
}

// Chunk is one stored code fragment (spec.md §4.3 chunks: [(span, bytes)]).
type Chunk struct {
	Span    identity.Span
	Content string
}

// ParseResult is the full output of parsing one file.
type ParseResult struct {
	Symbols     []SymbolFact
	References  []ReferenceFact
	Calls       []CallFact
	Chunks      []Chunk
	Diagnostics []Diag
}

// ExtractFile parses source and extracts symbols, calls, and one full-file
// chunk. moduleRoot is the project/crate root name used in canonical FQNs;
// relPath is the file path relative to the index root. On parse failure it
// returns a ParseResult carrying a single ParseFailed diagnostic and empty
// fact lists (spec.md §4.6 step 3): the reconciler must not delete existing
// facts for this outcome.
func ExtractFile(moduleRoot, relPath string, language lang.Language, source []byte) *ParseResult {
	spec := lang.ForLanguage(language)
	if spec == nil {
		return &ParseResult{Diagnostics: []Diag{{Code: "UnsupportedLanguage", Message: string(language)}}}
	}

	tree, err := parser.Parse(language, source)
	if err != nil {
		return &ParseResult{Diagnostics: []Diag{{Code: "ParseFailed", Message: err.Error()}}}
	}
	defer tree.Close()

	w := &walker{
		moduleRoot: moduleRoot,
		relPath:    relPath,
		language:   language,
		spec:       spec,
		source:     source,
		result:     &ParseResult{},
	}
	w.walk(tree.RootNode(), nil)

	w.result.Chunks = append(w.result.Chunks, fileChunk(relPath, source))
	return w.result
}

func fileChunk(relPath string, source []byte) Chunk {
	span := identity.NewSpan(relPath, 0, len(source), 1, 0, lineCount(source), 0)
	return Chunk{Span: span, Content: string(source)}
}

func lineCount(source []byte) int {
	n := 1
	for _, b := range source {
		if b == '\n' {
			n++
		}
	}
	return n
}

// walker tracks the enclosing scope stack while descending the AST.
type walker struct {
	moduleRoot   string
	relPath      string
	language     lang.Language
	spec         *lang.LanguageSpec
	source       []byte
	scope        []identity.ScopeEntry
	scopeKinds   []string     // raw tree-sitter node kind for each entry in scope, parallel slice
	funcStack    []SymbolFact // nearest enclosing Function/Method, for call-site attribution
	moduleSymbol *SymbolFact  // synthesized file-scope caller, created lazily on first top-level call
	result       *ParseResult
}

// walk descends node's subtree, reclassifying a Function-kind node as a
// Method when the nearest enclosing scope (the closest ancestor that pushed
// a ScopeEntry, e.g. a class/impl/trait body) has a node kind listed in
// MethodParentKinds — not merely node's immediate AST parent, since most
// grammars interpose a body/declaration_list node between the two.
func (w *walker) walk(node *tree_sitter.Node, _ *tree_sitter.Node) {
	if node == nil {
		return
	}

	kind, isSymbol := w.spec.Kinds[node.Kind()]
	var pushedScope, pushedFunc bool

	if isSymbol {
		if kind == lang.KindFunction && w.inMethodParentScope() {
			kind = lang.KindMethod
		}

		name, anonymous := symbolName(node, w.source)
		fact := w.makeSymbolFact(node, kind, name, anonymous)
		w.result.Symbols = append(w.result.Symbols, fact)

		if isScopeKind(kind) && name != "" {
			w.scope = append(w.scope, identity.ScopeEntry{Kind: kind, Name: name})
			w.scopeKinds = append(w.scopeKinds, node.Kind())
			pushedScope = true
		}
		if kind == lang.KindFunction || kind == lang.KindMethod {
			w.funcStack = append(w.funcStack, fact)
			pushedFunc = true
		}
	}

	if isCallSite(node, w.spec) {
		w.extractCall(node)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil {
			w.walk(child, node)
		}
	}

	if pushedScope {
		w.scope = w.scope[:len(w.scope)-1]
		w.scopeKinds = w.scopeKinds[:len(w.scopeKinds)-1]
	}
	if pushedFunc {
		w.funcStack = w.funcStack[:len(w.funcStack)-1]
	}
}

func (w *walker) makeSymbolFact(node *tree_sitter.Node, kind lang.SymbolKind, name string, anonymous bool) SymbolFact {
	span := spanOf(w.relPath, node)
	site := identity.Site{
		ModuleRoot: w.moduleRoot,
		RelPath:    w.relPath,
		Scope:      append([]identity.ScopeEntry{}, w.scope...),
		Kind:       kind,
		Name:       name,
		Language:   w.language,
	}
	return SymbolFact{Symbol: identity.NewSymbol(site, span, anonymous)}
}

func (w *walker) extractCall(node *tree_sitter.Node) {
	calleeName := calleeNameOf(node, w.source)
	if calleeName == "" {
		return
	}
	callSpan := spanOf(w.relPath, node)
	callerSpan, callerID := w.enclosingSymbol()
	w.result.Calls = append(w.result.Calls, CallFact{
		CallerSymbolID: callerID,
		CallerSpan:     callerSpan,
		CalleeName:     calleeName,
		CallSpan:       callSpan,
	})
}

// enclosingSymbol returns the span/symbol_id of the nearest enclosing
// Function/Method, falling back to the file's synthesized module-scope
// symbol for a top-level call site. Every call site gets a real caller
// this way: invariant 3 (spec.md §3) requires exactly one incoming CALLER
// edge per Call entity, and a module/package-level call (`var x =
// compute()` in Go, a bare call at the top of a Python/JS module) has no
// enclosing Function/Method to attach to otherwise.
func (w *walker) enclosingSymbol() (identity.Span, string) {
	if len(w.funcStack) > 0 {
		top := w.funcStack[len(w.funcStack)-1]
		return top.Span, top.SymbolID
	}
	return w.moduleScopeSymbol()
}

// moduleScopeSymbol returns the synthesized whole-file Module symbol used
// as the caller for top-level call sites, creating and recording it on
// first use. It has no discoverable name, so like any other nameless
// definition it is anonymous and its identity comes entirely from its span.
func (w *walker) moduleScopeSymbol() (identity.Span, string) {
	if w.moduleSymbol == nil {
		span := identity.NewSpan(w.relPath, 0, len(w.source), 1, 0, lineCount(w.source), 0)
		site := identity.Site{
			ModuleRoot: w.moduleRoot,
			RelPath:    w.relPath,
			Kind:       lang.KindModule,
			Language:   w.language,
		}
		fact := SymbolFact{Symbol: identity.NewSymbol(site, span, true)}
		w.result.Symbols = append(w.result.Symbols, fact)
		w.moduleSymbol = &fact
	}
	return w.moduleSymbol.Span, w.moduleSymbol.SymbolID
}

func (w *walker) inMethodParentScope() bool {
	if len(w.scopeKinds) == 0 {
		return false
	}
	return w.spec.MethodParentKinds[w.scopeKinds[len(w.scopeKinds)-1]]
}

func isScopeKind(k lang.SymbolKind) bool {
	switch k {
	case lang.KindClass, lang.KindInterface, lang.KindEnum, lang.KindModule, lang.KindNamespace, lang.KindUnion:
		return true
	default:
		return false
	}
}

func isCallSite(node *tree_sitter.Node, spec *lang.LanguageSpec) bool {
	for _, k := range spec.CallNodeTypes {
		if node.Kind() == k {
			return true
		}
	}
	return false
}

func spanOf(relPath string, node *tree_sitter.Node) identity.Span {
	start := node.StartPosition()
	end := node.EndPosition()
	return identity.NewSpan(
		relPath,
		int(node.StartByte()), int(node.EndByte()),
		int(start.Row)+1, int(start.Column),
		int(end.Row)+1, int(end.Column),
	)
}

// symbolName finds the definition's short name. Most grammars expose it as
// a "name" field; a handful (ObjC class nodes, HCL blocks) have no such
// field and the first identifier-like child is used instead. A definition
// with no discoverable name is anonymous: spec.md §4.3 forbids synthesizing
// one, so Name stays empty and identity comes entirely from the span.
func symbolName(node *tree_sitter.Node, source []byte) (name string, anonymous bool) {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		if text := parser.NodeText(nameNode, source); text != "" {
			return text, false
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier", "type_identifier", "field_identifier", "simple_identifier", "constant", "atom":
			if text := parser.NodeText(child, source); text != "" {
				return text, false
			}
		}
	}
	return "", true
}

// calleeNameOf extracts the callee's display name from a call-site node.
// Most grammars expose it as a "function" field; macro invocations (Rust)
// use a "macro" field.
func calleeNameOf(node *tree_sitter.Node, source []byte) string {
	for _, field := range []string{"function", "macro", "method"} {
		if n := node.ChildByFieldName(field); n != nil {
			return parser.NodeText(n, source)
		}
	}
	if node.NamedChildCount() > 0 {
		if first := node.NamedChild(0); first != nil {
			return parser.NodeText(first, source)
		}
	}
	return ""
}
