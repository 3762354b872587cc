package lang

func init() {
	Register(&LanguageSpec{
		Language:       HTML,
		FileExtensions: []string{".html", ".htm"},
		ScopeSeparator: ".",
		Kinds:          map[string]SymbolKind{},
		ScopeNodeTypes: []string{"document"},
	})
}
