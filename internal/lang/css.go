package lang

func init() {
	Register(&LanguageSpec{
		Language:        CSS,
		FileExtensions:  []string{".css"},
		ScopeSeparator:  ".",
		Kinds:           map[string]SymbolKind{},
		ScopeNodeTypes:  []string{"stylesheet"},
		ImportNodeTypes: []string{"import_statement"},
	})
}
