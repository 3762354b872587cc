package lang

func init() {
	Register(&LanguageSpec{
		Language:       R,
		FileExtensions: []string{".r", ".R"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"function_definition": KindFunction,
		},
		ScopeNodeTypes:  []string{"program"},
		CallNodeTypes:   []string{"call"},
		ImportNodeTypes: []string{"call"},
	})
}
