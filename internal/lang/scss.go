package lang

func init() {
	Register(&LanguageSpec{
		Language:       SCSS,
		FileExtensions: []string{".scss"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"mixin_statement":    KindFunction,
			"function_statement": KindFunction,
		},
		ScopeNodeTypes:  []string{"stylesheet"},
		CallNodeTypes:   []string{"call_expression"},
		ImportNodeTypes: []string{"import_statement", "use_statement"},
	})
}
