package lang

func init() {
	Register(&LanguageSpec{
		Language:       SQL,
		FileExtensions: []string{".sql"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"create_function": KindFunction,
			"create_table":    KindClass,
			"create_view":     KindClass,
		},
		FieldNodeTypes: []string{"column_definition"},
		ScopeNodeTypes: []string{"program"},
		CallNodeTypes:  []string{"function_call"},
	})
}
