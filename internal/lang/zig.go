package lang

func init() {
	Register(&LanguageSpec{
		Language:       Zig,
		FileExtensions: []string{".zig"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"function_declaration": KindFunction,
			"test_declaration":     KindFunction,
			"struct_declaration":   KindClass,
			"enum_declaration":     KindEnum,
			"union_declaration":    KindUnion,
		},
		FieldNodeTypes:  []string{"container_field"},
		ScopeNodeTypes:  []string{"source_file", "struct_declaration", "enum_declaration", "union_declaration"},
		CallNodeTypes:   []string{"call_expression", "builtin_function"},
		ImportNodeTypes: []string{"builtin_function"},
	})
}
