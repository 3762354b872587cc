package lang

func init() {
	Register(&LanguageSpec{
		Language:       C,
		FileExtensions: []string{".c"},
		ScopeSeparator: "::",
		Kinds: map[string]SymbolKind{
			"function_definition": KindFunction,
			"struct_specifier":    KindClass,
			"enum_specifier":      KindEnum,
			"union_specifier":     KindUnion,
		},
		FieldNodeTypes:  []string{"field_declaration"},
		ScopeNodeTypes:  []string{"translation_unit", "struct_specifier", "union_specifier"},
		CallNodeTypes:   []string{"call_expression"},
		ImportNodeTypes: []string{"preproc_include"},
	})
}
