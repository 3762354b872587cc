package lang

func init() {
	Register(&LanguageSpec{
		Language:       Go,
		FileExtensions: []string{".go"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"function_declaration": KindFunction,
			"method_declaration":   KindMethod,
			"type_spec":            KindClass, // every type_spec, interfaces and aliases included, is recorded as KindClass
		},
		FieldNodeTypes:  []string{"field_declaration"},
		ScopeNodeTypes:  []string{"source_file"},
		CallNodeTypes:   []string{"call_expression"},
		ImportNodeTypes: []string{"import_declaration"},
		ImportFromTypes: []string{"import_declaration"},
	})
}
