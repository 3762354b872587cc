package lang

func init() {
	Register(&LanguageSpec{
		Language:       Kotlin,
		FileExtensions: []string{".kt", ".kts"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"function_declaration":  KindFunction,
			"secondary_constructor": KindMethod,
			"class_declaration":     KindClass,
			"object_declaration":    KindClass,
			"companion_object":      KindClass,
		},
		MethodParentKinds: map[string]bool{
			"class_declaration":  true,
			"object_declaration": true,
			"companion_object":   true,
		},
		ScopeNodeTypes:  []string{"source_file", "class_declaration", "object_declaration", "companion_object"},
		CallNodeTypes:   []string{"call_expression"},
		ImportNodeTypes: []string{"import"},
		ImportFromTypes: []string{"import"},
	})
}
