package lang

func init() {
	Register(&LanguageSpec{
		Language:       Scala,
		FileExtensions: []string{".scala", ".sc"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"function_definition":  KindFunction,
			"function_declaration": KindFunction,
			"class_definition":     KindClass,
			"object_definition":    KindClass,
			"trait_definition":     KindInterface,
		},
		MethodParentKinds: map[string]bool{
			"class_definition":  true,
			"object_definition": true,
			"trait_definition":  true,
		},
		ScopeNodeTypes:  []string{"compilation_unit", "class_definition", "object_definition", "trait_definition"},
		CallNodeTypes:   []string{"call_expression", "generic_function", "field_expression", "infix_expression"},
		ImportNodeTypes: []string{"import_declaration"},
		ImportFromTypes: []string{"import_declaration"},
	})
}
