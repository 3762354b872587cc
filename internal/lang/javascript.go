package lang

func init() {
	Register(&LanguageSpec{
		Language:       JavaScript,
		FileExtensions: []string{".js", ".jsx"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"function_declaration":           KindFunction,
			"generator_function_declaration": KindFunction,
			"method_definition":              KindMethod,
			"class_declaration":              KindClass,
			"class":                          KindClass,
		},
		MethodParentKinds: map[string]bool{"class_declaration": true, "class": true},
		ScopeNodeTypes:    []string{"program", "class_declaration", "class"},
		CallNodeTypes:     []string{"call_expression"},
		ImportNodeTypes:   []string{"import_statement"},
		ImportFromTypes:   []string{"import_statement"},
	})
}
