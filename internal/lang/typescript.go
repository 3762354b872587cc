package lang

func init() {
	Register(&LanguageSpec{
		Language:       TypeScript,
		FileExtensions: []string{".ts"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"function_declaration":       KindFunction,
			"method_definition":          KindMethod,
			"class_declaration":          KindClass,
			"class":                      KindClass,
			"abstract_class_declaration": KindClass,
			"enum_declaration":           KindEnum,
			"interface_declaration":      KindInterface,
			"type_alias_declaration":     KindTypeAlias,
			"internal_module":            KindModule,
		},
		MethodParentKinds: map[string]bool{
			"class_declaration":          true,
			"class":                      true,
			"abstract_class_declaration": true,
		},
		ScopeNodeTypes: []string{
			"program", "class_declaration", "class", "abstract_class_declaration", "interface_declaration", "internal_module",
		},
		CallNodeTypes:   []string{"call_expression"},
		ImportNodeTypes: []string{"import_statement"},
		ImportFromTypes: []string{"import_statement"},
	})
}
