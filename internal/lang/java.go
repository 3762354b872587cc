package lang

func init() {
	Register(&LanguageSpec{
		Language:       Java,
		FileExtensions: []string{".java"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"method_declaration":          KindFunction,
			"constructor_declaration":     KindMethod,
			"class_declaration":           KindClass,
			"interface_declaration":       KindInterface,
			"enum_declaration":            KindEnum,
			"annotation_type_declaration": KindInterface,
			"record_declaration":          KindClass,
		},
		MethodParentKinds: map[string]bool{
			"class_declaration":     true,
			"interface_declaration": true,
			"enum_declaration":      true,
			"record_declaration":    true,
		},
		FieldNodeTypes: []string{"field_declaration"},
		ScopeNodeTypes: []string{
			"program",
			"class_declaration",
			"interface_declaration",
			"enum_declaration",
			"record_declaration",
		},
		CallNodeTypes:   []string{"method_invocation"},
		ImportNodeTypes: []string{"import_declaration"},
		ImportFromTypes: []string{"import_declaration"},
	})
}
