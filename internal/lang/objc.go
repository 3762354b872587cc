package lang

func init() {
	Register(&LanguageSpec{
		Language:       ObjectiveC,
		FileExtensions: []string{".m"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"function_definition":   KindFunction,
			"method_definition":     KindMethod,
			"class_interface":       KindClass,
			"class_implementation":  KindClass,
			"protocol_declaration":  KindInterface,
		},
		MethodParentKinds: map[string]bool{
			"class_interface":      true,
			"class_implementation": true,
			"protocol_declaration": true,
		},
		FieldNodeTypes:  []string{"property_declaration"},
		ScopeNodeTypes:  []string{"translation_unit", "class_interface", "class_implementation", "protocol_declaration"},
		CallNodeTypes:   []string{"call_expression", "message_expression"},
		ImportNodeTypes: []string{"preproc_import"},
	})
}
