package lang

func init() {
	Register(&LanguageSpec{
		Language:       Swift,
		FileExtensions: []string{".swift"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"function_declaration":  KindFunction,
			"class_declaration":     KindClass,
			"protocol_declaration":  KindInterface,
			"struct_declaration":    KindClass,
			"enum_declaration":      KindEnum,
		},
		MethodParentKinds: map[string]bool{
			"class_declaration":    true,
			"protocol_declaration": true,
			"struct_declaration":   true,
			"enum_declaration":     true,
		},
		FieldNodeTypes:  []string{"property_declaration"},
		ScopeNodeTypes:  []string{"source_file", "class_declaration", "protocol_declaration", "struct_declaration", "enum_declaration"},
		CallNodeTypes:   []string{"call_expression"},
		ImportNodeTypes: []string{"import_declaration"},
	})
}
