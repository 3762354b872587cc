package lang

func init() {
	Register(&LanguageSpec{
		Language:       PHP,
		FileExtensions: []string{".php"},
		ScopeSeparator: "\\",
		Kinds: map[string]SymbolKind{
			"function_definition":   KindFunction,
			"anonymous_function":    KindFunction,
			"arrow_function":        KindFunction,
			"method_declaration":    KindMethod,
			"trait_declaration":     KindClass,
			"enum_declaration":      KindEnum,
			"interface_declaration": KindInterface,
			"class_declaration":     KindClass,
		},
		MethodParentKinds: map[string]bool{
			"trait_declaration":     true,
			"enum_declaration":      true,
			"interface_declaration": true,
			"class_declaration":     true,
		},
		ScopeNodeTypes: []string{"program", "trait_declaration", "enum_declaration", "interface_declaration", "class_declaration"},
		CallNodeTypes: []string{
			"member_call_expression",
			"scoped_call_expression",
			"function_call_expression",
			"nullsafe_member_call_expression",
		},
	})
}
