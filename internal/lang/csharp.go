package lang

func init() {
	Register(&LanguageSpec{
		Language:       CSharp,
		FileExtensions: []string{".cs"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"destructor_declaration":    KindMethod,
			"constructor_declaration":   KindMethod,
			"local_function_statement":  KindFunction,
			"method_declaration":        KindFunction,
			"class_declaration":         KindClass,
			"struct_declaration":        KindClass,
			"enum_declaration":          KindEnum,
			"interface_declaration":     KindInterface,
			"namespace_declaration":     KindNamespace,
		},
		MethodParentKinds: map[string]bool{
			"class_declaration":  true,
			"struct_declaration": true,
			"interface_declaration": true,
		},
		ScopeNodeTypes: []string{
			"compilation_unit",
			"namespace_declaration",
			"class_declaration",
			"struct_declaration",
			"interface_declaration",
		},
		CallNodeTypes:   []string{"invocation_expression"},
		ImportNodeTypes: []string{"using_directive"},
		ImportFromTypes: []string{"using_directive"},
	})
}
