package lang

func init() {
	Register(&LanguageSpec{
		Language:       CPP,
		FileExtensions: []string{".cpp", ".h", ".hpp", ".cc", ".cxx", ".hxx", ".hh", ".ixx", ".cppm", ".ccm"},
		ScopeSeparator: "::",
		Kinds: map[string]SymbolKind{
			"function_definition":   KindFunction,
			"template_declaration":  KindFunction,
			"class_specifier":       KindClass,
			"struct_specifier":      KindClass,
			"union_specifier":       KindUnion,
			"enum_specifier":        KindEnum,
			"namespace_definition":  KindNamespace,
		},
		MethodParentKinds: map[string]bool{
			"class_specifier":  true,
			"struct_specifier": true,
		},
		FieldNodeTypes: []string{"field_declaration"},
		ScopeNodeTypes: []string{
			"translation_unit",
			"namespace_definition",
			"class_specifier",
			"struct_specifier",
		},
		CallNodeTypes: []string{
			"call_expression",
			"new_expression",
			"delete_expression",
		},
		ImportNodeTypes:   []string{"preproc_include"},
		ImportFromTypes:   []string{"preproc_include"},
		PackageIndicators: []string{"CMakeLists.txt", "Makefile", "conanfile.txt"},
	})
}
