package lang

func init() {
	Register(&LanguageSpec{
		Language:       Groovy,
		FileExtensions: []string{".groovy", ".gradle"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"function_definition": KindFunction,
			"class_definition":    KindClass,
		},
		MethodParentKinds: map[string]bool{"class_definition": true},
		ScopeNodeTypes:    []string{"source_file", "class_definition"},
		CallNodeTypes:     []string{"function_call", "juxt_function_call"},
		ImportNodeTypes:   []string{"groovy_import"},
	})
}
