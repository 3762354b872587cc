package lang

func init() {
	Register(&LanguageSpec{
		Language:          Python,
		FileExtensions:    []string{".py"},
		ScopeSeparator:    ".",
		Kinds: map[string]SymbolKind{
			"function_definition": KindFunction,
			"class_definition":    KindClass,
		},
		MethodParentKinds: map[string]bool{"class_definition": true},
		ScopeNodeTypes:    []string{"module", "class_definition"},
		CallNodeTypes:     []string{"call", "with_statement"},
		ImportNodeTypes:   []string{"import_statement", "import_from_statement"},
		ImportFromTypes:   []string{"import_from_statement"},
		PackageIndicators: []string{"__init__.py"},
	})
}
