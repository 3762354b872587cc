package lang

func init() {
	Register(&LanguageSpec{
		Language:       Dart,
		FileExtensions: []string{".dart"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"function_signature": KindFunction,
			"method_signature":   KindMethod,
			"class_definition":   KindClass,
			"enum_declaration":   KindEnum,
			"mixin_declaration":  KindClass,
		},
		FieldNodeTypes:  []string{"declaration"},
		ScopeNodeTypes:  []string{"program", "class_definition", "mixin_declaration"},
		CallNodeTypes:   []string{"selector"},
		ImportNodeTypes: []string{"import_or_export"},
	})
}
