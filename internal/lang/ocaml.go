package lang

func init() {
	Register(&LanguageSpec{
		Language:       OCaml,
		FileExtensions: []string{".ml", ".mli"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"value_definition":  KindFunction,
			"type_definition":   KindTypeAlias,
			"class_definition":  KindClass,
			"module_definition": KindModule,
		},
		ScopeNodeTypes:  []string{"compilation_unit", "module_definition", "class_definition"},
		CallNodeTypes:   []string{"application", "infix_expression"},
		ImportNodeTypes: []string{"open_module"},
	})
}
