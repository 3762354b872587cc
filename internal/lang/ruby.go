package lang

func init() {
	Register(&LanguageSpec{
		Language:       Ruby,
		FileExtensions: []string{".rb"},
		ScopeSeparator: "::",
		Kinds: map[string]SymbolKind{
			"method": KindMethod,
			"class":  KindClass,
			"module": KindModule,
		},
		MethodParentKinds: map[string]bool{"class": true, "module": true},
		FieldNodeTypes:    []string{"assignment", "instance_variable", "class_variable"},
		ScopeNodeTypes:    []string{"program", "class", "module"},
		CallNodeTypes:     []string{"call", "command", "command_call"},
		ImportNodeTypes:   []string{"require", "require_relative"},
		ImportFromTypes:   []string{"require", "require_relative"},
	})
}
