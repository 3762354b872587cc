package lang

func init() {
	Register(&LanguageSpec{
		Language:       Lua,
		FileExtensions: []string{".lua"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"function_declaration": KindFunction,
			"function_definition":  KindFunction,
		},
		ScopeNodeTypes:  []string{"chunk"},
		CallNodeTypes:   []string{"function_call"},
		ImportNodeTypes: []string{"function_call"},
	})
}
