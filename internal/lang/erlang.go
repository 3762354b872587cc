package lang

func init() {
	Register(&LanguageSpec{
		Language:       Erlang,
		FileExtensions: []string{".erl"},
		ScopeSeparator: ":",
		Kinds: map[string]SymbolKind{
			"function_clause": KindFunction,
		},
		ScopeNodeTypes:  []string{"source_file"},
		CallNodeTypes:   []string{"call"},
		ImportNodeTypes: []string{"module_attribute"},
	})
}
