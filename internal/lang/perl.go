package lang

func init() {
	Register(&LanguageSpec{
		Language:       Perl,
		FileExtensions: []string{".pl", ".pm"},
		ScopeSeparator: "::",
		Kinds: map[string]SymbolKind{
			"subroutine_declaration_statement": KindFunction,
		},
		ScopeNodeTypes:  []string{"source_file"},
		CallNodeTypes:   []string{"ambiguous_function_call_expression", "function_call_expression"},
		ImportNodeTypes: []string{"use_statement", "require_statement"},
	})
}
