package lang

func init() {
	Register(&LanguageSpec{
		Language:       Bash,
		FileExtensions: []string{".sh", ".bash"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"function_definition": KindFunction,
		},
		ScopeNodeTypes: []string{"program"},
		CallNodeTypes:  []string{"command"},
		ImportNodeTypes: []string{"command"},
	})
}
