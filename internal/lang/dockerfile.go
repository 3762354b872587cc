package lang

func init() {
	Register(&LanguageSpec{
		Language:       Dockerfile,
		FileExtensions: []string{".dockerfile", "Dockerfile"},
		ScopeSeparator: ".",
		Kinds:          map[string]SymbolKind{},
		ScopeNodeTypes: []string{"source_file"},
	})
}
