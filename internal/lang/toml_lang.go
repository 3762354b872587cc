package lang

func init() {
	Register(&LanguageSpec{
		Language:       TOML,
		FileExtensions: []string{".toml"},
		ScopeSeparator: ".",
		Kinds:          map[string]SymbolKind{},
		ScopeNodeTypes: []string{"document"},
	})
}
