package lang

func init() {
	Register(&LanguageSpec{
		Language:       YAML,
		FileExtensions: []string{".yml", ".yaml"},
		ScopeSeparator: ".",
		Kinds:          map[string]SymbolKind{},
		ScopeNodeTypes: []string{"stream"},
	})
}
