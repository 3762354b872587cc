package lang

func init() {
	Register(&LanguageSpec{
		Language:       HCL,
		FileExtensions: []string{".tf", ".hcl"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"block": KindClass, // resource/variable/output/data/module blocks
		},
		ScopeNodeTypes: []string{"config_file", "block"},
		CallNodeTypes:  []string{"function_call"},
	})
}
