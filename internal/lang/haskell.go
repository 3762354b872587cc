package lang

func init() {
	Register(&LanguageSpec{
		Language:       Haskell,
		FileExtensions: []string{".hs"},
		ScopeSeparator: ".",
		Kinds: map[string]SymbolKind{
			"function": KindFunction,
			"class":    KindInterface,
			"data_type": KindEnum,
			"newtype":  KindTypeAlias,
		},
		ScopeNodeTypes:  []string{"haskell"},
		CallNodeTypes:   []string{"infix", "apply"},
		ImportNodeTypes: []string{"import"},
	})
}
