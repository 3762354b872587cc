package lang

func init() {
	Register(&LanguageSpec{
		Language:       Rust,
		FileExtensions: []string{".rs"},
		ScopeSeparator: "::",
		Kinds: map[string]SymbolKind{
			"function_item":           KindFunction,
			"function_signature_item": KindFunction,
			"struct_item":             KindClass,
			"enum_item":               KindEnum,
			"union_item":              KindUnion,
			"trait_item":              KindInterface,
			"impl_item":               KindClass,
			"type_item":               KindTypeAlias,
			"mod_item":                KindModule,
		},
		MethodParentKinds: map[string]bool{
			"impl_item":  true,
			"trait_item": true,
		},
		ScopeNodeTypes:    []string{"source_file", "mod_item", "impl_item", "trait_item"},
		CallNodeTypes:     []string{"call_expression", "macro_invocation"},
		ImportNodeTypes:   []string{"use_declaration", "extern_crate_declaration"},
		ImportFromTypes:   []string{"use_declaration"},
		PackageIndicators: []string{"Cargo.toml"},
	})
}
