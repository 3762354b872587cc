package lang

import "testing"

func TestLanguageForExtension(t *testing.T) {
	cases := []struct {
		ext  string
		want Language
		ok   bool
	}{
		{".go", Go, true},
		{".rs", Rust, true},
		{".py", Python, true},
		{".ts", TypeScript, true},
		{".tsx", TSX, true},
		{".rb", Ruby, true},
		{".unknown", "", false},
	}
	for _, c := range cases {
		got, ok := LanguageForExtension(c.ext)
		if ok != c.ok || got != c.want {
			t.Errorf("LanguageForExtension(%q) = (%q, %v), want (%q, %v)", c.ext, got, ok, c.want, c.ok)
		}
	}
}

func TestForExtensionReturnsRegisteredSpec(t *testing.T) {
	spec := ForExtension(".go")
	if spec == nil {
		t.Fatal("expected a LanguageSpec for .go")
	}
	if spec.Language != Go {
		t.Errorf("expected Go, got %s", spec.Language)
	}
	if spec.Kinds["function_declaration"] != KindFunction {
		t.Errorf("expected function_declaration to map to KindFunction")
	}
	if spec.Kinds["method_declaration"] != KindMethod {
		t.Errorf("expected method_declaration to map to KindMethod")
	}
}

func TestForLanguageMatchesForExtension(t *testing.T) {
	byExt := ForExtension(".rs")
	byLang := ForLanguage(Rust)
	if byExt != byLang {
		t.Error("ForExtension and ForLanguage should return the same *LanguageSpec for the same language")
	}
}

func TestMethodParentKindsReclassifiesMembers(t *testing.T) {
	spec := ForLanguage(Rust)
	if spec == nil {
		t.Fatal("expected a LanguageSpec for rust")
	}
	if !spec.MethodParentKinds["impl_item"] {
		t.Error("expected impl_item to be a method-parent kind in rust")
	}
	if spec.MethodParentKinds["mod_item"] {
		t.Error("mod_item should not be a method-parent kind")
	}
}

func TestSymbolKindNormalize(t *testing.T) {
	cases := []struct {
		kind SymbolKind
		want string
	}{
		{KindFunction, "fn"},
		{KindMethod, "method"},
		{KindClass, "struct"},
		{KindInterface, "iface"},
		{KindEnum, "enum"},
		{KindModule, "mod"},
		{KindNamespace, "ns"},
		{KindUnion, "union"},
		{KindTypeAlias, "alias"},
		{KindConst, "const"},
		{KindUnknown, "unknown"},
		{SymbolKind("bogus"), "unknown"},
	}
	for _, c := range cases {
		if got := c.kind.Normalize(); got != c.want {
			t.Errorf("%s.Normalize() = %q, want %q", c.kind, got, c.want)
		}
	}
}

func TestAllLanguagesCoversRegisteredSet(t *testing.T) {
	all := AllLanguages()
	if len(all) < 30 {
		t.Errorf("expected at least 30 registered languages, got %d", len(all))
	}
	seen := make(map[Language]bool, len(all))
	for _, l := range all {
		seen[l] = true
	}
	for _, want := range []Language{Go, Rust, Python, JavaScript, TypeScript, Java, C, CPP, Ruby} {
		if !seen[want] {
			t.Errorf("expected %s to be in AllLanguages()", want)
		}
	}
}

func TestEveryExtensionResolvesToItsLanguage(t *testing.T) {
	for ext, spec := range registry {
		got, ok := LanguageForExtension(ext)
		if !ok {
			t.Errorf("LanguageForExtension(%q) reported ok=false for a registered extension", ext)
			continue
		}
		if got != spec.Language {
			t.Errorf("LanguageForExtension(%q) = %s, want %s", ext, got, spec.Language)
		}
	}
}
