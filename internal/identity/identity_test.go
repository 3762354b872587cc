package identity

import (
	"testing"

	"github.com/google/uuid"

	"github.com/oldnordic/magellan/internal/lang"
)

func TestSpanIDDeterministic(t *testing.T) {
	a := SpanID("/repo/a.go", 10, 20)
	b := SpanID("/repo/a.go", 10, 20)
	if a != b {
		t.Fatalf("SpanID not deterministic: %s != %s", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("expected 16 hex chars, got %d (%s)", len(a), a)
	}
}

func TestSpanIDDistinctForZeroLengthPositions(t *testing.T) {
	a := SpanID("/repo/a.go", 10, 10)
	b := SpanID("/repo/a.go", 11, 11)
	if a == b {
		t.Fatal("zero-length spans at different positions must have distinct span ids")
	}
}

func TestSpanIDVariesWithInputs(t *testing.T) {
	base := SpanID("/repo/a.go", 0, 10)
	if SpanID("/repo/b.go", 0, 10) == base {
		t.Error("span id must vary with file path")
	}
	if SpanID("/repo/a.go", 1, 10) == base {
		t.Error("span id must vary with byte_start")
	}
	if SpanID("/repo/a.go", 0, 11) == base {
		t.Error("span id must vary with byte_end")
	}
}

func TestCanonicalFQNIncludesScopeChain(t *testing.T) {
	site := Site{
		ModuleRoot: "myproject",
		RelPath:    "pkg/service.go",
		Scope: []ScopeEntry{
			{Kind: lang.KindClass, Name: "Service"},
		},
		Kind:     lang.KindMethod,
		Name:     "Process",
		Language: lang.Go,
	}
	got := CanonicalFQN(site)
	want := "myproject::pkg/service.go::Class#Service::Method::Process"
	if got != want {
		t.Errorf("CanonicalFQN = %q, want %q", got, want)
	}
}

func TestDisplayFQNUsesLanguageSeparator(t *testing.T) {
	rustSite := Site{
		ModuleRoot: "crate",
		RelPath:    "src/lib.rs",
		Scope:      []ScopeEntry{{Kind: lang.KindClass, Name: "Widget"}},
		Kind:       lang.KindMethod,
		Name:       "render",
		Language:   lang.Rust,
	}
	if got, want := DisplayFQN(rustSite), "Widget::render"; got != want {
		t.Errorf("DisplayFQN(rust) = %q, want %q", got, want)
	}

	pySite := rustSite
	pySite.Language = lang.Python
	if got, want := DisplayFQN(pySite), "Widget.render"; got != want {
		t.Errorf("DisplayFQN(python) = %q, want %q", got, want)
	}
}

func TestSymbolIDStableAcrossIdenticalInputs(t *testing.T) {
	span := NewSpan("/repo/a.go", 10, 40, 2, 0, 4, 1)
	site := Site{ModuleRoot: "myproject", RelPath: "a.go", Kind: lang.KindFunction, Name: "Run", Language: lang.Go}

	s1 := NewSymbol(site, span, false)
	s2 := NewSymbol(site, span, false)
	if s1.SymbolID != s2.SymbolID {
		t.Fatalf("symbol id not deterministic: %s != %s", s1.SymbolID, s2.SymbolID)
	}
}

func TestSymbolIDChangesWithSpanOrFQN(t *testing.T) {
	site := Site{ModuleRoot: "myproject", RelPath: "a.go", Kind: lang.KindFunction, Name: "Run", Language: lang.Go}
	span1 := NewSpan("/repo/a.go", 10, 40, 2, 0, 4, 1)
	span2 := NewSpan("/repo/a.go", 11, 40, 2, 1, 4, 1)

	base := NewSymbol(site, span1, false)
	movedSpan := NewSymbol(site, span2, false)
	if base.SymbolID == movedSpan.SymbolID {
		t.Error("symbol id must change when span changes")
	}

	renamed := site
	renamed.Name = "Runner"
	renamedSym := NewSymbol(renamed, span1, false)
	if base.SymbolID == renamedSym.SymbolID {
		t.Error("symbol id must change when canonical fqn changes")
	}
}

func TestAnonymousSymbolIdentityComesFromSpan(t *testing.T) {
	site := Site{ModuleRoot: "myproject", RelPath: "a.go", Kind: lang.KindFunction, Name: "", Language: lang.Go}
	spanA := NewSpan("/repo/a.go", 100, 150, 10, 0, 12, 1)
	spanB := NewSpan("/repo/a.go", 200, 250, 20, 0, 22, 1)

	symA := NewSymbol(site, spanA, true)
	symB := NewSymbol(site, spanB, true)
	if symA.SymbolID == symB.SymbolID {
		t.Error("two anonymous symbols at different spans must have distinct symbol ids")
	}
	if !symA.Anonymous || !symB.Anonymous {
		t.Error("expected Anonymous to be true")
	}
}

func TestNewExecutionIDIsUUIDv4(t *testing.T) {
	id := NewExecutionID()
	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("NewExecutionID did not return a valid uuid: %v", err)
	}
	if parsed.Version() != 4 {
		t.Errorf("expected uuid v4, got version %d", parsed.Version())
	}
}

func TestNewMatchIDUnique(t *testing.T) {
	a := NewMatchID()
	b := NewMatchID()
	if a == b {
		t.Error("expected two distinct match ids")
	}
}
