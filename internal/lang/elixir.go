package lang

func init() {
	Register(&LanguageSpec{
		Language:       Elixir,
		FileExtensions: []string{".ex", ".exs"},
		ScopeSeparator: ".",
		// Elixir is homoiconic: def/defp/defmodule are all "call" nodes.
		// Without inspecting the callee identifier text this table cannot
		// tell defmodule from def, so every call-form definition site is
		// classified as KindFunction. KindFunction does not open an FQN
		// scope, so definitions inside a defmodule body are not nested
		// under the module name.
		Kinds: map[string]SymbolKind{
			"call": KindFunction,
		},
		ScopeNodeTypes:  []string{"source", "call"},
		CallNodeTypes:   []string{"call", "dot"},
		ImportNodeTypes: []string{"call"},
	})
}
