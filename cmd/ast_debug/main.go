// Command ast_debug dumps the raw tree-sitter parse tree for one source
// file, used while adding or debugging a Language Dispatcher entry
// (internal/lang, internal/parser). It takes a real file path and picks
// the language the same way internal/discover does.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/oldnordic/magellan/internal/lang"
	"github.com/oldnordic/magellan/internal/parser"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

func printAST(node *tree_sitter.Node, source []byte, indent int) {
	if node == nil {
		return
	}
	prefix := ""
	for i := 0; i < indent; i++ {
		prefix += "  "
	}
	parentKind := "nil"
	if node.Parent() != nil {
		parentKind = node.Parent().Kind()
	}
	text := string(source[node.StartByte():node.EndByte()])
	if len(text) > 60 {
		text = text[:60] + "..."
	}
	fmt.Printf("%s%s (parent=%s) %q\n", prefix, node.Kind(), parentKind, text)
	for i := uint(0); i < node.ChildCount(); i++ {
		printAST(node.Child(i), source, indent+1)
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: ast_debug <path> [language]")
		os.Exit(2)
	}
	path := os.Args[1]

	var language lang.Language
	if len(os.Args) >= 3 {
		language = lang.Language(os.Args[2])
	} else {
		l, ok := lang.LanguageForExtension(filepath.Ext(path))
		if !ok {
			fmt.Fprintf(os.Stderr, "ast_debug: no language registered for extension %q; pass it explicitly\n", filepath.Ext(path))
			os.Exit(1)
		}
		language = l
	}

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ast_debug: %v\n", err)
		os.Exit(1)
	}

	tree, err := parser.Parse(language, source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ast_debug: parse error: %v\n", err)
		os.Exit(1)
	}
	defer tree.Close()

	printAST(tree.RootNode(), source, 0)
}
