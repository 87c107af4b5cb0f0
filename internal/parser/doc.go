// Package parser turns source files into forests of typed nodes.
//
// Files are dispatched by extension through a Registry of languages. Most
// languages are parsed with tree-sitter; the "sexp" language reads plain
// s-expressions and is handy for fixtures. Unknown extensions fall back to
// the registry's default language (Ruby).
//
// Every parsed file gets its own Forest so parsing can run in parallel. The
// caller merges results into a shared Forest with Forest.Adopt.
//
// Basic usage:
//
//	p := parser.New(parser.DefaultRegistry(), 10*time.Second)
//	res, err := p.ParseFile(ctx, "lib/dog.rb")
//	if err != nil {
//	    // parser.ErrTimeout or *parser.SyntaxError
//	}
//	res.Forest.Walk(res.Root, func(id parser.NodeID) bool { ... })
package parser
