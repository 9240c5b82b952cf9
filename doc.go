// Package tagload loads YAML configuration whose values may be computed by
// tags:
//
//	base:
//	  host: !env [HOST, localhost]
//	  url: !str/format ['https://%s', !ref [base, host]]
//	bin: !path [!env HOME, bin]
//	root: !path/git_root
//
// A Loader parses a document, optionally narrows it to one top-level key,
// and resolves every tag against its Registry:
//
//	l := tagload.New()
//	cfg, err := l.ConfigFor("app", tagload.Env("production"))
//
// Mappings resolve to *ir.Map, sequences to []any. See package eval for the
// tags and for registering new ones.
package tagload
