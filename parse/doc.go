// Package parse reads YAML text into the tagged trees of package ir.
//
// # Usage
//
//	node, err := parse.Parse([]byte("host: !env [HOST, localhost]\n"))
//	if err != nil {
//	    return err
//	}
//
// Local tags (`!env`, `!ref`, ...) are kept on the node they annotate, with
// the leading '!' removed. YAML core tags (`!!str`, `!!int`, ...) are applied
// during parsing and do not survive into the tree. Anchors, aliases and
// merge keys are expanded, so every node in the result has exactly one
// parent.
//
// Mapping keys are canonicalized to their scalar text: `1: a` and `"1": a`
// name the same key, and a repeated key keeps its first position and its
// last value.
//
// Timestamps are only recognized when trusted:
//
//	node, err := parse.Parse(d, parse.Trust("timestamp"))
package parse
