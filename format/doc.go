// Package format names the output formats for resolved documents.
package format
