// Package normalisers turns raw inbox files into per-page document text.
//
// Each subpackage implements driven.TextExtractor for one family of file
// types. Registry dispatches to the first extractor that supports a file
// name, and reports domain.ErrUnsupportedType when none does.
package normalisers
