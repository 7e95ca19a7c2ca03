// Package texword converts LaTeX manuscripts into styled Word documents.
//
// The pipeline flattens the source tree, patches constructs the external
// converter mishandles, replaces vector figures with rasterized ones,
// runs the converter, and then classifies and restyles the resulting
// document before writing the final file.
//
// Basic usage:
//
//	warnings, err := texword.Open("paper.tex").Save(ctx, "paper.docx")
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", texword.FormatWarnings(warnings))
//	}
//
// With options:
//
//	warnings, err := texword.Open("paper.tex").
//	    Font("Georgia").
//	    LineSpacing(1.5).
//	    Workers(8).
//	    Save(ctx, "paper.docx")
package texword

// Open prepares a Converter for the given root LaTeX file. Configuration
// methods return new instances, so a partially configured Converter can
// be reused as a template.
//
// Example:
//
//	warnings, err := texword.Open("paper.tex").Save(ctx, "paper.docx")
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustDocument wraps a call returning (T, []Warning, error) and panics if
// the error is non-nil, discarding warnings.
//
// Example:
//
//	doc := texword.MustDocument(texword.Open("paper.tex").Document(ctx))
func MustDocument[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
