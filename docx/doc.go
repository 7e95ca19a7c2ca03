// Package docx reads and writes DOCX (Office Open XML) documents as
// texword document trees.
//
// Read loads a converter-produced .docx into a model.Document, keeping
// paragraph and table order, run-level emphasis, and native math objects
// (OMML) intact. Write serializes a styled tree back to a .docx archive,
// including page geometry, the running header, and embedded media.
//
// Only the subset of OOXML that an academic manuscript needs is modeled;
// unrecognized markup inside paragraphs is dropped on read, except math,
// which is preserved verbatim.
package docx
