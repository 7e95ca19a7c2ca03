// Package format provides file format detection for pipeline inputs and
// figure assets.
package format

import (
	"archive/zip"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a recognized file format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// LaTeX indicates a LaTeX source file.
	LaTeX
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// PDF indicates a PDF document, typically a vector figure.
	PDF
	// PNG indicates a PNG raster image.
	PNG
	// JPEG indicates a JPEG raster image.
	JPEG
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case LaTeX:
		return "LaTeX"
	case DOCX:
		return "DOCX"
	case PDF:
		return "PDF"
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case LaTeX:
		return ".tex"
	case DOCX:
		return ".docx"
	case PDF:
		return ".pdf"
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	default:
		return ""
	}
}

// IsRaster reports whether the format is a raster image that can be
// embedded directly without conversion.
func (f Format) IsRaster() bool {
	return f == PNG || f == JPEG
}

// Detect determines file format from the filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".tex", ".latex", ".ltx":
		return LaTeX
	case ".docx":
		return DOCX
	case ".pdf":
		return PDF
	case ".png":
		return PNG
	case ".jpg", ".jpeg":
		return JPEG
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading bytes to determine format. This is more
// reliable than extension-based detection; LaTeX detection falls back to
// content markers since LaTeX has no magic number.
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// PDF magic: %PDF
	if data[0] == '%' && data[1] == 'P' && data[2] == 'D' && data[3] == 'F' {
		return PDF
	}

	// PNG magic: \x89PNG
	if data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G' {
		return PNG
	}

	// JPEG magic: \xFF\xD8\xFF
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return JPEG
	}

	// ZIP magic (DOCX is a ZIP archive): PK\x03\x04
	// Return Unknown here - caller should use DetectFromReader to
	// distinguish ZIP-based formats.
	if data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
		return Unknown
	}

	if detectLaTeXMarkers(data) {
		return LaTeX
	}

	return Unknown
}

// detectLaTeXMarkers checks whether the data looks like a LaTeX source.
func detectLaTeXMarkers(data []byte) bool {
	head := string(data)
	if len(head) > 2048 {
		head = head[:2048]
	}
	for _, marker := range []string{`\documentclass`, `\begin{document}`, `\input{`, `\section{`} {
		if strings.Contains(head, marker) {
			return true
		}
	}
	return false
}

// DetectFromReader inspects the content to determine format. This can
// distinguish DOCX from other ZIP-based containers.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 2048)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if len(magic) >= 4 && magic[0] == 0x50 && magic[1] == 0x4B && magic[2] == 0x03 && magic[3] == 0x04 {
		return detectZIPFormat(r, size)
	}

	return DetectFromMagic(magic), nil
}

// detectZIPFormat inspects a ZIP archive to determine whether it is a
// DOCX package.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			return DOCX, nil
		}
	}
	return Unknown, nil
}
