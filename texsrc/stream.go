package texsrc

// OriginSpan maps a half-open range [Start, End) of the normalized text
// back to its originating source unit.
type OriginSpan struct {
	Start  int
	End    int
	Unit   string // source unit name
	Offset int    // offset of Start within the unit's normalized text
}

// NormalizedStream is the single flattened markup text produced by
// inclusion resolution, plus a position-to-origin map. It is immutable
// once produced.
type NormalizedStream struct {
	Text  string
	spans []OriginSpan
}

// OriginAt returns the source unit and in-unit offset for a position in
// the flattened text. ok is false when the position is out of range.
func (s *NormalizedStream) OriginAt(pos int) (unit string, offset int, ok bool) {
	// Spans are ordered and non-overlapping; binary search by Start.
	lo, hi := 0, len(s.spans)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.spans[mid].Start <= pos {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return "", 0, false
	}
	span := s.spans[lo-1]
	if pos >= span.End {
		return "", 0, false
	}
	return span.Unit, span.Offset + (pos - span.Start), true
}

// Spans returns a copy of the origin map, in text order.
func (s *NormalizedStream) Spans() []OriginSpan {
	out := make([]OriginSpan, len(s.spans))
	copy(out, s.spans)
	return out
}

// streamBuilder accumulates flattened text and origin spans during
// resolution.
type streamBuilder struct {
	text  []byte
	spans []OriginSpan
}

// appendFrom appends a slice of a unit's text, recording its origin.
func (b *streamBuilder) appendFrom(unit string, unitOffset int, text string) {
	if text == "" {
		return
	}
	start := len(b.text)
	b.text = append(b.text, text...)
	// Extend the previous span when the append is contiguous with it.
	if n := len(b.spans); n > 0 {
		last := &b.spans[n-1]
		if last.Unit == unit && last.End == start && last.Offset+(last.End-last.Start) == unitOffset {
			last.End = len(b.text)
			return
		}
	}
	b.spans = append(b.spans, OriginSpan{
		Start:  start,
		End:    len(b.text),
		Unit:   unit,
		Offset: unitOffset,
	})
}

func (b *streamBuilder) stream() *NormalizedStream {
	return &NormalizedStream{Text: string(b.text), spans: b.spans}
}
