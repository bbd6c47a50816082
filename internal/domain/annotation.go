package domain

import "time"

// Annotation names a policy period starting on Start. It lasts until the next
// annotation's Start; the final annotation therefore has no interval.
type Annotation struct {
	Label   string    `validate:"required"`
	Start   time.Time `validate:"-"`
	Color   string    `validate:"required,hexcolor"`
	Hatched bool
}

// Interval is a closed-open span [Start, End) derived from two consecutive
// annotations, with its palette colour resolved.
type Interval struct {
	Label   string
	Start   time.Time
	End     time.Time
	Color   string
	Hatched bool
}

// Intervals pairs each annotation with its successor and assigns palette[i]
// to the i-th interval. The caller guarantees len(palette) >= len(annotations)-1.
func Intervals(annotations []Annotation, palette []string) []Interval {
	if len(annotations) < 2 {
		return nil
	}
	out := make([]Interval, 0, len(annotations)-1)
	for i := 0; i < len(annotations)-1; i++ {
		out = append(out, Interval{
			Label:   annotations[i].Label,
			Start:   annotations[i].Start,
			End:     annotations[i+1].Start,
			Color:   palette[i],
			Hatched: annotations[i].Hatched,
		})
	}
	return out
}

// IntervalCount is the number of intervals a list of annotations yields.
func IntervalCount(annotations []Annotation) int {
	if len(annotations) < 2 {
		return 0
	}
	return len(annotations) - 1
}
