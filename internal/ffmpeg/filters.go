package ffmpeg

import (
	"fmt"
	"math"
	"strings"

	"github.com/RasPiBuilder/AI-News-Roundup/pkg/util"
)

// FilterBuilder helps construct ffmpeg filter chains
type FilterBuilder struct {
	filters []string
}

// NewFilterBuilder creates a new filter builder
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{
		filters: make([]string, 0),
	}
}

// Scale adds a scale filter that fits inside width x height preserving
// aspect ratio, then pads to the exact frame size.
func (fb *FilterBuilder) Scale(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		return fb
	}
	fb.filters = append(fb.filters,
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", width, height),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", width, height))
	return fb
}

// Format adds a pixel format filter
func (fb *FilterBuilder) Format(pixFmt string) *FilterBuilder {
	if pixFmt == "" {
		return fb
	}
	fb.filters = append(fb.filters, "format="+pixFmt)
	return fb
}

// FPS adds an fps filter, forcing a constant frame rate
func (fb *FilterBuilder) FPS(fps int) *FilterBuilder {
	if fps <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("fps=%d", fps))
	return fb
}

// FadeIn adds a video fade-in starting at st seconds for d seconds
func (fb *FilterBuilder) FadeIn(st, d float64) *FilterBuilder {
	if d <= 0 {
		return fb
	}
	fb.filters = append(fb.filters,
		fmt.Sprintf("fade=t=in:st=%s:d=%s", util.FormatSeconds(st), util.FormatSeconds(d)))
	return fb
}

// FadeOut adds a video fade-out starting at st seconds for d seconds
func (fb *FilterBuilder) FadeOut(st, d float64) *FilterBuilder {
	if d <= 0 {
		return fb
	}
	fb.filters = append(fb.filters,
		fmt.Sprintf("fade=t=out:st=%s:d=%s", util.FormatSeconds(st), util.FormatSeconds(d)))
	return fb
}

// ADelay shifts the audio stream right by delay seconds on all channels
func (fb *FilterBuilder) ADelay(delay float64) *FilterBuilder {
	if delay <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("adelay=%d:all=1", int(math.Round(delay*1000))))
	return fb
}

// APad pads the audio stream with silence out to total seconds
func (fb *FilterBuilder) APad(total float64) *FilterBuilder {
	if total <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("apad=whole_dur=%s", util.FormatSeconds(total)))
	return fb
}

// AFadeIn adds an audio fade-in starting at st seconds for d seconds
func (fb *FilterBuilder) AFadeIn(st, d float64) *FilterBuilder {
	if d <= 0 {
		return fb
	}
	fb.filters = append(fb.filters,
		fmt.Sprintf("afade=t=in:st=%s:d=%s", util.FormatSeconds(st), util.FormatSeconds(d)))
	return fb
}

// AFadeOut adds an audio fade-out starting at st seconds for d seconds
func (fb *FilterBuilder) AFadeOut(st, d float64) *FilterBuilder {
	if d <= 0 {
		return fb
	}
	fb.filters = append(fb.filters,
		fmt.Sprintf("afade=t=out:st=%s:d=%s", util.FormatSeconds(st), util.FormatSeconds(d)))
	return fb
}

// Custom adds a custom filter string
func (fb *FilterBuilder) Custom(filter string) *FilterBuilder {
	fb.filters = append(fb.filters, filter)
	return fb
}

// Build returns the complete filter string joined with commas
func (fb *FilterBuilder) Build() string {
	if len(fb.filters) == 0 {
		return ""
	}
	return strings.Join(fb.filters, ",")
}
