// Package transcript handles speaker-tagged segments produced by an external
// transcription provider.
package transcript

import (
	"fmt"
	"sort"
	"strings"

	"interaction-quality-go/internal/apperr"
	"interaction-quality-go/internal/types"
)

// MinSilenceGap is the shortest pause, in seconds, counted as silence.
const MinSilenceGap = 2.0

// Segment is one utterance. Start and End are seconds from the beginning of
// the recording.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker,omitempty"`
	Text    string  `json:"text"`
}

type Silence struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

// JoinText concatenates segment texts with single spaces, in input order.
func JoinText(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Silences returns the pauses between consecutive segments (sorted by start)
// longer than minGap seconds.
func Silences(segments []Segment, minGap float64) []Silence {
	if len(segments) < 2 {
		return nil
	}
	sorted := make([]Segment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var out []Silence
	end := sorted[0].End
	for _, s := range sorted[1:] {
		if gap := s.Start - end; gap > minGap {
			out = append(out, Silence{Start: end, End: s.Start, Duration: gap})
		}
		if s.End > end {
			end = s.End
		}
	}
	return out
}

// SilenceSeconds sums Silences.
func SilenceSeconds(segments []Segment, minGap float64) float64 {
	total := 0.0
	for _, s := range Silences(segments, minGap) {
		total += s.Duration
	}
	return total
}

// ToMessages turns speaker-tagged segments into conversation messages. The
// clock of each message is the elapsed time since the recording started, so
// response delays come out in minutes of recording. Every segment must carry
// a recognizable speaker label, and recordings are limited to 24 hours since
// a clock cannot go past 23:59.
func ToMessages(segments []Segment) ([]types.Message, error) {
	out := make([]types.Message, 0, len(segments))
	for i, s := range segments {
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		sp, ok := types.ParseSpeaker(s.Speaker)
		if !ok {
			return nil, apperr.Validation(fmt.Sprintf("segments[%d].speaker", i),
				fmt.Sprintf("unknown speaker %q", s.Speaker))
		}
		elapsed := int(s.Start / 60)
		if elapsed < 0 {
			elapsed = 0
		}
		if elapsed >= 24*60 {
			return nil, apperr.Validation(fmt.Sprintf("segments[%d].start", i),
				fmt.Sprintf("%.0fs is past the 24h recording limit", s.Start))
		}
		out = append(out, types.Message{
			Speaker: sp,
			Text:    strings.TrimSpace(s.Text),
			Clock:   &types.Clock{Hour: elapsed / 60, Minute: elapsed % 60},
		})
	}
	return out, nil
}
