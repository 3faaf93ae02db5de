package cmd

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/pable/go-pitch-metrics/internal/logger"
	"github.com/pable/go-pitch-metrics/internal/model"
)

func TestWarnUnknownTagsReportsSkipped(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWriter(&buf, "warn", "text")
	t.Cleanup(func() { logger.InitWriter(io.Discard, "info", "text") })

	warnUnknownTags([]model.PitchEvent{
		{Seq: 0, Type: model.PitchFastball, Result: model.ResultBall},
		{Seq: 1, Type: model.PitchFastball},
		{Seq: 2, Result: model.ResultBall},
		{Seq: 3, Type: model.PitchSlider, Result: "bunt_attempt"},
	})

	out := buf.String()
	for _, want := range []string{"skipped=2", "events=4", "result=bunt_attempt"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}
