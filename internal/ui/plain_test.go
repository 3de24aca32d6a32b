package ui

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainRenderer_UpdateProgress_Format(t *testing.T) {
	// Given: a plain renderer
	buf := &bytes.Buffer{}
	r := NewPlainRenderer(NewConfig(buf))

	// When: reporting an indexed file
	r.UpdateProgress(ProgressEvent{Stage: StageIndex, Current: 3, Total: 10, CurrentFile: "sub/a.txt"})

	// Then
	assert.Equal(t, "[INDEX] 3/10 - sub/a.txt\n", buf.String())
}

func TestPlainRenderer_UpdateProgress_MessageWins(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewPlainRenderer(NewConfig(buf))

	r.UpdateProgress(ProgressEvent{Stage: StageDiscover, Message: "walking 2 roots", CurrentFile: "ignored"})

	assert.Equal(t, "[WALK] walking 2 roots\n", buf.String())
}

func TestPlainRenderer_UpdateProgress_Silent(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewPlainRenderer(NewConfig(buf))

	r.UpdateProgress(ProgressEvent{Stage: StageAnalyze})

	assert.Empty(t, buf.String())
}

func TestPlainRenderer_NoANSI(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewPlainRenderer(NewConfig(buf))

	for _, s := range []Stage{StageDiscover, StageIndex, StageAnalyze, StageWrite, StageComplete} {
		r.UpdateProgress(ProgressEvent{Stage: s, Current: 1, Total: 2, Message: "working"})
	}
	r.Complete(CompletionStats{Files: 2})

	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestPlainRenderer_AddError(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewPlainRenderer(NewConfig(buf))

	r.AddError(ErrorEvent{File: "a.pdf", Err: errors.New("parse failed"), IsWarn: true})
	r.AddError(ErrorEvent{Err: errors.New("boom")})

	assert.Equal(t, "WARN: a.pdf: parse failed\nERROR: boom\n", buf.String())
}

func TestPlainRenderer_Complete(t *testing.T) {
	// Given
	buf := &bytes.Buffer{}
	r := NewPlainRenderer(NewConfig(buf))
	require.NoError(t, r.Start(context.Background()))

	// When
	r.Complete(CompletionStats{
		Files:            12,
		ContentExtracted: 7,
		DuplicateGroups:  2,
		TimelineRows:     5,
		GapFindings:      3,
		OutDir:           "/tmp/out",
		Duration:         1500 * time.Millisecond,
		Warnings:         1,
		Stages:           StageTimings{Index: time.Second},
	})
	require.NoError(t, r.Stop())

	// Then
	out := buf.String()
	assert.Contains(t, out, "Complete: 12 files indexed in 1.5s (0 errors, 1 warnings)")
	assert.Contains(t, out, "Duplicate groups:  2")
	assert.Contains(t, out, "Output:            /tmp/out")
	assert.Contains(t, out, "Stage Breakdown:")
}
