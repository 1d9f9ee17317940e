package repair

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/motionkit/internal/config"
	"github.com/dbsmedya/motionkit/internal/logger"
	"github.com/dbsmedya/motionkit/internal/motion"
)

func newTestRepairer(buf *bytes.Buffer) *Repairer {
	return New(buf, config.DefaultConfig().Repair, false, nil)
}

func filledArray(t *testing.T, dtype motion.DType, shape ...int) *motion.Array {
	t.Helper()
	arr, err := motion.Zeros(dtype, shape...)
	require.NoError(t, err)
	for i := range arr.Data {
		arr.Data[i] = float64(i%7) * 0.25
	}
	return arr
}

// clip builds a minimal valid record with the given number of frames.
func clip(t *testing.T, frames int) *motion.Record {
	t.Helper()
	rec := motion.NewRecord()
	rec.Set(motion.FieldFPS, motion.Number{Value: 30, Integer: true})
	rec.Set(motion.FieldRootPos, filledArray(t, motion.Float64, frames, 3))
	rot := filledArray(t, motion.Float32, frames, 4)
	for f := 0; f < frames; f++ {
		copy(rot.Row(f), []float64{1, 0, 0, 0})
	}
	rec.Set(motion.FieldRootRot, rot)
	rec.Set(motion.FieldDofPos, filledArray(t, motion.Float32, frames, 29))
	return rec
}

func writeClip(t *testing.T, rec *motion.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "walk.motion")
	require.NoError(t, motion.Save(path, rec))
	return path
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		suffix string
		want   string
	}{
		{"with extension", "walk.motion", "_fixed", "walk_fixed.motion"},
		{"nested path", "data/clips/run.bin", "_full", "data/clips/run_full.bin"},
		{"no extension", "clips/walk", "_fixed", "clips/walk_fixed"},
		{"multiple dots", "walk.v2.motion", "_fixed", "walk.v2_fixed.motion"},
		{"hidden file", "clips/.walk", "_fixed", "clips/.walk_fixed"},
		{"dot in directory", "clips.d/walk", "_full", "clips.d/walk_full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultOutputPath(tt.input, tt.suffix))
		})
	}
}

func TestFixFillsMissingFields(t *testing.T) {
	rec := clip(t, 100)
	input := writeClip(t, rec)

	var buf bytes.Buffer
	res, err := newTestRepairer(&buf).Fix(input, "")
	require.NoError(t, err)

	wantOut := filepath.Join(filepath.Dir(input), "walk_fixed.motion")
	assert.Equal(t, wantOut, res.Output)
	assert.Equal(t, 100, res.Frames)
	assert.True(t, res.CreatedBodies)
	assert.True(t, res.CreatedLinks)

	out, err := motion.LoadRecord(wantOut)
	require.NoError(t, err)

	bodies, ok := out.Array(motion.FieldLocalBodyPos)
	require.True(t, ok)
	rootPos, _ := rec.Array(motion.FieldRootPos)
	assert.Equal(t, []int{100, 3}, bodies.Shape)
	assert.Equal(t, rootPos.Data, bodies.Data)

	v, ok := out.Get(motion.FieldLinkBodyList)
	require.True(t, ok)
	names, ok := v.(*motion.Sequence).Strings()
	require.True(t, ok)
	assert.Equal(t, []string{"pelvis"}, names)

	dof, ok := out.Array(motion.FieldDofPos)
	require.True(t, ok)
	assert.Equal(t, []int{100, 29}, dof.Shape)
	assert.Equal(t, motion.Float32, dof.DType)

	output := buf.String()
	assert.Contains(t, output, "DOF count:      29")
	assert.Contains(t, output, "frames:         100")
	assert.Contains(t, output, "local_body_pos is empty, copying root_pos")
	assert.Contains(t, output, "created link_body_list: [\"pelvis\"]")
	assert.Contains(t, output, "Saving to: "+wantOut)
}

func TestFixTreatsEmptyValuesAsMissing(t *testing.T) {
	rec := clip(t, 10)
	rec.Set(motion.FieldLocalBodyPos, filledArray(t, motion.Float64, 0))
	rec.Set(motion.FieldLinkBodyList, &motion.Sequence{})
	input := writeClip(t, rec)

	var buf bytes.Buffer
	res, err := newTestRepairer(&buf).Fix(input, "")
	require.NoError(t, err)
	assert.True(t, res.CreatedBodies)
	assert.True(t, res.CreatedLinks)

	out, err := motion.LoadRecord(res.Output)
	require.NoError(t, err)
	bodies, _ := out.Array(motion.FieldLocalBodyPos)
	assert.Equal(t, []int{10, 3}, bodies.Shape)
	// Existing keys keep their position.
	assert.Equal(t, rec.Keys(), out.Keys())
}

func TestFixKeepsPopulatedFields(t *testing.T) {
	rec := clip(t, 5)
	rec.Set(motion.FieldLocalBodyPos, filledArray(t, motion.Float32, 5, 2, 3))
	rec.Set(motion.FieldLinkBodyList, motion.NewStringSequence("pelvis", "torso_link"))
	rec.Set("source", motion.String("mocap"))
	input := writeClip(t, rec)
	output := filepath.Join(t.TempDir(), "copy.motion")

	var buf bytes.Buffer
	res, err := newTestRepairer(&buf).Fix(input, output)
	require.NoError(t, err)
	assert.False(t, res.CreatedBodies)
	assert.False(t, res.CreatedLinks)
	assert.NotContains(t, buf.String(), "is empty")

	want, err := os.ReadFile(input)
	require.NoError(t, err)
	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, want, got, "a complete record must round-trip unchanged")
}

func TestFixIsIdempotent(t *testing.T) {
	input := writeClip(t, clip(t, 20))
	dir := t.TempDir()
	first := filepath.Join(dir, "first.motion")
	second := filepath.Join(dir, "second.motion")

	var buf bytes.Buffer
	r := newTestRepairer(&buf)
	_, err := r.Fix(input, first)
	require.NoError(t, err)
	_, err = r.Fix(first, second)
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFixOverwritesExistingOutput(t *testing.T) {
	input := writeClip(t, clip(t, 4))
	output := filepath.Join(t.TempDir(), "out.motion")
	require.NoError(t, os.WriteFile(output, []byte("stale"), 0o644))

	var buf bytes.Buffer
	_, err := newTestRepairer(&buf).Fix(input, output)
	require.NoError(t, err)

	out, err := motion.LoadRecord(output)
	require.NoError(t, err)
	assert.True(t, out.Has(motion.FieldLocalBodyPos))
}

func TestFixRejectsMissingRequiredFields(t *testing.T) {
	rec := clip(t, 10)
	rec.Delete(motion.FieldDofPos)
	input := writeClip(t, rec)
	output := filepath.Join(t.TempDir(), "out.motion")

	var buf bytes.Buffer
	_, err := newTestRepairer(&buf).Fix(input, output)
	require.Error(t, err)
	assert.True(t, errors.Is(err, motion.ErrMissingRequiredFields))
	assert.Contains(t, err.Error(), "dof_pos")

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no output may be written on failure")
}

func TestFixRejectsBadInputs(t *testing.T) {
	dir := t.TempDir()

	notRecord := filepath.Join(dir, "array.motion")
	arr := filledArray(t, motion.Float64, 3)
	require.NoError(t, motion.Save(notRecord, arr))

	corrupt := filepath.Join(dir, "corrupt.motion")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a motion file"), 0o644))

	scalarRoot := clip(t, 3)
	scalarRoot.Set(motion.FieldRootPos, motion.String("oops"))
	scalarRootPath := filepath.Join(dir, "scalar_root.motion")
	require.NoError(t, motion.Save(scalarRootPath, scalarRoot))

	stringLinks := clip(t, 3)
	stringLinks.Set(motion.FieldLinkBodyList, motion.String("pelvis"))
	stringLinksPath := filepath.Join(dir, "string_links.motion")
	require.NoError(t, motion.Save(stringLinksPath, stringLinks))

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"missing file", filepath.Join(dir, "nope.motion"), motion.ErrFileNotFound},
		{"not a record", notRecord, motion.ErrInvalidFormat},
		{"corrupt", corrupt, motion.ErrCorruptFile},
		{"root_pos not an array", scalarRootPath, motion.ErrInvalidFormat},
		{"link list not a sequence", stringLinksPath, motion.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := filepath.Join(t.TempDir(), "out.motion")
			var buf bytes.Buffer
			_, err := newTestRepairer(&buf).Fix(tt.input, output)
			assert.ErrorIs(t, err, tt.wantErr)

			_, statErr := os.Stat(output)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestSynthesizeFull(t *testing.T) {
	rec := clip(t, 100)
	rec.Set(motion.FieldLinkBodyList, motion.NewStringSequence("pelvis"))
	input := writeClip(t, rec)

	var buf bytes.Buffer
	res, err := newTestRepairer(&buf).SynthesizeFull(input, "")
	require.NoError(t, err)

	wantOut := filepath.Join(filepath.Dir(input), "walk_full.motion")
	assert.Equal(t, wantOut, res.Output)
	assert.Equal(t, ModeFull, res.Mode)
	assert.Equal(t, 12, res.Bodies)

	out, err := motion.LoadRecord(wantOut)
	require.NoError(t, err)

	bodies, ok := out.Array(motion.FieldLocalBodyPos)
	require.True(t, ok)
	assert.Equal(t, []int{100, 12, 3}, bodies.Shape)
	assert.Equal(t, motion.Float64, bodies.DType)

	v, _ := out.Get(motion.FieldLinkBodyList)
	names, ok := v.(*motion.Sequence).Strings()
	require.True(t, ok)
	assert.Equal(t, LinkNames(BipedSkeleton), names)

	assert.Contains(t, buf.String(), "local_body_pos shape: (100, 12, 3)")
	assert.Contains(t, buf.String(), "12 body links")
}

func TestSynthesizeFullRejectsMissingRequiredFields(t *testing.T) {
	rec := clip(t, 10)
	rec.Delete(motion.FieldFPS)
	input := writeClip(t, rec)

	var buf bytes.Buffer
	_, err := newTestRepairer(&buf).SynthesizeFull(input, "")
	assert.ErrorIs(t, err, motion.ErrMissingRequiredFields)

	_, statErr := os.Stat(DefaultOutputPath(input, "_full"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSynthesizeFullZeroFrames(t *testing.T) {
	input := writeClip(t, clip(t, 0))

	var buf bytes.Buffer
	res, err := newTestRepairer(&buf).SynthesizeFull(input, "")
	require.NoError(t, err)

	out, err := motion.LoadRecord(res.Output)
	require.NoError(t, err)
	bodies, _ := out.Array(motion.FieldLocalBodyPos)
	assert.Equal(t, []int{0, 12, 3}, bodies.Shape)
}

func TestRepairLogsWrittenRecord(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "repair.json")
	log, err := logger.New(&config.LoggingConfig{Level: "info", Format: "json", Output: logPath})
	require.NoError(t, err)

	input := writeClip(t, clip(t, 6))
	var buf bytes.Buffer
	_, err = New(&buf, config.DefaultConfig().Repair, false, log).SynthesizeFull(input, "")
	require.NoError(t, err)
	_ = log.Sync()

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "record written")
	assert.Contains(t, string(content), `"mode":"full"`)
	assert.Contains(t, string(content), `"frames":6`)
	assert.Contains(t, string(content), `"created_links":true`)
}
