package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/motionkit/internal/motion"
)

// withTestOutput captures report output and disables color for one test.
func withTestOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	setOutputWriter(&buf)

	originalNoColor := noColor
	originalCfgFile := cfgFile
	noColor = true
	cfgFile = filepath.Join(t.TempDir(), "motionkit.yaml")
	t.Cleanup(func() {
		resetOutputWriter()
		noColor = originalNoColor
		cfgFile = originalCfgFile
	})
	return &buf
}

func writeMotion(t *testing.T, dir, name string, frames int, withBodies bool) string {
	t.Helper()
	zeros := func(shape ...int) *motion.Array {
		arr, err := motion.Zeros(motion.Float32, shape...)
		require.NoError(t, err)
		return arr
	}

	rec := motion.NewRecord()
	rec.Set(motion.FieldFPS, motion.Number{Value: 30, Integer: true})
	rec.Set(motion.FieldRootPos, zeros(frames, 3))
	rot := zeros(frames, 4)
	for f := 0; f < frames; f++ {
		rot.Row(f)[0] = 1
	}
	rec.Set(motion.FieldRootRot, rot)
	rec.Set(motion.FieldDofPos, zeros(frames, 23))
	if withBodies {
		rec.Set(motion.FieldLocalBodyPos, zeros(frames, 2, 3))
		rec.Set(motion.FieldLinkBodyList, motion.NewStringSequence("pelvis", "torso_link"))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, motion.Save(path, rec))
	return path
}
