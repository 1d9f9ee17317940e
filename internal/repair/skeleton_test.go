package repair

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/motionkit/internal/motion"
)

func TestBipedSkeletonTable(t *testing.T) {
	require.Len(t, BipedSkeleton, 12)
	assert.Equal(t, "pelvis", BipedSkeleton[0].Name)
	assert.Equal(t, r3.Vector{}, BipedSkeleton[0].Offset)

	seen := make(map[string]bool)
	for _, link := range BipedSkeleton {
		assert.False(t, seen[link.Name], "duplicate link %s", link.Name)
		seen[link.Name] = true
	}

	// Left and right links mirror across the sagittal plane.
	pairs := [][2]string{
		{"left_hip_pitch_link", "right_hip_pitch_link"},
		{"left_knee_link", "right_knee_link"},
		{"left_ankle_pitch_link", "right_ankle_pitch_link"},
		{"left_shoulder_pitch_link", "right_shoulder_pitch_link"},
		{"left_elbow_link", "right_elbow_link"},
	}
	offsets := make(map[string]r3.Vector)
	for _, link := range BipedSkeleton {
		offsets[link.Name] = link.Offset
	}
	for _, pair := range pairs {
		left, right := offsets[pair[0]], offsets[pair[1]]
		assert.Equal(t, left.X, right.X, pair[0])
		assert.Equal(t, left.Y, -right.Y, pair[0])
		assert.Equal(t, left.Z, right.Z, pair[0])
	}
}

func TestLinkNames(t *testing.T) {
	names := LinkNames(BipedSkeleton)
	require.Len(t, names, 12)
	assert.Equal(t, "pelvis", names[0])
	assert.Equal(t, "torso_link", names[1])
	assert.Equal(t, "right_elbow_link", names[11])

	assert.Empty(t, LinkNames(nil))
}

func TestLocalBodyPositions(t *testing.T) {
	arr, err := LocalBodyPositions(BipedSkeleton, 3)
	require.NoError(t, err)

	assert.Equal(t, motion.Float64, arr.DType)
	assert.Equal(t, []int{3, 12, 3}, arr.Shape)

	for f := 0; f < 3; f++ {
		frame := arr.Row(f)
		// torso_link
		assert.Equal(t, []float64{0, 0, 0.3}, frame[3:6])
		// right_ankle_pitch_link
		assert.Equal(t, []float64{0, -0.1, -0.75}, frame[7*3:8*3])
	}
}

func TestLocalBodyPositionsCustomSkeleton(t *testing.T) {
	skeleton := []BodyLink{
		{Name: "base", Offset: r3.Vector{X: 1, Y: 2, Z: 3}},
	}
	arr, err := LocalBodyPositions(skeleton, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 3}, arr.Shape)
	assert.Equal(t, []float64{1, 2, 3, 1, 2, 3}, arr.Data)
}

func TestLocalBodyPositionsRejectsNegativeFrames(t *testing.T) {
	_, err := LocalBodyPositions(BipedSkeleton, -1)
	assert.ErrorIs(t, err, motion.ErrInvalidFormat)
}
