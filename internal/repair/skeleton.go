package repair

import (
	"github.com/golang/geo/r3"

	"github.com/dbsmedya/motionkit/internal/motion"
)

// BodyLink is one rigid segment of the bipedal skeleton with its approximate
// position relative to the pelvis, in the same length unit as root_pos.
type BodyLink struct {
	Name   string
	Offset r3.Vector
}

// BipedSkeleton is the fixed 12-link table used for full synthesis. The
// pelvis is the root and sits at the origin.
var BipedSkeleton = []BodyLink{
	{Name: "pelvis", Offset: r3.Vector{}},
	{Name: "torso_link", Offset: r3.Vector{X: 0, Y: 0, Z: 0.3}},
	{Name: "left_hip_pitch_link", Offset: r3.Vector{X: 0, Y: 0.1, Z: -0.1}},
	{Name: "left_knee_link", Offset: r3.Vector{X: 0, Y: 0.1, Z: -0.4}},
	{Name: "left_ankle_pitch_link", Offset: r3.Vector{X: 0, Y: 0.1, Z: -0.75}},
	{Name: "right_hip_pitch_link", Offset: r3.Vector{X: 0, Y: -0.1, Z: -0.1}},
	{Name: "right_knee_link", Offset: r3.Vector{X: 0, Y: -0.1, Z: -0.4}},
	{Name: "right_ankle_pitch_link", Offset: r3.Vector{X: 0, Y: -0.1, Z: -0.75}},
	{Name: "left_shoulder_pitch_link", Offset: r3.Vector{X: 0, Y: 0.2, Z: 0.5}},
	{Name: "left_elbow_link", Offset: r3.Vector{X: 0, Y: 0.2, Z: 0.25}},
	{Name: "right_shoulder_pitch_link", Offset: r3.Vector{X: 0, Y: -0.2, Z: 0.5}},
	{Name: "right_elbow_link", Offset: r3.Vector{X: 0, Y: -0.2, Z: 0.25}},
}

// LinkNames returns the skeleton link names in table order.
func LinkNames(skeleton []BodyLink) []string {
	names := make([]string, len(skeleton))
	for i, link := range skeleton {
		names[i] = link.Name
	}
	return names
}

// LocalBodyPositions builds a float64 [frames, len(skeleton), 3] array with
// every frame holding the skeleton offsets.
func LocalBodyPositions(skeleton []BodyLink, frames int) (*motion.Array, error) {
	arr, err := motion.Zeros(motion.Float64, frames, len(skeleton), 3)
	if err != nil {
		return nil, err
	}
	for f := 0; f < frames; f++ {
		frame := arr.Row(f)
		for b, link := range skeleton {
			frame[b*3] = link.Offset.X
			frame[b*3+1] = link.Offset.Y
			frame[b*3+2] = link.Offset.Z
		}
	}
	return arr, nil
}
