// Package repair fills in the optional local_body_pos and link_body_list
// fields of a motion record and writes the patched record to a new file.
package repair

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dbsmedya/motionkit/internal/config"
	"github.com/dbsmedya/motionkit/internal/logger"
	"github.com/dbsmedya/motionkit/internal/motion"
	"github.com/dbsmedya/motionkit/internal/report"
)

// Mode names a repair strategy.
type Mode string

const (
	// ModeFix fills empty fields with placeholders derived from existing data.
	ModeFix Mode = "fix"
	// ModeFull always replaces both fields with the biped skeleton table.
	ModeFull Mode = "full"
)

// Result describes a completed repair.
type Result struct {
	Mode          Mode
	Input         string
	Output        string
	Frames        int
	Bodies        int
	CreatedBodies bool // local_body_pos was written
	CreatedLinks  bool // link_body_list was written
}

// Repairer patches motion files.
type Repairer struct {
	p   *report.Printer
	cfg config.RepairConfig
	log *logger.Logger
}

// New creates a Repairer that prints its progress to w.
func New(w io.Writer, cfg config.RepairConfig, useColor bool, log *logger.Logger) *Repairer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Repairer{
		p:   report.NewPrinter(w, useColor),
		cfg: cfg,
		log: log,
	}
}

// DefaultOutputPath inserts suffix before the extension of input.
// Leading dots of the file name do not start an extension.
func DefaultOutputPath(input, suffix string) string {
	name := filepath.Base(input)
	ext := filepath.Ext(strings.TrimLeft(name, "."))
	return strings.TrimSuffix(input, ext) + suffix + ext
}

// Fix performs the simple repair. When local_body_pos is absent or empty it
// becomes a copy of root_pos, shaped [frames, 3] rather than [frames, bodies, 3].
// When link_body_list is absent or empty it becomes the single placeholder
// link. All other fields pass through. An empty output selects the default
// "_fixed" path.
func (r *Repairer) Fix(input, output string) (*Result, error) {
	if output == "" {
		output = DefaultOutputPath(input, r.cfg.FixedSuffix)
	}
	log := r.log.WithFile(input)

	rec, err := r.load(input)
	if err != nil {
		return nil, err
	}

	p := r.p
	p.Println()
	p.Section("Original Data")
	r.printSummary(rec)

	res := &Result{Mode: ModeFix, Input: input, Output: output, Frames: frameCount(rec)}

	emptyBodies, err := fieldIsEmpty(rec, motion.FieldLocalBodyPos)
	if err != nil {
		return nil, err
	}
	if emptyBodies {
		rootPos, ok := rec.Array(motion.FieldRootPos)
		if !ok {
			return nil, fmt.Errorf("%w: root_pos must be an array to build local_body_pos", motion.ErrInvalidFormat)
		}
		rec.Set(motion.FieldLocalBodyPos, rootPos.Clone())
		res.CreatedBodies = true
		res.Bodies = 1
		p.Println()
		p.Println(p.Warn("local_body_pos is empty, copying root_pos"))
		p.Println(p.OK(fmt.Sprintf("created local_body_pos: shape=%s (root position only, not per-body)", rootPos.ShapeString())))
		log.WithField(motion.FieldLocalBodyPos).Info("placeholder created from root_pos")
	}

	emptyLinks, err := fieldIsEmpty(rec, motion.FieldLinkBodyList)
	if err != nil {
		return nil, err
	}
	if emptyLinks {
		rec.Set(motion.FieldLinkBodyList, motion.NewStringSequence(r.cfg.PlaceholderLink))
		res.CreatedLinks = true
		p.Println()
		p.Println(p.Warn("link_body_list is empty, creating default list"))
		p.Println(p.OK(fmt.Sprintf("created link_body_list: [%q]", r.cfg.PlaceholderLink)))
		log.WithField(motion.FieldLinkBodyList).Info("placeholder created")
	}

	if err := r.save(res, rec); err != nil {
		return nil, err
	}
	p.Println()
	p.Println(p.OK("repair complete"))
	p.Printf("\nTo inspect the result:\n  motionkit view %s\n", output)
	return res, nil
}

// SynthesizeFull replaces local_body_pos and link_body_list with the
// BipedSkeleton table, whether or not they were already present. An empty
// output selects the default "_full" path.
func (r *Repairer) SynthesizeFull(input, output string) (*Result, error) {
	if output == "" {
		output = DefaultOutputPath(input, r.cfg.FullSuffix)
	}

	rec, err := r.load(input)
	if err != nil {
		return nil, err
	}

	p := r.p
	p.Println()
	p.Section("Original Data")
	r.printSummary(rec)

	rootPos, ok := rec.Array(motion.FieldRootPos)
	if !ok || rootPos.Rank() == 0 {
		return nil, fmt.Errorf("%w: root_pos must be an array with a frame dimension", motion.ErrInvalidFormat)
	}
	frames := rootPos.Rows()

	bodies, err := LocalBodyPositions(BipedSkeleton, frames)
	if err != nil {
		return nil, err
	}
	names := LinkNames(BipedSkeleton)

	rec.Set(motion.FieldLocalBodyPos, bodies)
	rec.Set(motion.FieldLinkBodyList, motion.NewStringSequence(names...))

	p.Println()
	p.Section("Created Data")
	p.Printf("  local_body_pos shape: %s\n", bodies.ShapeString())
	p.Printf("  link_body_list: %d body links\n", len(names))
	p.Printf("  links: %s\n", strings.Join(names, ", "))

	res := &Result{
		Mode:          ModeFull,
		Input:         input,
		Output:        output,
		Frames:        frames,
		Bodies:        len(names),
		CreatedBodies: true,
		CreatedLinks:  true,
	}
	if err := r.save(res, rec); err != nil {
		return nil, err
	}
	p.Println()
	p.Println(p.OK("synthesis complete"))
	return res, nil
}

// load reads input and checks the shared preconditions: the root is a record
// and every required field is present.
func (r *Repairer) load(input string) (*motion.Record, error) {
	r.log.WithFile(input).Debug("loading file")
	r.p.Printf("Reading: %s\n", input)

	rec, err := motion.LoadRecord(input)
	if err != nil {
		return nil, err
	}
	if err := motion.RequireFields(rec); err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	return rec, nil
}

func (r *Repairer) save(res *Result, rec *motion.Record) error {
	r.p.Printf("\nSaving to: %s\n", res.Output)
	if err := motion.Save(res.Output, rec); err != nil {
		return fmt.Errorf("failed to write %s: %w", res.Output, err)
	}
	r.log.WithFile(res.Input).WithFields(map[string]interface{}{
		"output":         res.Output,
		"mode":           string(res.Mode),
		"frames":         res.Frames,
		"created_bodies": res.CreatedBodies,
		"created_links":  res.CreatedLinks,
	}).Info("record written")
	return nil
}

func (r *Repairer) printSummary(rec *motion.Record) {
	p := r.p
	fps, _ := rec.Get(motion.FieldFPS)
	rows := [][]string{
		{"fps:", describe(fps)},
		{"frames:", countOrNA(frameCount(rec))},
		{"DOF count:", countOrNA(dofCount(rec))},
	}
	for _, key := range []string{motion.FieldLocalBodyPos, motion.FieldLinkBodyList} {
		v, ok := rec.Get(key)
		if !ok {
			rows = append(rows, []string{key + ":", "missing"})
			continue
		}
		rows = append(rows, []string{key + ":", describe(v)})
	}
	p.Columns("  ", rows, 1)
}

// fieldIsEmpty reports whether key is absent, a zero-size array or a
// zero-length sequence. Any other value kind is an invalid format.
func fieldIsEmpty(rec *motion.Record, key string) (bool, error) {
	v, ok := rec.Get(key)
	if !ok {
		return true, nil
	}
	switch val := v.(type) {
	case *motion.Array:
		return val.Size() == 0, nil
	case *motion.Sequence:
		return val.Len() == 0, nil
	default:
		return false, fmt.Errorf("%w: %s holds a %s", motion.ErrInvalidFormat, key, v.Kind())
	}
}

// frameCount returns the leading dimension of root_pos, or -1 when unknown.
func frameCount(rec *motion.Record) int {
	arr, ok := rec.Array(motion.FieldRootPos)
	if !ok || arr.Rank() == 0 {
		return -1
	}
	return arr.Rows()
}

// dofCount returns the second dimension of dof_pos, or -1 when unknown.
func dofCount(rec *motion.Record) int {
	arr, ok := rec.Array(motion.FieldDofPos)
	if !ok || arr.Rank() < 2 {
		return -1
	}
	return arr.Shape[1]
}

func countOrNA(n int) string {
	if n < 0 {
		return "n/a"
	}
	return fmt.Sprintf("%d", n)
}

func describe(v motion.Value) string {
	switch val := v.(type) {
	case nil:
		return "missing"
	case *motion.Array:
		if val.Size() == 0 {
			return fmt.Sprintf("empty array %s", val.ShapeString())
		}
		return fmt.Sprintf("array %s", val.ShapeString())
	case *motion.Sequence:
		if names, ok := val.Strings(); ok {
			return fmt.Sprintf("[%s]", strings.Join(names, ", "))
		}
		return fmt.Sprintf("sequence of %d items", val.Len())
	case motion.Number:
		return val.String()
	case motion.String:
		return fmt.Sprintf("%q", string(val))
	default:
		return v.Kind().String()
	}
}
