// Package inspector prints diagnostic reports for motion files and compares
// the structure of two files.
package inspector

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dbsmedya/motionkit/internal/config"
	"github.com/dbsmedya/motionkit/internal/logger"
	"github.com/dbsmedya/motionkit/internal/motion"
	"github.com/dbsmedya/motionkit/internal/report"
)

// Inspector renders reports to a writer.
type Inspector struct {
	p   *report.Printer
	cfg config.InspectConfig
	log *logger.Logger
}

// New creates an Inspector writing to w.
func New(w io.Writer, cfg config.InspectConfig, useColor bool, log *logger.Logger) *Inspector {
	if log == nil {
		log = logger.NewNop()
	}
	return &Inspector{
		p:   report.NewPrinter(w, useColor),
		cfg: cfg,
		log: log,
	}
}

// Inspect loads path and prints its report. Load failures are printed and
// returned; the caller decides whether they are fatal.
func (in *Inspector) Inspect(path string) error {
	log := in.log.WithFile(path)
	log.Debug("loading file")

	v, err := motion.Load(path)
	if err != nil {
		in.printLoadError(path, err)
		log.Warnw("inspection skipped", "error", err)
		return err
	}

	in.Report(path, v)
	log.Infow("inspection complete", "kind", v.Kind().String())
	return nil
}

// Report prints the report for an already loaded value.
func (in *Inspector) Report(path string, v motion.Value) {
	p := in.p
	p.Println()
	p.Header("File: %s", path)
	p.Println()
	p.Printf("Type: %s\n\n", describeKind(v))

	switch val := v.(type) {
	case *motion.Record:
		in.reportRecord(val)
	case *motion.Array:
		in.reportBareArray(val)
	case *motion.Sequence:
		in.reportBareSequence(val)
	default:
		p.Section("Value")
		p.Println(formatScalar(v))
	}
	p.Println()
}

func (in *Inspector) printLoadError(path string, err error) {
	switch {
	case errors.Is(err, motion.ErrFileNotFound):
		in.p.Println(in.p.Fail("error: file not found: " + path))
	case errors.Is(err, motion.ErrCorruptFile):
		in.p.Println(in.p.Fail(fmt.Sprintf("error: %s is not a readable motion file: %v", path, err)))
	default:
		in.p.Println(in.p.Fail(fmt.Sprintf("error: cannot read %s: %v", path, err)))
	}
}

func (in *Inspector) reportRecord(rec *motion.Record) {
	p := in.p

	p.Section("Keys")
	for _, key := range rec.Keys() {
		p.Printf("  - %s\n", key)
	}
	p.Println()

	p.Section("Required Fields")
	for _, key := range motion.RequiredFields {
		p.Printf("  %s\n", p.Check(rec.Has(key), key))
	}

	if len(rec.MissingKeys(motion.RequiredFields...)) == 0 {
		check := CheckFrames(rec)
		p.Println()
		p.Section("Frame Consistency")
		rows := make([][]string, 0, len(check.Counts))
		for _, c := range check.Counts {
			rows = append(rows, []string{c.Field + ":", fmt.Sprintf("%d frames", c.Frames)})
		}
		p.Columns("  ", rows, 1)
		if check.Consistent {
			p.Printf("  %s\n", p.OK("frame counts consistent"))
		} else {
			p.Printf("  %s\n", p.Fail("frame counts inconsistent"))
		}
	}
	p.Println()

	p.Section("Details")
	rec.Each(func(key string, v motion.Value) {
		p.Printf("\n[%s]\n", key)
		p.Printf("  type: %s\n", v.Kind())
		in.reportField(v)
	})
	p.Println()

	in.reportDiagnostics(rec)
}

func (in *Inspector) reportField(v motion.Value) {
	p := in.p
	switch val := v.(type) {
	case *motion.Array:
		p.Printf("  shape: %s\n", val.ShapeString())
		p.Printf("  dtype: %s\n", val.DType)
		if val.Size() == 0 {
			p.Printf("  %s\n", p.Warn("empty array"))
			return
		}
		p.Printf("  range: [%s, %s]\n", formatFloat(val.Min()), formatFloat(val.Max()))
		p.Printf("  mean: %s\n", formatFloat(val.Mean()))
		if val.HasNaN() {
			p.Printf("  %s\n", p.Warn("contains NaN values"))
		}
		if val.HasInf() {
			p.Printf("  %s\n", p.Warn("contains Inf values"))
		}
		if val.Rank() <= 2 && val.Rows() <= in.cfg.SmallArrayRows {
			p.Println("  values:")
			in.printRows(val, val.Rows(), false)
		} else {
			p.Printf("  first %d rows:\n", min(in.cfg.PreviewRows, val.Rows()))
			in.printRows(val, in.cfg.PreviewRows, true)
		}

	case *motion.Sequence:
		p.Printf("  length: %d\n", val.Len())
		switch {
		case val.Len() == 0:
			p.Printf("  %s\n", p.Warn("empty list"))
		case val.Len() <= in.cfg.ListPreview:
			p.Printf("  items: %s\n", formatItems(val.Items))
		default:
			p.Printf("  first %d items: %s\n", in.cfg.ListPreview, formatItems(val.Items[:in.cfg.ListPreview]))
			p.Printf("  ... (%d more items)\n", val.Len()-in.cfg.ListPreview)
		}

	case *motion.Record:
		p.Printf("  keys: %d\n", val.Len())

	default:
		p.Printf("  value: %s\n", formatScalar(v))
	}
}

// printRows prints up to limit leading-axis rows. A rank-0 array prints its
// single value.
func (in *Inspector) printRows(arr *motion.Array, limit int, showRemainder bool) {
	if arr.Rank() == 0 {
		in.p.Printf("    %s\n", formatFloat(arr.Data[0]))
		return
	}
	n := min(limit, arr.Rows())
	for i := 0; i < n; i++ {
		in.p.Printf("    %s\n", formatSlab(arr.Row(i), arr.Shape[1:]))
	}
	if showRemainder && arr.Rows() > n {
		in.p.Printf("    ... (%d more rows)\n", arr.Rows()-n)
	}
}

func (in *Inspector) reportDiagnostics(rec *motion.Record) {
	p := in.p
	p.Section("Diagnostics")

	if dof, ok := rec.Array(motion.FieldDofPos); ok {
		if dof.Size() > 0 {
			dofCount := 1
			if dof.Rank() > 1 {
				dofCount = dof.Shape[dof.Rank()-1]
			}
			frames := dof.Rows()
			p.Printf("  DOF count: %d\n", dofCount)
			p.Printf("  total frames: %d\n", frames)
			if rec.Has(motion.FieldFPS) {
				p.Printf("  duration: %s\n", formatDuration(rec, frames))
			}
		} else {
			p.Printf("  %s\n", p.Warn("dof_pos is an empty array"))
		}
	}

	if rot, ok := rec.Array(motion.FieldRootRot); ok && rot.Size() > 0 {
		check := CheckQuaternions(rot, in.cfg.QuaternionTolerance)
		if check.Normalized {
			p.Printf("  %s\n", p.OK("root_rot quaternions normalized"))
		} else {
			in.log.WithField(motion.FieldRootRot).Debugw("quaternion norm out of tolerance",
				"min_norm", check.MinNorm, "max_norm", check.MaxNorm)
			p.Printf("  %s\n", p.Warn(fmt.Sprintf("root_rot quaternions not normalized (norm range: [%s, %s])",
				formatFloat(check.MinNorm), formatFloat(check.MaxNorm))))
		}
	}
}

func formatDuration(rec *motion.Record, frames int) string {
	fps, ok := rec.Number(motion.FieldFPS)
	if !ok {
		return "unknown (fps is not a number)"
	}
	if fps.Value <= 0 {
		return "unknown (fps must be positive)"
	}
	return fmt.Sprintf("%.2fs", float64(frames)/fps.Value)
}

func (in *Inspector) reportBareArray(arr *motion.Array) {
	p := in.p
	p.Section("Array")
	p.Printf("shape: %s\n", arr.ShapeString())
	p.Printf("dtype: %s\n", arr.DType)
	if arr.Size() == 0 {
		p.Println(p.Warn("empty array"))
		return
	}
	p.Printf("range: [%s, %s]\n", formatFloat(arr.Min()), formatFloat(arr.Max()))
	p.Printf("first %d rows:\n", min(in.cfg.BarePreview, max(arr.Rows(), 1)))
	in.printRows(arr, in.cfg.BarePreview, false)
}

func (in *Inspector) reportBareSequence(seq *motion.Sequence) {
	p := in.p
	p.Section(fmt.Sprintf("Sequence (length: %d)", seq.Len()))
	n := min(in.cfg.BarePreview, seq.Len())
	for i := 0; i < n; i++ {
		item := seq.Items[i]
		p.Printf("[%d]: %s - %s\n", i, item.Kind(), formatItem(item))
	}
	if seq.Len() > n {
		p.Printf("... (%d more items)\n", seq.Len()-n)
	}
}

func describeKind(v motion.Value) string {
	switch val := v.(type) {
	case *motion.Record:
		return fmt.Sprintf("record (%d keys)", val.Len())
	case *motion.Array:
		return fmt.Sprintf("array %s", val.ShapeString())
	case *motion.Sequence:
		return fmt.Sprintf("sequence (%d items)", val.Len())
	default:
		return v.Kind().String()
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// formatSlab renders row-major data of the given shape as nested brackets.
func formatSlab(data []float64, shape []int) string {
	if len(shape) == 0 {
		return formatFloat(data[0])
	}
	step := 1
	for _, dim := range shape[1:] {
		step *= dim
	}
	parts := make([]string, shape[0])
	for i := range parts {
		parts[i] = formatSlab(data[i*step:(i+1)*step], shape[1:])
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatScalar(v motion.Value) string {
	switch val := v.(type) {
	case motion.String:
		return strconv.Quote(string(val))
	case motion.Number:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatItem(v motion.Value) string {
	switch val := v.(type) {
	case *motion.Array:
		return "array" + val.ShapeString()
	case *motion.Sequence:
		return fmt.Sprintf("sequence(%d)", val.Len())
	case *motion.Record:
		return fmt.Sprintf("record(%d)", val.Len())
	default:
		return formatScalar(v)
	}
}

func formatItems(items []motion.Value) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = formatItem(item)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
