package inspector

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/motionkit/internal/motion"
)

// Compare loads both files and prints their structural differences. The
// comparison body is skipped, without error, when either file is not a record.
// Load failures are printed and returned.
func (in *Inspector) Compare(pathA, pathB string) error {
	p := in.p
	p.Println()
	p.Header("Comparison: %s vs %s", pathA, pathB)
	p.Println()

	values := make([]motion.Value, 0, 2)
	for _, path := range []string{pathA, pathB} {
		v, err := motion.Load(path)
		if err != nil {
			in.printLoadError(path, err)
			in.log.WithFile(path).Warnw("comparison skipped", "error", err)
			return err
		}
		values = append(values, v)
	}

	recA, okA := values[0].(*motion.Record)
	recB, okB := values[1].(*motion.Record)
	if !okA || !okB {
		p.Printf("comparison skipped: both files must hold records (got %s and %s)\n\n",
			values[0].Kind(), values[1].Kind())
		return nil
	}

	in.PrintComparison(CompareRecords(recA, recB))
	return nil
}

// PrintComparison prints a computed comparison.
func (in *Inspector) PrintComparison(cmp Comparison) {
	p := in.p
	p.Section("Keys")
	p.Columns("  ", [][]string{
		{"common keys:", formatKeySet(cmp.Common)},
		{"only in first:", formatKeySet(cmp.OnlyFirst)},
		{"only in second:", formatKeySet(cmp.OnlySecond)},
	}, 1)
	p.Println()

	p.Section("Shape Comparison")
	if len(cmp.Shapes) == 0 {
		p.Println("  (no shared array fields)")
	}
	rows := make([][]string, 0, len(cmp.Shapes))
	for _, s := range cmp.Shapes {
		rows = append(rows, []string{
			p.Check(s.Match, s.Key+":"),
			motion.FormatShape(s.First),
			"vs",
			motion.FormatShape(s.Second),
		})
	}
	p.Columns("  ", rows, 1)
	p.Println()

	mismatches := 0
	for _, s := range cmp.Shapes {
		if !s.Match {
			mismatches++
		}
	}
	if mismatches > 0 {
		p.Println(p.Warn(fmt.Sprintf("%d shape mismatch(es)", mismatches)))
		p.Println()
	}
}

func formatKeySet(keys []string) string {
	return "{" + strings.Join(keys, ", ") + "}"
}
