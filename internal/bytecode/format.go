package bytecode

import "strconv"

// formatFloatKey renders a float64 into a stable, total-ordered string used
// only as a constant-pool dedup key (spec §3: "Float ... total-ordered for
// interning").
func formatFloatKey(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
