package sim

import "github.com/raymyers/regsim/pkg/interval"

// CrossesCall reports whether an interval is live at any call-site
// position. Such a value needs a callee-saved register to survive the
// call without a spill. Linear in the number of call sites; call
// lists are tiny in practice and correctness, not speed, is the
// contract here.
func CrossesCall(iv interval.Interval, callSites []interval.Pos) bool {
	for _, p := range callSites {
		if iv.LiveAt(p) {
			return true
		}
	}
	return false
}
