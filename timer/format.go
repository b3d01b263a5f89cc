package timer

import (
	"fmt"

	"github.com/andromeda/focus/internal/timeutil"
)

// FormatTimeSeconds renders seconds as MM:SS. Negative values are shown as
// 00:00.
func FormatTimeSeconds(s int) string {
	m, sec := timeutil.SecsToMinsAndSecs(max(0, s))

	return fmt.Sprintf("%02d:%02d", m, sec)
}
