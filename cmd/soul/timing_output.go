package main

import (
	"fmt"
	"io"

	"soul/internal/observ"
)

func printTimings(out io.Writer, timer *observ.Timer, enabled bool) {
	if out == nil || timer == nil || !enabled {
		return
	}
	_, _ = fmt.Fprint(out, timer.Summary())
}
