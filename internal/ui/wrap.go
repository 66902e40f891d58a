package ui

import "sync/atomic"

var wrapWidth atomic.Int64

// SetWrapWidth sets the width renderers wrap at. Zero or less is ignored.
func SetWrapWidth(width int) {
	if width <= 0 {
		return
	}
	wrapWidth.Store(int64(width))
}

func currentWrapWidth() int {
	return int(wrapWidth.Load())
}
