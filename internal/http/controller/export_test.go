package controller

import "time"

// SetClock replaces the controller clock.
func (pc *ProductController) SetClock(now func() time.Time) {
	pc.now = now
}

// SetClock replaces the controller clock.
func (pc *PageController) SetClock(now func() time.Time) {
	pc.now = now
}
