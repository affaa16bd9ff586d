package utils

import (
	"math/rand"
	"time"
)

// RandomDelay pauses execution for a random time between min and max
// (milliseconds). Filling at machine speed trips bot detection on some ATS
// deployments.
func RandomDelay(min, max int) {
	if min >= max {
		time.Sleep(time.Duration(min) * time.Millisecond)
		return
	}
	duration := time.Duration(rand.Intn(max-min)+min) * time.Millisecond
	time.Sleep(duration)
}
