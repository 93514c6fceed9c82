package grading

import "time"

// DefaultLessonBlock is the fixed duration of one lesson block.
const DefaultLessonBlock = 75 * time.Minute

// LessonBlocks converts accumulated attendance seconds into lesson blocks,
// rounded to one decimal. A non-positive block duration yields 0.
func LessonBlocks(seconds int64, block time.Duration) float64 {
	if block <= 0 {
		return 0
	}
	return Round(float64(seconds)/block.Seconds(), 1)
}
