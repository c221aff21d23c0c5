// SPDX-License-Identifier: MIT

package packet

import (
	"fmt"
	"time"
)

// Statistics tracks frame outcomes and rates for a single decode
// stream. Not safe for concurrent use.
type Statistics struct {
	StartTime time.Time

	TotalFrames  uint64
	ValidFrames  uint64
	CRCErrors    uint64
	TooSmall     uint64
	Overflows    uint64
	OtherErrors  uint64

	// Rates (calculated)
	FrameRate float64 // frames/sec
	ErrorRate float64 // errors/sec
}

// NewStatistics creates a statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{StartTime: time.Now()}
}

// Update records the outcome of one completed or discarded frame.
// ErrNotDone results are not frame outcomes and are ignored.
func (s *Statistics) Update(code ErrorCode) {
	switch code {
	case ErrNotDone:
		return
	case ErrNone:
		s.ValidFrames++
	case ErrCRC:
		s.CRCErrors++
	case ErrTooSmall:
		s.TooSmall++
	case ErrTooMuchData:
		s.Overflows++
	default:
		s.OtherErrors++
	}
	s.TotalFrames++
}

// CalculateRates recomputes the frame and error rates.
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.TotalFrames) / elapsed
		errorCount := s.TotalFrames - s.ValidFrames
		s.ErrorRate = float64(errorCount) / elapsed
	}
}

// String returns a formatted statistics summary.
func (s *Statistics) String() string {
	s.CalculateRates()

	var validPercent float64
	if s.TotalFrames > 0 {
		validPercent = float64(s.ValidFrames) * 100.0 / float64(s.TotalFrames)
	}
	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Frames:    %8d\n", s.TotalFrames)
	result += fmt.Sprintf("Valid Frames:    %8d (%.1f%%)\n", s.ValidFrames, validPercent)
	if s.CRCErrors > 0 {
		result += fmt.Sprintf("CRC Errors:      %8d\n", s.CRCErrors)
	}
	if s.TooSmall > 0 {
		result += fmt.Sprintf("Short Frames:    %8d\n", s.TooSmall)
	}
	if s.Overflows > 0 {
		result += fmt.Sprintf("Overflows:       %8d\n", s.Overflows)
	}
	if s.OtherErrors > 0 {
		result += fmt.Sprintf("Other Errors:    %8d\n", s.OtherErrors)
	}
	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset clears all counters.
func (s *Statistics) Reset() {
	*s = Statistics{StartTime: time.Now()}
}
