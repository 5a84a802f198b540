// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sweep

import (
	"fmt"
	"strings"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
	secondsPerYear   = 365 * secondsPerDay
)

// humanDuration renders a duration as "3 years 48 days 2 hours 50 minutes
// 32.1 seconds", omitting zero units and trimming trailing zero decimals.
func humanDuration(d time.Duration) string {
	seconds := d.Seconds()

	years := int(seconds / secondsPerYear)
	seconds -= float64(years) * secondsPerYear

	days := int(seconds / secondsPerDay)
	seconds -= float64(days) * secondsPerDay

	hours := int(seconds / secondsPerHour)
	seconds -= float64(hours) * secondsPerHour

	minutes := int(seconds / secondsPerMinute)
	seconds -= float64(minutes) * secondsPerMinute

	var parts []string

	if years > 0 {
		parts = append(parts, labelCount(years, "year"))
	}

	if days > 0 {
		parts = append(parts, labelCount(days, "day"))
	}

	if hours > 0 {
		parts = append(parts, labelCount(hours, "hour"))
	}

	if minutes > 0 {
		parts = append(parts, labelCount(minutes, "minute"))
	}

	if seconds > 0 || len(parts) == 0 {
		s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", seconds), "0"), ".")

		unit := "seconds"
		if s == "1" {
			unit = "second"
		}

		parts = append(parts, s+" "+unit)
	}

	return strings.Join(parts, " ")
}

// labelCount renders "1 job" or "4 jobs".
func labelCount(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}

	return fmt.Sprintf("%d %ss", n, unit)
}
