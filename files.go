/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
)

// humanReadableSize formats a byte count with SI units for serve logs.
func humanReadableSize(bytes int64) string {
	const unit = 1000

	units := []string{"B", "kB", "MB", "GB", "TB", "PB", "EB"}

	size := float64(bytes)
	i := 0
	for size >= unit && i < len(units)-1 {
		size /= unit
		i++
	}

	if i == 0 {
		return fmt.Sprintf("%d %s", bytes, units[0])
	}

	return fmt.Sprintf("%.1f %s", size, units[i])
}
