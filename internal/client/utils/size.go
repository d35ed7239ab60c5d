// Package utils holds small pure helpers for the client.
package utils

import "fmt"

const (
	kib = 1024
	mib = kib * 1024
	gib = mib * 1024
)

// FormatSize renders a byte count with the largest binary unit that keeps the
// magnitude at or above 1: "500 B", "2.00 KB", "1.50 MB", "3.00 GB".
// GB is the largest unit.
func FormatSize(size uint64) string {
	switch {
	case size >= gib:
		return fmt.Sprintf("%.2f GB", float64(size)/gib)
	case size >= mib:
		return fmt.Sprintf("%.2f MB", float64(size)/mib)
	case size >= kib:
		return fmt.Sprintf("%.2f KB", float64(size)/kib)
	default:
		return fmt.Sprintf("%d B", size)
	}
}
