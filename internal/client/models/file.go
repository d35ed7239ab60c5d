// Package models defines the client-side data types shared by the store,
// the upload workflow and the console surface.
package models

import "time"

// TimestampLayout is the fixed upload timestamp format, "YYYY-MM-DD HH:MM:SS".
const TimestampLayout = "2006-01-02 15:04:05"

// FileRecord describes one successful upload. It is created once, after the
// remote transfer and delivery both succeeded, and never mutated afterwards.
//
// The JSON keys match the snapshot files written by earlier releases, so an
// existing index keeps loading.
type FileRecord struct {
	Filename   string `json:"filename"`
	RemoteID   string `json:"file_id"`
	UploadedAt string `json:"upload_date"`
	SizeBytes  uint64 `json:"file_size"`
}

// NewFileRecord stamps a record with the local time t.
func NewFileRecord(filename, remoteID string, size uint64, t time.Time) FileRecord {
	return FileRecord{
		Filename:   filename,
		RemoteID:   remoteID,
		UploadedAt: t.Format(TimestampLayout),
		SizeBytes:  size,
	}
}

// RecordView is a FileRecord prepared for display.
type RecordView struct {
	Filename   string
	RemoteID   string
	UploadedAt string
	Size       string
}
