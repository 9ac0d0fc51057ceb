package service

import (
	"bytes"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// takenAtFromEXIF extracts the capture timestamp from a photo's EXIF block.
// Phones in the field frequently upload hours after the visit, so the EXIF
// time is more truthful than the upload time. Absent or unreadable EXIF
// falls back to the provided default.
func takenAtFromEXIF(data []byte, fallback time.Time) time.Time {
	meta, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return fallback
	}

	taken, err := meta.DateTime()
	if err != nil {
		return fallback
	}

	return taken
}
