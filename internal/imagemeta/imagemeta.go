package imagemeta

import (
	"errors"
	"fmt"
	"io"
	"os"

	exif "github.com/dsoprea/go-exif/v3"
)

// DefaultMaxSize is the largest file Inspector reads (16 MiB).
const DefaultMaxSize = 16 << 20

// Tag is one reported EXIF entry.
type Tag struct {
	// Name is the EXIF tag name, e.g. "Model" or "GPSLatitude".
	Name string

	// Value is the formatted tag value.
	Value string

	// Sensitive is set for tags that identify a location, person or device.
	Sensitive bool
}

// String returns "Name: Value".
func (t Tag) String() string {
	return t.Name + ": " + t.Value
}

// reported maps the tag names included in a summary to their sensitivity.
var reported = map[string]bool{
	"Make":               false,
	"Model":              false,
	"LensModel":          false,
	"Software":           false,
	"ProcessingSoftware": false,
	"DateTime":           false,
	"DateTimeOriginal":   false,
	"DateTimeDigitized":  false,
	"ImageDescription":   false,
	"HostComputer":       true,
	"Artist":             true,
	"Copyright":          true,
	"XPAuthor":           true,
	"SerialNumber":       true,
	"CameraSerialNumber": true,
	"BodySerialNumber":   true,
	"LensSerialNumber":   true,
	"GPSLatitudeRef":     true,
	"GPSLatitude":        true,
	"GPSLongitudeRef":    true,
	"GPSLongitude":       true,
	"GPSAltitude":        true,
}

// Inspector reads image files and summarizes their EXIF data.
type Inspector struct {
	maxSize int64
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithMaxSize sets the largest number of bytes read from a file.
// Larger files are inspected on their first maxSize bytes only.
func WithMaxSize(n int64) Option {
	return func(i *Inspector) {
		if n > 0 {
			i.maxSize = n
		}
	}
}

// NewInspector creates an Inspector.
func NewInspector(opts ...Option) *Inspector {
	i := &Inspector{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// InspectFile summarizes the EXIF data of the file at path.
// It returns nil tags and a nil error when the file has no EXIF block.
func (i *Inspector) InspectFile(path string) ([]Tag, error) {
	f, err := os.Open(path) //nolint:gosec // path is a file this process just wrote
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, i.maxSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return Inspect(data)
}

// Inspect summarizes the EXIF data found in data, in the order the entries
// appear. Repeated tags (e.g. from the thumbnail IFD) are reported once.
// It returns nil tags and a nil error when data has no EXIF block.
func Inspect(data []byte) ([]Tag, error) {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		if errors.Is(err, exif.ErrNoExif) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to locate EXIF data: %w", err)
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse EXIF data: %w", err)
	}

	var tags []Tag
	seen := make(map[string]bool)
	for _, entry := range entries {
		sensitive, ok := reported[entry.TagName]
		if !ok || seen[entry.TagName] || entry.Formatted == "" {
			continue
		}
		seen[entry.TagName] = true
		tags = append(tags, Tag{
			Name:      entry.TagName,
			Value:     entry.Formatted,
			Sensitive: sensitive,
		})
	}
	return tags, nil
}

// HasSensitive reports whether any tag is sensitive.
func HasSensitive(tags []Tag) bool {
	for _, t := range tags {
		if t.Sensitive {
			return true
		}
	}
	return false
}
