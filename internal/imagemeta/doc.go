// Package imagemeta summarizes the EXIF metadata carried by downloaded images.
//
// Only the tags an operator is likely to care about are reported: camera
// make and model, software, timestamps, authorship, device serial numbers and
// GPS coordinates. Tags that can identify a person, a device or a location
// are flagged as sensitive so the session can highlight them.
package imagemeta
