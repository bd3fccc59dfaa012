package entities

// AttachmentRef points at an uploaded file. Write-once at creation/update
// time; lifecycle transitions never mutate it.
type AttachmentRef struct {
	ID       int64
	Category string
	FileName string
	FileURL  string
}
