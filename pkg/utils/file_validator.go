package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"slices"
)

const maxAttachmentSizeMB = 20

// allowedAttachmentTypes covers what customers actually send: artwork
// images, signed PDFs and spec sheets.
var allowedAttachmentTypes = []string{
	"image/jpeg", "image/png", "image/gif", "application/pdf",
	"application/zip",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ValidateAttachment checks an upload by sniffing its real content type;
// the client-supplied extension is never trusted.
func ValidateAttachment(fileHeader *multipart.FileHeader, file io.ReadSeeker) error {
	if fileHeader.Size > maxAttachmentSizeMB*1024*1024 {
		return fmt.Errorf("file size (%d KB) exceeds the %d MB limit", fileHeader.Size/1024, maxAttachmentSizeMB)
	}

	buffer := make([]byte, 512)
	if _, err := file.Read(buffer); err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file for type detection")
	}
	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to rewind file")
	}

	mimeType := http.DetectContentType(buffer)
	// xlsx and docx are zip containers; DetectContentType reports them as zip.
	if !slices.Contains(allowedAttachmentTypes, mimeType) {
		return fmt.Errorf("file type %s is not allowed", mimeType)
	}
	return nil
}
