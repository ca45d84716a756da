package version

import (
	"io"
	"time"
)

// Type tags a version as creator footage or editor deliverable
type Type string

const (
	TypeRaw    Type = "raw"
	TypeEdited Type = "edited"
)

func (t Type) Valid() bool {
	return t == TypeRaw || t == TypeEdited
}

// FirstNumber is the version number the first upload of type t receives.
func (t Type) FirstNumber() int {
	if t == TypeEdited {
		return 1
	}
	return 0
}

// NormalizeType maps a stored type tag to a Type.
// Untagged legacy rows are edited when numbered above zero, raw otherwise.
func NormalizeType(tag string, number int) Type {
	switch Type(tag) {
	case TypeRaw, TypeEdited:
		return Type(tag)
	}
	if number > 0 {
		return TypeEdited
	}
	return TypeRaw
}

// Version is an uploaded artifact of a project
type Version struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"project_id"`
	UploadedBy    string    `json:"uploaded_by"`
	VersionNumber int       `json:"version_number"`
	Type          Type      `json:"type"`
	FileURL       string    `json:"file_url"`
	StorageKey    string    `json:"-"`
	FileName      string    `json:"file_name,omitempty"`
	Comment       *string   `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// File is the payload of an upload.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadRequest defines version upload inputs.
type UploadRequest struct {
	ProjectID  string
	UploaderID string
	Type       Type
	File       File
	Comment    *string
}
