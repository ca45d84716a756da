package brief

import (
	"io"
	"time"
)

// Audio is a recorded voice brief.
type Audio struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Instruction is one editing task extracted from a brief.
type Instruction struct {
	Instruction    string `json:"instruction"`
	TimestampStart string `json:"timestamp_start,omitempty"`
	TimestampEnd   string `json:"timestamp_end,omitempty"`
	Priority       string `json:"priority,omitempty"`
	OriginalText   string `json:"original_text,omitempty"`
}

// ParsedInstructions is the structured reading of a brief.
type ParsedInstructions struct {
	Summary      string        `json:"summary"`
	Instructions []Instruction `json:"instructions"`
	GeneralNotes []string      `json:"general_notes"`
	UnclearParts []string      `json:"unclear_parts"`
}

// Result is what a transcriber returns for one brief.
type Result struct {
	Transcript string             `json:"transcript"`
	Language   string             `json:"language"`
	Parsed     ParsedInstructions `json:"parsed"`
}

// Options tunes the brief service.
type Options struct {
	URLTTL time.Duration
	// Timeout bounds each background transcription.
	Timeout time.Duration
}
