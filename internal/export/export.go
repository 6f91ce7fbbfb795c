// Package export renders a finished interview as a plain-text document.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/discoverysim/internal/session"
)

// FileName is the suggested download name.
const FileName = "interview_feedback.txt"

var ErrEmpty = errors.New("nothing to export yet")

// Text renders the setup, every turn in order and then the coach feedback,
// if any. Feedback always comes after the last turn.
func Text(snap session.Snapshot) (string, error) {
	if len(snap.Transcript) == 0 {
		return "", ErrEmpty
	}

	var b strings.Builder
	b.WriteString("CUSTOMER DISCOVERY INTERVIEW\n")
	fmt.Fprintf(&b, "Customer segment: %s\n", snap.Setup.Segment)
	fmt.Fprintf(&b, "Problem: %s\n", snap.Setup.Problem)
	fmt.Fprintf(&b, "Hypothesis: %s\n", snap.Setup.Hypothesis)
	if snap.UsePersona && snap.Persona != "" {
		fmt.Fprintf(&b, "Persona:\n%s\n", snap.Persona)
	}

	b.WriteString("\nTRANSCRIPT\n")
	b.WriteString(session.FormatTranscript(snap.Transcript))
	b.WriteString("\n")

	if snap.Feedback != nil {
		b.WriteString("\nCOACH FEEDBACK\n")
		if snap.Feedback.Score != nil {
			fmt.Fprintf(&b, "Score: %g/10\n\n", *snap.Feedback.Score)
		}
		b.WriteString(snap.Feedback.Critique)
		b.WriteString("\n")
	}
	return b.String(), nil
}
