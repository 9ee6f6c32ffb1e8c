package git

import (
	"fmt"
	"strings"
)

// CommitMessage is a commit message split into its parts
type CommitMessage struct {
	Title    string
	Body     string
	Raw      string
	Trailers map[string]string
}

// String renders the message back into git's canonical form
func (m CommitMessage) String() string {
	var b strings.Builder
	b.WriteString(m.Title)
	if m.Body != "" {
		b.WriteString("\n\n")
		b.WriteString(m.Body)
	}
	if len(m.Trailers) > 0 {
		b.WriteString("\n")
		for key, value := range m.Trailers {
			b.WriteString(fmt.Sprintf("\n%s: %s", key, value))
		}
	}
	b.WriteString("\n")
	return b.String()
}

// ParseCommitMessage parses a commit message into title, body, and trailers
func ParseCommitMessage(message string) CommitMessage {
	lines := strings.Split(message, "\n")

	msg := CommitMessage{
		Raw:      message,
		Trailers: make(map[string]string),
	}

	if len(lines) == 0 {
		return msg
	}

	msg.Title = strings.TrimSpace(lines[0])

	// Find where trailers start: the last block of "Key: Value" lines
	trailerStart := len(lines)
	inTrailers := false

	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			if inTrailers {
				trailerStart = i + 1
				break
			}
			continue
		}

		if isTrailerLine(line) {
			inTrailers = true
			continue
		}

		if inTrailers {
			trailerStart = i + 1
		}
		break
	}

	for i := trailerStart; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) == 2 {
			msg.Trailers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}

	// Body is everything between title and trailers
	bodyLines := []string{}
	for i := 1; i < trailerStart && i < len(lines); i++ {
		bodyLines = append(bodyLines, lines[i])
	}
	msg.Body = strings.TrimSpace(strings.Join(bodyLines, "\n"))

	return msg
}

func isTrailerLine(line string) bool {
	parts := strings.SplitN(line, ":", 2)
	return len(parts) == 2 && parts[0] != "" && !strings.Contains(strings.TrimSpace(parts[0]), " ")
}
