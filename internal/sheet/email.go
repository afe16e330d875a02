package sheet

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/jhillyerd/enmime"
	"github.com/pkg/errors"
)

// Attachment returns the first spreadsheet attachment of a raw RFC 822
// message. Inline parts are searched after regular attachments.
func Attachment(raw []byte) (string, []byte, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return "", nil, errors.Wrap(err, "parse message")
	}

	parts := append([]*enmime.Part{}, env.Attachments...)
	parts = append(parts, env.Inlines...)
	parts = append(parts, env.OtherParts...)
	for _, part := range parts {
		name := strings.TrimSpace(part.FileName)
		if name == "" || strings.EqualFold(filepath.Ext(name), ".eml") || !Supported(name) {
			continue
		}
		return name, part.Content, nil
	}
	return "", nil, ErrNoAttachment
}

func readEmail(raw []byte) (*Table, error) {
	name, content, err := Attachment(raw)
	if err != nil {
		return nil, err
	}
	t, err := Read(name, content)
	if err != nil {
		return nil, errors.Wrapf(err, "attachment %s", name)
	}
	return t, nil
}
