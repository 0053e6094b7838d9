// Package submission packages a new catalog entry (scalar form fields plus an
// optional binary attachment) into a single multipart payload.
//
// A Payload is one of two shapes, FieldsOnly or WithAttachment, so whether an
// attachment is present is decided once, here, and carried by the type.
package submission

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/dmitrijs2005/spudcatalog/internal/client/models"
)

// AttachmentField is the multipart field name the backend expects the image under.
const AttachmentField = "image"

// Attachment is a binary file chosen by the user. The content is passed
// through untouched.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Payload is a validated creation request ready for transmission.
type Payload interface {
	// Fields returns the normalized scalar fields.
	Fields() models.VarietyFields
	// Encode renders the multipart body and its Content-Type header value.
	Encode() (contentType string, body []byte, err error)

	sealed()
}

// FieldsOnly is a payload without an attachment.
type FieldsOnly struct {
	fields models.VarietyFields
}

// WithAttachment is a payload carrying a binary attachment.
type WithAttachment struct {
	fields     models.VarietyFields
	Attachment Attachment
}

// Package validates fields and builds a Payload. A nil attachment, or one
// with no data, yields FieldsOnly. An empty name fails with
// models.ErrValidation; the color defaults to Yellow.
func Package(fields models.VarietyFields, attachment *Attachment) (Payload, error) {
	fields.Name = strings.TrimSpace(fields.Name)
	if fields.Name == "" {
		return nil, fmt.Errorf("%w: name is required", models.ErrValidation)
	}

	color, err := models.ParseColor(string(fields.Color))
	if err != nil {
		return nil, err
	}
	fields.Color = color

	if attachment == nil || len(attachment.Data) == 0 {
		return FieldsOnly{fields: fields}, nil
	}

	a := *attachment
	if a.Filename == "" {
		a.Filename = AttachmentField
	}
	if a.ContentType == "" {
		a.ContentType = http.DetectContentType(a.Data)
	}
	return WithAttachment{fields: fields, Attachment: a}, nil
}

func (p FieldsOnly) Fields() models.VarietyFields { return p.fields }
func (FieldsOnly) sealed()                         {}

func (p FieldsOnly) Encode() (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := writeFields(w, p.fields); err != nil {
		return "", nil, err
	}
	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}

func (p WithAttachment) Fields() models.VarietyFields { return p.fields }
func (WithAttachment) sealed()                         {}

func (p WithAttachment) Encode() (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := writeFields(w, p.fields); err != nil {
		return "", nil, err
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, AttachmentField, p.Attachment.Filename))
	h.Set("Content-Type", p.Attachment.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return "", nil, fmt.Errorf("create attachment part: %w", err)
	}
	if _, err := part.Write(p.Attachment.Data); err != nil {
		return "", nil, fmt.Errorf("write attachment: %w", err)
	}

	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}

func writeFields(w *multipart.Writer, f models.VarietyFields) error {
	pairs := [][2]string{
		{"name", f.Name},
		{"description", f.Description},
		{"origin", f.Origin},
		{"color", string(f.Color)},
		{"bestFor", f.BestFor},
	}
	for _, kv := range pairs {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return fmt.Errorf("write field %s: %w", kv[0], err)
		}
	}
	return nil
}
