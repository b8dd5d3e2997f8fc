package server

import (
	"bytes"
	"mime/multipart"
	"testing"
)

// newMultipart writes fields plus a videoFile part into body and returns the content type.
func newMultipart(t *testing.T, body *bytes.Buffer, fields map[string]string, filename string, content []byte) string {
	t.Helper()
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	part, err := w.CreateFormFile("videoFile", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return w.FormDataContentType()
}
