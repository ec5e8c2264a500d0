package console

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/mcdev12/tplauction/go/internal/upload"
)

const (
	// Past this the rest of the body is dropped and the submission is
	// reported as an oversize image.
	maxRequestBody = 4 * upload.MaxImageBytes
	maxFieldBytes  = 64 << 10
)

var errFieldTooLarge = errors.New("form field too large")

type pickedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// submission is a parsed form body. Files are kept up to one byte past the
// image limit so an oversize file still reaches the image check with the
// text fields intact.
type submission struct {
	values    url.Values
	files     map[string]*pickedFile
	truncated bool
}

func (s *submission) Get(field string) string {
	return s.values.Get(field)
}

// File returns the file chosen under field, or nil when none was.
func (s *submission) File(field string) *pickedFile {
	return s.files[field]
}

// readSubmission reads a urlencoded or multipart body part by part. A body
// over maxRequestBody keeps what was read before the cap and is marked
// truncated.
func readSubmission(w http.ResponseWriter, r *http.Request) (*submission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	sub := &submission{values: url.Values{}, files: make(map[string]*pickedFile)}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			if isBodyTooLarge(err) {
				sub.truncate()
				return sub, nil
			}
			return nil, err
		}
		sub.values = r.PostForm
		return sub, nil
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("failed to read multipart body: %w", err)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return sub, nil
		}
		if err == nil {
			err = sub.add(part)
			part.Close()
		}
		if err != nil {
			if isBodyTooLarge(err) {
				sub.truncate()
				return sub, nil
			}
			return nil, err
		}
	}
}

// truncate marks the body incomplete. Files are dropped since the cap may
// have been hit while draining the last one.
func (s *submission) truncate() {
	s.truncated = true
	s.files = make(map[string]*pickedFile)
}

func (s *submission) add(part *multipart.Part) error {
	name := part.FormName()
	if name == "" {
		return nil
	}

	// An empty file input arrives with no file name.
	if part.FileName() == "" {
		value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes+1))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if len(value) > maxFieldBytes {
			return fmt.Errorf("%s: %w", name, errFieldTooLarge)
		}
		s.values.Add(name, string(value))
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(part, upload.MaxImageBytes+1))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	s.files[name] = &pickedFile{
		Name:        part.FileName(),
		ContentType: part.Header.Get("Content-Type"),
		Data:        data,
	}
	return nil
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
