package console

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/tplauction/go/internal/upload"
)

func multipartRequest(t *testing.T, fields map[string]string, field, fileName string, size int) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if field != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+fileName+`"`)
		header.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(make([]byte, size))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/addTeam", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestReadSubmission_CapsFileAtOnePastLimit(t *testing.T) {
	req := multipartRequest(t, map[string]string{"teamName": "Titans"}, "logo", "big.png", upload.MaxImageBytes+4096)

	sub, err := readSubmission(httptest.NewRecorder(), req)
	require.NoError(t, err)

	assert.False(t, sub.truncated)
	assert.Equal(t, "Titans", sub.Get("teamName"))
	logo := sub.File("logo")
	require.NotNil(t, logo)
	assert.Equal(t, "big.png", logo.Name)
	assert.Len(t, logo.Data, upload.MaxImageBytes+1)
}

func TestReadSubmission_EmptyFileInputIsNoFile(t *testing.T) {
	req := multipartRequest(t, map[string]string{"teamName": "Titans"}, "logo", "", 0)

	sub, err := readSubmission(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Nil(t, sub.File("logo"))
	assert.Equal(t, "Titans", sub.Get("teamName"))
}

func TestReadSubmission_OverRequestCapKeepsEarlierFields(t *testing.T) {
	req := multipartRequest(t, map[string]string{"teamName": "Titans", "ownerName": "R Shah"}, "logo", "huge.png", maxRequestBody)

	sub, err := readSubmission(httptest.NewRecorder(), req)
	require.NoError(t, err)

	assert.True(t, sub.truncated)
	assert.Equal(t, "Titans", sub.Get("teamName"))
	assert.Equal(t, "R Shah", sub.Get("ownerName"))
	assert.Nil(t, sub.File("logo"))
}
