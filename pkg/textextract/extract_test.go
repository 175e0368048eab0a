package textextract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_PlainText(t *testing.T) {
	data := []byte("  hello world\n")
	result, err := Extract(bytes.NewReader(data), int64(len(data)), ".txt")
	require.NoError(t, err)
	assert.Equal(t, "hello world", result.Content)
}

func TestExtract_Markdown(t *testing.T) {
	data := []byte("# Title\n\nBody text.")
	result, err := Extract(bytes.NewReader(data), int64(len(data)), ".md")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nBody text.", result.Content)
}

func TestExtract_DOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>Quarterly report</w:t></w:r></w:p></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	data := buf.Bytes()
	result, err := Extract(bytes.NewReader(data), int64(len(data)), ".docx")
	require.NoError(t, err)
	assert.Contains(t, result.Content, "Quarterly report")
}

func TestExtract_UnsupportedType(t *testing.T) {
	data := []byte("binary")
	_, err := Extract(bytes.NewReader(data), int64(len(data)), ".exe")
	assert.Error(t, err)
}

func TestTypeFromFilename(t *testing.T) {
	assert.Equal(t, ".pdf", TypeFromFilename("Report.PDF"))
	assert.Equal(t, ".txt", TypeFromFilename("notes.txt"))
	assert.Equal(t, "", TypeFromFilename("README"))
}
