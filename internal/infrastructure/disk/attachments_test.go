package disk

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain name untouched", input: "contract.pdf", want: "contract.pdf"},
		{name: "unix traversal stripped", input: "../../etc/passwd", want: "passwd"},
		{name: "absolute path stripped", input: "/etc/shadow", want: "shadow"},
		{name: "windows traversal stripped", input: `..\..\windows\system32\cmd.exe`, want: "cmd.exe"},
		{name: "nested path stripped", input: "a/b/c/evidence.png", want: "evidence.png"},
		{name: "dot rejected", input: ".", want: ""},
		{name: "dotdot rejected", input: "..", want: ""},
		{name: "empty rejected", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}

func TestSaveListRoundtrip(t *testing.T) {
	store, err := NewAttachmentStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(1, UploaderClient, "doc.pdf", strings.NewReader("pdf bytes"))
	require.NoError(t, err)

	stored, err := store.Save(1, UploaderClient, "../../etc/passwd", strings.NewReader("oops"))
	require.NoError(t, err)
	assert.Equal(t, "passwd", stored)

	names, err := store.List(1, UploaderClient)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doc.pdf", "passwd"}, names)

	// Buckets are isolated per uploader.
	names, err = store.List(1, UploaderStaff)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSaveOverwritesSilently(t *testing.T) {
	store, err := NewAttachmentStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(7, UploaderStaff, "reply.txt", strings.NewReader("first"))
	require.NoError(t, err)
	_, err = store.Save(7, UploaderStaff, "reply.txt", strings.NewReader("second"))
	require.NoError(t, err)

	rc, err := store.Open(7, UploaderStaff, "reply.txt")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	names, err := store.List(7, UploaderStaff)
	require.NoError(t, err)
	assert.Len(t, names, 1)
}

func TestListMissingBucketIsEmpty(t *testing.T) {
	store, err := NewAttachmentStore(t.TempDir())
	require.NoError(t, err)

	names, err := store.List(999, UploaderClient)
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestOpenRejectsEmptyAfterSanitize(t *testing.T) {
	store, err := NewAttachmentStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(1, UploaderClient, "..")
	assert.ErrorIs(t, err, ErrEmptyFilename)

	_, err = store.Save(1, UploaderClient, "..", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrEmptyFilename)
}

func TestValidUploader(t *testing.T) {
	assert.True(t, ValidUploader(UploaderClient))
	assert.True(t, ValidUploader(UploaderStaff))
	assert.False(t, ValidUploader("owner"))
	assert.False(t, ValidUploader(""))
}
