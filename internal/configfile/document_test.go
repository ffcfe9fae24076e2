package configfile_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudlane/ssoctl/internal/configfile"
)

const userBody = `# my settings, hands off
[profile work]
region = eu-west-1
output = json

[sso-session corp]
sso_start_url = https://corp.awsapps.com/start
sso_region = us-east-1
`

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o600))
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestLoadSaveRoundTripsUnmodifiedFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/aws/config", userBody)

	doc, err := configfile.Load(fs, "/aws/config", configfile.StyleConfig)
	require.NoError(t, err)
	require.NoError(t, doc.Save())

	assert.Equal(t, userBody, readFile(t, fs, "/aws/config"))
}

func TestRoundTripPreservesMissingFinalNewline(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := "[profile a]\nregion = us-east-1"
	writeFile(t, fs, "/aws/config", content)

	doc, err := configfile.Load(fs, "/aws/config", configfile.StyleConfig)
	require.NoError(t, err)
	require.NoError(t, doc.Save())

	assert.Equal(t, content, readFile(t, fs, "/aws/config"))
}

func TestSectionLookupPreservesKeyOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/aws/config", userBody)

	doc, err := configfile.Load(fs, "/aws/config", configfile.StyleConfig)
	require.NoError(t, err)

	kvs, ok := doc.Section(configfile.KindSSOSession, "corp")
	require.True(t, ok)
	require.Len(t, kvs, 2)
	assert.Equal(t, "sso_start_url", kvs[0].Key)
	assert.Equal(t, "https://corp.awsapps.com/start", kvs[0].Value)
	assert.Equal(t, "sso_region", kvs[1].Key)

	_, ok = doc.Section(configfile.KindProfile, "missing")
	assert.False(t, ok)
}

func TestLoadMissingFileYieldsEmptyDocument(t *testing.T) {
	fs := afero.NewMemMapFs()

	doc, err := configfile.Load(fs, "/aws/config", configfile.StyleConfig)
	require.NoError(t, err)

	_, ok := doc.Section(configfile.KindProfile, "anything")
	assert.False(t, ok)
	assert.Empty(t, doc.ManagedSections())
}
