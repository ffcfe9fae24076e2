package configfile_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudlane/ssoctl/internal/configfile"
)

func sessionBody(startURL, region string) []configfile.KeyValue {
	return []configfile.KeyValue{
		{Key: "sso_start_url", Value: startURL},
		{Key: "sso_region", Value: region},
		{Key: "sso_registration_scopes", Value: "sso:account:access"},
	}
}

func TestUpsertIntoMarkerlessFileBacksUpAndPreservesUserBytes(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/aws/config", userBody)

	doc, err := configfile.Load(fs, "/aws/config", configfile.StyleConfig)
	require.NoError(t, err)
	require.NoError(t, doc.UpsertManaged(configfile.KindSSOSession, "dev",
		sessionBody("https://dev.awsapps.com/start", "us-west-2")))
	require.NoError(t, doc.Save())

	got := readFile(t, fs, "/aws/config")
	assert.True(t, len(got) > len(userBody))
	assert.Equal(t, userBody, got[:len(userBody)], "user bytes above the marker must be untouched")
	assert.Contains(t, got, configfile.ManagedMarker)
	assert.Contains(t, got, "[sso-session dev]")

	backup := readFile(t, fs, "/aws/config"+configfile.BackupSuffix)
	assert.Equal(t, userBody, backup, "backup must be byte-identical to the pre-marker file")

	ok, err := afero.Exists(fs, "/aws/"+configfile.InitMarkerName)
	require.NoError(t, err)
	assert.True(t, ok, "migration state file must be recorded")
}

func TestBackupIsNotRewrittenOnLaterSaves(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/aws/config", userBody)

	doc, err := configfile.Load(fs, "/aws/config", configfile.StyleConfig)
	require.NoError(t, err)
	require.NoError(t, doc.UpsertManaged(configfile.KindSSOSession, "dev",
		sessionBody("https://dev.awsapps.com/start", "us-west-2")))
	require.NoError(t, doc.Save())

	doc2, err := configfile.Load(fs, "/aws/config", configfile.StyleConfig)
	require.NoError(t, err)
	require.NoError(t, doc2.UpsertManaged(configfile.KindSSOSession, "other",
		sessionBody("https://other.awsapps.com/start", "us-east-2")))
	require.NoError(t, doc2.Save())

	backup := readFile(t, fs, "/aws/config"+configfile.BackupSuffix)
	assert.Equal(t, userBody, backup, "backup must still hold the original pre-marker bytes")
}

func TestBackupNotRetakenAfterMarkerStrippedByHand(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/aws/config", userBody)

	doc, err := configfile.Load(fs, "/aws/config", configfile.StyleConfig)
	require.NoError(t, err)
	require.NoError(t, doc.UpsertManaged(configfile.KindSSOSession, "dev",
		sessionBody("https://dev.awsapps.com/start", "us-west-2")))
	require.NoError(t, doc.Save())

	// User deletes the backup and strips the marker block from the file.
	require.NoError(t, fs.Remove("/aws/config"+configfile.BackupSuffix))
	writeFile(t, fs, "/aws/config", userBody)

	doc2, err := configfile.Load(fs, "/aws/config", configfile.StyleConfig)
	require.NoError(t, err)
	require.NoError(t, doc2.UpsertManaged(configfile.KindSSOSession, "other",
		sessionBody("https://other.awsapps.com/start", "us-east-2")))
	require.NoError(t, doc2.Save())

	ok, err := afero.Exists(fs, "/aws/config"+configfile.BackupSuffix)
	require.NoError(t, err)
	assert.False(t, ok, "the migration state file must suppress a second backup")
}

func TestMigrationStateTracksEachFileSeparately(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/aws/config", userBody)
	writeFile(t, fs, "/aws/credentials", "[default]\naws_access_key_id = AKIA\n")

	doc, err := configfile.Load(fs, "/aws/config", configfile.StyleConfig)
	require.NoError(t, err)
	require.NoError(t, doc.UpsertManaged(configfile.KindSSOSession, "dev",
		sessionBody("https://dev.awsapps.com/start", "us-west-2")))
	require.NoError(t, doc.Save())

	// The credentials file shares the directory but has not migrated yet; its
	// own first managed write must still take a backup.
	creds, err := configfile.Load(fs, "/aws/credentials", configfile.StyleCredentials)
	require.NoError(t, err)
	require.NoError(t, creds.UpsertManaged(configfile.KindProfile, "dev-admin",
		[]configfile.KeyValue{{Key: "aws_access_key_id", Value: "AKIAFRESH"}}))
	require.NoError(t, creds.Save())

	backup := readFile(t, fs, "/aws/credentials"+configfile.BackupSuffix)
	assert.Equal(t, "[default]\naws_access_key_id = AKIA\n", backup)
}

func TestManagedRegionStaysSortedAcrossMutations(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc, err := configfile.Load(fs, "/aws/config", configfile.StyleConfig)
	require.NoError(t, err)

	require.NoError(t, doc.UpsertManaged(configfile.KindSSOSession, "zeta",
		sessionBody("https://z.awsapps.com/start", "us-east-1")))
	require.NoError(t, doc.UpsertManaged(configfile.KindSSOSession, "alpha",
		sessionBody("https://a.awsapps.com/start", "us-east-1")))
	require.NoError(t, doc.UpsertManaged(configfile.KindProfile, "mid",
		[]configfile.KeyValue{{Key: "region", Value: "us-east-1"}}))

	var labels []string
	for _, s := range doc.ManagedSections() {
		labels = append(labels, string(s.Kind)+" "+s.Name)
	}
	assert.Equal(t, []string{"profile mid", "sso-session alpha", "sso-session zeta"}, labels)

	assert.True(t, doc.RemoveManaged(configfile.KindSSOSession, "alpha"))
	assert.False(t, doc.RemoveManaged(configfile.KindSSOSession, "alpha"))

	labels = labels[:0]
	for _, s := range doc.ManagedSections() {
		labels = append(labels, string(s.Kind)+" "+s.Name)
	}
	assert.Equal(t, []string{"profile mid", "sso-session zeta"}, labels)
}

func TestUpsertReplacesExistingManagedSection(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc, err := configfile.Load(fs, "/aws/config", configfile.StyleConfig)
	require.NoError(t, err)

	require.NoError(t, doc.UpsertManaged(configfile.KindSSOSession, "corp",
		sessionBody("https://old.awsapps.com/start", "us-east-1")))
	require.NoError(t, doc.UpsertManaged(configfile.KindSSOSession, "corp",
		sessionBody("https://new.awsapps.com/start", "eu-central-1")))

	sections := doc.ManagedSections()
	require.Len(t, sections, 1)
	assert.Equal(t, "https://new.awsapps.com/start", sections[0].Body[0].Value)
	assert.Equal(t, "eu-central-1", sections[0].Body[1].Value)
}

func TestUpsertCollidingWithUserSectionFailsWithoutMutation(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/aws/config", userBody)

	doc, err := configfile.Load(fs, "/aws/config", configfile.StyleConfig)
	require.NoError(t, err)

	err = doc.UpsertManaged(configfile.KindProfile, "work",
		[]configfile.KeyValue{{Key: "region", Value: "us-east-1"}})

	var collision *configfile.CollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "work", collision.Name)
	assert.Contains(t, err.Error(), "ssoctl import", "collision must name the import remedy")

	require.NoError(t, doc.Save())
	assert.Equal(t, userBody, readFile(t, fs, "/aws/config"), "a rejected upsert must not mutate the file")
}

func TestImportMovesSectionFromUserToManaged(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/aws/config", userBody)

	doc, err := configfile.Load(fs, "/aws/config", configfile.StyleConfig)
	require.NoError(t, err)
	require.NoError(t, doc.Import(configfile.KindSSOSession, "corp"))
	require.NoError(t, doc.Save())

	got := readFile(t, fs, "/aws/config")
	assert.False(t, doc.InUserRegion(configfile.KindSSOSession, "corp"))
	assert.True(t, doc.InManagedRegion(configfile.KindSSOSession, "corp"))

	kvs, ok := doc.Section(configfile.KindSSOSession, "corp")
	require.True(t, ok)
	assert.Equal(t, "https://corp.awsapps.com/start", kvs[0].Value)

	// user region keeps everything else verbatim
	assert.Contains(t, got, "# my settings, hands off\n[profile work]\nregion = eu-west-1\noutput = json")
}

func TestImportMissingSectionFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/aws/config", userBody)

	doc, err := configfile.Load(fs, "/aws/config", configfile.StyleConfig)
	require.NoError(t, err)

	err = doc.Import(configfile.KindProfile, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in the user-managed section")
}

func TestCredentialsStyleKeepsDefaultFirst(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc, err := configfile.Load(fs, "/aws/credentials", configfile.StyleCredentials)
	require.NoError(t, err)

	body := []configfile.KeyValue{{Key: "aws_access_key_id", Value: "AKIA"}}
	require.NoError(t, doc.UpsertManaged(configfile.KindProfile, "zeta", body))
	require.NoError(t, doc.UpsertManaged(configfile.KindProfile, "default", body))
	require.NoError(t, doc.UpsertManaged(configfile.KindProfile, "alpha", body))

	var names []string
	for _, s := range doc.ManagedSections() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"default", "alpha", "zeta"}, names)

	require.NoError(t, doc.Save())
	got := readFile(t, fs, "/aws/credentials")
	assert.Contains(t, got, "[default]")
	assert.Contains(t, got, "[zeta]")
	assert.NotContains(t, got, "[profile zeta]", "credentials sections use bare headers")
}
