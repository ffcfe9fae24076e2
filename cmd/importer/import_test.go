package importer_test

import (
	"bytes"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudlane/ssoctl/cmd/importer"
	"github.com/cloudlane/ssoctl/internal/sessionstore"
	mock_ssoctl "github.com/cloudlane/ssoctl/tests/mock"
)

const userConfig = "[sso-session corp]\nsso_start_url = https://corp.awsapps.com/start\nsso_region = us-east-1\n"

func run(t *testing.T, deps importer.Dependencies, args ...string) (string, error) {
	t.Helper()
	cmd := importer.NewImportCmd(deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestImportMovesConfirmedSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	prompter := mock_ssoctl.NewMockPrompter(ctrl)
	prompter.EXPECT().PromptForConfirmation(gomock.Any()).Return(true)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/aws/config", []byte(userConfig), 0o600))
	store := sessionstore.NewStore(fs, "/aws/config", "/aws/credentials")

	out, err := run(t, importer.Dependencies{Store: store, Prompter: prompter}, "corp")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported sso-session 'corp'")

	managed, err := store.SessionManaged("corp")
	require.NoError(t, err)
	assert.True(t, managed)
}

func TestImportDeclinedLeavesFileAlone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	prompter := mock_ssoctl.NewMockPrompter(ctrl)
	prompter.EXPECT().PromptForConfirmation(gomock.Any()).Return(false)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/aws/config", []byte(userConfig), 0o600))
	store := sessionstore.NewStore(fs, "/aws/config", "/aws/credentials")

	out, err := run(t, importer.Dependencies{Store: store, Prompter: prompter}, "corp")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted")

	data, err := afero.ReadFile(fs, "/aws/config")
	require.NoError(t, err)
	assert.Equal(t, userConfig, string(data))
}

func TestImportRejectsUnknownType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fs := afero.NewMemMapFs()
	store := sessionstore.NewStore(fs, "/aws/config", "/aws/credentials")

	_, err := run(t, importer.Dependencies{
		Store:    store,
		Prompter: mock_ssoctl.NewMockPrompter(ctrl),
	}, "corp", "--type", "bucket")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown section type")
}

func TestImportMissingSectionFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fs := afero.NewMemMapFs()
	store := sessionstore.NewStore(fs, "/aws/config", "/aws/credentials")

	_, err := run(t, importer.Dependencies{
		Store:    store,
		Prompter: mock_ssoctl.NewMockPrompter(ctrl),
	}, "ghost", "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in the user-managed section")
}
