package version

import (
	"encoding/json"
	"testing"

	"github.com/fjord-cli/fjord/internal/build"
	"github.com/fjord-cli/fjord/internal/cmd/common"
	"github.com/fjord-cli/fjord/internal/config"
	"github.com/fjord-cli/fjord/internal/iostreams"
	"github.com/fjord-cli/fjord/test/cmd"
	testConfig "github.com/fjord-cli/fjord/test/config"
	"github.com/stretchr/testify/require"
)

func newHelper(format common.OutputFormat, showCommit bool) (*cmd.MockHelper, *iostreams.IOStreams, func() string) {
	all, _, out, _ := iostreams.NewTestIOStreams()
	helper := &cmd.MockHelper{
		GetOutputFormatMock: func() (common.OutputFormat, error) {
			return format, nil
		},
		GetConfigMock: func() (config.Hook, error) {
			return &testConfig.MockConfigHook{
				GetBoolMock: func(key string) bool {
					return key == ShowCommitConfigPath && showCommit
				},
			}, nil
		},
		GetStreamsMock: func() *iostreams.IOStreams {
			return &all
		},
		GetBuildInfoMock: func() (*build.Info, error) {
			return &build.Info{Version: "dev", Commit: "abc123", Date: "unknown"}, nil
		},
	}
	return helper, &all, out.String
}

func TestVersionText(t *testing.T) {
	helper, _, out := newHelper(common.TEXT, false)
	require.NoError(t, run(helper))
	require.Equal(t, "dev\n", out())
}

func TestVersionTextWithCommit(t *testing.T) {
	helper, _, out := newHelper(common.TEXT, true)
	require.NoError(t, run(helper))
	require.Equal(t, "dev (abc123)\n", out())
}

func TestVersionJSON(t *testing.T) {
	helper, _, out := newHelper(common.JSON, true)
	require.NoError(t, run(helper))

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out()), &got))
	require.Equal(t, map[string]string{"version": "dev", "commit": "abc123", "date": "unknown"}, got)
}
