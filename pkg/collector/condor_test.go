package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertti/condorcheck/pkg/testutil"
)

const sampleAds = `[
{
    "Machine": "a1.cluster",
    "Name": "slot1@a1.cluster"
}
,
{
    "Machine": "a1.cluster",
    "Name": "slot2@a1.cluster"
}
,
{
    "Name": "slot1@b1.cluster"
}
,
{
    "machine": "c1.cluster",
    "name": "c1.cluster"
}
]
`

func TestParseAds(t *testing.T) {
	records, err := ParseAds(sampleAds)
	require.NoError(t, err)

	assert.Equal(t, []NodeRecord{
		{Machine: "a1.cluster", Name: "slot1@a1.cluster"},
		{Machine: "a1.cluster", Name: "slot2@a1.cluster"},
		{Name: "slot1@b1.cluster"},
		{Machine: "c1.cluster", Name: "c1.cluster"},
	}, records)
}

func TestParseAdsEmpty(t *testing.T) {
	for _, out := range []string{"", "  \n", "[]"} {
		records, err := ParseAds(out)
		require.NoError(t, err, "output %q", out)
		assert.Empty(t, records, "output %q", out)
	}
}

func TestParseAdsInvalid(t *testing.T) {
	tests := []struct {
		name string
		out  string
	}{
		{"not json", "Name OpSys Arch"},
		{"object", `{"Machine": "a1"}`},
		{"array of strings", `["a1", "b1"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAds(tt.out)
			assert.ErrorIs(t, err, ErrInvalidOutput)
		})
	}
}

func TestParseAdsNonStringAttribute(t *testing.T) {
	records, err := ParseAds(`[{"Machine": null, "Name": "slot1@n1"}]`)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].Machine)
	assert.Equal(t, "n1", Hostname(records[0]))
}

func TestCondorListNodes(t *testing.T) {
	tests := []struct {
		name       string
		condor     Condor
		wantArgs   []string
		stdout     string
		stderr     string
		runErr     error
		wantLen    int
		wantErrMsg string
	}{
		{
			name:     "local collector",
			wantArgs: []string{"-startd", "-json", "-attributes", "Machine,Name"},
			stdout:   sampleAds,
			wantLen:  4,
		},
		{
			name:     "remote pool with constraint",
			condor:   Condor{Pool: "cm.example.org:9618", Constraint: `OpSys == "LINUX"`},
			wantArgs: []string{"-startd", "-json", "-attributes", "Machine,Name", "-pool", "cm.example.org:9618", "-constraint", `OpSys == "LINUX"`},
			stdout:   "",
			wantLen:  0,
		},
		{
			name:       "collector unreachable",
			wantArgs:   []string{"-startd", "-json", "-attributes", "Machine,Name"},
			stderr:     "Error: Couldn't contact the condor_collector\n",
			runErr:     errors.New("exit status 1"),
			wantErrMsg: "condor_status failed: exit status 1: Error: Couldn't contact the condor_collector",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.condor
			c.Runner = &testutil.MockRunner{
				RunCommandFunc: func(ctx context.Context, name string, args ...string) (string, string, error) {
					assert.Equal(t, "condor_status", name)
					assert.Equal(t, tt.wantArgs, args)
					return tt.stdout, tt.stderr, tt.runErr
				},
			}

			records, err := c.ListNodes(context.Background())

			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErrMsg, err.Error())
				assert.ErrorIs(t, err, tt.runErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, records, tt.wantLen)
		})
	}
}

func TestCondorCollectorPort(t *testing.T) {
	tests := []struct {
		name     string
		stdout   string
		stderr   string
		runErr   error
		wantPort int
		wantErr  bool
	}{
		{name: "configured", stdout: "9618\n", wantPort: 9618},
		{name: "custom port", stdout: "19618\n", wantPort: 19618},
		{name: "empty falls back", stdout: "\n", wantPort: DefaultCollectorPort},
		{name: "not defined falls back", stderr: "Not defined: COLLECTOR_PORT\n", runErr: errors.New("exit status 1"), wantPort: DefaultCollectorPort},
		{name: "garbage", stdout: "$(PORT)\n", wantErr: true},
		{name: "out of range", stdout: "70000\n", wantErr: true},
		{name: "command missing", runErr: errors.New(`exec: "condor_config_val": executable file not found in $PATH`), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Condor{Runner: &testutil.MockRunner{
				RunCommandFunc: func(ctx context.Context, name string, args ...string) (string, string, error) {
					assert.Equal(t, "condor_config_val", name)
					assert.Equal(t, []string{CollectorPortKey}, args)
					return tt.stdout, tt.stderr, tt.runErr
				},
			}}

			port, err := c.CollectorPort(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPort, port)
		})
	}
}

func TestStaticSources(t *testing.T) {
	ctx := context.Background()

	port, err := StaticPort(9620).CollectorPort(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9620, port)

	nodes := StaticNodes{{Machine: "a1"}, {Name: "u@b1"}}
	records, err := nodes.ListNodes(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
