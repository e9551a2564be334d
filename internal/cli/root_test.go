package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopGateway struct{ calls int }

func (g *nopGateway) Send(context.Context, string, string) (string, error) {
	g.calls++
	return "id", nil
}

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DB_DSN", "VETCARE_DATABASE_DSN", "VETCARE_REDIS_ADDR", "VETCARE_NATS_URL",
		"VETCARE_WHATSAPP_TOKEN", "VETCARE_AUTH_VERIFY_URL", "VETCARE_SCHEDULE_DRY_RUN",
	} {
		t.Setenv(k, "")
	}
}

func execute(t *testing.T, gw *nopGateway, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(Deps{
		Now:     func() time.Time { return time.Date(2024, time.June, 10, 3, 30, 0, 0, time.UTC) },
		Gateway: gw,
		Out:     &out,
	})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunCommand_DryRunOnEmptyStore(t *testing.T) {
	isolateEnv(t)
	gw := &nopGateway{}

	out, err := execute(t, gw, "run", "--dry-run", "--account", "clinic-1")
	require.NoError(t, err)

	var rep struct {
		Day     string `json:"day"`
		DryRun  bool   `json:"dry_run"`
		Animals int    `json:"animals"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep), out)
	assert.True(t, rep.DryRun)
	assert.Equal(t, "2024-06-10", rep.Day)
	assert.Zero(t, rep.Animals)
	assert.Zero(t, gw.calls)
}

func TestBucketsCommand(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, &nopGateway{}, "buckets")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestMigrateCommand_RequiresDSN(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, &nopGateway{}, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.dsn")
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, &nopGateway{}, "nope")
	assert.Error(t, err)
}
