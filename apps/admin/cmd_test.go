package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/ratiba/apps/api/echo"
	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/calendar"
	"github.com/trezcool/ratiba/storage/database/inmem"
	"github.com/trezcool/ratiba/tests"
)

func setup(t *testing.T) (*commandLine, calendar.Repository, *bytes.Buffer) {
	t.Helper()
	calendar.NowFunc = func() time.Time { return time.Date(2024, 3, 14, 8, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { calendar.NowFunc = time.Now })

	db, err := inmemdb.Open()
	require.NoError(t, err)
	repo := inmemdb.NewEventRepository(db)

	translator := core.NewTranslator()
	validate := core.NewValidate(translator)
	calendar.RegisterValidators(validate, translator)

	var out bytes.Buffer
	return &commandLine{
		conf: &core.Config{
			AppName:   "Ratiba",
			SecretKey: "secret",
			Server:    core.ServerConfig{JWTExpirationDelta: time.Hour},
		},
		svc:      calendar.NewService(repo),
		validate: validate,
		loc:      time.UTC,
		out:      &out,
	}, repo, &out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func runCliTests(t *testing.T, cli *commandLine, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrStr)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func Test_commandLine_usage(t *testing.T) {
	cli, _, out := setup(t)
	runCliTests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "seed: no file", args: []string{"seed"}, wantErr: errHelp},
		{name: "import: no owner", args: []string{"import", "-file", "x.ics"}, wantErr: errHelp},
		{name: "export: no owner", args: []string{"export"}, wantErr: errHelp},
		{name: "token: no owner", args: []string{"token"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"token", "-lol"}, wantErrStr: "flag provided but not defined"},
	})
	assert.Contains(t, out.String(), "Usage:")
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, _ := setup(t)

	runCliTests(t, cli, []cliTest{
		{name: "no database", args: []string{"migrate", "up"}, wantErr: errNoDatabase},
	})

	db, err := sql.Open("postgres", "postgres://localhost/ratiba_test?sslmode=disable")
	require.NoError(t, err)
	defer db.Close()
	cli.db = db

	origRunFunc := gooseRunFunc
	defer func() { gooseRunFunc = origRunFunc }()

	var gotCommand string
	var gotArgs []string
	gooseRunFunc = func(_ *sql.DB, command string, args ...string) error {
		gotCommand, gotArgs = command, args
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCliTests(t, cli, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
	})
	assert.Equal(t, "up-to", gotCommand)
	assert.Equal(t, []string{"2"}, gotArgs)
}

func Test_commandLine_seed(t *testing.T) {
	cli, repo, out := setup(t)

	valid := writeFile(t, "events.yaml", `
owner: "1"
events:
  - title: Math exam
    start_date: 2024-03-14
    start_time: "09:00"
    end_time: "11:00"
    event_type: exam
    location: Room 2
  - title: Spring break
    start_date: 2024-03-25
    end_date: 2024-04-05
    is_all_day: true
`)
	invalid := writeFile(t, "invalid.yaml", `
events:
  - title: Trip
    start_date: 2024-03-14
    is_all_day: true
  - title: Broken
    start_date: 2024-03-14
    end_date: 2024-03-10
    is_all_day: true
`)
	noOwner := writeFile(t, "no-owner.yaml", "events: []\n")

	runCliTests(t, cli, []cliTest{
		{name: "missing file", args: []string{"seed", "-file", filepath.Join(t.TempDir(), "nope.yaml")}, wantErrStr: "reading seed file"},
		{name: "no owner", args: []string{"seed", "-file", noOwner}, wantErr: errNoOwner},
		{name: "invalid event", args: []string{"seed", "-file", invalid, "-owner", "2"}, wantErrStr: "event #2 (Broken)"},
		{name: "valid", args: []string{"seed", "-file", valid}},
	})
	assert.Contains(t, out.String(), "seeded 2 event(s) for owner 1")

	events, err := repo.QueryEvents(context.Background(), calendar.QueryFilter{OwnerID: "1"})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Math exam", events[0].Title)
	assert.Equal(t, "09:00-11:00", events[0].TimeLabel())
	assert.Equal(t, "2024-04-05", events[1].EndDate.Key())

	others, err := repo.QueryEvents(context.Background(), calendar.QueryFilter{OwnerID: "2"})
	require.NoError(t, err)
	assert.Empty(t, others)
}

func Test_commandLine_exportImport(t *testing.T) {
	cli, repo, out := setup(t)
	testutil.CreateEvent(t, repo, "1", "Exam", "2024-03-14", "2024-03-16")
	testutil.CreateEvent(t, repo, "1", "Trip", "2024-04-10", "2024-04-10")

	feed := filepath.Join(t.TempDir(), "march.ics")
	runCliTests(t, cli, []cliTest{
		{name: "bad month", args: []string{"export", "-owner", "1", "-month", "13"}, wantErrStr: "month must be between 1 and 12"},
		{name: "export", args: []string{"export", "-owner", "1", "-year", "2024", "-month", "3", "-out", feed}},
	})

	data, err := os.ReadFile(feed)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SUMMARY:Exam")
	assert.NotContains(t, string(data), "SUMMARY:Trip")

	out.Reset()
	runCliTests(t, cli, []cliTest{
		{name: "import", args: []string{"import", "-file", feed, "-owner", "2"}},
	})
	assert.Contains(t, out.String(), "imported 1 event(s) for owner 2")

	events, err := repo.QueryEvents(context.Background(), calendar.QueryFilter{OwnerID: "2"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Exam", events[0].Title)
	assert.Equal(t, "2024-03-16", events[0].EndDate.Key())

	out.Reset()
	runCliTests(t, cli, []cliTest{
		{name: "import twice", args: []string{"import", "-file", feed, "-owner", "2"}},
	})
	assert.Contains(t, out.String(), "imported 0 event(s) for owner 2")
}

func Test_commandLine_token(t *testing.T) {
	cli, _, out := setup(t)
	runCliTests(t, cli, []cliTest{
		{name: "token", args: []string{"token", "-owner", "7", "-username", "kmbuyi"}},
	})

	claims := new(echoapi.Claims)
	_, err := jwt.ParseWithClaims(strings.TrimSpace(out.String()), claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cli.conf.SecretKey), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "kmbuyi", claims.Username)
	assert.Equal(t, "Ratiba", claims.Issuer)
}
