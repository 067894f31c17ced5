package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecotech-solutions/ecotech/internal/airquality"
	"github.com/ecotech-solutions/ecotech/internal/domain"
	"github.com/ecotech-solutions/ecotech/internal/service"
	"github.com/ecotech-solutions/ecotech/internal/store/drivers/sqlite"
	"github.com/ecotech-solutions/ecotech/pkg/cryptox"
)

// newTestConsole wires a Console over a real temp-file store, with alice
// pre-registered and the supplied script as stdin.
func newTestConsole(t *testing.T, script string, air *airquality.Client) (*Console, *bytes.Buffer) {
	t.Helper()
	stubTerminal(t, false)

	db, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "console.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.ApplyMigrations())

	accounts := &service.AccountService{
		Store:  db,
		Hasher: cryptox.NewHasher(bcrypt.MinCost),
	}
	_, err = accounts.Create(context.Background(),
		"alice", "alice@ecotech.example", "secret1", domain.RoleAdmin)
	require.NoError(t, err)

	session := service.NewSession(accounts, service.DefaultMaxAttempts)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if air == nil {
		air = airquality.NewClient("http://unused.invalid", "", time.Second, logger)
	}

	var out bytes.Buffer
	console := New(strings.NewReader(script), &out, accounts, session, air, logger)
	return console, &out
}

func TestRun_LoginThenExit(t *testing.T) {
	console, out := newTestConsole(t, "alice\nsecret1\n3\n", nil)

	err := console.Run(context.Background())
	require.NoError(t, err)

	require.Contains(t, out.String(), "Welcome, alice (admin)")
	require.Contains(t, out.String(), "Goodbye.")
}

func TestRun_WrongPasswordThenRecovers(t *testing.T) {
	console, out := newTestConsole(t, "alice\nnope\nalice\nsecret1\n3\n", nil)

	err := console.Run(context.Background())
	require.NoError(t, err)

	// The generic message never says whether the username exists.
	require.Contains(t, out.String(), "Invalid username or password.")
	require.NotContains(t, out.String(), "nope")
	require.Contains(t, out.String(), "2 attempt(s) remaining")
	require.Contains(t, out.String(), "Welcome, alice")
}

func TestRun_LocksAfterThreeFailures(t *testing.T) {
	script := strings.Repeat("ghost\nwrong\n", 3)
	console, out := newTestConsole(t, script, nil)

	err := console.Run(context.Background())
	require.ErrorIs(t, err, ErrLocked)
	require.Contains(t, out.String(), "Access denied: too many failed attempts.")
}

func TestRun_BlankCredentialsDontBurnAttempts(t *testing.T) {
	console, out := newTestConsole(t, "\n\nalice\nsecret1\n3\n", nil)

	err := console.Run(context.Background())
	require.NoError(t, err)

	require.Contains(t, out.String(), "Username and password are required.")
	require.Contains(t, out.String(), "3 attempt(s) remaining")
	require.NotContains(t, out.String(), "2 attempt(s) remaining")
}

func TestAccountsMenu_CreateListFind(t *testing.T) {
	script := strings.Join([]string{
		"alice", "secret1",
		"1",
		// create bob with the default role, then list and find him
		"1", "bob", "bob@ecotech.example", "pw1234", "pw1234", "",
		"3",
		"2", "bob",
		"6", "3",
	}, "\n") + "\n"
	console, out := newTestConsole(t, script, nil)

	err := console.Run(context.Background())
	require.NoError(t, err)

	require.Contains(t, out.String(), `Account "bob" created (id 2).`)
	require.Contains(t, out.String(), "Total accounts: 2")
	require.Contains(t, out.String(), "Email:    bob@ecotech.example")
	require.Contains(t, out.String(), "Role:     user")
}

func TestAccountsMenu_CreateRejectsMismatchedPasswords(t *testing.T) {
	script := strings.Join([]string{
		"alice", "secret1",
		"1",
		"1", "bob", "bob@ecotech.example", "pw1234", "different",
		"6", "3",
	}, "\n") + "\n"
	console, out := newTestConsole(t, script, nil)

	err := console.Run(context.Background())
	require.NoError(t, err)
	require.Contains(t, out.String(), "Passwords do not match.")
}

func TestAccountsMenu_DomainErrorsAreShown(t *testing.T) {
	script := strings.Join([]string{
		"alice", "secret1",
		"1",
		// duplicate username, then a lookup miss
		"1", "alice", "other@ecotech.example", "pw1234", "pw1234", "",
		"2", "ghost",
		"6", "3",
	}, "\n") + "\n"
	console, out := newTestConsole(t, script, nil)

	err := console.Run(context.Background())
	require.NoError(t, err)

	require.Contains(t, out.String(), "already")
	require.Contains(t, out.String(), "Error: Account not found.")
}

func TestAccountsMenu_SelfDeletionRefused(t *testing.T) {
	script := strings.Join([]string{
		"alice", "secret1",
		"1",
		// confirmed delete of the logged-in account, then a list to prove
		// it survived
		"5", "1", "y",
		"3",
		"6", "3",
	}, "\n") + "\n"
	console, out := newTestConsole(t, script, nil)

	err := console.Run(context.Background())
	require.NoError(t, err)

	require.Contains(t, out.String(), "Error: ")
	require.NotContains(t, out.String(), `Account "alice" deleted.`)
	require.Contains(t, out.String(), "Total accounts: 1")
}

func TestAccountsMenu_UpdateKeepsBlankFields(t *testing.T) {
	script := strings.Join([]string{
		"alice", "secret1",
		"1",
		// update email only; blank role and password keep current values
		"4", "1", "new@ecotech.example", "", "",
		"2", "alice",
		"6", "3",
	}, "\n") + "\n"
	console, out := newTestConsole(t, script, nil)

	err := console.Run(context.Background())
	require.NoError(t, err)

	require.Contains(t, out.String(), "Account 1 updated.")
	require.Contains(t, out.String(), "Email:    new@ecotech.example")
	require.Contains(t, out.String(), "Role:     admin")
}

func TestAirQualityReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": "ok",
			"data": {
				"aqi": 42,
				"city": {"name": "Test Station"},
				"iaqi": {"pm25": {"v": 42}},
				"time": {"s": "2026-08-29 10:00:00"}
			}
		}`))
	}))
	t.Cleanup(srv.Close)
	air := airquality.NewClient(srv.URL, "", time.Second, nil)

	script := strings.Join([]string{
		"alice", "secret1",
		"2", "", // blank city uses the default
		"3",
	}, "\n") + "\n"
	console, out := newTestConsole(t, script, air)

	err := console.Run(context.Background())
	require.NoError(t, err)

	require.Contains(t, out.String(), "Station:        Test Station")
	require.Contains(t, out.String(), "AQI:            42")
	require.Contains(t, out.String(), "Classification: Good")
}

func TestAirQualityReport_ServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	air := airquality.NewClient(srv.URL, "", time.Second, nil)

	script := strings.Join([]string{
		"alice", "secret1",
		"2", "Mexico",
		"3",
	}, "\n") + "\n"
	console, out := newTestConsole(t, script, air)

	err := console.Run(context.Background())
	require.NoError(t, err)
	require.Contains(t, out.String(), "The air quality service is currently unavailable.")
}
