// Package console renders the interactive menu and drives the account and
// air-quality flows. It holds no business rules; every decision belongs to
// the service layer.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"

	"github.com/ecotech-solutions/ecotech/internal/airquality"
	"github.com/ecotech-solutions/ecotech/internal/domain"
	"github.com/ecotech-solutions/ecotech/internal/service"
)

// ErrLocked reports that the login attempt budget was exhausted; the caller
// decides process exit policy.
var ErrLocked = errors.New("console: login locked")

type Console struct {
	in       *bufio.Reader
	out      io.Writer
	accounts *service.AccountService
	session  *service.Session
	air      *airquality.Client
	logger   *slog.Logger
}

func New(
	in io.Reader,
	out io.Writer,
	accounts *service.AccountService,
	session *service.Session,
	air *airquality.Client,
	logger *slog.Logger,
) *Console {
	return &Console{
		in:       bufio.NewReader(in),
		out:      out,
		accounts: accounts,
		session:  session,
		air:      air,
		logger:   logger,
	}
}

// Run shows the banner, gates entry behind the login loop and then drives
// the main menu until the user exits. Returns ErrLocked when the attempt
// budget runs out.
func (c *Console) Run(ctx context.Context) error {
	c.banner()

	if err := c.login(ctx); err != nil {
		return err
	}

	return c.mainMenu(ctx)
}

func (c *Console) banner() {
	fmt.Fprintln(c.out, "======================================================")
	fmt.Fprintln(c.out, "  EcoTech Solutions - Environmental Management Console")
	fmt.Fprintln(c.out, "======================================================")
}

// login loops until the session authenticates or locks. Input errors (EOF)
// propagate; credential failures are reported generically, with the
// remaining budget shown.
func (c *Console) login(ctx context.Context) error {
	fmt.Fprintln(c.out, "\nSign in")

	for c.session.State() == service.StateUnauthenticated {
		fmt.Fprintf(c.out, "\n%d attempt(s) remaining\n", c.session.AttemptsRemaining())

		username, err := promptLine(c.in, "Username: ", c.out)
		if err != nil {
			return err
		}
		password, err := promptPassword(c.in, "Password: ", c.out)
		if err != nil {
			return err
		}
		if username == "" || password == "" {
			fmt.Fprintln(c.out, "Username and password are required.")
			continue
		}

		account, err := c.session.Attempt(ctx, username, password)
		switch {
		case err == nil:
			fmt.Fprintf(c.out, "\nWelcome, %s (%s)\n", account.Username, account.Role)
			c.logger.Info("login succeeded",
				"session", c.session.ID(), "account_id", account.ID)
			return nil
		case errors.Is(err, service.ErrSessionLocked):
			fmt.Fprintln(c.out, "\nAccess denied: too many failed attempts.")
			c.logger.Warn("session locked", "session", c.session.ID())
			return ErrLocked
		case errors.Is(err, service.ErrInvalidCredentials):
			// Identical message for unknown user and wrong password.
			fmt.Fprintf(c.out, "%s.\n", capitalize(service.ErrInvalidCredentials.Error()))
		default:
			return fmt.Errorf("login failed: %w", err)
		}
	}
	return nil
}

func (c *Console) mainMenu(ctx context.Context) error {
	for {
		fmt.Fprintln(c.out, "\n--- Main menu ---")
		fmt.Fprintln(c.out, "  1. Manage accounts")
		fmt.Fprintln(c.out, "  2. Air quality report")
		fmt.Fprintln(c.out, "  3. Exit")

		choice, err := promptLine(c.in, "> ", c.out)
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			if err := c.accountsMenu(ctx); err != nil {
				return err
			}
		case "2":
			c.airQualityReport(ctx)
		case "3":
			fmt.Fprintln(c.out, "Goodbye.")
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid option.")
		}
	}
}

func (c *Console) accountsMenu(ctx context.Context) error {
	for {
		fmt.Fprintln(c.out, "\n--- Accounts ---")
		fmt.Fprintln(c.out, "  1. Create account")
		fmt.Fprintln(c.out, "  2. Find account")
		fmt.Fprintln(c.out, "  3. List accounts")
		fmt.Fprintln(c.out, "  4. Update account")
		fmt.Fprintln(c.out, "  5. Delete account")
		fmt.Fprintln(c.out, "  6. Back")

		choice, err := promptLine(c.in, "> ", c.out)
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			c.createAccount(ctx)
		case "2":
			c.findAccount(ctx)
		case "3":
			c.listAccounts(ctx)
		case "4":
			c.updateAccount(ctx)
		case "5":
			c.deleteAccount(ctx)
		case "6":
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid option.")
		}
	}
}

func (c *Console) createAccount(ctx context.Context) {
	fmt.Fprintln(c.out, "\nCreate account")

	username, err := promptLine(c.in, "Username: ", c.out)
	if err != nil {
		return
	}
	email, err := promptLine(c.in, "Email: ", c.out)
	if err != nil {
		return
	}
	password, err := promptPassword(c.in, "Password: ", c.out)
	if err != nil {
		return
	}
	confirm, err := promptPassword(c.in, "Confirm password: ", c.out)
	if err != nil {
		return
	}
	if password != confirm {
		fmt.Fprintln(c.out, "Passwords do not match.")
		return
	}
	roleInput, err := promptLine(c.in, "Role (user/admin) [user]: ", c.out)
	if err != nil {
		return
	}
	role := domain.RoleUser
	if roleInput != "" {
		role = domain.Role(roleInput)
	}

	account, err := c.accounts.Create(ctx, username, email, password, role)
	if err != nil {
		c.reportError(err)
		return
	}
	fmt.Fprintf(c.out, "Account %q created (id %d).\n", account.Username, account.ID)
	c.logger.Info("account created", "account_id", account.ID)
}

func (c *Console) findAccount(ctx context.Context) {
	username, err := promptLine(c.in, "\nUsername to find: ", c.out)
	if err != nil || username == "" {
		return
	}

	account, err := c.accounts.GetByUsername(ctx, username)
	if err != nil {
		c.reportError(err)
		return
	}

	fmt.Fprintf(c.out, "\n  ID:       %d\n", account.ID)
	fmt.Fprintf(c.out, "  Username: %s\n", account.Username)
	fmt.Fprintf(c.out, "  Email:    %s\n", account.Email)
	fmt.Fprintf(c.out, "  Role:     %s\n", account.Role)
}

func (c *Console) listAccounts(ctx context.Context) {
	accounts, err := c.accounts.List(ctx)
	if err != nil {
		c.reportError(err)
		return
	}
	if len(accounts) == 0 {
		fmt.Fprintln(c.out, "\nNo accounts registered.")
		return
	}

	fmt.Fprintf(c.out, "\nTotal accounts: %d\n", len(accounts))
	fmt.Fprintf(c.out, "%-5s %-20s %-30s %-10s\n", "ID", "Username", "Email", "Role")
	for _, a := range accounts {
		fmt.Fprintf(c.out, "%-5d %-20s %-30s %-10s\n", a.ID, a.Username, a.Email, a.Role)
	}
}

func (c *Console) updateAccount(ctx context.Context) {
	id, ok := c.promptID("\nID of account to update: ")
	if !ok {
		return
	}

	current, err := c.accounts.GetByID(ctx, id)
	if err != nil {
		c.reportError(err)
		return
	}

	fmt.Fprintln(c.out, "Leave a field blank to keep its current value.")
	email, err := promptLine(c.in, fmt.Sprintf("New email [%s]: ", current.Email), c.out)
	if err != nil {
		return
	}
	roleInput, err := promptLine(c.in, fmt.Sprintf("New role [%s]: ", current.Role), c.out)
	if err != nil {
		return
	}
	password, err := promptPassword(c.in, "New password [keep current]: ", c.out)
	if err != nil {
		return
	}

	req := service.UpdateRequest{}
	if email != "" {
		req.Email = &email
	}
	if roleInput != "" {
		role := domain.Role(roleInput)
		req.Role = &role
	}
	if password != "" {
		req.Password = &password
	}
	if req.Email == nil && req.Role == nil && req.Password == nil {
		fmt.Fprintln(c.out, "No changes made.")
		return
	}

	updated, err := c.accounts.Update(ctx, id, req)
	if err != nil {
		c.reportError(err)
		return
	}
	fmt.Fprintf(c.out, "Account %d updated.\n", updated.ID)
	c.logger.Info("account updated", "account_id", updated.ID)
}

func (c *Console) deleteAccount(ctx context.Context) {
	id, ok := c.promptID("\nID of account to delete: ")
	if !ok {
		return
	}

	account, err := c.accounts.GetByID(ctx, id)
	if err != nil {
		c.reportError(err)
		return
	}

	var requestingID int64
	if current := c.session.Current(); current != nil {
		requestingID = current.ID
	}

	confirmed, err := promptConfirm(c.in,
		fmt.Sprintf("Delete account %q?", account.Username), c.out)
	if err != nil {
		return
	}
	if !confirmed {
		fmt.Fprintln(c.out, "Cancelled.")
		return
	}

	if err := c.accounts.Delete(ctx, id, requestingID); err != nil {
		c.reportError(err)
		return
	}
	fmt.Fprintf(c.out, "Account %q deleted.\n", account.Username)
	c.logger.Info("account deleted", "account_id", id)
}

func (c *Console) airQualityReport(ctx context.Context) {
	city, err := promptLine(c.in, "\nCity [Mexico]: ", c.out)
	if err != nil {
		return
	}
	if city == "" {
		city = "Mexico"
	}

	fmt.Fprintln(c.out, "Fetching air quality data...")
	report, err := c.air.FetchCity(ctx, city)
	if err != nil {
		if errors.Is(err, airquality.ErrServiceUnavailable) {
			fmt.Fprintln(c.out, "The air quality service is currently unavailable.")
		} else {
			c.reportError(err)
		}
		return
	}
	c.renderReport(report)
}

func (c *Console) renderReport(report airquality.Report) {
	level := report.Level()

	fmt.Fprintln(c.out, "\n--- Air quality report ---")
	fmt.Fprintf(c.out, "Station:        %s\n", report.Station)
	if report.ObservedAt != "" {
		fmt.Fprintf(c.out, "Observed:       %s\n", report.ObservedAt)
	}
	fmt.Fprintf(c.out, "AQI:            %d\n", report.AQI)
	fmt.Fprintf(c.out, "Classification: %s\n", level)

	if len(report.Pollutants) > 0 {
		fmt.Fprintln(c.out, "Pollutants:")
		codes := make([]string, 0, len(report.Pollutants))
		for code := range report.Pollutants {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			fmt.Fprintf(c.out, "  %-6s %.1f\n", code, report.Pollutants[code])
		}
	}
	if report.Temperature != nil {
		fmt.Fprintf(c.out, "Temperature:    %.1f C\n", *report.Temperature)
	}
	if report.Humidity != nil {
		fmt.Fprintf(c.out, "Humidity:       %.1f %%\n", *report.Humidity)
	}
	if report.Pressure != nil {
		fmt.Fprintf(c.out, "Pressure:       %.1f hPa\n", *report.Pressure)
	}
	fmt.Fprintf(c.out, "Advice:         %s\n", level.Advice())
}

func (c *Console) promptID(prompt string) (int64, bool) {
	input, err := promptLine(c.in, prompt, c.out)
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(input, 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintln(c.out, "The ID must be a positive number.")
		return 0, false
	}
	return id, true
}

// reportError prints an actionable message for domain errors and a generic
// one for anything else; raw internals are logged, never shown.
func (c *Console) reportError(err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrDuplicateAccount),
		errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrSelfDeletion):
		fmt.Fprintf(c.out, "Error: %s.\n", capitalize(err.Error()))
	default:
		fmt.Fprintln(c.out, "An unexpected error occurred; see the log for details.")
		c.logger.Error("operation failed", "session", c.session.ID(), "error", err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
