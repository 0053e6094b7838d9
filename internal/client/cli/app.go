package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/spudcatalog/internal/client/models"
	"github.com/dmitrijs2005/spudcatalog/internal/client/submission"
	"github.com/dmitrijs2005/spudcatalog/internal/logging"
)

// Demo credentials prefilled by the landing page of the hosted backend.
const (
	DemoEmail    = "contributor@manifest.build"
	DemoPassword = "password"
)

// Controller is the part of controller.Controller the CLI drives.
type Controller interface {
	State() models.ViewState
	Connectivity() models.ConnectivityStatus
	OnLogin(ctx context.Context, email, password string) error
	OnLogout(ctx context.Context)
	OnLoadEntries(ctx context.Context) error
	OnCreateEntry(ctx context.Context, fields models.VarietyFields, attachment *submission.Attachment) error
}

type App struct {
	ctl    Controller
	reader *bufio.Reader
	out    io.Writer
	log    logging.Logger
}

// NewApp builds the CLI over ctl. in is the command and prompt source; out
// receives everything rendered for the user.
func NewApp(ctl Controller, in io.Reader, out io.Writer, log logging.Logger) *App {
	return &App{ctl: ctl, reader: bufio.NewReader(in), out: out, log: log.With("component", "cli")}
}

func (a *App) isLoggedIn() bool {
	return a.ctl.State().IsAuthenticated()
}

// Run prints the welcome banner and current state, then serves commands
// until exit or end of input.
func (a *App) Run(ctx context.Context) {
	a.println("Potato Catalog CLI (type 'help' for commands)")
	_ = a.Status(ctx)
	if a.isLoggedIn() {
		_ = a.List(ctx)
	}
	runREPL(ctx, a, a.prompt, a.reader)
}

// prompt returns the status fragment shown before each command.
func (a *App) prompt() string {
	st := a.ctl.State()
	if st.IsAuthenticated() {
		return st.Session.Name()
	}
	return st.Phase.String()
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
