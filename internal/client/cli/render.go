package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/spudcatalog/internal/client/controller"
	"github.com/dmitrijs2005/spudcatalog/internal/client/models"
)

// Status prints backend connectivity and the signed-in user.
func (a *App) Status(ctx context.Context) error {
	conn := a.ctl.Connectivity()
	switch {
	case conn.CheckedAt.IsZero():
		a.println("API: not checked")
	case conn.Reachable:
		a.println("API Connected")
	default:
		a.println("API Disconnected:", conn.Err)
	}

	st := a.ctl.State()
	if st.IsAuthenticated() {
		a.println("Logged in as", st.Session.Name(), "-", len(st.Collection), "varieties")
	} else {
		a.println("Not logged in (" + st.Phase.String() + ")")
	}
	return nil
}

func (a *App) renderCollection(c models.CollectionView) {
	if len(c) == 0 {
		a.println("No potato varieties yet. Use 'add' to create one.")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCOLOR\tORIGIN\tBEST FOR\tCONTRIBUTOR\tADDED\tIMAGE")
	for _, v := range c {
		image := "-"
		if t := v.Image.Thumbnail(); t != "" {
			image = t
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.Name, dash(string(v.Color)), dash(v.Origin), dash(v.BestFor),
			dash(v.ContributorName()), v.CreatedAt.Format("2006-01-02 15:04"), image)
	}
	_ = tw.Flush()
}

// report prints the user-facing message for err. Validation details are
// shown since the user can act on them; anything else is logged.
func (a *App) report(ctx context.Context, err error) {
	a.log.Debug(ctx, "command failed", "error", err)

	msg := "Something went wrong, please try again"
	for _, sentinel := range []error{controller.ErrLoginFailed, controller.ErrCreateFailed, controller.ErrLoadFailed} {
		if errors.Is(err, sentinel) {
			msg = sentinel.Error()
			break
		}
	}
	if errors.Is(err, models.ErrValidation) {
		msg = fmt.Sprintf("%s (%s)", msg, validationDetail(err))
	}
	a.println(msg)
}

// validationDetail strips the controller prefix from a validation error.
func validationDetail(err error) string {
	for _, sentinel := range []error{controller.ErrCreateFailed, controller.ErrLoginFailed} {
		if errors.Is(err, sentinel) {
			if d, ok := strings.CutPrefix(err.Error(), sentinel.Error()+": "); ok {
				return d
			}
		}
	}
	return err.Error()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
