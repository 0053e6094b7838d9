package cli

import (
	"context"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Login prompts for an email and password and signs in. The password is
// wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	return a.login(ctx, email, string(password))
}

// Demo signs in with the demo contributor account.
func (a *App) Demo(ctx context.Context) error {
	a.println("Logging in as", DemoEmail)
	return a.login(ctx, DemoEmail, DemoPassword)
}

func (a *App) login(ctx context.Context, email, password string) error {
	if err := a.ctl.OnLogin(ctx, email, password); err != nil {
		a.report(ctx, err)
		if a.isLoggedIn() {
			// signed in, only the first fetch failed
			a.println("Welcome,", a.ctl.State().Session.Name())
		}
		return err
	}

	a.println("Welcome,", a.ctl.State().Session.Name())
	a.renderCollection(a.ctl.State().Collection)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.ctl.OnLogout(ctx)
	a.println("Logged out")
	return nil
}
