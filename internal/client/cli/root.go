package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := a.router.Location().String()
	if name := a.authService.State().Username(); name != "" {
		s = fmt.Sprintf("(%s) %s", name, s)
	}
	return s
}

// Root renders the start page, kicks off the startup session check in the
// background and runs the REPL until the user exits.
//
// Until the check finishes every page renders as the Loading placeholder;
// when it finishes, the current location is rendered again.
func (a *App) Root(ctx context.Context) {
	a.logger.Info(ctx, "starting client", "server", a.config.ServerAddr, "api", a.config.APIURL)
	fmt.Fprintln(a.out, "Welcome to authdesk CLI (type 'help' for commands)")

	_ = a.show(ctx, a.router.Current())

	go a.authService.Init(ctx)

	rendered := make(chan struct{})
	go func() {
		defer close(rendered)
		<-a.authService.Ready()
		_ = a.show(ctx, a.router.Current())
	}()

	runREPL(ctx, a, a.getStatus, a.reader, a.out)

	<-rendered
}
