package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/authdesk/internal/client/client"
	"github.com/dmitrijs2005/authdesk/internal/client/config"
	"github.com/dmitrijs2005/authdesk/internal/client/router"
	"github.com/dmitrijs2005/authdesk/internal/client/services"
	"github.com/dmitrijs2005/authdesk/internal/client/session"
	"github.com/dmitrijs2005/authdesk/internal/logging"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	authService services.AuthService
	router      *router.Router
	reader      *bufio.Reader
	out         io.Writer
}

// syncWriter serializes writes so the re-render after startup does not
// interleave with REPL output.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	baseURL, err := c.BaseURL()
	if err != nil {
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(baseURL, logger)
	if err != nil {
		return nil, err
	}

	store := session.NewStore()
	store.OnChange(func(st session.State) {
		logger.Debug(context.Background(), "session changed", "user", st.Username(), "initializing", st.Initializing)
	})

	as := services.NewAuthService(apiClient, store, logger)

	return newApp(c, logger, as, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, logger logging.Logger, as services.AuthService, reader *bufio.Reader, out io.Writer) *App {
	return &App{
		config:      c,
		logger:      logger,
		authService: as,
		router:      router.New(as),
		reader:      reader,
		out:         &syncWriter{w: out},
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.authService.Close(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.authService.State().Authenticated()
}
