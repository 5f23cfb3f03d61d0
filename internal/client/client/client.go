package client

import (
	"context"

	"github.com/dmitrijs2005/authdesk/internal/client/models"
)

type Client interface {
	Close() error
	CheckSession(ctx context.Context) (*models.SessionStatus, error)
	Register(ctx context.Context, username, email, password, confirmPassword string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Dashboard(ctx context.Context) (*models.DashboardData, error)
}
