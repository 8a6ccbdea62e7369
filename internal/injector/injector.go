//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"context"

	"github.com/google/wire"

	"github.com/zeusync/vehicle/internal/app"
	"github.com/zeusync/vehicle/internal/config"
)

func InitializeApp(ctx context.Context, cfg config.Config) (*app.App, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
