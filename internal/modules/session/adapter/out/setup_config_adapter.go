package out

import (
	"context"

	sessionout "focustree/internal/modules/session/port/out"
	setupdomain "focustree/internal/modules/setup/domain"
	setupin "focustree/internal/modules/setup/port/in"
)

type SetupConfigAdapter struct {
	setup setupin.Usecase
}

func NewSetupConfigAdapter(setup setupin.Usecase) sessionout.ConfigSource {
	return &SetupConfigAdapter{setup: setup}
}

func (a *SetupConfigAdapter) Current(ctx context.Context) (setupdomain.Config, error) {
	return a.setup.Current(ctx)
}
