package out

import (
	"context"

	interventionout "focustree/internal/modules/intervention/port/out"
	setupdomain "focustree/internal/modules/setup/domain"
	setupdto "focustree/internal/modules/setup/dto"
	setupin "focustree/internal/modules/setup/port/in"
)

type SetupConfigAdapter struct {
	setup setupin.Usecase
}

func NewSetupConfigAdapter(setup setupin.Usecase) interventionout.Config {
	return &SetupConfigAdapter{setup: setup}
}

func (a *SetupConfigAdapter) Current(ctx context.Context) (setupdomain.Config, error) {
	return a.setup.Current(ctx)
}

func (a *SetupConfigAdapter) SetRecoveryMethod(ctx context.Context, method setupdomain.RecoveryMethod) error {
	_, err := a.setup.Update(ctx, setupdto.UpdateInput{Patch: setupdomain.Patch{RecoveryMethod: &method}})
	return err
}
