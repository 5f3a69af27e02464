package out

import (
	"context"

	detectionout "focustree/internal/modules/detection/port/out"
	interventionin "focustree/internal/modules/intervention/port/in"
)

type InterventionAdapter struct {
	interventions interventionin.Usecase
}

func NewInterventionAdapter(interventions interventionin.Usecase) detectionout.Interventions {
	return &InterventionAdapter{interventions: interventions}
}

func (a *InterventionAdapter) Active(context.Context) bool {
	return a.interventions.Active()
}

func (a *InterventionAdapter) Trigger(ctx context.Context, distractionType string) error {
	return a.interventions.Trigger(ctx, distractionType)
}
