package services

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/rs/zerolog/log"

	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
	"github.com/fisioflow/clinicops/backend/internal/domain/repositories"
)

// planLoader memoizes treatment plan lookups for a single monitoring pass.
// A new loader is built per call so the cache never outlives the snapshot
// it was computed against.
type planLoader struct {
	loader *dataloader.Loader[string, *entities.TreatmentPlan]
}

// newPlanLoader builds a per-pass loader over the treatment plan repository.
// Lookup failures degrade to "no plan": a failed batch marks every patient
// in it as planless, and a patient without an active plan resolves to nil.
// Classification of the remaining patients is never aborted.
func newPlanLoader(repo repositories.TreatmentPlanRepository) *planLoader {
	batchFn := func(ctx context.Context, keys []string) []*dataloader.Result[*entities.TreatmentPlan] {
		results := make([]*dataloader.Result[*entities.TreatmentPlan], len(keys))

		plans, err := repo.GetActiveByPatientIDs(ctx, keys)
		if err != nil {
			log.Warn().Err(err).Int("patients", len(keys)).
				Msg("treatment plan lookup failed; treating batch as planless")
			for i := range keys {
				results[i] = &dataloader.Result[*entities.TreatmentPlan]{}
			}
			return results
		}

		planByPatient := make(map[string]*entities.TreatmentPlan, len(plans))
		for _, plan := range plans {
			planByPatient[plan.PatientID] = plan
		}
		for i, key := range keys {
			results[i] = &dataloader.Result[*entities.TreatmentPlan]{Data: planByPatient[key]}
		}
		return results
	}

	return &planLoader{loader: dataloader.NewBatchedLoader(batchFn)}
}

// plansFor fans out one lookup per patient, waits for all of them, and
// returns the plans keyed by patient ID. Patients without a plan (or whose
// lookup failed) are absent from the map. Repeated calls for the same
// patient within the pass hit the loader cache.
func (l *planLoader) plansFor(ctx context.Context, patients []*entities.Patient) map[string]*entities.TreatmentPlan {
	thunks := make([]dataloader.Thunk[*entities.TreatmentPlan], len(patients))
	for i, p := range patients {
		thunks[i] = l.loader.Load(ctx, p.ID)
	}

	plans := make(map[string]*entities.TreatmentPlan, len(patients))
	for i, p := range patients {
		plan, err := thunks[i]()
		if err != nil || plan == nil {
			continue
		}
		plans[p.ID] = plan
	}
	return plans
}
