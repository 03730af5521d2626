package mhr

import (
	"context"
	"sync"

	"allergy-register-service/internal/app/contracts"
	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/dto/responses"

	"go.uber.org/zap"
)

var (
	mhrUsecaseInstance contracts.MhrUsecase
	onceMhrUsecase     sync.Once
)

// snapshots is the in-process stand-in for the external summary record
// source. Patients without an entry simply have no snapshot.
var snapshots = map[string]responses.MHRSnapshot{
	"p2": {
		TreatingDoctor:     "Dr Janet Hays",
		TreatingDoctorRole: "Allergist",
		PatientMustAvoid:   "Avoid aminopenicillins and aminocaphalosporins.",
		Substances: map[string]responses.MHRSubstanceSnapshot{
			"Amoxicillin": {
				VerificationStatus: "Confirmed",
				Criticality:        "High risk",
				FirstOnset:         "2015-07-15T22:20:00",
			},
			"Milk (dairy)": {
				VerificationStatus: "Unconfirmed",
				Criticality:        "Low risk",
				FirstOnset:         "2024-03-10T10:00:00",
			},
		},
	},
}

type mhrUsecase struct {
	Log *zap.Logger
}

func NewMhrUsecase(logger *zap.Logger) contracts.MhrUsecase {
	onceMhrUsecase.Do(func() {
		mhrUsecaseInstance = &mhrUsecase{Log: logger}
	})
	return mhrUsecaseInstance
}

func (uc *mhrUsecase) GetSnapshot(ctx context.Context, patientID string) (*responses.MHRSnapshot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("mhrUsecase.GetSnapshot called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	snapshot, ok := snapshots[patientID]
	if !ok {
		return nil, nil
	}
	return &snapshot, nil
}
