package allergies

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"allergy-register-service/internal/app/contracts"
	"allergy-register-service/internal/app/models"
	"allergy-register-service/internal/app/services/patients"
	"allergy-register-service/internal/app/services/shared/cache"
	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/dto/requests"
	"allergy-register-service/internal/pkg/dto/responses"
	"allergy-register-service/internal/pkg/exceptions"
	"allergy-register-service/internal/pkg/fhir_dto"
	"allergy-register-service/internal/pkg/utils"

	"go.uber.org/zap"
)

var (
	allergyUsecaseInstance contracts.AllergyUsecase
	onceAllergyUsecase     sync.Once
)

// Substance-name keywords used to infer the resource category when the form
// does not state one.
var allergyCategoryKeywords = map[string][]string{
	constvars.FhirAllergyCategoryMedication: {"cillin", "penicillin", "amoxi", "cephal", "drug", "medication", "tablet"},
	constvars.FhirAllergyCategoryFood:       {"milk", "egg", "peanut", "nut", "shellfish", "seafood", "shrimp", "fish", "wheat", "soy", "gluten"},
}

var severityCodeMap = map[string]string{
	"High":   constvars.FhirSeveritySevere,
	"Medium": constvars.FhirSeverityModerate,
	"Low":    constvars.FhirSeverityMild,
}

var verificationCodeMap = map[string]string{
	"Confirmed":   constvars.FhirVerificationConfirmed,
	"Unconfirmed": constvars.FhirVerificationUnconfirmed,
	"Refuted":     constvars.FhirVerificationRefuted,
}

type allergyUsecase struct {
	AllergyFhirClient contracts.AllergyFhirClient
	PatientFhirClient contracts.PatientFhirClient
	PatientCache      *cache.InflightCache[responses.PatientRow]
	EventCache        *cache.InflightCache[responses.EventDetail]
	AuditRepository   contracts.AuditRepository
	EventNotifier     contracts.EventNotifier
	Log               *zap.Logger
}

func NewAllergyUsecase(
	allergyFhirClient contracts.AllergyFhirClient,
	patientFhirClient contracts.PatientFhirClient,
	patientCache *cache.InflightCache[responses.PatientRow],
	eventCache *cache.InflightCache[responses.EventDetail],
	auditRepository contracts.AuditRepository,
	eventNotifier contracts.EventNotifier,
	logger *zap.Logger,
) contracts.AllergyUsecase {
	onceAllergyUsecase.Do(func() {
		allergyUsecaseInstance = &allergyUsecase{
			AllergyFhirClient: allergyFhirClient,
			PatientFhirClient: patientFhirClient,
			PatientCache:      patientCache,
			EventCache:        eventCache,
			AuditRepository:   auditRepository,
			EventNotifier:     eventNotifier,
			Log:               logger,
		}
	})
	return allergyUsecaseInstance
}

func (uc *allergyUsecase) FetchSubstances(ctx context.Context, patientID string, options *requests.ListOptions) ([]responses.SubstanceRow, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("allergyUsecase.FetchSubstances called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	params := url.Values{}
	params.Set(constvars.FhirParamPatient, patientID)
	params.Set(constvars.FhirParamCount, constvars.FhirAllergyPageSize)
	params.Set(constvars.FhirParamSort, constvars.FhirSortLastUpdated)

	allergies, err := uc.AllergyFhirClient.SearchAllergyIntolerances(ctx, params)
	if err != nil {
		return nil, err
	}

	rows := GroupSubstances(allergies)
	if options != nil {
		rows = utils.ApplyFilters(rows, options.Filters, responses.SubstanceRow.Field)
		rows = utils.SortRows(rows, options.Sort, responses.SubstanceRow.Field)
	}

	uc.Log.Info("allergyUsecase.FetchSubstances succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("total", len(rows)),
	)
	return rows, nil
}

func (uc *allergyUsecase) FetchEvents(ctx context.Context, substanceID string, options *requests.ListOptions) ([]responses.EventRow, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("allergyUsecase.FetchEvents called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSubstanceKey, substanceID),
	)

	var allRows []responses.EventRow
	for _, id := range splitGroupIDs(substanceID) {
		allergy, err := uc.AllergyFhirClient.FindAllergyIntoleranceByID(ctx, id)
		if err != nil {
			// One unreadable resource should not blank the whole group.
			uc.Log.Warn("allergyUsecase.FetchEvents skipping resource",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAllergyIDKey, id),
				zap.Error(err),
			)
			continue
		}
		if allergy == nil {
			continue
		}
		allRows = append(allRows, ExpandReactions(allergy)...)
	}

	rows := SortEventsByOnset(allRows)
	if options != nil {
		rows = utils.ApplyFilters(rows, options.Filters, responses.EventRow.Field)
		rows = utils.SortRows(rows, options.Sort, responses.EventRow.Field)
	}

	uc.Log.Info("allergyUsecase.FetchEvents succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("total", len(rows)),
	)
	return rows, nil
}

func (uc *allergyUsecase) FetchEventByID(ctx context.Context, eventID string) (*responses.EventDetail, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	eventKey, ok := CanonicalEventKey(eventID)
	if !ok {
		return nil, exceptions.ErrEventIdentifierInvalid(fmt.Errorf("event id %q", eventID))
	}
	allergyID, seq, _ := SplitEventKey(eventKey)

	uc.Log.Info("allergyUsecase.FetchEventByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventIDKey, eventKey),
	)

	detail, found, err := uc.EventCache.GetOrFetch(ctx, eventKey, func(ctx context.Context) (responses.EventDetail, bool, error) {
		allergy, err := uc.AllergyFhirClient.FindAllergyIntoleranceByID(ctx, allergyID)
		if err != nil {
			return responses.EventDetail{}, false, err
		}
		if allergy == nil || seq > len(allergy.Reaction) {
			return responses.EventDetail{}, false, nil
		}
		return *MapEventDetail(allergy, seq, eventKey), true, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &detail, nil
}

func (uc *allergyUsecase) CreateEvent(ctx context.Context, patientID string, request *requests.CreateEvent) (*responses.CreateEventResult, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("allergyUsecase.CreateEvent called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingSubstanceKey, request.SubstanceName),
	)

	targetPatientID, patientCreated, err := uc.resolvePatient(ctx, patientID, request)
	if err != nil {
		return nil, err
	}

	reaction := buildReaction(request)
	substanceText := strings.TrimSpace(request.SubstanceName)

	existing, err := uc.findExistingAllergy(ctx, targetPatientID, substanceText)
	if err != nil {
		return nil, err
	}

	var result *responses.CreateEventResult
	if existing != nil {
		result, err = uc.appendToExisting(ctx, existing, reaction, substanceText, request)
	} else {
		result, err = uc.createNewAllergy(ctx, targetPatientID, reaction, substanceText, request)
	}
	if err != nil {
		return nil, err
	}

	uc.recordSubmission(ctx, targetPatientID, patientCreated, substanceText, result)

	uc.Log.Info("allergyUsecase.CreateEvent succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventIDKey, result.ID),
	)
	return result, nil
}

// resolvePatient returns the target patient id, creating the Patient resource
// when the submission addresses a new patient.
func (uc *allergyUsecase) resolvePatient(ctx context.Context, patientID string, request *requests.CreateEvent) (string, bool, error) {
	if patientID != "" && patientID != constvars.NewPatientPlaceholder {
		return patientID, false, nil
	}

	newPatient := buildNewPatient(request)
	created, err := uc.PatientFhirClient.CreatePatient(ctx, newPatient)
	if err != nil {
		return "", false, err
	}
	if created.ID != "" {
		uc.PatientCache.Put(created.ID, patients.MapPatientToRow(created))
	}
	return created.ID, true, nil
}

func buildNewPatient(request *requests.CreateEvent) *fhir_dto.Patient {
	fullName := strings.TrimSpace(request.PatientName)
	given := fullName
	family := ""
	if given == "" {
		given = "New Patient"
	}
	if fullName != "" && strings.ContainsAny(fullName, " \t") {
		parts := strings.Fields(fullName)
		family = parts[len(parts)-1]
		given = strings.Join(parts[:len(parts)-1], " ")
		if given == "" {
			given = parts[0]
		}
	}

	var identifiers []fhir_dto.Identifier
	if urn := utils.NormalizeIdentifierValue(request.URN); urn != "" {
		identifiers = append(identifiers,
			fhir_dto.Identifier{System: constvars.FhirSystemURN, Value: urn},
			fhir_dto.Identifier{System: constvars.FhirSystemURNLegacy, Value: urn},
		)
	}
	if medicare := utils.NormalizeIdentifierValue(request.MedicareID); medicare != "" {
		identifiers = append(identifiers,
			fhir_dto.Identifier{System: constvars.FhirSystemMedicare, Value: medicare},
			fhir_dto.Identifier{System: constvars.FhirSystemMedicareLegacy, Value: medicare},
		)
	}

	nameText := fullName
	if nameText == "" {
		nameText = given
	}
	name := fhir_dto.HumanName{
		Use:   "official",
		Text:  nameText,
		Given: []string{given},
	}
	if family != "" {
		name.Family = family
	}

	return &fhir_dto.Patient{
		ResourceType: constvars.ResourcePatient,
		Identifier:   identifiers,
		Name:         []fhir_dto.HumanName{name},
		Gender:       strings.ToLower(strings.TrimSpace(request.Gender)),
		BirthDate:    request.DOB,
	}
}

func buildReaction(request *requests.CreateEvent) fhir_dto.AllergyReaction {
	onsetSource := request.ReactionStartTime
	if onsetSource == "" {
		onsetSource = request.LastOnset
	}
	if onsetSource == "" {
		onsetSource = request.EventDate
	}

	var manifestations []fhir_dto.Manifestation
	for _, item := range request.Manifestations {
		if item.IsEmpty() {
			continue
		}
		manifestations = append(manifestations, buildManifestation(item))
	}

	return fhir_dto.AllergyReaction{
		Onset:         utils.ToFHIRDateTime(onsetSource),
		Severity:      severityCodeMap[request.Severity],
		Manifestation: manifestations,
		Note:          BuildReactionNotes(request),
	}
}

// buildManifestation keeps bare symptom strings as text and synthesizes a
// SNOMED-system coding for coded items without an explicit system.
func buildManifestation(item requests.ManifestationInput) fhir_dto.Manifestation {
	text := item.Text
	if text == "" {
		text = item.Display
	}
	if text == "" {
		text = item.Code
	}

	manifestation := fhir_dto.Manifestation{Text: text}
	if item.Code != "" {
		system := item.System
		if system == "" {
			system = item.CodingSystem
		}
		if system == "" {
			system = constvars.FhirSystemSNOMED
		}
		display := item.Display
		if display == "" {
			display = text
		}
		manifestation.Coding = []fhir_dto.Coding{{
			System:  system,
			Code:    item.Code,
			Display: display,
		}}
	}
	return manifestation
}

// findExistingAllergy searches the patient's resources by code text and
// matches the substance against code.text or any coding display/code,
// case-insensitively.
func (uc *allergyUsecase) findExistingAllergy(ctx context.Context, patientID, substanceText string) (*fhir_dto.AllergyIntolerance, error) {
	params := url.Values{}
	params.Set(constvars.FhirParamPatient, patientID)
	params.Set(constvars.FhirParamCount, constvars.FhirAllergyFindLimit)
	if substanceText != "" {
		params.Set(constvars.FhirParamCodeText, substanceText)
	}

	candidates, err := uc.AllergyFhirClient.SearchAllergyIntolerances(ctx, params)
	if err != nil {
		return nil, err
	}

	loweredSubstance := strings.ToLower(substanceText)
	for i := range candidates {
		candidate := &candidates[i]
		if candidate.Code == nil {
			continue
		}
		if strings.ToLower(strings.TrimSpace(candidate.Code.Text)) == loweredSubstance {
			return candidate, nil
		}
		for _, coding := range candidate.Code.Coding {
			label := coding.Display
			if label == "" {
				label = coding.Code
			}
			if strings.ToLower(strings.TrimSpace(label)) == loweredSubstance {
				return candidate, nil
			}
		}
	}
	return nil, nil
}

func (uc *allergyUsecase) appendToExisting(ctx context.Context, found *fhir_dto.AllergyIntolerance, reaction fhir_dto.AllergyReaction, substanceText string, request *requests.CreateEvent) (*responses.CreateEventResult, error) {
	// Re-read the full resource so the PUT is not based on a search-result
	// projection, and so meta.versionId is fresh for the conditional update.
	allergy, err := uc.AllergyFhirClient.FindAllergyIntoleranceByID(ctx, found.ID)
	if err != nil {
		return nil, err
	}
	if allergy == nil {
		return nil, exceptions.ErrEventNotFound(fmt.Errorf("allergy %s vanished between search and read", found.ID))
	}

	allergy.Reaction = append(allergy.Reaction, reaction)
	allergy.PatientInstruction = strings.TrimSpace(request.PatientMustAvoid)

	inferred := inferAllergyCategory(firstNonEmpty(substanceText, substanceLabel(allergy.Code)))
	if inferred != "" {
		allergy.Category = mergeCategory(allergy.Category, inferred)
	}
	if allergy.Type == "" {
		allergy.Type = constvars.FhirAllergyTypeAllergy
	}

	applyStatuses(allergy, request)

	updated, err := uc.AllergyFhirClient.UpdateAllergyIntolerance(ctx, allergy)
	if err != nil {
		return nil, err
	}

	uc.EventCache.InvalidatePrefix(updated.ID + "#")
	return &responses.CreateEventResult{
		ID:          fmt.Sprintf("%s#%d", updated.ID, len(allergy.Reaction)),
		SubstanceID: updated.ID,
	}, nil
}

func (uc *allergyUsecase) createNewAllergy(ctx context.Context, patientID string, reaction fhir_dto.AllergyReaction, substanceText string, request *requests.CreateEvent) (*responses.CreateEventResult, error) {
	codeText := substanceText
	if codeText == "" {
		codeText = "Unknown substance"
	}

	allergy := &fhir_dto.AllergyIntolerance{
		ResourceType:       constvars.ResourceAllergyIntolerance,
		Patient:            &fhir_dto.Reference{Reference: constvars.ResourcePatient + "/" + patientID},
		Code:               &fhir_dto.CodeableConcept{Text: codeText},
		Type:               constvars.FhirAllergyTypeAllergy,
		Reaction:           []fhir_dto.AllergyReaction{reaction},
		PatientInstruction: strings.TrimSpace(request.PatientMustAvoid),
		RecordedDate:       utils.ToFHIRDateTime(request.EventDate),
	}
	if inferred := inferAllergyCategory(substanceText); inferred != "" {
		allergy.Category = []string{inferred}
	}
	applyStatuses(allergy, request)

	created, err := uc.AllergyFhirClient.CreateAllergyIntolerance(ctx, allergy)
	if err != nil {
		return nil, err
	}

	uc.EventCache.InvalidatePrefix(created.ID + "#")
	return &responses.CreateEventResult{
		ID:          created.ID + "#1",
		SubstanceID: created.ID,
	}, nil
}

// applyStatuses writes verification, criticality and clinical status onto the
// resource. A normalized Delabeled sets clinicalStatus resolved and clears the
// criticality code; a mapped canonical label sets the code and clears any
// clinical status; anything else clears both.
func applyStatuses(allergy *fhir_dto.AllergyIntolerance, request *requests.CreateEvent) {
	if code, ok := verificationCodeMap[request.VerificationStatus]; ok {
		allergy.VerificationStatus = &fhir_dto.CodeableConcept{
			Coding: []fhir_dto.Coding{{System: constvars.FhirSystemAllergyVerification, Code: code}},
		}
	}

	normalized := utils.NormalizeCriticality(request.Criticality)
	switch normalized {
	case utils.CriticalityDelabeled:
		allergy.ClinicalStatus = &fhir_dto.CodeableConcept{
			Coding: []fhir_dto.Coding{{System: constvars.FhirSystemAllergyClinicalStatus, Code: constvars.FhirClinicalStatusResolved}},
		}
		allergy.Criticality = ""
	case utils.CriticalityHighRisk, utils.CriticalityLowRisk:
		code, _ := utils.CriticalityToCode(normalized)
		allergy.Criticality = code
		allergy.ClinicalStatus = nil
	default:
		allergy.Criticality = ""
		allergy.ClinicalStatus = nil
	}
}

func (uc *allergyUsecase) recordSubmission(ctx context.Context, patientID string, patientCreated bool, substanceText string, result *responses.CreateEventResult) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	submittedBy := ""
	if session, ok := ctx.Value(constvars.CONTEXT_SESSION_DATA_KEY).(*models.Session); ok && session != nil {
		submittedBy = session.DisplayName
	}

	// Audit and notification are best-effort: the FHIR write already
	// succeeded, so their failures are logged and swallowed.
	if patientCreated {
		if err := uc.AuditRepository.RecordSubmission(ctx, &models.EventAudit{
			RequestID:   requestID,
			Action:      constvars.AuditActionPatientCreated,
			PatientID:   patientID,
			SubmittedBy: submittedBy,
		}); err != nil {
			uc.Log.Warn("allergyUsecase.CreateEvent audit write failed", zap.String(constvars.LoggingRequestIDKey, requestID), zap.Error(err))
		}
	}
	if err := uc.AuditRepository.RecordSubmission(ctx, &models.EventAudit{
		RequestID:   requestID,
		Action:      constvars.AuditActionEventCreated,
		PatientID:   patientID,
		AllergyID:   result.SubstanceID,
		EventID:     result.ID,
		Substance:   substanceText,
		SubmittedBy: submittedBy,
	}); err != nil {
		uc.Log.Warn("allergyUsecase.CreateEvent audit write failed", zap.String(constvars.LoggingRequestIDKey, requestID), zap.Error(err))
	}

	if err := uc.EventNotifier.PublishEventRecorded(ctx, &models.EventNotification{
		Event:       constvars.EventRecordedNotificationEvent,
		EventID:     result.ID,
		PatientID:   patientID,
		SubstanceID: result.SubstanceID,
		Substance:   substanceText,
		RecordedAt:  time.Now(),
	}); err != nil {
		uc.Log.Warn("allergyUsecase.CreateEvent notification publish failed", zap.String(constvars.LoggingRequestIDKey, requestID), zap.Error(err))
	}

	utils.LogBusinessEvent(uc.Log, constvars.AuditActionEventCreated, requestID,
		zap.String(constvars.LoggingEventIDKey, result.ID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingSubstanceKey, substanceText),
	)
}

func inferAllergyCategory(substanceName string) string {
	lowered := strings.ToLower(strings.TrimSpace(substanceName))
	if lowered == "" {
		return ""
	}
	for _, category := range []string{constvars.FhirAllergyCategoryMedication, constvars.FhirAllergyCategoryFood} {
		for _, keyword := range allergyCategoryKeywords[category] {
			if strings.Contains(lowered, keyword) {
				return category
			}
		}
	}
	return ""
}

func mergeCategory(categories []string, category string) []string {
	for _, existing := range categories {
		if existing == category {
			return categories
		}
	}
	return append(categories, category)
}

func splitGroupIDs(substanceID string) []string {
	var ids []string
	for _, id := range strings.Split(substanceID, ",") {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
