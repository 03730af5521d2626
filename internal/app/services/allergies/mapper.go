package allergies

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/dto/responses"
	"allergy-register-service/internal/pkg/fhir_dto"
	"allergy-register-service/internal/pkg/utils"
)

// GroupSubstances folds the patient's AllergyIntolerance resources into one
// row per substance, keyed by lower-cased code text. The display name keeps
// the original casing of the first-seen resource in each group.
func GroupSubstances(allergies []fhir_dto.AllergyIntolerance) []responses.SubstanceRow {
	type substanceGroup struct {
		name  string
		items []*fhir_dto.AllergyIntolerance
	}
	groups := map[string]*substanceGroup{}
	var order []string

	for i := range allergies {
		allergy := &allergies[i]
		name := strings.TrimSpace(substanceLabel(allergy.Code))
		key := strings.ToLower(name)
		if key == "" {
			key = "unknown"
		}
		if groups[key] == nil {
			groups[key] = &substanceGroup{name: name}
			order = append(order, key)
		}
		groups[key].items = append(groups[key].items, allergy)
	}

	rows := make([]responses.SubstanceRow, 0, len(order))
	for _, key := range order {
		group := groups[key]

		totalReactions := 0
		var lastReport time.Time
		var lastReportRaw string
		for _, allergy := range group.items {
			totalReactions += len(allergy.Reaction)
			candidates := make([]string, 0, len(allergy.Reaction)+2)
			for _, reaction := range allergy.Reaction {
				candidates = append(candidates, reaction.Onset)
			}
			candidates = append(candidates, allergy.RecordedDate)
			if allergy.Meta != nil {
				candidates = append(candidates, allergy.Meta.LastUpdated)
			}
			for _, candidate := range candidates {
				parsed, ok := utils.ParseFlexibleTime(candidate)
				if !ok {
					continue
				}
				if lastReportRaw == "" || parsed.After(lastReport) {
					lastReport = parsed
					lastReportRaw = candidate
				}
			}
		}

		representative := representativeResource(group.items)

		name := group.name
		if name == "" {
			name = "Unknown"
		}
		ids := make([]string, 0, len(group.items))
		for _, allergy := range group.items {
			ids = append(ids, allergy.ID)
		}

		rows = append(rows, responses.SubstanceRow{
			ID:                 strings.Join(ids, ","),
			Name:               name,
			EventsCount:        totalReactions,
			VerificationStatus: verificationDisplay(representative),
			Criticality:        utils.NormalizeCriticality(rawCriticality(representative)),
			LastReportDate:     utils.DateOnly(lastReportRaw),
			GroupIDs:           ids,
		})
	}
	return rows
}

// ExpandReactions turns each reaction of one resource into an event row. The
// row id carries the per-resource local index; the global seq is assigned
// later, after rows from every resource in the group are merged.
func ExpandReactions(allergy *fhir_dto.AllergyIntolerance) []responses.EventRow {
	substanceName := substanceLabel(allergy.Code)
	if substanceName == "" {
		substanceName = "Unknown"
	}

	rows := make([]responses.EventRow, 0, len(allergy.Reaction))
	for localIdx, reaction := range allergy.Reaction {
		parsed := ParseReactionNotes(reaction.Note)

		treatingDoctor := parsed.TreatingDoctor
		if treatingDoctor == "" && allergy.Asserter != nil {
			treatingDoctor = allergy.Asserter.Display
		}
		mustAvoid := parsed.PatientMustAvoid
		if mustAvoid == "" {
			mustAvoid = allergy.PatientInstruction
		}
		riskSubstance := parsed.RiskSubstanceName
		if riskSubstance == "" {
			riskSubstance = substanceName
		}
		severity := parsed.Severity
		if severity == "" {
			severity = reaction.Severity
		}

		rows = append(rows, responses.EventRow{
			ID:                       fmt.Sprintf("%s#%d", allergy.ID, localIdx+1),
			SubstanceID:              allergy.ID,
			SubstanceName:            substanceName,
			Date:                     reaction.Onset,
			Notes:                    summaryNotes(parsed, mustAvoid),
			TreatingDoctor:           treatingDoctor,
			DoctorRole:               parsed.DoctorRole,
			RiskSubstanceName:        riskSubstance,
			VerificationStatus:       verificationCode(allergy),
			Criticality:              utils.NormalizeCriticality(rawCriticality(allergy)),
			ReactionStartTime:        reaction.Onset,
			Manifestations:           manifestationLabels(reaction.Manifestation),
			ClinicalManagement:       parsed.ClinicalManagement,
			AutoInjectorPrescribed:   parsed.AutoInjectorPrescribed,
			PatientMustAvoid:         mustAvoid,
			TestResults:              parsed.TestResults,
			TestMethod:               parsed.TestMethod,
			Outcome:                  parsed.Outcome,
			Comments:                 parsed.Comments,
			Severity:                 severity,
			InitialExposureTime:      parsed.InitialExposureTime,
			ReactionOnsetDescription: parsed.ReactionOnsetDescription,
			FirstOnset:               parsed.FirstReactionOnset,
			LastOnset:                reaction.Onset,
		})
	}
	return rows
}

// MapEventDetail projects one reaction into the single-event view. eventKey is
// the canonical composite id the caller resolved.
func MapEventDetail(allergy *fhir_dto.AllergyIntolerance, seq int, eventKey string) *responses.EventDetail {
	reaction := allergy.Reaction[seq-1]
	parsed := ParseReactionNotes(reaction.Note)

	substanceName := substanceLabel(allergy.Code)
	if substanceName == "" {
		substanceName = "Unknown"
	}
	mustAvoid := parsed.PatientMustAvoid
	if mustAvoid == "" {
		mustAvoid = allergy.PatientInstruction
	}
	riskSubstance := parsed.RiskSubstanceName
	if riskSubstance == "" {
		riskSubstance = substanceName
	}
	firstOnset := parsed.FirstReactionOnset
	if firstOnset == "" {
		firstOnset = parsed.InitialExposureTime
	}

	date := allergy.RecordedDate
	if date == "" && allergy.Meta != nil {
		date = allergy.Meta.LastUpdated
	}

	return &responses.EventDetail{
		ID:                       eventKey,
		PatientID:                patientIDFromReference(allergy.Patient),
		Seq:                      seq,
		SubstanceID:              allergy.ID,
		SubstanceName:            substanceName,
		Date:                     date,
		TreatingDoctor:           parsed.TreatingDoctor,
		DoctorRole:               parsed.DoctorRole,
		Notes:                    strings.Join(parsed.FreeNotes, "; "),
		ClinicalManagement:       parsed.ClinicalManagement,
		ReactionStartTime:        reaction.Onset,
		ReactionOnsetDescription: parsed.ReactionOnsetDescription,
		Manifestations:           manifestationLabels(reaction.Manifestation),
		VerificationStatus:       verificationDisplay(allergy),
		Criticality:              utils.NormalizeCriticality(rawCriticality(allergy)),
		Severity:                 parsed.Severity,
		TestMethod:               parsed.TestMethod,
		Outcome:                  parsed.Outcome,
		Comments:                 parsed.Comments,
		RiskSubstanceName:        riskSubstance,
		InitialExposureTime:      parsed.InitialExposureTime,
		FirstReactionOnset:       firstOnset,
		FirstOnset:               firstOnset,
		LastOnset:                reaction.Onset,
		AutoInjectorPrescribed:   parsed.AutoInjectorPrescribed,
		TestResults:              parsed.TestResults,
		PatientMustAvoid:         mustAvoid,
	}
}

// summaryNotes builds the table's condensed notes column out of the decoded
// fields, in the display order the event table expects.
func summaryNotes(parsed ReactionDetails, mustAvoid string) string {
	var parts []string
	if parsed.ClinicalManagement != "" {
		parts = append(parts, "Clinical management: "+parsed.ClinicalManagement)
	}
	if parsed.TestResults != "" {
		parts = append(parts, "Test results: "+parsed.TestResults)
	}
	if mustAvoid != "" {
		parts = append(parts, "Must avoid: "+mustAvoid)
	}
	if parsed.Comments != "" {
		parts = append(parts, "Comments: "+parsed.Comments)
	}
	return strings.Join(parts, "; ")
}

// SortEventsByOnset assigns the global 1..N sequence over all expanded rows,
// ordered by ascending onset. Rows without a parseable onset sort as the
// epoch, so undated events come first.
func SortEventsByOnset(rows []responses.EventRow) []responses.EventRow {
	sort.SliceStable(rows, func(i, j int) bool {
		return onsetEpoch(rows[i].Date).Before(onsetEpoch(rows[j].Date))
	})
	for i := range rows {
		rows[i].Seq = i + 1
	}
	return rows
}

func onsetEpoch(value string) time.Time {
	if parsed, ok := utils.ParseFlexibleTime(value); ok {
		return parsed
	}
	return time.Unix(0, 0)
}

func substanceLabel(code *fhir_dto.CodeableConcept) string {
	if code == nil {
		return ""
	}
	if code.Text != "" {
		return code.Text
	}
	if len(code.Coding) > 0 {
		if code.Coding[0].Display != "" {
			return code.Coding[0].Display
		}
		return code.Coding[0].Code
	}
	return ""
}

func manifestationLabels(manifestations []fhir_dto.Manifestation) []string {
	labels := make([]string, 0, len(manifestations))
	for _, manifestation := range manifestations {
		if label := manifestation.Label(); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// rawCriticality resolves the pre-normalization criticality: a resolved
// clinical status signals "delabeled" regardless of the stored code.
func rawCriticality(allergy *fhir_dto.AllergyIntolerance) string {
	if clinicalStatusCode(allergy) == constvars.FhirClinicalStatusResolved {
		return "delabeled"
	}
	if allergy.Criticality != "" {
		return allergy.Criticality
	}
	return constvars.FhirCriticalityUnableToAssess
}

func clinicalStatusCode(allergy *fhir_dto.AllergyIntolerance) string {
	if allergy.ClinicalStatus != nil && len(allergy.ClinicalStatus.Coding) > 0 {
		return allergy.ClinicalStatus.Coding[0].Code
	}
	return ""
}

// verificationDisplay falls back from the coded form to free text to
// "unknown".
func verificationDisplay(allergy *fhir_dto.AllergyIntolerance) string {
	if allergy.VerificationStatus != nil {
		if len(allergy.VerificationStatus.Coding) > 0 && allergy.VerificationStatus.Coding[0].Code != "" {
			return allergy.VerificationStatus.Coding[0].Code
		}
		if allergy.VerificationStatus.Text != "" {
			return allergy.VerificationStatus.Text
		}
	}
	return "unknown"
}

func verificationCode(allergy *fhir_dto.AllergyIntolerance) string {
	if allergy.VerificationStatus != nil && len(allergy.VerificationStatus.Coding) > 0 && allergy.VerificationStatus.Coding[0].Code != "" {
		return allergy.VerificationStatus.Coding[0].Code
	}
	return "unknown"
}

// representativeResource is the most recently updated resource of a group,
// ties broken by original order.
func representativeResource(items []*fhir_dto.AllergyIntolerance) *fhir_dto.AllergyIntolerance {
	representative := items[0]
	representativeTime := lastUpdatedEpoch(representative)
	for _, item := range items[1:] {
		if itemTime := lastUpdatedEpoch(item); itemTime.After(representativeTime) {
			representative = item
			representativeTime = itemTime
		}
	}
	return representative
}

func lastUpdatedEpoch(allergy *fhir_dto.AllergyIntolerance) time.Time {
	if allergy.Meta == nil {
		return time.Unix(0, 0)
	}
	return onsetEpoch(allergy.Meta.LastUpdated)
}

func patientIDFromReference(reference *fhir_dto.Reference) string {
	if reference == nil {
		return ""
	}
	ref := reference.Reference
	if idx := strings.LastIndex(ref, "/"); idx >= 0 {
		return ref[idx+1:]
	}
	return ref
}
