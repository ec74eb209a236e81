package edges

import (
	"fmt"

	"github.com/google/uuid"

	"sarscov2kg/domain/core/nodes"
)

// Canned constructors for relationships that recur across research sessions.

// MutationToImmuneEscape asserts that a mutation enables immune escape.
func MutationToImmuneEscape(mutationID, immuneID uuid.UUID, mutationName string, evidence []string, strength float64) (Edge, error) {
	return NewCausal(
		mutationID,
		immuneID,
		fmt.Sprintf("%s -> immune escape", mutationName),
		nodes.DomainGenomics,
		nodes.DomainImmunology,
		evidence,
		strength,
	)
}

// TreatmentToOutcome associates a therapy with reduced hospitalization.
func TreatmentToOutcome(treatmentID, outcomeID uuid.UUID, treatmentName string, evidence []string, correlation float64) (Edge, error) {
	return NewCorrelative(
		treatmentID,
		outcomeID,
		fmt.Sprintf("%s -> reduced hospitalization", treatmentName),
		nodes.DomainTreatment,
		nodes.DomainPublicHealth,
		evidence,
		correlation,
	)
}

// VariantToTransmissibility asserts that a variant increases transmissibility.
func VariantToTransmissibility(variantID, virologyID uuid.UUID, variantName string, evidence []string, strength float64) (Edge, error) {
	return NewCausal(
		variantID,
		virologyID,
		fmt.Sprintf("%s -> increased transmissibility", variantName),
		nodes.DomainGenomics,
		nodes.DomainVirology,
		evidence,
		strength,
	)
}

// PolicyToTransmission associates a policy with reduced transmission.
func PolicyToTransmission(policyID, outcomeID uuid.UUID, policyName string, evidence []string, correlation float64) (Edge, error) {
	return NewCorrelative(
		policyID,
		outcomeID,
		fmt.Sprintf("%s -> reduced transmission", policyName),
		nodes.DomainPublicHealth,
		nodes.DomainVirology,
		evidence,
		correlation,
	)
}
