// Copyright 2025 The medcodeapi authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateCodeRecord validates a CodeRecord according to domain rules.
//
// Validation rules:
//   - Code must not be empty
//   - System must be a concrete code system (not CodeSystemAny)
//   - ParaphrasedText must not be empty
//   - License must be a valid LicenseStatus
//
// NOT validated (populated by collaborators):
//   - Vector (nil until the embedding collaborator runs)
//   - RestrictedText (empty when no license is held)
//   - Facets (keys are fixed per code system upstream)
func ValidateCodeRecord(record *CodeRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidCodeRecord)
	}

	if NormalizeCode(record.Code) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCodeRecord, ErrEmptyCode)
	}

	if err := ValidateCodeSystem(record.System); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCodeRecord, err)
	}

	if record.ParaphrasedText == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCodeRecord, ErrEmptyText)
	}

	if err := ValidateLicenseStatus(record.License); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCodeRecord, err)
	}

	return nil
}

// ValidateMappingEdge validates a MappingEdge according to domain rules.
//
// Validation rules:
//   - Both endpoints must name a concrete code system and a non-empty code
//   - Type must be a valid MapType
//   - Confidence must be in [0,1]
func ValidateMappingEdge(edge *MappingEdge) error {
	if edge == nil {
		return fmt.Errorf("%w: edge is nil", ErrInvalidMapping)
	}

	if NormalizeCode(edge.FromCode) == "" || NormalizeCode(edge.ToCode) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMapping, ErrEmptyCode)
	}

	if err := ValidateCodeSystem(edge.FromSystem); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}
	if err := ValidateCodeSystem(edge.ToSystem); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}

	if err := ValidateMapType(edge.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}

	if edge.Confidence < 0 || edge.Confidence > 1 {
		return fmt.Errorf("%w: %w: %f", ErrInvalidMapping, ErrConfidenceOutOfRange, edge.Confidence)
	}

	return nil
}

// ValidateCodeSystem validates that a CodeSystem names a concrete system.
func ValidateCodeSystem(system CodeSystem) error {
	switch system {
	case CodeSystemICD10CM, CodeSystemICD10PCS, CodeSystemCPT, CodeSystemHCPCS:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrUnknownCodeSystem, system)
	}
}

// ValidateLicenseStatus validates that a LicenseStatus has a valid value.
func ValidateLicenseStatus(status LicenseStatus) error {
	if status != LicenseOpen && status != LicenseRestricted {
		return fmt.Errorf("%w: value %d", ErrInvalidLicenseStatus, status)
	}
	return nil
}

// ValidateMapType validates that a MapType has a valid value.
func ValidateMapType(t MapType) error {
	if t < MapExact || t > MapClinical {
		return fmt.Errorf("%w: value %d", ErrInvalidMapType, t)
	}
	return nil
}

// ValidateVectorDimension checks a non-nil embedding against the deployment's
// fixed dimension. A nil vector is always valid ("not yet embedded").
func ValidateVectorDimension(vector []float32, dimension int) error {
	if len(vector) == 0 {
		return nil
	}
	if dimension > 0 && len(vector) != dimension {
		return fmt.Errorf("%w: got %d, want %d", ErrVectorDimension, len(vector), dimension)
	}
	return nil
}
