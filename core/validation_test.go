package core

import (
	"errors"
	"testing"
)

func validRecord() *CodeRecord {
	return &CodeRecord{
		Id:              IDFromRef(CodeSystemICD10CM, "I10", 2025),
		Code:            "I10",
		System:          CodeSystemICD10CM,
		VersionYear:     2025,
		ParaphrasedText: "High blood pressure without a known secondary cause",
		License:         LicenseRestricted,
		Category:        "Diseases of the circulatory system",
		IsActive:        true,
	}
}

func TestValidateCodeRecord(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CodeRecord)
		nilRec  bool
		wantErr error
	}{
		{
			name:   "valid record",
			mutate: func(r *CodeRecord) {},
		},
		{
			name:   "valid record without vector",
			mutate: func(r *CodeRecord) { r.Vector = nil },
		},
		{
			name:   "valid record without restricted text",
			mutate: func(r *CodeRecord) { r.RestrictedText = "" },
		},
		{
			name:    "nil record",
			nilRec:  true,
			wantErr: ErrInvalidCodeRecord,
		},
		{
			name:    "empty code",
			mutate:  func(r *CodeRecord) { r.Code = "   " },
			wantErr: ErrEmptyCode,
		},
		{
			name:    "any system is not a concrete system",
			mutate:  func(r *CodeRecord) { r.System = CodeSystemAny },
			wantErr: ErrUnknownCodeSystem,
		},
		{
			name:    "unknown system",
			mutate:  func(r *CodeRecord) { r.System = CodeSystem(99) },
			wantErr: ErrUnknownCodeSystem,
		},
		{
			name:    "empty paraphrased text",
			mutate:  func(r *CodeRecord) { r.ParaphrasedText = "" },
			wantErr: ErrEmptyText,
		},
		{
			name:    "invalid license status",
			mutate:  func(r *CodeRecord) { r.License = LicenseStatus(0) },
			wantErr: ErrInvalidLicenseStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var record *CodeRecord
			if !tt.nilRec {
				record = validRecord()
				tt.mutate(record)
			}

			err := ValidateCodeRecord(record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCodeRecord() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCodeRecord() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidCodeRecord) {
				t.Errorf("ValidateCodeRecord() error %v does not wrap ErrInvalidCodeRecord", err)
			}
		})
	}
}

func TestValidateMappingEdge(t *testing.T) {
	valid := MappingEdge{
		FromSystem: CodeSystemICD10CM,
		FromCode:   "I10",
		ToSystem:   CodeSystemCPT,
		ToCode:     "99213",
		Type:       MapClinical,
		Confidence: 0.8,
	}

	tests := []struct {
		name    string
		mutate  func(*MappingEdge)
		nilEdge bool
		wantErr error
	}{
		{
			name:   "valid edge",
			mutate: func(e *MappingEdge) {},
		},
		{
			name:   "confidence bounds are inclusive",
			mutate: func(e *MappingEdge) { e.Confidence = 1.0 },
		},
		{
			name:    "nil edge",
			nilEdge: true,
			wantErr: ErrInvalidMapping,
		},
		{
			name:    "empty from code",
			mutate:  func(e *MappingEdge) { e.FromCode = "" },
			wantErr: ErrEmptyCode,
		},
		{
			name:    "unknown to system",
			mutate:  func(e *MappingEdge) { e.ToSystem = CodeSystemAny },
			wantErr: ErrUnknownCodeSystem,
		},
		{
			name:    "invalid map type",
			mutate:  func(e *MappingEdge) { e.Type = MapType(0) },
			wantErr: ErrInvalidMapType,
		},
		{
			name:    "confidence above range",
			mutate:  func(e *MappingEdge) { e.Confidence = 1.5 },
			wantErr: ErrConfidenceOutOfRange,
		},
		{
			name:    "confidence below range",
			mutate:  func(e *MappingEdge) { e.Confidence = -0.1 },
			wantErr: ErrConfidenceOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var edge *MappingEdge
			if !tt.nilEdge {
				e := valid
				tt.mutate(&e)
				edge = &e
			}

			err := ValidateMappingEdge(edge)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateMappingEdge() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateMappingEdge() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateVectorDimension(t *testing.T) {
	if err := ValidateVectorDimension(nil, 768); err != nil {
		t.Errorf("nil vector should always validate, got %v", err)
	}
	if err := ValidateVectorDimension(make([]float32, 768), 768); err != nil {
		t.Errorf("matching dimension should validate, got %v", err)
	}
	if err := ValidateVectorDimension(make([]float32, 384), 768); !errors.Is(err, ErrVectorDimension) {
		t.Errorf("mismatched dimension error = %v, want ErrVectorDimension", err)
	}
	if err := ValidateVectorDimension(make([]float32, 384), 0); err != nil {
		t.Errorf("unconfigured dimension should validate any length, got %v", err)
	}
}
