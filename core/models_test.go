package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "1:I10:2025",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "3:99213:2024 office visit established patient low complexity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("1:I10:2025")
	id2 := IDFromContent("1:I11:2025")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestIDFromRef(t *testing.T) {
	tests := []struct {
		name     string
		system   CodeSystem
		code     string
		year     int
		wantSame struct {
			system CodeSystem
			code   string
			year   int
		}
		equal bool
	}{
		{
			name:   "code case is normalized",
			system: CodeSystemICD10CM,
			code:   "i10",
			year:   2025,
			wantSame: struct {
				system CodeSystem
				code   string
				year   int
			}{CodeSystemICD10CM, "I10", 2025},
			equal: true,
		},
		{
			name:   "different systems diverge",
			system: CodeSystemCPT,
			code:   "99213",
			year:   2025,
			wantSame: struct {
				system CodeSystem
				code   string
				year   int
			}{CodeSystemHCPCS, "99213", 2025},
			equal: false,
		},
		{
			name:   "different years diverge",
			system: CodeSystemICD10CM,
			code:   "E11.9",
			year:   2024,
			wantSame: struct {
				system CodeSystem
				code   string
				year   int
			}{CodeSystemICD10CM, "E11.9", 2025},
			equal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := IDFromRef(tt.system, tt.code, tt.year)
			b := IDFromRef(tt.wantSame.system, tt.wantSame.code, tt.wantSame.year)
			if (a == b) != tt.equal {
				t.Errorf("IDFromRef() equality = %v, want %v", a == b, tt.equal)
			}
		})
	}
}

func TestCodeRecord_Ref(t *testing.T) {
	record := CodeRecord{
		Code:        " i10 ",
		System:      CodeSystemICD10CM,
		VersionYear: 2025,
	}
	want := "1:I10:2025"
	if got := record.Ref(); got != want {
		t.Errorf("CodeRecord.Ref() = %v, want %v", got, want)
	}
}

func TestCodeRecord_HasVector(t *testing.T) {
	record := CodeRecord{}
	if record.HasVector() {
		t.Error("HasVector() = true for nil vector")
	}
	record.Vector = []float32{0.1, 0.2}
	if !record.HasVector() {
		t.Error("HasVector() = false for populated vector")
	}
}

func TestParseCodeSystem(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    CodeSystem
		wantErr bool
	}{
		{name: "empty means any", input: "", want: CodeSystemAny},
		{name: "any", input: "any", want: CodeSystemAny},
		{name: "icd10cm", input: "icd10cm", want: CodeSystemICD10CM},
		{name: "dashed alias", input: "ICD-10-CM", want: CodeSystemICD10CM},
		{name: "cpt", input: "cpt", want: CodeSystemCPT},
		{name: "hcpcs", input: "HCPCS", want: CodeSystemHCPCS},
		{name: "unknown", input: "snomed", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCodeSystem(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseCodeSystem() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCodeSystem() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseCodeSystem() = %v, want %v", got, tt.want)
			}
		})
	}
}
