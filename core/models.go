package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing, so re-ingesting the same
// catalog row always resolves to the same record.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// IDFromRef generates the ID for a code record from its natural key
// (code system, code, version year).
func IDFromRef(system CodeSystem, code string, versionYear int) ID {
	return IDFromContent(RefKey(system, code, versionYear))
}

// NormalizeCode canonicalizes a code identifier: trimmed and uppercased.
// Codes are case-insensitive across all supported code systems.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// RefKey returns the canonical string form of a record's natural key,
// "system:CODE:year".
func RefKey(system CodeSystem, code string, versionYear int) string {
	return fmt.Sprintf("%d:%s:%d", int(system), NormalizeCode(code), versionYear)
}

// CodeSystem identifies the code family a record belongs to.
// The zero value means "any system" in query positions and is invalid on records.
type CodeSystem int

const (
	// CodeSystemAny matches every code system in query positions.
	CodeSystemAny CodeSystem = 0
	// CodeSystemICD10CM represents ICD-10-CM diagnosis codes.
	CodeSystemICD10CM CodeSystem = 1
	// CodeSystemICD10PCS represents ICD-10-PCS procedural diagnosis codes.
	CodeSystemICD10PCS CodeSystem = 2
	// CodeSystemCPT represents CPT procedure codes.
	CodeSystemCPT CodeSystem = 3
	// CodeSystemHCPCS represents HCPCS procedure codes.
	CodeSystemHCPCS CodeSystem = 4
)

// KnownCodeSystems lists every concrete code system, in stable order.
var KnownCodeSystems = []CodeSystem{
	CodeSystemICD10CM,
	CodeSystemICD10PCS,
	CodeSystemCPT,
	CodeSystemHCPCS,
}

// String returns the conventional short name for the code system.
func (s CodeSystem) String() string {
	switch s {
	case CodeSystemAny:
		return "any"
	case CodeSystemICD10CM:
		return "icd10cm"
	case CodeSystemICD10PCS:
		return "icd10pcs"
	case CodeSystemCPT:
		return "cpt"
	case CodeSystemHCPCS:
		return "hcpcs"
	default:
		return fmt.Sprintf("codesystem(%d)", int(s))
	}
}

// ParseCodeSystem resolves a short name to a CodeSystem.
// Returns CodeSystemAny for "" or "any".
func ParseCodeSystem(name string) (CodeSystem, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "any":
		return CodeSystemAny, nil
	case "icd10cm", "icd-10-cm":
		return CodeSystemICD10CM, nil
	case "icd10pcs", "icd-10-pcs":
		return CodeSystemICD10PCS, nil
	case "cpt":
		return CodeSystemCPT, nil
	case "hcpcs":
		return CodeSystemHCPCS, nil
	default:
		return CodeSystemAny, fmt.Errorf("%w: %q", ErrUnknownCodeSystem, name)
	}
}

// LicenseStatus marks whether a record's official text variant is freely
// distributable or requires a license.
type LicenseStatus int

const (
	// LicenseOpen means the restricted text variant may be shown to anyone.
	LicenseOpen LicenseStatus = 1
	// LicenseRestricted means the restricted text variant requires a license flag.
	LicenseRestricted LicenseStatus = 2
)

// MapType classifies a cross-system mapping edge.
type MapType int

const (
	// MapExact marks a semantically equivalent code in the target system.
	MapExact MapType = 1
	// MapRelated marks a broader or narrower related code.
	MapRelated MapType = 2
	// MapBilling marks a billing-oriented crosswalk.
	MapBilling MapType = 3
	// MapClinical marks a clinically-motivated association.
	MapClinical MapType = 4
)

// CodeRecord is one catalog entry per (code, code system, version year).
// Records are written by the ingestion collaborator and only ever read by the
// retrieval engine. The embedding Vector is populated asynchronously and may
// lag record creation; a nil Vector means "not yet embedded" and excludes the
// record from vector search while leaving it eligible for lexical search.
// RestrictedText is empty when no license for the official text is held.
type CodeRecord struct {
	Id              ID
	Code            string
	System          CodeSystem
	VersionYear     int
	ParaphrasedText string
	RestrictedText  string
	License         LicenseStatus
	Category        string
	Facets          map[string]string
	Vector          []float32
	IsActive        bool
	EffectiveDate   time.Time
	ExpiryDate      time.Time // Zero when the record has no scheduled expiry
	InsertedAt      time.Time // When the record was inserted into the database
	UpdatedAt       time.Time // When the record was last updated
}

// Ref returns the record's natural key string, "system:CODE:year".
func (r *CodeRecord) Ref() string {
	return RefKey(r.System, r.Code, r.VersionYear)
}

// HasVector reports whether the embedding collaborator has processed the record.
func (r *CodeRecord) HasVector() bool {
	return len(r.Vector) > 0
}

// MappingEdge is a read-only cross-system reference consumed to enrich
// search result payloads.
type MappingEdge struct {
	FromSystem CodeSystem
	FromCode   string
	ToSystem   CodeSystem
	ToCode     string
	Type       MapType
	Confidence float32 // In [0,1]
}

// SimilarityMatch is a code record matched by vector similarity search,
// with the raw cosine score in [-1,1].
type SimilarityMatch struct {
	Record *CodeRecord
	Cosine float32
}

// Checkpoint records ingestion-processor progress so that asynchronous
// embedding work can resume after a restart.
type Checkpoint struct {
	ProcessorType string
	LastID        ID
	UpdatedAt     time.Time
}
