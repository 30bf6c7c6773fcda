package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/mmakkena/medcodeapi"
	"github.com/mmakkena/medcodeapi/core"
	"github.com/mmakkena/medcodeapi/ingestion"
)

var records = []*core.CodeRecord{
	{
		Code: "I10", System: core.CodeSystemICD10CM, VersionYear: 2025,
		ParaphrasedText: "High blood pressure without a known underlying cause",
		RestrictedText:  "Essential (primary) hypertension",
		License:         core.LicenseRestricted,
		Category:        "Diseases of the circulatory system",
		Facets:          map[string]string{"body_system": "Cardiovascular", "chronicity": "Chronic"},
		IsActive:        true,
	},
	{
		Code: "I11.0", System: core.CodeSystemICD10CM, VersionYear: 2025,
		ParaphrasedText: "High blood pressure with heart failure",
		RestrictedText:  "Hypertensive heart disease with heart failure",
		License:         core.LicenseRestricted,
		Category:        "Diseases of the circulatory system",
		Facets:          map[string]string{"body_system": "Cardiovascular", "chronicity": "Chronic"},
		IsActive:        true,
	},
	{
		Code: "E11.9", System: core.CodeSystemICD10CM, VersionYear: 2025,
		ParaphrasedText: "Type 2 diabetes without complications",
		RestrictedText:  "Type 2 diabetes mellitus without complications",
		License:         core.LicenseRestricted,
		Category:        "Endocrine, nutritional and metabolic diseases",
		Facets:          map[string]string{"body_system": "Endocrine", "chronicity": "Chronic"},
		IsActive:        true,
	},
	{
		Code: "E11.21", System: core.CodeSystemICD10CM, VersionYear: 2025,
		ParaphrasedText: "Type 2 diabetes with diabetic kidney disease",
		RestrictedText:  "Type 2 diabetes mellitus with diabetic nephropathy",
		License:         core.LicenseRestricted,
		Category:        "Endocrine, nutritional and metabolic diseases",
		Facets:          map[string]string{"body_system": "Endocrine", "chronicity": "Chronic"},
		IsActive:        true,
	},
	{
		Code: "R07.9", System: core.CodeSystemICD10CM, VersionYear: 2025,
		ParaphrasedText: "Chest pain, cause not specified",
		RestrictedText:  "Chest pain, unspecified",
		License:         core.LicenseRestricted,
		Category:        "Symptoms, signs and abnormal findings",
		Facets:          map[string]string{"body_system": "Cardiovascular", "acuity": "Acute"},
		IsActive:        true,
	},
	{
		Code: "J45.909", System: core.CodeSystemICD10CM, VersionYear: 2025,
		ParaphrasedText: "Asthma without a current flare-up, severity not specified",
		RestrictedText:  "Unspecified asthma, uncomplicated",
		License:         core.LicenseRestricted,
		Category:        "Diseases of the respiratory system",
		Facets:          map[string]string{"body_system": "Respiratory", "chronicity": "Chronic"},
		IsActive:        true,
	},
	{
		Code: "027034Z", System: core.CodeSystemICD10PCS, VersionYear: 2025,
		ParaphrasedText: "Widening of a heart artery with a drug-coated stent, percutaneous",
		RestrictedText:  "Dilation of coronary artery, one artery, with drug-eluting intraluminal device, percutaneous approach",
		License:         core.LicenseRestricted,
		Category:        "Medical and surgical procedures",
		Facets:          map[string]string{"body_system": "Cardiovascular", "setting": "Inpatient"},
		IsActive:        true,
	},
	{
		Code: "99213", System: core.CodeSystemCPT, VersionYear: 2025,
		ParaphrasedText: "Established patient office visit, low complexity",
		RestrictedText:  "Office or other outpatient visit for the evaluation and management of an established patient, low level of medical decision making",
		License:         core.LicenseRestricted,
		Category:        "Evaluation and management",
		Facets:          map[string]string{"setting": "Outpatient"},
		IsActive:        true,
	},
	{
		Code: "99214", System: core.CodeSystemCPT, VersionYear: 2025,
		ParaphrasedText: "Established patient office visit, moderate complexity",
		RestrictedText:  "Office or other outpatient visit for the evaluation and management of an established patient, moderate level of medical decision making",
		License:         core.LicenseRestricted,
		Category:        "Evaluation and management",
		Facets:          map[string]string{"setting": "Outpatient"},
		IsActive:        true,
	},
	{
		Code: "G0463", System: core.CodeSystemHCPCS, VersionYear: 2025,
		ParaphrasedText: "Hospital outpatient clinic visit",
		License:         core.LicenseOpen,
		Category:        "Outpatient services",
		Facets:          map[string]string{"setting": "Outpatient"},
		IsActive:        true,
	},
	{
		Code: "J3490", System: core.CodeSystemHCPCS, VersionYear: 2025,
		ParaphrasedText: "Drug given by injection, not otherwise classified",
		License:         core.LicenseOpen,
		Category:        "Drugs administered other than oral method",
		Facets:          map[string]string{"setting": "Outpatient"},
		IsActive:        true,
	},
}

var mappings = []*core.MappingEdge{
	{
		FromSystem: core.CodeSystemICD10CM, FromCode: "E11.9",
		ToSystem: core.CodeSystemCPT, ToCode: "99213",
		Type: core.MapBilling, Confidence: 0.82,
	},
	{
		FromSystem: core.CodeSystemICD10CM, FromCode: "E11.21",
		ToSystem: core.CodeSystemCPT, ToCode: "99214",
		Type: core.MapBilling, Confidence: 0.78,
	},
	{
		FromSystem: core.CodeSystemICD10CM, FromCode: "I10",
		ToSystem: core.CodeSystemICD10CM, ToCode: "I11.0",
		Type: core.MapRelated, Confidence: 0.7,
	},
	{
		FromSystem: core.CodeSystemCPT, FromCode: "99213",
		ToSystem: core.CodeSystemHCPCS, ToCode: "G0463",
		Type: core.MapBilling, Confidence: 0.65,
	},
}

var dbPath = flag.String("db", "./catalog_db", "BadgerDB database directory")

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// ingestBatched feeds records into the pipeline in small batches.
func ingestBatched(ctx context.Context, pipeline *ingestion.Pipeline, records []*core.CodeRecord, batchSize int) error {
	for len(records) > 0 {
		n := min(batchSize, len(records))
		if err := pipeline.IngestCodes(ctx, records[:n]...); err != nil {
			return err
		}
		records = records[n:]
	}
	return nil
}

func main() {
	db, err := medcodeapi.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	ctx := context.Background()

	if err := ingestBatched(ctx, pipeline, records, 5); err != nil {
		panic(err)
	}
	if err := pipeline.IngestMappings(ctx, mappings...); err != nil {
		panic(err)
	}

	slog.Info("seeded catalog", "records", len(records), "mappings", len(mappings))
}
