package badger

import (
	"fmt"

	"github.com/mmakkena/medcodeapi/core"
)

// Key prefixes for different data types
const (
	codeRecordPrefix = "codrec"
	codeIndexPrefix  = "codrecx"
	mappingPrefix    = "maprec"
)

// makeCodeRecordKey generates a key for a code record by ID.
func makeCodeRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", codeRecordPrefix, id))
}

// makeCodeIndexKey generates a composite key for the code index.
// Format: prefix:system:CODE,year. Codes are uppercased and years are
// zero-padded so lexicographic iteration yields (code, year) order. The
// code/year separator is a comma because it sorts below '.' and every
// code character, which keeps a bare code ahead of its dotted children
// (E11 before E11.0) during prefix iteration.
func makeCodeIndexKey(system core.CodeSystem, code string, versionYear int) []byte {
	return []byte(fmt.Sprintf("%s:%d:%s,%04d", codeIndexPrefix, int(system), core.NormalizeCode(code), versionYear))
}

// makePartialCodeIndexKey generates a prefix for scanning the code index of
// one system by code prefix.
func makePartialCodeIndexKey(system core.CodeSystem, codePrefix string) []byte {
	return []byte(fmt.Sprintf("%s:%d:%s", codeIndexPrefix, int(system), core.NormalizeCode(codePrefix)))
}

// makeRefIndexPrefix generates the index prefix covering every version year
// of one exact (system, code) ref.
func makeRefIndexPrefix(system core.CodeSystem, code string) []byte {
	return []byte(fmt.Sprintf("%s:%d:%s,", codeIndexPrefix, int(system), core.NormalizeCode(code)))
}

// makeMappingKey generates a composite key for a mapping edge.
// Format: prefix:fromSystem:FROMCODE:edgehash. The edge hash makes
// re-adding an identical edge idempotent.
func makeMappingKey(edge *core.MappingEdge) []byte {
	tuple := fmt.Sprintf("%d:%s:%d:%s:%d",
		int(edge.FromSystem), core.NormalizeCode(edge.FromCode),
		int(edge.ToSystem), core.NormalizeCode(edge.ToCode), int(edge.Type))
	return []byte(fmt.Sprintf("%s:%d:%s:%016x",
		mappingPrefix, int(edge.FromSystem), core.NormalizeCode(edge.FromCode), uint64(core.IDFromContent(tuple))))
}

// makePartialMappingKey generates the prefix covering every edge originating
// from one (system, code) ref.
func makePartialMappingKey(system core.CodeSystem, code string) []byte {
	return []byte(fmt.Sprintf("%s:%d:%s:", mappingPrefix, int(system), core.NormalizeCode(code)))
}

// makeCheckpointKey generates a key for processor checkpoints.
func makeCheckpointKey(processorType string) []byte {
	return []byte(fmt.Sprintf("%s:chkpt", processorType))
}
