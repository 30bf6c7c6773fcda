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


package storage

import (
	"github.com/mmakkena/medcodeapi/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	var id core.ID
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalCodeRecord serializes a CodeRecord to bytes.
func MarshalCodeRecord(record *core.CodeRecord) []byte {
	buf := make([]byte, core.CodeRecordMUS.Size(*record))
	core.CodeRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalCodeRecord deserializes a CodeRecord from bytes.
func UnmarshalCodeRecord(data []byte) (*core.CodeRecord, error) {
	record, _, err := core.CodeRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalMappingEdge serializes a MappingEdge to bytes.
func MarshalMappingEdge(edge *core.MappingEdge) []byte {
	buf := make([]byte, core.MappingEdgeMUS.Size(*edge))
	core.MappingEdgeMUS.Marshal(*edge, buf)
	return buf
}

// UnmarshalMappingEdge deserializes a MappingEdge from bytes.
func UnmarshalMappingEdge(data []byte) (*core.MappingEdge, error) {
	edge, _, err := core.MappingEdgeMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// MarshalCheckpoint serializes a Checkpoint to bytes.
func MarshalCheckpoint(checkpoint *core.Checkpoint) []byte {
	buf := make([]byte, core.CheckpointMUS.Size(*checkpoint))
	core.CheckpointMUS.Marshal(*checkpoint, buf)
	return buf
}

// UnmarshalCheckpoint deserializes a Checkpoint from bytes.
func UnmarshalCheckpoint(data []byte) (*core.Checkpoint, error) {
	checkpoint, _, err := core.CheckpointMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &checkpoint, nil
}
