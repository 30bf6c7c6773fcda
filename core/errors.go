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

import "errors"

// Domain validation errors
var (
	// ErrInvalidCodeRecord indicates a CodeRecord failed validation.
	ErrInvalidCodeRecord = errors.New("invalid code record")

	// ErrInvalidMapping indicates a MappingEdge failed validation.
	ErrInvalidMapping = errors.New("invalid mapping edge")

	// ErrEmptyCode indicates the Code field is empty.
	ErrEmptyCode = errors.New("code cannot be empty")

	// ErrEmptyText indicates the ParaphrasedText field is empty.
	ErrEmptyText = errors.New("paraphrased text cannot be empty")

	// ErrUnknownCodeSystem indicates an unrecognized CodeSystem value.
	ErrUnknownCodeSystem = errors.New("unknown code system")

	// ErrInvalidLicenseStatus indicates an invalid LicenseStatus value.
	ErrInvalidLicenseStatus = errors.New("invalid license status")

	// ErrInvalidMapType indicates an invalid MapType value.
	ErrInvalidMapType = errors.New("invalid map type")

	// ErrConfidenceOutOfRange indicates a mapping confidence outside [0,1].
	ErrConfidenceOutOfRange = errors.New("confidence must be in [0,1]")

	// ErrVectorDimension indicates an embedding with the wrong dimension.
	ErrVectorDimension = errors.New("embedding dimension mismatch")
)
