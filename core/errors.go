// Copyright 2025 Poiesic Systems
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
	// ErrInvalidFileKey indicates a filename stem is not of the form ticker_YEAR_Qn.
	ErrInvalidFileKey = errors.New("invalid file key")

	// ErrInvalidQAPair indicates a QAPair failed validation.
	ErrInvalidQAPair = errors.New("invalid qa pair")

	// ErrInvalidRecord indicates a MetadataRecord failed validation.
	ErrInvalidRecord = errors.New("invalid metadata record")

	// ErrEmptyTicker indicates the ticker is empty.
	ErrEmptyTicker = errors.New("ticker cannot be empty")

	// ErrYearOutOfRange indicates a year outside 1900-2100.
	ErrYearOutOfRange = errors.New("year out of range")

	// ErrQuarterOutOfRange indicates a quarter outside 1-4.
	ErrQuarterOutOfRange = errors.New("quarter out of range")

	// ErrEmptyQuestion indicates the question text is empty.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrEmptyAnswer indicates the answer text is empty.
	ErrEmptyAnswer = errors.New("answer cannot be empty")

	// ErrEmptyDate indicates the earnings date is empty.
	ErrEmptyDate = errors.New("date cannot be empty")

	// ErrEmptyInsight indicates the insight sentence is empty.
	ErrEmptyInsight = errors.New("insight cannot be empty")
)
