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

import (
	"fmt"
	"strings"
)

// ValidateFileKey validates a FileKey.
//
// Validation rules:
//   - Ticker must not be empty
//   - Year must be within 1900-2100
//   - Quarter must be within 1-4
func ValidateFileKey(key FileKey) error {
	if strings.TrimSpace(key.Ticker) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidFileKey, ErrEmptyTicker)
	}
	if key.Year < 1900 || key.Year > 2100 {
		return fmt.Errorf("%w: %w: %d", ErrInvalidFileKey, ErrYearOutOfRange, key.Year)
	}
	if key.Quarter < 1 || key.Quarter > 4 {
		return fmt.Errorf("%w: %w: %d", ErrInvalidFileKey, ErrQuarterOutOfRange, key.Quarter)
	}
	return nil
}

// ValidateQAPair checks that both sides of the exchange are present.
// Speakers are not validated; the extractor repairs a missing answer speaker.
func ValidateQAPair(pair QAPair) error {
	if strings.TrimSpace(pair.Question) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQAPair, ErrEmptyQuestion)
	}
	if strings.TrimSpace(pair.Answer) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQAPair, ErrEmptyAnswer)
	}
	return nil
}

// ValidateMetadataRecord validates a MetadataRecord before it is persisted.
//
// Validation rules:
//   - Ticker must not be empty
//   - Date must not be empty
//   - Insight must not be empty
//
// NOT validated:
//   - ReasoningSteps (the model may return none)
//   - Company descriptive fields (copied verbatim from the reference table)
func ValidateMetadataRecord(record *MetadataRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}
	if strings.TrimSpace(record.Ticker) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyTicker)
	}
	if strings.TrimSpace(record.Date) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyDate)
	}
	if strings.TrimSpace(record.Insight) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyInsight)
	}
	return nil
}
