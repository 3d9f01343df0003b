// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/canonical/explorer-service/internal/types"
)

// ListCompanyData returns every company_data row with its document decoded.
// The table holds three generations of documents, classification happens here
// so that nothing downstream ever touches the raw payload.
func (s *Storage) ListCompanyData(ctx context.Context) ([]*types.CompanyDataRecord, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListCompanyData")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select("id", "user_id", "payload", "created_at").
		From("company_data").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list company data: %w", err)
	}
	defer rows.Close()

	var records []*types.CompanyDataRecord
	for rows.Next() {
		var (
			record  types.CompanyDataRecord
			payload []byte
		)
		if err := rows.Scan(&record.ID, &record.UserID, &payload, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company data row: %w", err)
		}

		record.Shape, record.CompanyCount = decodeCompanyDoc(payload)

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

// companyDoc covers the three document layouts the table accumulated. A nil
// slice means the key was absent or null, an empty one that it was present.
type companyDoc struct {
	Companies   []json.RawMessage `json:"companies"`
	CompanyData []json.RawMessage `json:"company_data"`
	UserProfile *struct {
		BaseCompanies  []json.RawMessage `json:"baseCompanies"`
		AddedCompanies []json.RawMessage `json:"addedCompanies"`
	} `json:"user_profile"`
}

// decodeCompanyDoc classifies a stored document and derives its company
// count. Layouts are tried in a fixed order and the first present key wins,
// even when its list is empty. Documents matching no known layout count as
// zero.
func decodeCompanyDoc(payload []byte) (types.CompanyDocShape, int) {
	var doc companyDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return types.CompanyDocUnknown, 0
	}

	switch {
	case doc.Companies != nil:
		return types.CompanyDocCompanies, len(doc.Companies)
	case doc.CompanyData != nil:
		return types.CompanyDocCompanyData, len(doc.CompanyData)
	case doc.UserProfile != nil:
		return types.CompanyDocNestedProfile, len(doc.UserProfile.BaseCompanies) + len(doc.UserProfile.AddedCompanies)
	}

	return types.CompanyDocUnknown, 0
}
