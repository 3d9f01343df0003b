// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package kratos

import (
	"net/http"
	"testing"
)

func TestNextPageToken(t *testing.T) {
	testCases := []struct {
		name     string
		links    []string
		expected string
	}{
		{
			name:     "NoLinkHeader",
			links:    nil,
			expected: "",
		},
		{
			name: "NextLinkPresent",
			links: []string{
				`<http://kratos-admin/admin/identities?page_size=250&page_token=abc123>; rel="next"`,
			},
			expected: "abc123",
		},
		{
			name: "FirstAndNextLinks",
			links: []string{
				`<http://kratos-admin/admin/identities?page_size=250&page_token=first>; rel="first",<http://kratos-admin/admin/identities?page_size=250&page_token=next99>; rel="next"`,
			},
			expected: "next99",
		},
		{
			name: "LastPage",
			links: []string{
				`<http://kratos-admin/admin/identities?page_size=250&page_token=first>; rel="first"`,
			},
			expected: "",
		},
		{
			name: "MalformedLink",
			links: []string{
				`http://kratos-admin/admin/identities; rel="next"`,
			},
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			header := http.Header{}
			for _, l := range tc.links {
				header.Add("Link", l)
			}

			got := nextPageToken(&http.Response{Header: header})

			if got != tc.expected {
				t.Errorf("expected token %q, got %q", tc.expected, got)
			}
		})
	}

	t.Run("NilResponse", func(t *testing.T) {
		if got := nextPageToken(nil); got != "" {
			t.Errorf("expected empty token, got %q", got)
		}
	})
}
