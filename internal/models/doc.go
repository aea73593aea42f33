// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package models defines the wire-level request/response structures the
search orchestration core exchanges with its clients and with the
external search engine and RAG pipeline collaborators.

Key Components:

  - SearchInitRequest / SearchInitResponse: fingerprint a query without
    executing a search.
  - SearchRequest / SearchAcceptedResponse: submit a search; the
    accepted response carries the result and timeline URLs.
  - SearchResultEnvelope: the polling result endpoint's job-state view.
  - ProductCandidate / ProductAnalysis / ProductSearchResult /
    SearchResponse: the search engine's and RAG pipeline's output
    shapes, merged into the final cached response.

The core treats ProductAnalysis and most of ProductSearchResult as
opaque payload produced by external collaborators; only count and
query are interpreted directly.
*/
package models
