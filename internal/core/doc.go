// Package core holds the order dashboard's domain logic: the order store,
// criteria state, the filter/sort/paginate engine, KPI aggregation, CSV
// import and export, the shareable-link codec and bulk actions.
//
// Nothing here knows about HTTP or a terminal. The web server and the
// orderctl CLI both go through [Service].
//
// # Data Flow
//
// The store holds the authoritative list. Everything the dashboard shows is
// derived from it on demand:
//
//  1. A [Criteria] value (from a session or a decoded link) selects orders
//  2. [Engine.Run] filters, sorts and slices out one page
//  3. [Aggregate] computes KPIs over the filtered list, not the page
//  4. [ExportCSV] writes the filtered list with the visible columns
//
// Every committed mutation goes through the store's commit hook, which
// [Service] points at a storage slot, and is then announced to subscribers.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages using [MapError].
// Each category has a code for support reference:
//
//   - ORD001: Order lookups
//   - BULK001-BULK002: Bulk confirmation and empty selections
//   - IMP001, FILE001-FILE003: Import admission and file errors
//   - STORE001: Persistence failures
//   - RATE001, REQ001: Rate limiting and cancelled requests
package core
