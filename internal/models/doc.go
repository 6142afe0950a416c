// Package models defines the core domain records for the expense ledger.
//
// # Records
//
//   - Expense: an immutable statement of a cost and who shares it, with an
//     append-only list of Settlement sub-records
//   - Settlement: one partial payment by one participant toward one expense
//   - Balance: per-user running totals (gross exposure), materialized from
//     the expense log
//
// Users are identified by opaque string IDs supplied by the caller; the
// ledger does not maintain user accounts.
//
// # Design Principles
//
//  1. **Derived values stay derived**: per-entry shares, remaining amounts
//     and settled status are computed on read from the stored fields, never
//     cached on the record, so there is a single source of truth.
//  2. **Two balance truths**: Balance tracks gross obligation history;
//     what is actually still owed after settlements is computed on demand
//     by the ledger package. The two intentionally answer different
//     questions and are never merged.
//  3. **Avoid circular references**: records reference each other by ID
//     strings, never by pointer.
package models
