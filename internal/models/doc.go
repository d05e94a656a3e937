// Package models defines the core domain models for hearth.
//
// # Money
//
// Every amount is an int64 number of cents. Nothing in the expense or
// settlement path uses floating point; rounding happens exactly once, when
// an EQUAL expense is split into shares, and the remainder rule is
// documented on calculator.ComputeShares.
//
// # Ownership
//
//   - Household, Membership and User belong to the household/identity
//     collaborators. The engine only reads them.
//   - Expense and its Shares belong to a household. Once an expense falls
//     inside a finalized settlement period it is immutable.
//   - Settlement owns a copy of the Balances and Transfers computed when it
//     was opened. Later expense edits never reach back into it.
//
// # Relationships
//
// Models reference each other by ID strings rather than pointers, so they
// can be copied freely between the store, the engine and the wire layer.
package models
