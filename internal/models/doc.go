// Package models defines the domain records held by the gymdesk store.
//
// # Records
//
//   - Member: a gym member and their membership window
//   - Invoice: a bill issued to a member, numbered MP0001, MP0002, ...
//   - FollowUp: a task (call, renewal, visitor lead) assigned to staff
//   - Activity: one entry of the append-only audit log
//   - CheckIn: a member's visit on a calendar day
//   - Protein: a supplement product with stock and sales counters
//   - Visitor: a walk-in guest
//   - Trainer: staff trainer (kept in memory, never persisted)
//   - PricingSettings: the single fee-tier record
//
// # Design Principles
//
// 1. **IDs, not pointers**: relations (Invoice.MemberID) are plain strings resolved by lookup
// 2. **One canonical name**: Member.EndDate and Invoice.Total are canonical; the legacy
// names expiryDate and amount exist only in the JSON adapters of this package
// 3. **Explicit patches**: every record has a Patch type whose nil fields mean "not supplied"
package models
