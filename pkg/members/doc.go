// Package members defines the records the club keeps about people:
// ledger members, contacts, applicants and their extra fees, together
// with the canonical "Last, First" name key every source is normalized to
// so the sources can be compared set against set.
package members
