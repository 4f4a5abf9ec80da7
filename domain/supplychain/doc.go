// Package supplychain keeps the registry of products and enforces the custody
// rules of the supply chain: a product starts at its manufacturer and moves one
// stage at a time towards the customer, never backwards.
//
// Every accepted registration and transition is recorded in a ledger through
// the Recorder interface before the registry state changes, so the registry
// never holds a product or a transition the ledger does not know about.
package supplychain
