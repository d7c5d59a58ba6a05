// Package feedback provides the business boundary for the feedback triage
// system. It defines the domain model (Item, Analysis, Digest), the Store
// interface (persistence), the Triager (LLM invocation plus response
// normalization), the Service (ingest/retriage lifecycle), the Aggregator
// (dataset digest), and the Assistant (digest-grounded Q&A).
package feedback
