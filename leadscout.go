// Package leadscout collects candidate lead records from a professional-network
// people search. It drives a browser session the user has logged into by hand,
// harvests paginated search results, enriches each lead with contact details
// from its profile page, and normalizes the result.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package leadscout
